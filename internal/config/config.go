// Package config loads service configuration from the environment and
// exposes the fixed presets used by media processing and notifications.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the top-level service configuration. It is built once at
// startup and passed into the services that need it; nothing here is
// mutated after Load returns.
type Config struct {
	HTTPAddr  string
	JWTSecret string

	DB     DBConfig
	Redis  RedisConfig
	Media  MediaConfig
	Notify NotifyConfig
	Blob   BlobConfig
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// DSN builds the postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MediaConfig holds the image and video normalization presets.
type MediaConfig struct {
	ImageMaxWidth    int
	ImageJPEGQuality int

	FFmpegBinary     string
	VideoScale       string
	VideoCodec       string
	VideoPreset      string
	VideoCRF         string
	AudioCodec       string
	AudioBitrate     string
	TranscodeTimeout time.Duration
}

// NotifyConfig holds the notification gate settings. The domain lists
// are fixed policy, not user input.
type NotifyConfig struct {
	FromEmail      string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	AllowedDomains []string
	BlockedDomains []string

	TelegramToken  string
	TelegramChatID int64
}

// SMTPConfigured reports whether an outbound mail transport is set up.
func (c NotifyConfig) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort > 0
}

// BlobConfig selects the attachment store. When S3 is not enabled the
// local directory store is used.
type BlobConfig struct {
	LocalDir string

	S3Enabled   bool
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	// Missing .env is fine in containerized deployments.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "urbaniq"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Media:  DefaultMediaConfig(),
		Notify: DefaultNotifyConfig(),
		Blob: BlobConfig{
			LocalDir:    getEnv("STORAGE_DIR", "uploads"),
			S3Enabled:   getEnv("S3_ENABLED", "") == "true",
			S3Bucket:    getEnv("S3_BUCKET", ""),
			S3Endpoint:  getEnv("S3_ENDPOINT", ""),
			S3Region:    getEnv("S3_REGION", "us-east-1"),
			S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		},
	}

	cfg.Media.ImageMaxWidth = getEnvInt("IMAGE_MAX_WIDTH", cfg.Media.ImageMaxWidth)
	cfg.Media.ImageJPEGQuality = getEnvInt("IMAGE_JPEG_QUALITY", cfg.Media.ImageJPEGQuality)

	cfg.Notify.FromEmail = getEnv("FROM_EMAIL", cfg.Notify.FromEmail)
	cfg.Notify.SMTPHost = getEnv("SMTP_HOST", "")
	cfg.Notify.SMTPPort = getEnvInt("SMTP_PORT", 0)
	cfg.Notify.SMTPUser = getEnv("SMTP_USER", "")
	cfg.Notify.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.Notify.TelegramToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	if v, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Notify.TelegramChatID = v
	}

	return cfg
}

// DefaultMediaConfig returns the deployed normalization presets.
func DefaultMediaConfig() MediaConfig {
	return MediaConfig{
		ImageMaxWidth:    1280,
		ImageJPEGQuality: 70,
		FFmpegBinary:     "ffmpeg",
		VideoScale:       "scale=-2:720",
		VideoCodec:       "libx264",
		VideoPreset:      "veryfast",
		VideoCRF:         "28",
		AudioCodec:       "aac",
		AudioBitrate:     "128k",
		TranscodeTimeout: 2 * time.Minute,
	}
}

// DefaultNotifyConfig returns the deployed mail policy: two trusted
// consumer providers, placeholder domains rejected outright.
func DefaultNotifyConfig() NotifyConfig {
	return NotifyConfig{
		FromEmail:      "no-reply@example.com",
		AllowedDomains: []string{"gmail.com", "yahoo.com"},
		BlockedDomains: []string{"example.com", "example.org", "example.net", "test.com", "localhost"},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
