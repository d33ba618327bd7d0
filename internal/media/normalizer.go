// Package media turns raw uploads into storage-ready blobs: images are
// downscaled and recompressed, videos transcoded to 720p through
// ffmpeg. Every failure leaves the caller free to store the original
// bytes instead.
package media

import (
	"errors"

	"go.uber.org/zap"

	"urbaniq/backend/internal/config"
)

// ErrToolUnavailable signals that the external transcoder is not
// installed on this host. Callers must fall back to raw storage.
var ErrToolUnavailable = errors.New("media: transcode tool unavailable")

// Asset is a normalized blob ready for the attachment store.
type Asset struct {
	Name        string
	ContentType string
	Data        []byte
}

// Normalizer applies the configured presets. It is stateless and safe
// for concurrent use.
type Normalizer struct {
	cfg config.MediaConfig
	log *zap.Logger
}

func NewNormalizer(cfg config.MediaConfig, log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{cfg: cfg, log: log}
}
