package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// NormalizeVideo transcodes the upload to 720p H.264/AAC through the
// external tool. Both scratch files are removed on every exit path;
// cleanup failures are logged and never mask the primary result. The
// subprocess is bounded by ctx; a timeout counts as a transcode
// failure, same as a non-zero exit.
func (n *Normalizer) NormalizeVideo(ctx context.Context, filename string, data []byte) (*Asset, error) {
	if _, err := exec.LookPath(n.cfg.FFmpegBinary); err != nil {
		return nil, ErrToolUnavailable
	}

	in, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("scratch input: %w", err)
	}
	inPath := in.Name()
	outPath := inPath + "_out.mp4"
	defer n.removeScratch(inPath)
	defer n.removeScratch(outPath)

	if _, err := in.Write(data); err != nil {
		in.Close()
		return nil, fmt.Errorf("write scratch input: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("close scratch input: %w", err)
	}

	if n.cfg.TranscodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.cfg.TranscodeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, n.cfg.FFmpegBinary,
		"-y", "-i", inPath,
		"-vf", n.cfg.VideoScale,
		"-c:v", n.cfg.VideoCodec, "-preset", n.cfg.VideoPreset, "-crf", n.cfg.VideoCRF,
		"-c:a", n.cfg.AudioCodec, "-b:a", n.cfg.AudioBitrate,
		outPath,
	)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transcode timed out: %w", ctx.Err())
		}
		return nil, fmt.Errorf("transcode failed: %w: %s", err, lastLine(stderr.String()))
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read transcoded output: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return &Asset{Name: base + "_compressed.mp4", ContentType: "video/mp4", Data: out}, nil
}

func (n *Normalizer) removeScratch(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		n.log.Warn("scratch file cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
