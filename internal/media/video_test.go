package media_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/media"
)

// TestNormalizeVideo_ToolUnavailable verifies the unavailable signal
// when the transcoder binary cannot be found. The caller falls back to
// storing the original bytes.
func TestNormalizeVideo_ToolUnavailable(t *testing.T) {
	cfg := config.DefaultMediaConfig()
	cfg.FFmpegBinary = "ffmpeg-binary-that-does-not-exist"
	n := media.NewNormalizer(cfg, nil)

	asset, err := n.NormalizeVideo(context.Background(), "clip.mov", []byte("fake video bytes"))

	assert.ErrorIs(t, err, media.ErrToolUnavailable)
	assert.Nil(t, asset)
}
