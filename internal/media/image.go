package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	_ "image/gif" // decode support for gif uploads

	"golang.org/x/image/draw"
)

// NormalizeImage decodes, downscales to the configured max width
// (aspect ratio preserved, CatmullRom resampling) and re-encodes the
// upload. JPEG sources stay JPEG at the configured quality; everything
// else becomes PNG. A decode or encode error propagates so the caller
// can store the original bytes.
func (n *Normalizer) NormalizeImage(filename string, data []byte) (*Asset, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if w := img.Bounds().Dx(); w > n.cfg.ImageMaxWidth {
		img = scaleToWidth(img, n.cfg.ImageMaxWidth)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: n.cfg.ImageJPEGQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return &Asset{Name: base + "_compressed.jpg", ContentType: "image/jpeg", Data: buf.Bytes()}, nil
	default:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return &Asset{Name: base + "_compressed.png", ContentType: "image/png", Data: buf.Bytes()}, nil
	}
}

func scaleToWidth(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	height := int(float64(bounds.Dy()) * ratio)
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
