package infra

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

// ImageResizer shrinks base64 data URLs before they are stored.
type ImageResizer struct {
	maxSize int
	quality int
}

func NewImageResizer(maxSize, quality int) *ImageResizer {
	if maxSize <= 0 {
		maxSize = 400
	}
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &ImageResizer{maxSize: maxSize, quality: quality}
}

// ResizeDataURL returns a JPEG data URL fitting in maxSize x maxSize.
// Anything that is not a data:image URL (plain links, empty) is returned as is.
func (r *ImageResizer) ResizeDataURL(s string) (string, error) {
	if !strings.HasPrefix(s, "data:image/") {
		return s, nil
	}
	comma := strings.IndexByte(s, ',')
	if comma < 0 || !strings.Contains(s[:comma], ";base64") {
		return "", fmt.Errorf("imagen: data URL sin base64")
	}
	raw, err := base64.StdEncoding.DecodeString(s[comma+1:])
	if err != nil {
		return "", fmt.Errorf("imagen: base64 invalido: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("imagen: formato no soportado: %w", err)
	}
	if b := img.Bounds(); b.Dx() > r.maxSize || b.Dy() > r.maxSize {
		img = imaging.Fit(img, r.maxSize, r.maxSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
