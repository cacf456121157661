// Package qrcode draws PIX copy-and-paste payloads as PNG images.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

const defaultSize = 256

// Renderer encodes payloads with medium error correction.
type Renderer struct {
	size  int
	level qr.RecoveryLevel
}

func NewRenderer() *Renderer {
	return &Renderer{size: defaultSize, level: qr.Medium}
}

// WithSize returns a copy drawing images of size x size pixels.
func (r *Renderer) WithSize(size int) *Renderer {
	c := *r
	if size > 0 {
		c.size = size
	}
	return &c
}

// RenderBase64PNG returns the PNG image of payload, base64 encoded without a
// data URI prefix.
func (r *Renderer) RenderBase64PNG(payload string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", fmt.Errorf("qr payload is empty")
	}
	png, err := qr.Encode(payload, r.level, r.size)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
