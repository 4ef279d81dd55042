package imagepdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ImageDecoder decodes PNG and WEBP sources in-process.
type ImageDecoder struct{}

// NewImageDecoder returns the default decoder.
func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

// Decode fully decodes the image so unreadable files fail here rather than
// inside the document builder.
func (d *ImageDecoder) Decode(ctx context.Context, img SourceImage) (Decoded, error) {
	if err := ctx.Err(); err != nil {
		return Decoded{}, err
	}

	pixels, format, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return Decoded{}, fmt.Errorf("%w %s: %w", ErrDecode, img.Name, err)
	}

	bounds := pixels.Bounds()
	return Decoded{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: formatFromDecoder(format, img.MIMEType),
		Data:   img.Data,
		Pixels: pixels,
	}, nil
}

// formatFromDecoder prefers the declared MIME type and falls back to what the
// bytes actually contained when the declaration is missing.
func formatFromDecoder(name, mimeType string) Format {
	if mimeType != "" {
		return FormatFor(mimeType)
	}
	if name == "webp" {
		return FormatWEBP
	}
	return FormatPNG
}
