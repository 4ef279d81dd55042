package imagepdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// FPDFBuilder is a DocumentBuilder backed by gofpdf, measuring in points on A4.
type FPDFBuilder struct {
	pdf *gofpdf.Fpdf
}

// NewFPDFBuilder returns an unstarted builder. It satisfies the factory
// signature expected by NewAssembler.
func NewFPDFBuilder() DocumentBuilder {
	return &FPDFBuilder{}
}

func (b *FPDFBuilder) Start(o Orientation) (float64, float64, error) {
	orientation := "P"
	if o == Landscape {
		orientation = "L"
	}
	b.pdf = gofpdf.New(orientation, "pt", "A4", "")
	b.pdf.SetMargins(0, 0, 0)
	b.pdf.SetAutoPageBreak(false, 0)
	b.pdf.AddPage()
	if err := b.pdf.Error(); err != nil {
		return 0, 0, err
	}

	w, h := b.pdf.GetPageSize()
	return w, h, nil
}

func (b *FPDFBuilder) AddPage() error {
	if b.pdf == nil {
		return errors.New("document not started")
	}
	b.pdf.AddPage()
	return b.pdf.Error()
}

// DrawImage registers the image and places it at layout. gofpdf reads only
// 8-bit, non-interlaced PNG, so decoded pixels are always re-encoded as 8-bit
// NRGBA PNG. That also covers WEBP, which gofpdf cannot read at all.
func (b *FPDFBuilder) DrawImage(name string, img Decoded, layout PageLayout) error {
	if b.pdf == nil {
		return errors.New("document not started")
	}

	data := img.Data
	switch {
	case img.Pixels != nil:
		encoded, err := encodeNRGBA(img.Pixels)
		if err != nil {
			return fmt.Errorf("failed to re-encode %s: %w", name, err)
		}
		data = encoded
	case img.Format == FormatWEBP:
		return fmt.Errorf("no pixels to transcode for %s", name)
	}

	opts := gofpdf.ImageOptions{ImageType: string(FormatPNG)}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	b.pdf.ImageOptions(name, layout.X, layout.Y, layout.Width, layout.Height, false, opts, 0, "")
	return b.pdf.Error()
}

// encodeNRGBA flattens any color model and bit depth to 8-bit NRGBA PNG.
func encodeNRGBA(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *FPDFBuilder) Bytes() ([]byte, error) {
	if b.pdf == nil {
		return nil, errors.New("document not started")
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PageCount reports the pages added so far.
func (b *FPDFBuilder) PageCount() int {
	if b.pdf == nil {
		return 0
	}
	return b.pdf.PageCount()
}
