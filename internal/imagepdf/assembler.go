// Package imagepdf assembles an ordered list of raster images into a
// paginated PDF, one image per page, each centered and scaled to fit inside
// a fixed margin.
package imagepdf

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Filename is the name the assembled document is delivered under.
const Filename = "converted-images.pdf"

// Format is the drawing hint handed to the document builder.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatWEBP Format = "WEBP"
)

// FormatFor maps a declared MIME type to a drawing hint.
func FormatFor(mimeType string) Format {
	if mimeType == "image/webp" {
		return FormatWEBP
	}
	return FormatPNG
}

// SourceImage is one user-provided raster file. It is never mutated after intake.
type SourceImage struct {
	ID       string
	Name     string
	MIMEType string
	Data     []byte
}

// Decoded is a SourceImage after decode: natural dimensions plus what gets drawn.
type Decoded struct {
	Width  int
	Height int
	Format Format
	Data   []byte
	Pixels image.Image
}

// Decoder turns a SourceImage into its natural dimensions and pixel source.
type Decoder interface {
	Decode(ctx context.Context, img SourceImage) (Decoded, error)
}

// DocumentBuilder is the paginated document capability the assembler draws into.
// Start opens the document with its first page already present.
type DocumentBuilder interface {
	Start(o Orientation) (pageWidth, pageHeight float64, err error)
	AddPage() error
	DrawImage(name string, img Decoded, layout PageLayout) error
	Bytes() ([]byte, error)
}

// Document is the artifact produced by one successful run.
type Document struct {
	Filename    string
	Orientation Orientation
	Data        []byte
	Pages       []PageLayout
}

// Assembler sequences decode, layout and draw for each image in order.
type Assembler struct {
	decoder    Decoder
	newBuilder func() DocumentBuilder
	margin     float64
}

// NewAssembler returns an assembler drawing with builders from newBuilder.
func NewAssembler(decoder Decoder, newBuilder func() DocumentBuilder, margin float64) *Assembler {
	return &Assembler{
		decoder:    decoder,
		newBuilder: newBuilder,
		margin:     margin,
	}
}

// Assemble draws images into one document in input order.
// An empty list is a no-op and returns a nil document with no error.
// Any failure aborts the whole run and no partial document is returned.
func (a *Assembler) Assemble(ctx context.Context, images []SourceImage, o Orientation) (*Document, error) {
	if len(images) == 0 {
		return nil, nil
	}

	start := time.Now()
	builder := a.newBuilder()
	pageW, pageH, err := builder.Start(o)
	if err != nil {
		return nil, fmt.Errorf("%w: start document: %w", ErrAssembly, err)
	}

	doc := &Document{
		Filename:    Filename,
		Orientation: o,
		Pages:       make([]PageLayout, 0, len(images)),
	}

	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
		}
		if i > 0 {
			if err := builder.AddPage(); err != nil {
				return nil, fmt.Errorf("%w: add page %d: %w", ErrAssembly, i+1, err)
			}
		}

		decoded, err := a.decoder.Decode(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d (%s): %w", ErrAssembly, i+1, img.Name, err)
		}

		layout, err := Fit(pageW, pageH, a.margin, decoded.Width, decoded.Height)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d (%s): %w", ErrAssembly, i+1, img.Name, err)
		}

		if err := builder.DrawImage(fmt.Sprintf("page-%d-%s", i+1, img.ID), decoded, layout); err != nil {
			return nil, fmt.Errorf("%w: draw page %d (%s): %w", ErrAssembly, i+1, img.Name, err)
		}

		slog.Debug("Page drawn",
			"page", i+1,
			"image", img.Name,
			"natural", fmt.Sprintf("%dx%d", decoded.Width, decoded.Height),
			"constraint", layout.Constraint)
		doc.Pages = append(doc.Pages, layout)
	}

	data, err := builder.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize: %w", ErrAssembly, err)
	}
	doc.Data = data

	slog.Info("PDF assembled", "pages", len(doc.Pages), "orientation", o.String(), "bytes", len(data), "duration", time.Since(start))
	return doc, nil
}
