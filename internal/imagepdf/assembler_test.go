package imagepdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDecoder reports dimensions from a table keyed by image ID.
type fakeDecoder struct {
	sizes   map[string][2]int
	fail    map[string]error
	decoded []string
}

func (d *fakeDecoder) Decode(ctx context.Context, img SourceImage) (Decoded, error) {
	d.decoded = append(d.decoded, img.ID)
	if err, ok := d.fail[img.ID]; ok {
		return Decoded{}, err
	}
	s := d.sizes[img.ID]
	return Decoded{Width: s[0], Height: s[1], Format: FormatFor(img.MIMEType), Data: img.Data}, nil
}

type drawCall struct {
	name   string
	format Format
	layout PageLayout
}

// recordingBuilder logs the call sequence so page lifecycle can be asserted.
type recordingBuilder struct {
	events []string
	draws  []drawCall
	pages  int
}

func (b *recordingBuilder) Start(o Orientation) (float64, float64, error) {
	b.events = append(b.events, "start:"+o.String())
	b.pages = 1
	w, h := PageSize(o)
	return w, h, nil
}

func (b *recordingBuilder) AddPage() error {
	b.events = append(b.events, "add")
	b.pages++
	return nil
}

func (b *recordingBuilder) DrawImage(name string, img Decoded, layout PageLayout) error {
	b.events = append(b.events, "draw")
	b.draws = append(b.draws, drawCall{name: name, format: img.Format, layout: layout})
	return nil
}

func (b *recordingBuilder) Bytes() ([]byte, error) {
	b.events = append(b.events, "bytes")
	return []byte("%PDF-fake"), nil
}

func newTestAssembler(dec Decoder, builder *recordingBuilder) *Assembler {
	return NewAssembler(dec, func() DocumentBuilder { return builder }, DefaultMargin)
}

func TestAssembleEmptyIsNoop(t *testing.T) {
	builder := &recordingBuilder{}
	a := newTestAssembler(&fakeDecoder{}, builder)

	doc, err := a.Assemble(context.Background(), nil, Portrait)
	require.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, builder.events)
}

func TestAssemblePageOrderAndLifecycle(t *testing.T) {
	images := []SourceImage{
		{ID: "a", Name: "a.png", MIMEType: "image/png"},
		{ID: "b", Name: "b.webp", MIMEType: "image/webp"},
		{ID: "c", Name: "c.png", MIMEType: "image/png"},
	}
	dec := &fakeDecoder{sizes: map[string][2]int{"a": {800, 600}, "b": {600, 800}, "c": {1000, 1000}}}
	builder := &recordingBuilder{}

	doc, err := newTestAssembler(dec, builder).Assemble(context.Background(), images, Portrait)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, Filename, doc.Filename)
	assert.Equal(t, []byte("%PDF-fake"), doc.Data)
	assert.Len(t, doc.Pages, 3)
	assert.Equal(t, 3, builder.pages)
	assert.Equal(t, []string{"a", "b", "c"}, dec.decoded)
	assert.Equal(t, []string{"start:portrait", "draw", "add", "draw", "add", "draw", "bytes"}, builder.events)

	require.Len(t, builder.draws, 3)
	assert.Equal(t, FormatPNG, builder.draws[0].format)
	assert.Equal(t, FormatWEBP, builder.draws[1].format)
	assert.Equal(t, FormatPNG, builder.draws[2].format)
	assert.Contains(t, builder.draws[1].name, "b")

	for i, p := range doc.Pages {
		assert.Equal(t, builder.draws[i].layout, p)
	}
}

func TestAssembleSingleImageSkipsAddPage(t *testing.T) {
	dec := &fakeDecoder{sizes: map[string][2]int{"only": {10, 20}}}
	builder := &recordingBuilder{}

	doc, err := newTestAssembler(dec, builder).Assemble(context.Background(), []SourceImage{{ID: "only"}}, Landscape)
	require.NoError(t, err)
	assert.Len(t, doc.Pages, 1)
	assert.NotContains(t, builder.events, "add")
	assert.Equal(t, "start:landscape", builder.events[0])
}

func TestAssembleDecodeFailureAbortsRun(t *testing.T) {
	boom := errors.New("corrupt data")
	dec := &fakeDecoder{
		sizes: map[string][2]int{"a": {100, 100}, "c": {100, 100}},
		fail:  map[string]error{"b": boom},
	}
	builder := &recordingBuilder{}
	images := []SourceImage{{ID: "a"}, {ID: "b", Name: "b.png"}, {ID: "c"}}

	doc, err := newTestAssembler(dec, builder).Assemble(context.Background(), images, Portrait)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrAssembly)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "page 2")
	assert.Equal(t, []string{"a", "b"}, dec.decoded)
	assert.NotContains(t, builder.events, "bytes")
}

func TestAssembleZeroDimensionFails(t *testing.T) {
	dec := &fakeDecoder{sizes: map[string][2]int{"a": {0, 10}}}
	_, err := newTestAssembler(dec, &recordingBuilder{}).Assemble(context.Background(), []SourceImage{{ID: "a"}}, Portrait)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestAssembleHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dec := &fakeDecoder{sizes: map[string][2]int{"a": {10, 10}}}
	_, err := newTestAssembler(dec, &recordingBuilder{}).Assemble(ctx, []SourceImage{{ID: "a"}}, Portrait)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, dec.decoded)
}

func TestAssembleDoesNotMutateInput(t *testing.T) {
	images := []SourceImage{{ID: "a", Name: "a.png", MIMEType: "image/png", Data: []byte{1, 2, 3}}}
	before := append([]SourceImage(nil), images...)

	dec := &fakeDecoder{sizes: map[string][2]int{"a": {10, 10}}}
	_, err := newTestAssembler(dec, &recordingBuilder{}).Assemble(context.Background(), images, Portrait)
	require.NoError(t, err)
	assert.Equal(t, before, images)
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageDecoder(t *testing.T) {
	dec := NewImageDecoder()

	got, err := dec.Decode(context.Background(), SourceImage{Name: "x.png", MIMEType: "image/png", Data: encodePNG(t, 40, 30)})
	require.NoError(t, err)
	assert.Equal(t, 40, got.Width)
	assert.Equal(t, 30, got.Height)
	assert.Equal(t, FormatPNG, got.Format)
	assert.NotNil(t, got.Pixels)

	_, err = dec.Decode(context.Background(), SourceImage{Name: "bad.png", MIMEType: "image/png", Data: []byte("not an image")})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestAssembleWithGofpdf(t *testing.T) {
	images := []SourceImage{
		{ID: "1", Name: "wide.png", MIMEType: "image/png", Data: encodePNG(t, 80, 60)},
		{ID: "2", Name: "tall.png", MIMEType: "image/png", Data: encodePNG(t, 30, 90)},
	}

	var builder *FPDFBuilder
	a := NewAssembler(NewImageDecoder(), func() DocumentBuilder {
		builder = NewFPDFBuilder().(*FPDFBuilder)
		return builder
	}, DefaultMargin)

	doc, err := a.Assemble(context.Background(), images, Portrait)
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Equal(t, 2, builder.PageCount())
	assert.Equal(t, ConstrainedByWidth, doc.Pages[0].Constraint)
	assert.Equal(t, ConstrainedByHeight, doc.Pages[1].Constraint)
}

func TestFPDFBuilderTranscodesWebpPixels(t *testing.T) {
	b := NewFPDFBuilder()
	w, h, err := b.Start(Landscape)
	require.NoError(t, err)
	assert.Greater(t, w, h)

	pixels := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	layout, err := Fit(w, h, DefaultMargin, 8, 8)
	require.NoError(t, err)

	require.NoError(t, b.DrawImage("webp-1", Decoded{Width: 8, Height: 8, Format: FormatWEBP, Pixels: pixels}, layout))
	data, err := b.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	err = NewFPDFBuilder().DrawImage("webp-2", Decoded{Format: FormatWEBP}, layout)
	assert.Error(t, err)
}

func TestAssembleWithGofpdfSixteenBitPNG(t *testing.T) {
	deep := image.NewNRGBA64(image.Rect(0, 0, 20, 10))
	gray := image.NewGray16(image.Rect(0, 0, 10, 20))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			deep.Set(x, y, color.NRGBA64{R: 0xffff, G: uint16(x) << 12, B: 0x8000, A: 0x7fff})
			gray.Set(x, y, color.Gray16{Y: uint16(y) << 12})
		}
	}

	tests := []struct {
		name string
		img  image.Image
	}{
		{name: "nrgba64", img: deep},
		{name: "gray16", img: gray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, png.Encode(&buf, tt.img))

			a := NewAssembler(NewImageDecoder(), NewFPDFBuilder, DefaultMargin)
			doc, err := a.Assemble(context.Background(), []SourceImage{
				{ID: "1", Name: "deep.png", MIMEType: "image/png", Data: buf.Bytes()},
			}, Portrait)
			require.NoError(t, err)
			require.NotNil(t, doc)
			assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
			assert.Len(t, doc.Pages, 1)
		})
	}
}

// 1x1 lossless (VP8L) WEBP.
const losslessWebp = "UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA=="

func TestAssembleWithGofpdfWebp(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(losslessWebp)
	require.NoError(t, err)

	decoded, err := NewImageDecoder().Decode(context.Background(), SourceImage{Name: "dot.webp", MIMEType: "image/webp", Data: data})
	require.NoError(t, err)
	assert.Equal(t, 1, decoded.Width)
	assert.Equal(t, 1, decoded.Height)
	assert.Equal(t, FormatWEBP, decoded.Format)

	a := NewAssembler(NewImageDecoder(), NewFPDFBuilder, DefaultMargin)
	doc, err := a.Assemble(context.Background(), []SourceImage{
		{ID: "1", Name: "dot.webp", MIMEType: "image/webp", Data: data},
		{ID: "2", Name: "wide.png", MIMEType: "image/png", Data: encodePNG(t, 80, 60)},
	}, Landscape)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.Len(t, doc.Pages, 2)
}
