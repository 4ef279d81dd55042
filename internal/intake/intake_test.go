package intake

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterImages(t *testing.T) {
	uploads := []Upload{
		{Name: "a.png", MIMEType: "image/png"},
		{Name: "b.jpg", MIMEType: "image/jpeg"},
		{Name: "c.webp", MIMEType: "IMAGE/WEBP"},
		{Name: "d.txt", MIMEType: "text/plain"},
		{Name: "e.png", MIMEType: "image/png; foo=bar"},
	}

	got := FilterImages(uploads)
	require.Len(t, got, 3)
	assert.Equal(t, "a.png", got[0].Name)
	assert.Equal(t, "c.webp", got[1].Name)
	assert.Equal(t, "image/webp", got[1].MIMEType)
	assert.Equal(t, "e.png", got[2].Name)
	assert.Equal(t, "image/png", got[2].MIMEType)
}

func TestFilterImagesAllUnsupported(t *testing.T) {
	got := FilterImages([]Upload{{Name: "x.gif", MIMEType: "image/gif"}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestSelectDocument(t *testing.T) {
	tests := []struct {
		name    string
		uploads []Upload
		ok      bool
	}{
		{name: "pdf", uploads: []Upload{{Name: "a.pdf", MIMEType: "application/pdf"}}, ok: true},
		{name: "latex", uploads: []Upload{{Name: "a.tex", MIMEType: "text/x-latex"}}, ok: true},
		{name: "tex", uploads: []Upload{{Name: "a.tex", MIMEType: "application/x-tex"}}, ok: true},
		{name: "plain text dropped", uploads: []Upload{{Name: "a.txt", MIMEType: "text/plain"}}, ok: false},
		{name: "only first file considered", uploads: []Upload{{MIMEType: "text/plain"}, {MIMEType: "application/pdf"}}, ok: false},
		{name: "nothing", uploads: nil, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := SelectDocument(tt.uploads)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				assert.Equal(t, Upload{}, u)
			}
		})
	}
}

func TestMIMEFromName(t *testing.T) {
	assert.Equal(t, "image/png", MIMEFromName("scan.PNG"))
	assert.Equal(t, "image/webp", MIMEFromName("/tmp/x.webp"))
	assert.Equal(t, "application/pdf", MIMEFromName("notes.pdf"))
	assert.Equal(t, "application/x-tex", MIMEFromName("hw.tex"))
	assert.Equal(t, "", MIMEFromName("README"))
}

func TestIsLaTeX(t *testing.T) {
	assert.True(t, IsLaTeX("text/x-latex"))
	assert.True(t, IsLaTeX("application/x-tex"))
	assert.False(t, IsLaTeX("application/pdf"))
}

func TestPDFPageCount(t *testing.T) {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.AddPage()
	doc.AddPage()
	doc.AddPage()
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))

	assert.Equal(t, 3, PDFPageCount(buf.Bytes()))
	assert.Equal(t, 0, PDFPageCount([]byte("garbage")))
}
