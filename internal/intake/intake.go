// Package intake validates user-provided files before they reach the
// assembler or the conversion bridge.
package intake

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Upload is one file as received from a form or the command line.
type Upload struct {
	Name     string
	MIMEType string
	Data     []byte
}

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/webp": true,
}

var documentTypes = map[string]bool{
	"application/pdf":   true,
	"text/x-latex":      true,
	"application/x-tex": true,
}

var extensionTypes = map[string]string{
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".tex":  "application/x-tex",
}

// IsImage reports whether mimeType is an accepted raster format.
func IsImage(mimeType string) bool {
	return imageTypes[normalize(mimeType)]
}

// AcceptDocument reports whether mimeType is accepted by the single-file uploader.
func AcceptDocument(mimeType string) bool {
	return documentTypes[normalize(mimeType)]
}

// IsLaTeX reports whether mimeType is one of the LaTeX source types.
func IsLaTeX(mimeType string) bool {
	m := normalize(mimeType)
	return m == "text/x-latex" || m == "application/x-tex"
}

// FilterImages keeps only PNG and WEBP uploads, preserving order. Unsupported
// entries are dropped without error.
func FilterImages(uploads []Upload) []Upload {
	kept := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		if !IsImage(u.MIMEType) {
			slog.Debug("Skipping unsupported image", "name", u.Name, "type", u.MIMEType)
			continue
		}
		u.MIMEType = normalize(u.MIMEType)
		kept = append(kept, u)
	}
	return kept
}

// SelectDocument returns the first upload when its type is accepted. Anything
// else yields no file and no error.
func SelectDocument(uploads []Upload) (Upload, bool) {
	if len(uploads) == 0 || !AcceptDocument(uploads[0].MIMEType) {
		return Upload{}, false
	}
	u := uploads[0]
	u.MIMEType = normalize(u.MIMEType)
	return u, true
}

// MIMEFromName guesses the declared type for paths given on the command line.
func MIMEFromName(name string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(name))]
}

// PDFPageCount returns the page count of a PDF, or 0 if it cannot be read.
func PDFPageCount(data []byte) (n int) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("Unable to read PDF page count", "panic", r)
			n = 0
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Debug("Unable to read PDF page count", "err", err)
		return 0
	}
	return r.NumPage()
}

// normalize drops parameters like "; charset=utf-8" and lowercases.
func normalize(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
