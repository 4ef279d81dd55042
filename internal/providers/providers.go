package providers

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMissingCredential is returned before any network call when a provider
// has no API key to send.
var ErrMissingCredential = errors.New("API key environment variable not set")

// ErrUnsupportedAttachment is returned when a provider cannot carry the file type.
var ErrUnsupportedAttachment = errors.New("attachment type not supported by provider")

// Attachment is a file sent inline alongside the prompt.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Base64 returns the transport-safe encoding of the attachment bytes.
func (a *Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// DataURL returns the attachment as a data: URL.
func (a *Attachment) DataURL() string {
	return "data:" + a.MIMEType + ";base64," + a.Base64()
}

// IsText reports whether the attachment is LaTeX source that can be inlined as text.
func (a *Attachment) IsText() bool {
	return a.MIMEType == "text/x-latex" || a.MIMEType == "application/x-tex" || strings.HasPrefix(a.MIMEType, "text/")
}

// IsImage reports whether the attachment is a raster image.
func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MIMEType, "image/")
}

// Config represents the configuration for an LLM provider
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// APIKey overrides the provider's environment lookup when set.
	APIKey string
	// BaseURL overrides the provider's default endpoint when set.
	BaseURL    string
	Attachment *Attachment
}

// Provider defines the interface for an LLM provider
type Provider interface {
	Name() string
	DefaultModel() string
	ExtractText(ctx context.Context, config Config) (string, error)
}
