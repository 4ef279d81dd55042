package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/lehigh-university-libraries/converter/internal/providers"
)

// Ollama is a provider for Ollama
type Ollama struct {
	client *http.Client
}

// New returns a new Ollama provider
func New() *Ollama {
	return &Ollama{client: &http.Client{}}
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) DefaultModel() string {
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		return model
	}
	return "mistral-small3.2:24b"
}

// ExtractText sends the prompt to Ollama. Raster attachments travel as base64
// images and LaTeX source is appended to the prompt; PDFs are rejected.
func (o *Ollama) ExtractText(ctx context.Context, config providers.Config) (string, error) {
	url := strings.TrimSuffix(endpoint(config), "/") + "/api/generate"

	body := map[string]interface{}{
		"model":  config.Model,
		"prompt": config.Prompt,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": config.Temperature,
		},
	}

	if a := config.Attachment; a != nil {
		switch {
		case a.IsImage():
			body["images"] = []string{a.Base64()}
		case a.IsText():
			body["prompt"] = config.Prompt + "\n\n" + string(a.Data)
		default:
			return "", fmt.Errorf("%w: ollama cannot read %s", providers.ErrUnsupportedAttachment, a.MIMEType)
		}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}

// endpoint resolves the server address. Ollama takes no API key, so there is
// no credential precondition: an unset address means the local daemon.
func endpoint(config providers.Config) string {
	if config.BaseURL != "" {
		return config.BaseURL
	}
	if u := os.Getenv("OLLAMA_URL"); u != "" {
		return u
	}
	if u := os.Getenv("OLLAMA_HOST"); u != "" {
		return u
	}
	return "http://localhost:11434"
}
