package bridge

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/converter/internal/gemini"
	"github.com/lehigh-university-libraries/converter/internal/ollama"
	"github.com/lehigh-university-libraries/converter/internal/openai"
	"github.com/lehigh-university-libraries/converter/internal/providers"
)

// Providers lists the backends NewProvider accepts.
var Providers = []string{"gemini", "openai", "ollama"}

// NewProvider returns the backend registered under name. Empty selects gemini.
func NewProvider(name string) (providers.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini":
		return gemini.New(), nil
	case "openai":
		return openai.New(), nil
	case "ollama":
		return ollama.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
