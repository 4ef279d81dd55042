// Package bridge turns one uploaded document into LaTeX by sending it, with a
// fixed instruction template, to an external generative model.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/converter/internal/intake"
	"github.com/lehigh-university-libraries/converter/internal/providers"
)

// Filename is the download name offered for bridge output.
const Filename = "study-guide.tex"

// Sentinel errors surfaced to callers.
var (
	ErrUnsupportedFile   = errors.New("unsupported file type")
	ErrUnknownFeature    = errors.New("unknown feature")
	ErrMissingCredential = providers.ErrMissingCredential
	ErrRequestFailed     = errors.New("model request failed")
	ErrEmptyResponse     = errors.New("model returned an empty response")
)

// File is the single document handed to the model.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Request is one conversion attempt.
type Request struct {
	Feature  Feature
	Language Language
	File     File
}

// Result is the normalized model output.
type Result struct {
	Feature  Feature  `json:"feature"`
	Language Language `json:"language"`
	LaTeX    string   `json:"latex"`
	Filename string   `json:"filename"`
	Provider string   `json:"provider"`
	Model    string   `json:"model"`
}

// Service issues exactly one provider call per Convert and never retries.
type Service struct {
	provider    providers.Provider
	model       string
	temperature float64
}

// NewService returns a bridge over provider. An empty model selects the
// provider's default.
func NewService(provider providers.Provider, model string, temperature float64) *Service {
	if model == "" {
		model = provider.DefaultModel()
	}
	return &Service{
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// Provider returns the name of the backing provider.
func (s *Service) Provider() string { return s.provider.Name() }

// Model returns the model identifier requests are sent to.
func (s *Service) Model() string { return s.model }

// Convert sends req.File with the feature's instruction template and returns
// the response with code fences stripped.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	prompt, ok := Prompt(req.Feature, req.Language)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeature, req.Feature)
	}
	if !intake.AcceptDocument(req.File.MIMEType) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, req.File.MIMEType)
	}

	start := time.Now()
	slog.Info("Sending conversion request",
		"feature", req.Feature,
		"language", req.Language,
		"file", req.File.Name,
		"type", req.File.MIMEType,
		"bytes", len(req.File.Data),
		"provider", s.provider.Name(),
		"model", s.model)

	text, err := s.provider.ExtractText(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      prompt,
		Attachment: &providers.Attachment{
			Name:     req.File.Name,
			MIMEType: req.File.MIMEType,
			Data:     req.File.Data,
		},
	})
	if err != nil {
		if errors.Is(err, providers.ErrMissingCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	latex := StripCodeFence(text)
	if strings.TrimSpace(latex) == "" {
		return nil, ErrEmptyResponse
	}

	slog.Info("Conversion complete", "feature", req.Feature, "length", len(latex), "duration", time.Since(start))
	return &Result{
		Feature:  req.Feature,
		Language: req.Language,
		LaTeX:    latex,
		Filename: Filename,
		Provider: s.provider.Name(),
		Model:    s.model,
	}, nil
}
