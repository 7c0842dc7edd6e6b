package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fi-dashboard-go/internal/metrics"
	"fi-dashboard-go/internal/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("language model not configured")

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("language model returned no text")

// Generator produces text from a prompt. The system instruction may be empty.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Compile-time check: *Service must satisfy Generator.
var _ Generator = (*Service)(nil)

type Service struct {
	client *genai.Client
	model  string
}

func NewService(ctx context.Context, cfg models.GeminiConfig, httpClient *http.Client) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create gemini client: %w", err)
	}

	zap.L().Info("Language model client initialized", zap.String("model", cfg.Model))
	return &Service{client: client, model: cfg.Model}, nil
}

func (s *Service) Generate(ctx context.Context, system, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	kind := "prompt"
	if system != "" {
		kind = "instructed"
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err == nil && strings.TrimSpace(resp.Text()) == "" {
		err = ErrEmptyResponse
	}
	metrics.ObserveModelCall(kind, start, err)
	if err != nil {
		zap.L().Warn("Language model call failed", zap.String("model", s.model), zap.Error(err))
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	zap.L().Debug("Language model replied",
		zap.String("model", s.model),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)))
	return text, nil
}
