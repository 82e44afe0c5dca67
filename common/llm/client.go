package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Client asks a model for a JSON answer matching Request.Schema and decodes
// it into result.
type Client interface {
	Chat(ctx context.Context, req Request, result any) (*Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

type Response struct {
	PromptTokens     int
	CompletionTokens int
}

type Config struct {
	Provider string
	APIKey   string
	BaseURL  string // OpenAI only
	Model    string
}

// New builds a Client for cfg.Provider.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return newOpenAIClient(cfg), nil
	case ProviderGemini:
		return newGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}

func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether a failed Chat call is worth repeating.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429, apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "llm transient error, will retry", "status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return false
	}

	slog.WarnContext(ctx, "llm network error, will retry", "error", err)
	return true
}

// ChatWithRetry calls c.Chat up to attempts times, waiting a little longer
// after each retryable failure. Decode errors and cancellations stop at once.
func ChatWithRetry(ctx context.Context, c Client, req Request, result any, attempts int) (*Response, error) {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = c.Chat(ctx, req, result)
		if err == nil {
			return resp, nil
		}
		if attempt == attempts || !IsRetryable(ctx, err) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w (after %v)", ctx.Err(), err)
		case <-time.After(retryBackoff * time.Duration(attempt)):
		}
	}
}

var retryBackoff = 500 * time.Millisecond

// DecodeError is returned when the model answered with something that is
// not valid JSON for the requested schema.
type DecodeError struct {
	Content string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unmarshal response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
