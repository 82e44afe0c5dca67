package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultMaxTokens   = 1000
)

// ErrTruncated is returned when the model stopped at the token limit before
// closing its JSON answer.
var ErrTruncated = errors.New("response truncated at max tokens")

type openaiClient struct {
	client openai.Client
	model  string
}

func newOpenAIClient(cfg Config) *openaiClient {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &openaiClient{client: openai.NewClient(opts...), model: model}
}

func (c *openaiClient) Chat(ctx context.Context, req Request, result any) (*Response, error) {
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, openAIParams(c.model, req))
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	usage := &Response{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}

	slog.DebugContext(ctx, "llm chat completed",
		"provider", ProviderOpenAI,
		"model", c.model,
		"schema", req.SchemaName,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", usage.PromptTokens,
		"completion_tokens", usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai chat: no choices in response")
	}

	choice := resp.Choices[0]
	if refusal := choice.Message.Refusal; refusal != "" {
		return nil, &DecodeError{Content: refusal, Err: errors.New("model refused the request")}
	}
	if choice.FinishReason == "length" {
		return nil, &DecodeError{Content: choice.Message.Content, Err: ErrTruncated}
	}

	if err := json.Unmarshal([]byte(choice.Message.Content), result); err != nil {
		return nil, &DecodeError{Content: choice.Message.Content, Err: err}
	}

	return usage, nil
}

func (c *openaiClient) Model() string {
	return c.model
}

// openAIParams builds a strict structured-output request for req.
func openAIParams(model string, req Request) openai.ChatCompletionNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserPrompt),
		},
		MaxTokens: openai.Int(int64(maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	return params
}
