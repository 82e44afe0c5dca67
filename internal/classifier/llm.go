package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"askhub.app/dispatch/common/llm"
	"askhub.app/dispatch/common/logger"
	"askhub.app/dispatch/core/config"
)

const (
	maxPromptText = 4000
	maxSummaryLen = 300
	chatAttempts  = 2
)

type skillsAnswer struct {
	Skills []string `json:"skills" jsonschema_description:"Skill names copied exactly from the available list, most relevant first"`
}

type summaryAnswer struct {
	Summary string `json:"summary" jsonschema_description:"One or two sentences stating the main problem or topic"`
}

const classifyPrompt = `You route questions on a Q&A site to moderators with matching expertise.
Pick the technical skills or topics from the available list that best describe the question.
Only use names from the available list. Return at most %d skills. Return an empty list when none fit.`

const summarizePrompt = `You write short summaries of user questions for the moderators who will answer them.
Summarize the question in one or two clear sentences focused on the main problem or topic.`

type llmClassifier struct {
	client   llm.Client
	cfg      Config
	fallback Classifier
}

func NewLLMClassifier(client llm.Client, cfg Config) Classifier {
	return &llmClassifier{
		client:   client,
		cfg:      cfg,
		fallback: NewKeywordClassifier(cfg),
	}
}

func (c *llmClassifier) Classify(ctx context.Context, text string, availableSkills []string) ([]string, error) {
	if len(availableSkills) == 0 {
		return []string{}, nil
	}

	limit := c.cfg.maxSkills()
	var answer skillsAnswer
	_, err := llm.ChatWithRetry(ctx, c.client, llm.Request{
		SystemPrompt: fmt.Sprintf(classifyPrompt, limit),
		UserPrompt: fmt.Sprintf("Question:\n%s\n\nAvailable skills: %s",
			logger.Truncate(text, maxPromptText), strings.Join(availableSkills, ", ")),
		SchemaName:  "question_skills",
		Schema:      llm.GenerateSchema[skillsAnswer](),
		MaxTokens:   200,
		Temperature: llm.Temp(0),
	}, &answer, chatAttempts)
	if err != nil {
		slog.WarnContext(ctx, "skill classification failed, using keyword matching",
			"error", err,
			"model", c.client.Model())
		return c.fallback.Classify(ctx, text, availableSkills)
	}

	return restrictTo(answer.Skills, availableSkills, limit), nil
}

// restrictTo keeps suggested skills that name an available skill, mapped to
// the available spelling, without duplicates.
func restrictTo(suggested, availableSkills []string, limit int) []string {
	canonical := make(map[string]string, len(availableSkills))
	for _, s := range availableSkills {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, ok := canonical[key]; !ok {
			canonical[key] = s
		}
	}

	out := []string{}
	seen := map[string]bool{}
	for _, s := range suggested {
		key := strings.ToLower(strings.TrimSpace(s))
		name, ok := canonical[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

type llmSummarizer struct {
	client llm.Client
}

func NewLLMSummarizer(client llm.Client) Summarizer {
	return &llmSummarizer{client: client}
}

func (s *llmSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	var answer summaryAnswer
	_, err := llm.ChatWithRetry(ctx, s.client, llm.Request{
		SystemPrompt: summarizePrompt,
		UserPrompt:   fmt.Sprintf("Title: %s\n\nQuestion:\n%s", title, logger.Truncate(content, maxPromptText)),
		SchemaName:   "question_summary",
		Schema:       llm.GenerateSchema[summaryAnswer](),
		MaxTokens:    300,
		Temperature:  llm.Temp(0.2),
	}, &answer, chatAttempts)
	if err != nil || strings.TrimSpace(answer.Summary) == "" {
		slog.WarnContext(ctx, "summary generation failed, truncating question",
			"error", err,
			"model", s.client.Model())
		return FallbackSummary(title, content), nil
	}

	return cut(strings.TrimSpace(answer.Summary), maxSummaryLen), nil
}

type truncatingSummarizer struct{}

func NewTruncatingSummarizer() Summarizer {
	return truncatingSummarizer{}
}

func (truncatingSummarizer) Summarize(_ context.Context, title, content string) (string, error) {
	return FallbackSummary(title, content), nil
}

// FallbackSummary joins title and content and cuts the result to 150 characters.
func FallbackSummary(title, content string) string {
	text := content
	if title != "" && content != "" {
		text = title + ". " + content
	}
	return cut(text, 150)
}

func cut(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

// FromConfig builds the classifier and summarizer for cfg. Without a provider
// and key both fall back to their non-LLM forms.
func FromConfig(ctx context.Context, cfg config.ClassifierConfig) (Classifier, Summarizer, error) {
	ccfg := Config{MaxSkills: cfg.MaxSkills}
	if !cfg.Enabled() {
		return NewKeywordClassifier(ccfg), NewTruncatingSummarizer(), nil
	}

	client, err := llm.New(ctx, llm.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}

	return NewLLMClassifier(client, ccfg), NewLLMSummarizer(client), nil
}
