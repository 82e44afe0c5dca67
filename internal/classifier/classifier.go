// Package classifier suggests skills for a question and summarizes it for
// moderators. An LLM does both when configured; keyword matching and
// truncation take over when it is not, or when a call fails.
package classifier

import (
	"context"
	"strings"
)

const DefaultMaxSkills = 3

type Config struct {
	MaxSkills int
}

func (c Config) maxSkills() int {
	if c.MaxSkills <= 0 {
		return DefaultMaxSkills
	}
	return c.MaxSkills
}

type Classifier interface {
	// Classify picks skills from availableSkills that fit text. Returned
	// skills keep the spelling used in availableSkills.
	Classify(ctx context.Context, text string, availableSkills []string) ([]string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

type keywordClassifier struct {
	cfg Config
}

func NewKeywordClassifier(cfg Config) Classifier {
	return &keywordClassifier{cfg: cfg}
}

func (c *keywordClassifier) Classify(_ context.Context, text string, availableSkills []string) ([]string, error) {
	return MatchKeywords(text, availableSkills, c.cfg.maxSkills()), nil
}

// MatchKeywords returns, in vocabulary order, up to limit skills that appear
// in text ignoring case.
func MatchKeywords(text string, availableSkills []string, limit int) []string {
	lower := strings.ToLower(text)
	matched := []string{}
	for _, skill := range availableSkills {
		if len(matched) == limit {
			break
		}
		s := strings.ToLower(strings.TrimSpace(skill))
		if s != "" && strings.Contains(lower, s) {
			matched = append(matched, skill)
		}
	}
	return matched
}
