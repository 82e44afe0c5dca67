package classifier_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"askhub.app/dispatch/common/llm"
	"askhub.app/dispatch/core/config"
	"askhub.app/dispatch/internal/classifier"
)

var vocabulary = []string{"Python", "Django", "JavaScript", "React", "PostgreSQL", "Docker"}

var _ = Describe("MatchKeywords", func() {
	DescribeTable("finds skills named in the text",
		func(text string, limit int, want []string) {
			Expect(classifier.MatchKeywords(text, vocabulary, limit)).To(Equal(want))
		},
		Entry("single match, case-insensitive", "How do I profile python code?", 3, []string{"Python"}),
		Entry("vocabulary order", "react app calling a django api written in python", 3, []string{"Python", "Django", "React"}),
		Entry("capped", "python django javascript react", 2, []string{"Python", "Django"}),
		Entry("nothing relevant", "what is the meaning of life", 3, []string{}),
	)
})

var _ = Describe("keyword classifier", func() {
	It("defaults to three skills", func() {
		c := classifier.NewKeywordClassifier(classifier.Config{})

		skills, err := c.Classify(context.Background(), "python django javascript react docker", vocabulary)

		Expect(err).NotTo(HaveOccurred())
		Expect(skills).To(HaveLen(3))
	})
})

var _ = Describe("LLM classifier", func() {
	var (
		ctx    context.Context
		client *mockLLMClient
		c      classifier.Classifier
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockLLMClient{}
		c = classifier.NewLLMClassifier(client, classifier.Config{MaxSkills: 3})
	})

	It("keeps only available skills in their stored spelling", func() {
		client.chatFn = func(context.Context, llm.Request) (any, error) {
			return map[string]any{"skills": []string{"python", "Flask", "DJANGO", "python"}}, nil
		}

		skills, err := c.Classify(ctx, "Django ORM question", vocabulary)

		Expect(err).NotTo(HaveOccurred())
		Expect(skills).To(Equal([]string{"Python", "Django"}))
	})

	It("caps the number of skills", func() {
		client.chatFn = func(context.Context, llm.Request) (any, error) {
			return map[string]any{"skills": []string{"Python", "Django", "React", "Docker"}}, nil
		}

		skills, err := c.Classify(ctx, "full stack question", vocabulary)

		Expect(err).NotTo(HaveOccurred())
		Expect(skills).To(HaveLen(3))
	})

	It("sends the vocabulary and a schema", func() {
		client.chatFn = func(context.Context, llm.Request) (any, error) {
			return map[string]any{"skills": []string{}}, nil
		}

		_, err := c.Classify(ctx, "question text", vocabulary)

		Expect(err).NotTo(HaveOccurred())
		Expect(client.requests).To(HaveLen(1))
		Expect(client.requests[0].UserPrompt).To(ContainSubstring("Python, Django, JavaScript"))
		Expect(client.requests[0].Schema).NotTo(BeNil())
		Expect(client.requests[0].Temperature).To(HaveValue(BeZero()))
	})

	It("falls back to keywords when the model fails", func() {
		client.chatFn = func(context.Context, llm.Request) (any, error) {
			return nil, errors.New("503 service unavailable")
		}

		skills, err := c.Classify(ctx, "Dockerizing a Django app", vocabulary)

		Expect(err).NotTo(HaveOccurred())
		Expect(skills).To(Equal([]string{"Django", "Docker"}))
		Expect(client.requests).To(HaveLen(2), "transient failures are retried once")
	})

	It("does not call the model without a vocabulary", func() {
		skills, err := c.Classify(ctx, "anything", nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(skills).To(BeEmpty())
		Expect(client.requests).To(BeEmpty())
	})
})

var _ = Describe("Summaries", func() {
	It("joins title and content when short", func() {
		Expect(classifier.FallbackSummary("Slow query", "My join takes 10s.")).To(Equal("Slow query. My join takes 10s."))
	})

	It("uses content alone without a title", func() {
		Expect(classifier.FallbackSummary("", "Just content")).To(Equal("Just content"))
	})

	It("cuts long text to 150 characters", func() {
		summary := classifier.FallbackSummary("Title", strings.Repeat("é", 400))

		Expect([]rune(summary)).To(HaveLen(150))
		Expect(summary).To(HaveSuffix("..."))
		Expect(summary).To(HavePrefix("Title. "))
	})

	It("uses the model's summary", func() {
		client := &mockLLMClient{chatFn: func(context.Context, llm.Request) (any, error) {
			return map[string]any{"summary": "  How to index a JSONB column.  "}, nil
		}}

		summary, err := classifier.NewLLMSummarizer(client).Summarize(context.Background(), "JSONB", "long content")

		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal("How to index a JSONB column."))
	})

	It("truncates when the model fails", func() {
		client := &mockLLMClient{chatFn: func(context.Context, llm.Request) (any, error) {
			return nil, errors.New("quota exceeded")
		}}

		summary, err := classifier.NewLLMSummarizer(client).Summarize(context.Background(), "JSONB", "How do I index it?")

		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal("JSONB. How do I index it?"))
	})
})

var _ = Describe("FromConfig", func() {
	It("uses keyword matching without a provider", func() {
		c, s, err := classifier.FromConfig(context.Background(), config.ClassifierConfig{MaxSkills: 2})

		Expect(err).NotTo(HaveOccurred())
		skills, _ := c.Classify(context.Background(), "python and docker and react", vocabulary)
		Expect(skills).To(Equal([]string{"Python", "React"}))
		summary, _ := s.Summarize(context.Background(), "T", "C")
		Expect(summary).To(Equal("T. C"))
	})
})
