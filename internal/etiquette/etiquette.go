package etiquette

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/harmonyquest/harmonyquest/internal/llm"
)

// Validation bounds for a query. Too-short questions are rejected
// locally before any model call.
const (
	minQueryLen  = 3
	maxQueryLen  = 500
	maxAnswerTok = 1024
)

const systemPrompt = `You are a friendly, non-judgmental, and educational cultural guide specializing in cultural, racial, and religious etiquette.

Provide a well-structured response that includes:
- A clear, direct answer to the question
- Key points organized with bullet points or numbered lists when appropriate
- Important context or background information
- Practical tips or examples when relevant
- Cultural sensitivity notes if applicable

Write in plain text only, with clear structure and spacing. Do not use markdown formatting, asterisks, hashes, or other special characters. Keep paragraphs concise and easy to read.

Be respectful, accurate, and helpful. If you are unsure about specific cultural practices, acknowledge this and suggest consulting with members of that community or cultural experts.`

// Article summarization bounds.
const (
	maxArticleLen = 20000
	maxSummaryTok = 512
)

const summarizeSystemPrompt = `You are an AI cultural guide. Please summarize the following article, focusing on the key points and main ideas. Provide a concise and informative summary that will help the user quickly understand the article's content. Write in plain text only, without markdown formatting.`

// Answer is a completed etiquette query.
type Answer struct {
	Query string
	Text  string
}

// Summary is a condensed cultural article.
type Summary struct {
	Text string
}

// ValidateQuery checks a question before it leaves the machine.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if len(q) < minQueryLen {
		return fmt.Errorf("question is too short")
	}
	if len(q) > maxQueryLen {
		return fmt.Errorf("question is too long (%d characters, max %d)", len(q), maxQueryLen)
	}
	return nil
}

// ValidateArticle checks article text before it leaves the machine.
func ValidateArticle(text string) error {
	a := strings.TrimSpace(text)
	if a == "" {
		return fmt.Errorf("article is empty")
	}
	if len(a) > maxArticleLen {
		return fmt.Errorf("article is too long (%d characters, max %d)", len(a), maxArticleLen)
	}
	return nil
}

// Service answers cultural etiquette questions asynchronously through
// a model provider. One query is in flight at a time; a new request
// replaces an unconsumed result.
type Service struct {
	provider llm.Provider

	mu      sync.Mutex
	pending *Answer
	err     error
	ready   bool
}

// NewService creates an etiquette Service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Ask answers a single question synchronously.
func (s *Service) Ask(ctx context.Context, query string) (*Answer, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "etiquette")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    strings.TrimSpace(query),
		MaxTokens: maxAnswerTok,
	})
	if err != nil {
		return nil, fmt.Errorf("etiquette query: %w", err)
	}

	return &Answer{Query: strings.TrimSpace(query), Text: resp.Text}, nil
}

// Summarize condenses a cultural article into a short plain-text
// summary for quick understanding.
func (s *Service) Summarize(ctx context.Context, articleText string) (*Summary, error) {
	if err := ValidateArticle(articleText); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, "summarize")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    summarizeSystemPrompt,
		Prompt:    "Article:\n" + strings.TrimSpace(articleText),
		MaxTokens: maxSummaryTok,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize article: %w", err)
	}

	return &Summary{Text: resp.Text}, nil
}

// Request starts an async query. The result is retrieved with Consume.
func (s *Service) Request(ctx context.Context, query string) {
	go func() {
		answer, err := s.Ask(ctx, query)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending = answer
		s.err = err
		s.ready = true
	}()
}

// Consume returns the pending answer or error if one is ready. After
// consumption the pending slot is cleared.
func (s *Service) Consume() (*Answer, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, nil, false
	}
	answer, err := s.pending, s.err
	s.pending = nil
	s.err = nil
	s.ready = false
	return answer, err, true
}
