package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Purpose      string `json:"purpose"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SyncEventData records the outcome of a backend sync attempt.
type SyncEventData struct {
	Operation string `json:"operation"`
	Lesson    string `json:"lesson,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// EventRepo provides append access to the local event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSync records a backend sync attempt.
	AppendSync(ctx context.Context, data SyncEventData) error
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	return r.append(ctx, "llm_request", data)
}

func (r *eventRepo) AppendSync(ctx context.Context, data SyncEventData) error {
	return r.append(ctx, "sync", data)
}

func (r *eventRepo) append(ctx context.Context, kind string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", kind, err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO events (uuid, timestamp, kind, payload) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), time.Now().UTC().Format(time.RFC3339), kind, string(body),
	)
	if err != nil {
		return fmt.Errorf("append %s event: %w", kind, err)
	}
	return nil
}
