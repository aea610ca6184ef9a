package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Record statuses.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
	StatusInvalid   = "invalid"
)

// Record describes one generation request after it finished.
type Record struct {
	ID        string `json:"id"`
	RequestID string `json:"request_id"`

	Engine string `json:"engine"`
	Model  string `json:"model,omitempty"`
	IsEdit bool   `json:"is_edit"`

	// PromptHash is the hex SHA-256 of the prompt.
	PromptHash string `json:"prompt_hash"`

	Status       string `json:"status"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`

	Chunks             int    `json:"chunks"`
	ResponseBytes      int64  `json:"response_bytes"`
	ExtractionStrategy string `json:"extraction_strategy,omitempty"`
	ClientDisconnected bool   `json:"client_disconnected"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewRecord starts a record for a request with a fresh ID.
func NewRecord(requestID, engine, model string, isEdit bool, prompt string, startedAt time.Time) *Record {
	return &Record{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Engine:     engine,
		Model:      model,
		IsEdit:     isEdit,
		PromptHash: HashPrompt(prompt),
		StartedAt:  startedAt,
	}
}

// HashPrompt returns the hex SHA-256 of prompt.
func HashPrompt(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Query filters records. Zero values match everything. Results are
// ordered newest first.
type Query struct {
	Engine string
	Status string
	Since  time.Time
	Until  time.Time

	Limit  int
	Offset int
}

// Matches reports whether r satisfies the filters of q.
func (q *Query) Matches(r *Record) bool {
	if q == nil {
		return true
	}
	if q.Engine != "" && r.Engine != q.Engine {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if !q.Since.IsZero() && r.StartedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !r.StartedAt.Before(q.Until) {
		return false
	}
	return true
}

// Storage persists records. Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a record.
	Store(ctx context.Context, record *Record) error

	// Query returns the records matching q, newest first.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching q, ignoring paging.
	Count(ctx context.Context, q *Query) (int64, error)

	// DeleteBefore removes records started before cutoff and returns how
	// many were deleted.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}
