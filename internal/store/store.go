package store

import (
	"context"
	"errors"
	"time"
)

var ErrOutcomeNotFound = errors.New("outcome not found")

// Outcome is the ledger row for one processed upload, keyed by its original object key.
type Outcome struct {
	OriginalKey    string    `json:"originalKey"`
	ProcessedKey   string    `json:"processedKey,omitempty"`
	Bucket         string    `json:"bucket"`
	Success        bool      `json:"success"`
	Message        string    `json:"message"`
	ProcessingType string    `json:"processingType,omitempty"`
	ContentType    string    `json:"contentType,omitempty"`
	FileSize       int64     `json:"fileSize"`
	WordCount      int       `json:"wordCount"`
	ProcessedAt    time.Time `json:"processedAt"`
}

// Ledger records the latest processing outcome per upload. It is an index
// alongside the sidecars in the object store, not a replacement for them.
type Ledger interface {
	RecordOutcome(ctx context.Context, o Outcome) error
	GetOutcome(ctx context.Context, originalKey string) (Outcome, error)
	Close() error
}
