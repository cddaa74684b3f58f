package store

import "context"

// NoOpLedger is used when no database is configured. Every write succeeds and
// every lookup misses.
type NoOpLedger struct{}

func NewNoOpLedger() *NoOpLedger {
	return &NoOpLedger{}
}

func (NoOpLedger) RecordOutcome(ctx context.Context, o Outcome) error {
	return nil
}

func (NoOpLedger) GetOutcome(ctx context.Context, originalKey string) (Outcome, error) {
	return Outcome{}, ErrOutcomeNotFound
}

func (NoOpLedger) Close() error {
	return nil
}
