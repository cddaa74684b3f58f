package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresLedger struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresLedger, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresLedger{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresLedger) migrate(ctx context.Context) error {
	// Several process instances may start together; only one runs DDL.
	const lockID = 7311021

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !acquired {
		time.Sleep(2 * time.Second)
		return nil
	}
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS processing_outcomes (
			original_key    TEXT PRIMARY KEY,
			processed_key   TEXT,
			bucket          TEXT NOT NULL,
			success         BOOLEAN NOT NULL,
			message         TEXT NOT NULL,
			processing_type TEXT,
			content_type    TEXT,
			file_size       BIGINT NOT NULL DEFAULT 0,
			word_count      INT NOT NULL DEFAULT 0,
			processed_at    TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create processing_outcomes: %w", err)
	}
	return nil
}

// RecordOutcome upserts by original key; reprocessing overwrites the previous row.
func (s *PostgresLedger) RecordOutcome(ctx context.Context, o Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processing_outcomes(original_key, processed_key, bucket, success, message,
			processing_type, content_type, file_size, word_count, processed_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (original_key) DO UPDATE SET
			processed_key=excluded.processed_key, bucket=excluded.bucket, success=excluded.success,
			message=excluded.message, processing_type=excluded.processing_type,
			content_type=excluded.content_type, file_size=excluded.file_size,
			word_count=excluded.word_count, processed_at=excluded.processed_at`,
		o.OriginalKey, nullable(o.ProcessedKey), o.Bucket, o.Success, o.Message,
		nullable(o.ProcessingType), nullable(o.ContentType), o.FileSize, o.WordCount, o.ProcessedAt)
	if err != nil {
		return fmt.Errorf("record outcome %s: %w", o.OriginalKey, err)
	}
	return nil
}

func (s *PostgresLedger) GetOutcome(ctx context.Context, originalKey string) (Outcome, error) {
	var (
		o                                   Outcome
		processedKey, processingType, ctype sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT original_key, processed_key, bucket, success, message, processing_type,
			content_type, file_size, word_count, processed_at
		FROM processing_outcomes WHERE original_key=$1`, originalKey).
		Scan(&o.OriginalKey, &processedKey, &o.Bucket, &o.Success, &o.Message, &processingType,
			&ctype, &o.FileSize, &o.WordCount, &o.ProcessedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Outcome{}, ErrOutcomeNotFound
	}
	if err != nil {
		return Outcome{}, err
	}
	o.ProcessedKey = processedKey.String
	o.ProcessingType = processingType.String
	o.ContentType = ctype.String
	return o, nil
}

func (s *PostgresLedger) Close() error {
	return s.db.Close()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
