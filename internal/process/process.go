// Package process turns object-created notifications for uploaded files into
// processed summaries and outcome sidecars.
package process

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tech-radar/internal/metrics"
	"tech-radar/internal/objectstore"
	"tech-radar/internal/store"
)

const (
	UploadPrefix    = "uploads/"
	ProcessedPrefix = "processed/"

	MetadataSuffix = ".metadata.json"
	ErrorSuffix    = ".error.json"

	summaryTextLimit = 1000
	jsonContentType  = "application/json"
	timeLayout       = "2006-01-02T15:04:05.000Z07:00"
)

// Result is the per-record outcome of a batch.
type Result struct {
	Success        bool   `json:"success"`
	Skipped        bool   `json:"skipped,omitempty"`
	Message        string `json:"message"`
	ProcessedAt    string `json:"processedAt"`
	OriginalKey    string `json:"originalKey"`
	ProcessedKey   string `json:"processedKey,omitempty"`
	FileSize       int    `json:"fileSize,omitempty"`
	ContentType    string `json:"contentType,omitempty"`
	ProcessingType Kind   `json:"processingType,omitempty"`
	WordCount      int    `json:"-"`
}

type summary struct {
	FileName       string `json:"fileName"`
	ContentType    string `json:"contentType"`
	WordCount      int    `json:"wordCount"`
	CharacterCount int    `json:"characterCount"`
	ExtractedText  string `json:"extractedText"`
	ProcessedAt    string `json:"processedAt"`
}

type metadataSidecar struct {
	OriginalKey    string  `json:"originalKey"`
	ProcessedKey   *string `json:"processedKey"`
	FileSize       int     `json:"fileSize"`
	ContentType    string  `json:"contentType"`
	ProcessingType Kind    `json:"processingType"`
	ProcessedAt    string  `json:"processedAt"`
	ExtractedText  string  `json:"extractedText"`
	WordCount      int     `json:"wordCount"`
	PageCount      *int    `json:"pageCount,omitempty"`
	Success        bool    `json:"success"`
}

type errorSidecar struct {
	OriginalKey string `json:"originalKey"`
	Error       string `json:"error"`
	ProcessedAt string `json:"processedAt"`
	Success     bool   `json:"success"`
}

// Processor handles notification batches against one object store. Records
// share no mutable state, so a batch fans out without locking.
type Processor struct {
	store   objectstore.Store
	ledger  store.Ledger
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New builds a Processor. A nil ledger records nothing.
func New(st objectstore.Store, ledger store.Ledger, log *slog.Logger, m *metrics.Metrics) *Processor {
	if ledger == nil {
		ledger = store.NoOpLedger{}
	}
	return &Processor{store: st, ledger: ledger, log: log, metrics: m, now: time.Now}
}

// HandleBatch processes every record concurrently. A failing record never
// cancels its siblings; results are returned in record order.
func (p *Processor) HandleBatch(ctx context.Context, records []events.S3EventRecord) []Result {
	batchID := uuid.New()
	log := p.log.With("batch_id", batchID, "records", len(records))
	log.Info("process batch received")

	results := make([]Result, len(records))
	var g errgroup.Group
	for i, rec := range records {
		g.Go(func() error {
			results[i] = p.HandleRecord(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.Success || res.Skipped {
			log.Info("record processed", "index", i, "key", res.OriginalKey, "message", res.Message)
		} else {
			log.Error("record processing failed", "index", i, "key", res.OriginalKey, "err", res.Message)
		}
	}
	return results
}

// HandleRecord processes one notified object.
func (p *Processor) HandleRecord(ctx context.Context, rec events.S3EventRecord) Result {
	bucket := rec.S3.Bucket.Name
	key, err := DecodeKey(rec.S3.Object.Key)
	if err != nil {
		p.metrics.RecordProcessed("", metrics.RecordFailed)
		return Result{Message: fmt.Sprintf("decode object key: %v", err), ProcessedAt: p.timestamp(), OriginalKey: rec.S3.Object.Key}
	}
	log := p.log.With("bucket", bucket, "key", key)

	if !strings.HasPrefix(key, UploadPrefix) {
		p.metrics.RecordProcessed("", metrics.RecordSkipped)
		return Result{Skipped: true, Message: "File not in uploads folder, skipping", ProcessedAt: p.timestamp(), OriginalKey: key}
	}

	log.Info("processing file")
	res, err := p.process(ctx, bucket, key)
	if err != nil {
		log.Error("error processing file", "err", err)
		p.writeErrorSidecar(ctx, log, bucket, key, err)
		res = Result{Message: err.Error(), ProcessedAt: p.timestamp(), OriginalKey: key}
		p.metrics.RecordProcessed("", metrics.RecordFailed)
	} else {
		p.metrics.RecordProcessed(string(res.ProcessingType), metrics.RecordSucceeded)
	}
	p.record(ctx, log, bucket, res)
	return res
}

func (p *Processor) process(ctx context.Context, bucket, key string) (Result, error) {
	obj, err := p.store.Get(ctx, bucket, key)
	if err != nil {
		return Result{}, err
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = objectstore.DefaultContentType
	}
	p.log.Debug("file details", "key", key, "size", len(obj.Body), "content_type", contentType)

	ext := Classify(obj.Body, contentType, key)
	processedKey := ProcessedKey(key)

	var stored *string
	if ext.Text != "" && ext.WordCount > 0 {
		body, err := json.MarshalIndent(summary{
			FileName:       key,
			ContentType:    contentType,
			WordCount:      ext.WordCount,
			CharacterCount: len([]rune(ext.Text)),
			ExtractedText:  truncate(ext.Text, summaryTextLimit),
			ProcessedAt:    p.timestamp(),
		}, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("encode summary: %w", err)
		}
		err = p.store.Put(ctx, bucket, processedKey, objectstore.Object{
			Body:        body,
			ContentType: jsonContentType,
			Metadata: map[string]string{
				"originalKey":    key,
				"processedAt":    p.timestamp(),
				"processingType": string(ext.Kind),
			},
		})
		if err != nil {
			return Result{}, err
		}
		stored = &processedKey
	}

	meta, err := json.MarshalIndent(metadataSidecar{
		OriginalKey:    key,
		ProcessedKey:   stored,
		FileSize:       len(obj.Body),
		ContentType:    contentType,
		ProcessingType: ext.Kind,
		ProcessedAt:    p.timestamp(),
		ExtractedText:  ext.Text,
		WordCount:      ext.WordCount,
		PageCount:      ext.PageCount,
		Success:        true,
	}, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode metadata: %w", err)
	}
	if err := p.store.Put(ctx, bucket, processedKey+MetadataSuffix, objectstore.Object{Body: meta, ContentType: jsonContentType}); err != nil {
		return Result{}, err
	}

	res := Result{
		Success:        true,
		Message:        "File processed successfully: " + string(ext.Kind),
		ProcessedAt:    p.timestamp(),
		OriginalKey:    key,
		FileSize:       len(obj.Body),
		ContentType:    contentType,
		ProcessingType: ext.Kind,
		WordCount:      ext.WordCount,
	}
	if stored != nil {
		res.ProcessedKey = *stored
	}
	return res, nil
}

// writeErrorSidecar is best effort: its own failure is logged and dropped.
func (p *Processor) writeErrorSidecar(ctx context.Context, log *slog.Logger, bucket, key string, cause error) {
	body, err := json.MarshalIndent(errorSidecar{
		OriginalKey: key,
		Error:       cause.Error(),
		ProcessedAt: p.timestamp(),
		Success:     false,
	}, "", "  ")
	if err == nil {
		err = p.store.Put(ctx, bucket, ProcessedKey(key)+ErrorSuffix, objectstore.Object{Body: body, ContentType: jsonContentType})
	}
	if err != nil {
		log.Error("failed to save error metadata", "err", err)
	}
}

// record writes res to the ledger. Ledger failures never fail the record.
func (p *Processor) record(ctx context.Context, log *slog.Logger, bucket string, res Result) {
	processedAt, err := time.Parse(timeLayout, res.ProcessedAt)
	if err != nil {
		processedAt = p.now().UTC()
	}
	err = p.ledger.RecordOutcome(ctx, store.Outcome{
		OriginalKey:    res.OriginalKey,
		ProcessedKey:   res.ProcessedKey,
		Bucket:         bucket,
		Success:        res.Success,
		Message:        res.Message,
		ProcessingType: string(res.ProcessingType),
		ContentType:    res.ContentType,
		FileSize:       int64(res.FileSize),
		WordCount:      res.WordCount,
		ProcessedAt:    processedAt,
	})
	if err != nil {
		log.Warn("failed to record processing outcome", "err", err)
	}
}

func (p *Processor) timestamp() string {
	return p.now().UTC().Format(timeLayout)
}

// DecodeKey undoes S3 notification key encoding: '+' is a space, the rest is
// percent-encoded.
func DecodeKey(raw string) (string, error) {
	return url.PathUnescape(strings.ReplaceAll(raw, "+", " "))
}

// ProcessedKey maps uploads/<name> to processed/<name>.
func ProcessedKey(key string) string {
	return strings.Replace(key, UploadPrefix, ProcessedPrefix, 1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
