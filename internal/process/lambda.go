package process

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// HandleS3Event is the Lambda entry point for bucket notifications. Record
// failures are reported through sidecars and logs, not the returned error.
func (p *Processor) HandleS3Event(ctx context.Context, ev events.S3Event) error {
	p.HandleBatch(ctx, ev.Records)
	return nil
}

// HandleNotification decodes an S3 event notification document delivered over
// a message bus and processes its records.
func (p *Processor) HandleNotification(ctx context.Context, payload []byte) error {
	var ev events.S3Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode s3 event: %w", err)
	}
	return p.HandleS3Event(ctx, ev)
}
