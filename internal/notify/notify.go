// Package notify delivers object-created notifications to the process service.
package notify

import "context"

// Handler consumes one notification payload. Payloads are S3 event
// notification JSON documents.
type Handler func(ctx context.Context, payload []byte) error

// Subscriber blocks delivering notifications to a Handler until ctx is done.
type Subscriber interface {
	Listen(ctx context.Context, handler Handler) error
}
