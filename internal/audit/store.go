package audit

import "context"

// Store persists audit entries. Append-only; swap with concrete storage
// without touching the publisher or worker.
type Store interface {
	Append(ctx context.Context, entry Entry) error
}
