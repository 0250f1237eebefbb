package out

import (
	"context"

	"walkread/internal/modules/progress/domain"
)

// KeyValue is one entry of a MultiGet result. Found is false when the key had
// no value; Value is then empty.
type KeyValue struct {
	Key   string
	Value string
	Found bool
}

// StateStore is a durable key-value string store. No transactions, no
// multi-key atomicity.
type StateStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	AllKeys(ctx context.Context) ([]string, error)
	MultiGet(ctx context.Context, keys []string) ([]KeyValue, error)
}

// StepSource supplies best-effort step readings. It never fails: on any
// underlying problem it degrades to an estimate, so there is no error path.
type StepSource interface {
	TodaySteps(ctx context.Context) int
}

// Projector maintains the SQLite read model of the ledger. Projection
// failures are diagnostic, never fatal to an accrual.
type Projector interface {
	Upsert(ctx context.Context, progress domain.ReadingProgress) error
	Reset(ctx context.Context) error
}

// CurrentBookStore persists the "current book" pointer the UI layer uses to
// reconstruct the active reading after a restart.
type CurrentBookStore interface {
	SaveCurrent(ctx context.Context, bookID string) error
	LoadCurrent(ctx context.Context) (string, error)
	ClearCurrent(ctx context.Context) error
}
