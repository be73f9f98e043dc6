// Package history implements C6: persisting executed batches and
// their per-operation outcomes, and building the inverse plan an undo
// needs. Store is an interface with a modernc.org/sqlite-backed
// implementation (sqlite.go) and an in-memory test double (mock.go),
// grounded on jra3-linear-fuse/internal/repo's repo.go/sqlite.go/
// mock.go three-file split.
package history

import (
	"context"
	"time"

	"rebatch/internal/model"
)

// Store is the data access interface for batch history and undo.
type Store interface {
	// RecordBatch persists a completed batch and its per-operation
	// outcomes. The batch's ID is generated if empty.
	RecordBatch(ctx context.Context, batch model.Batch, report model.ExecutionReport) (string, error)

	// GetBatch returns a previously recorded batch by ID.
	GetBatch(ctx context.Context, id string) (model.Batch, error)

	// ListBatches returns recorded batches, most recent first.
	ListBatches(ctx context.Context, limit int) ([]model.Batch, error)

	// ListOperations returns the recorded operations for a batch, in
	// execution order (ordinal ascending).
	ListOperations(ctx context.Context, batchID string) ([]model.UndoRecord, error)

	// MarkUndone updates a batch's status after a successful undo.
	MarkUndone(ctx context.Context, batchID string) error

	// Prune deletes batches older than olderThan, always keeping the
	// most recent keepLast regardless of age. Opt-in only: never called
	// except from the `rebatch history prune` CLI verb, per spec §9 (a
	// silent automatic prune would destroy undo capability unasked).
	Prune(ctx context.Context, olderThan time.Time, keepLast int) (int, error)

	Close() error
}

// ErrBatchNotFound is returned by GetBatch/ListOperations when no
// batch with the given ID has been recorded.
var ErrBatchNotFound = model.Permanent(errBatchNotFound{})

type errBatchNotFound struct{}

func (errBatchNotFound) Error() string { return "batch not found" }
