package model

import "time"

// BatchStatus tracks a persisted batch's lifecycle.
type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchExecuted  BatchStatus = "executed"
	BatchUndone    BatchStatus = "undone"
	BatchPartial   BatchStatus = "partial" // mid-batch failure, not rolled back
)

// Batch is one end-to-end preview/execute cycle, persisted to the
// history store.
type Batch struct {
	ID        string
	Timestamp time.Time
	// Operations is populated once a plan has been materialized; it is
	// empty for a Batch that only wraps a set of descriptors ahead of
	// preview.
	Operations []RenameOperation
	// PipelineSnapshot is the YAML-encoded pipeline (config.EncodePipeline) in effect when
	// this batch was executed, kept for audit even if the live pipeline
	// later changes.
	PipelineSnapshot []byte
	Status           BatchStatus
}

// UndoRecord captures exactly the state spec.md requires for inverse
// execution: the original and final path of each operation, whether it
// was a case-only rename, and which principal (if any) it was a
// companion of.
type UndoRecord struct {
	BatchID      string
	Ordinal      int
	OriginalPath string
	FinalPath    string
	CaseOnly     bool
	CompanionOf  *int // ordinal of the principal operation, nil for principals
	Outcome      OutcomeKind
}
