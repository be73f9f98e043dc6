package history

import (
	"context"
	"fmt"

	"rebatch/internal/execution"
	"rebatch/internal/model"
)

// UndoOptions controls one Undo call.
type UndoOptions struct {
	// Strict makes Undo refuse the entire batch if any single operation
	// isn't undoable (final_path missing, or original_path already
	// occupied by something else), per spec §4.6. Without Strict, each
	// operation is attempted independently and failures are reported
	// per-row instead of blocking the batch.
	Strict bool
}

// Undo reverses a previously recorded batch: it builds the inverse
// plan (final_path -> original_path for every successfully executed
// operation, skipped/failed ones carried no physical change and are
// left alone), forces conflict_policy=abort, and re-invokes
// execution.Engine so the same tmp-hop/cycle-breaking machinery
// applies to the reversal.
func Undo(ctx context.Context, store Store, engine *execution.Engine, batchID string, opts UndoOptions) (*model.ExecutionReport, error) {
	batch, err := store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	records, err := store.ListOperations(ctx, batchID)
	if err != nil {
		return nil, err
	}

	inverse := inversePlan(records)

	if opts.Strict {
		if reason, ok := checkUndoable(engine, inverse); !ok {
			return nil, model.Permanent(fmt.Errorf("batch %s is not cleanly undoable: %s", batchID, reason))
		}
	}

	// Conflict policy is always forced to abort for a reversal, per
	// spec §4.6: an unsafe undo must be reported, never silently
	// resolved via the caller's configured overwrite/auto_suffix
	// policy. undoEngine is a shallow copy so the caller's engine and
	// its configured policy are left untouched for forward execution.
	undoEngine := *engine
	undoEngine.Policy = model.ConflictAbort

	report, err := undoEngine.ExecutePlan(ctx, inverse, nil)
	if err != nil {
		return nil, err
	}

	if report.Failed == 0 {
		if err := store.MarkUndone(ctx, batch.ID); err != nil {
			return report, err
		}
	}
	return report, nil
}

// inversePlan swaps source/target for every successfully executed
// record, preserving ordinal-based PlanIndex/PrincipalID references so
// companion bookkeeping in the execution engine still lines up.
func inversePlan(records []model.UndoRecord) []model.RenameOperation {
	ops := make([]model.RenameOperation, 0, len(records))
	for _, rec := range records {
		if rec.Outcome != model.OutcomeSuccess {
			continue
		}
		op := model.RenameOperation{
			SourcePath:  rec.FinalPath,
			TargetPath:  rec.OriginalPath,
			CaseOnly:    rec.CaseOnly,
			IsCompanion: rec.CompanionOf != nil,
			PrincipalID: -1,
			PlanIndex:   rec.Ordinal,
		}
		if rec.CompanionOf != nil {
			op.PrincipalID = *rec.CompanionOf
		}
		ops = append(ops, op)
	}
	return ops
}

// checkUndoable reports whether every operation in plan can be
// reversed given the current filesystem state: its final_path must
// still exist and its original_path must be free (or be itself, for a
// case-only rename on a case-insensitive filesystem).
func checkUndoable(engine *execution.Engine, plan []model.RenameOperation) (string, bool) {
	for _, op := range plan {
		if !engine.FS.Exists(op.SourcePath) {
			return fmt.Sprintf("%s no longer exists", op.SourcePath), false
		}
		if op.SourcePath != op.TargetPath && engine.FS.Exists(op.TargetPath) {
			if ci, err := engine.FS.IsCaseInsensitive(op.SourcePath); !op.CaseOnly || err != nil || !ci {
				return fmt.Sprintf("%s already exists", op.TargetPath), false
			}
		}
	}
	return "", true
}
