// Package execution implements C5: turning a computed preview into
// filesystem renames. Plan construction (plan.go) and per-directory
// cycle-breaking/ordering (graph.go) are pure; Engine.Execute is the
// only part of this package that touches the filesystem.
package execution

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"rebatch/internal/cache"
	"rebatch/internal/events"
	"rebatch/internal/fsutil"
	"rebatch/internal/logging"
	"rebatch/internal/model"
	"rebatch/internal/workerpool"
)

// Engine executes a plan built from a batch's preview rows.
type Engine struct {
	FS     fsutil.Filesystem
	Cache  *cache.Store
	Log    *logging.Logger
	Policy model.ConflictPolicy
	Atomic bool // full-batch LIFO reversal on first failure, per spec §4.5

	// Workers overrides the directory-level worker pool size. Zero means
	// workerpool.Size()'s min(2*NumCPU, 8) default, per spec §5.
	Workers int
}

// NewEngine builds an Engine with the given collaborators and conflict
// policy.
func NewEngine(fs fsutil.Filesystem, store *cache.Store, log *logging.Logger, policy model.ConflictPolicy, atomic bool) *Engine {
	return &Engine{FS: fs, Cache: store, Log: log, Policy: policy, Atomic: atomic}
}

// Execute builds the rename plan from descriptors/rows and runs it:
// sequential per directory, directories concurrent via a bounded
// worker pool, per spec §4.5/§5. Companion operations are skipped (not
// attempted) when their principal fails. In atomic mode, the first
// failure reverses every operation already completed across the whole
// batch, LIFO, before returning.
func (e *Engine) Execute(ctx context.Context, descriptors []*model.FileDescriptor, rows []model.PreviewRow, stream events.Stream) (*model.ExecutionReport, error) {
	ops, err := BuildPlan(descriptors, rows)
	if err != nil {
		return nil, err
	}
	return e.ExecutePlan(ctx, ops, stream)
}

// ExecutePlan runs an already-built flat operation list directly,
// bypassing BuildPlan. history.Undo uses this to run its inverse plan
// through the same tmp-hop/cycle-breaking/conflict-resolution
// machinery Execute uses for a forward batch. Every operation that runs
// publishes an ExecutionProgress event (done, total) to stream.
func (e *Engine) ExecutePlan(ctx context.Context, ops []model.RenameOperation, stream events.Stream) (*model.ExecutionReport, error) {
	if len(ops) == 0 {
		return &model.ExecutionReport{}, nil
	}

	groups := groupByDirectory(ops)
	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	plans := make([]dirPlan, len(dirs))
	for i, dir := range dirs {
		dirOps := make([]model.RenameOperation, len(groups[dir]))
		for j, idx := range groups[dir] {
			dirOps[j] = ops[idx]
		}
		plans[i] = dirPlan{dir: dir, nodes: elaborate(dirOps)}
	}

	var done int64
	reports := workerpool.Run(ctx, plans, e.Workers, func(ctx context.Context, p dirPlan) *model.ExecutionReport {
		return e.executeDirectory(ctx, p, func() {
			stream.TrySend(events.Event{Kind: events.ExecutionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: len(ops)})
		})
	})

	report := &model.ExecutionReport{}
	var failed bool
	for _, r := range reports {
		if r == nil {
			continue
		}
		report.Results = append(report.Results, r.Results...)
		report.Succeeded += r.Succeeded
		report.Skipped += r.Skipped
		report.Failed += r.Failed
		if r.Failed > 0 {
			failed = true
		}
	}

	if failed && e.Atomic {
		e.reverseLIFO(report)
	}

	return report, nil
}

type dirPlan struct {
	dir   string
	nodes []node
}

// executeDirectory runs every node in a directory's elaborated order,
// sequentially, since ops within one directory can depend on one
// another's source/target paths. Companion operations are skipped
// without attempting the rename if their principal did not succeed.
// tick is called once after each executed operation.
func (e *Engine) executeDirectory(ctx context.Context, p dirPlan, tick func()) *model.ExecutionReport {
	report := &model.ExecutionReport{}

	// principalSucceeded is keyed by the principal operation's original
	// plan index (RenameOperation.PrincipalID points there), since that
	// survives the per-directory reordering elaborate performs.
	principalSucceeded := make(map[int]bool)

	for _, n := range p.nodes {
		if err := ctx.Err(); err != nil {
			report.Add(model.OperationResult{
				Operation: n.op,
				Outcome:   model.OperationOutcome{Kind: model.OutcomeSkipped, Reason: "canceled"},
			})
			continue
		}

		if n.op.IsCompanion && !principalSucceeded[n.op.PrincipalID] {
			report.Add(model.OperationResult{
				Operation: n.op,
				Outcome:   model.OperationOutcome{Kind: model.OutcomeSkipped, Reason: "principal_failed"},
			})
			continue
		}

		result := e.executeOne(n)
		report.Add(result)
		if !n.op.IsCompanion {
			principalSucceeded[n.index] = result.Outcome.Kind == model.OutcomeSuccess
		}
		e.emitProgress(n.op, result)
		tick()
	}

	return report
}

func (e *Engine) emitProgress(op model.RenameOperation, result model.OperationResult) {
	if e.Log == nil {
		return
	}
	e.Log.Debug("executed rename",
		logging.String("source", op.SourcePath),
		logging.String("target", result.FinalPath),
		logging.String("outcome", string(result.Outcome.Kind)))
}

// executeOne resolves the conflict policy against the live filesystem
// and performs the rename, routing case-only (or cycle-breaking)
// operations through a tmp hop.
func (e *Engine) executeOne(n node) model.OperationResult {
	op := n.op
	target, outcome, ok := e.resolveTarget(op)
	if !ok {
		return model.OperationResult{Operation: op, Outcome: outcome, FinalPath: op.SourcePath}
	}

	if n.needsTmpHop {
		tmp := fsutil.UniqueTempName(e.FS, target)
		if err := e.FS.Rename(op.SourcePath, tmp); err != nil {
			return model.OperationResult{
				Operation: op,
				Outcome:   model.OperationOutcome{Kind: model.OutcomeFailed, Reason: err.Error()},
				FinalPath: op.SourcePath,
			}
		}
		if err := e.FS.Rename(tmp, target); err != nil {
			return model.OperationResult{
				Operation: op,
				Outcome:   model.OperationOutcome{Kind: model.OutcomeFailed, Reason: err.Error()},
				FinalPath: tmp,
			}
		}
	} else {
		if err := e.FS.Rename(op.SourcePath, target); err != nil {
			return model.OperationResult{
				Operation: op,
				Outcome:   model.OperationOutcome{Kind: model.OutcomeFailed, Reason: err.Error()},
				FinalPath: op.SourcePath,
			}
		}
	}

	if e.Cache != nil {
		e.Cache.Rekey(op.SourcePath, target)
	}

	result := model.OperationResult{
		Operation: op,
		Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess},
		FinalPath: target,
	}
	result.Outcome.Suffix = outcome.Suffix
	return result
}

// resolveTarget applies e.Policy against a target path that may
// already exist on disk outside the plan. ok is false when the
// operation should not proceed (abort/skip_row), in which case outcome
// carries the reason. A case-only target on a case-insensitive
// filesystem "exists" only as the source itself and is not a conflict.
func (e *Engine) resolveTarget(op model.RenameOperation) (string, model.OperationOutcome, bool) {
	if !e.FS.Exists(op.TargetPath) {
		return op.TargetPath, model.OperationOutcome{}, true
	}
	if op.CaseOnly {
		if ci, err := e.FS.IsCaseInsensitive(op.SourcePath); err == nil && ci {
			return op.TargetPath, model.OperationOutcome{}, true
		}
	}

	switch e.Policy {
	case model.ConflictOverwrite:
		return op.TargetPath, model.OperationOutcome{}, true
	case model.ConflictAutoSuffix:
		candidate, suffix := e.autoSuffix(op.TargetPath)
		return candidate, model.OperationOutcome{Suffix: suffix}, true
	case model.ConflictSkipRow:
		return "", model.OperationOutcome{Kind: model.OutcomeSkipped, Reason: "target_exists"}, false
	default: // abort
		return "", model.OperationOutcome{Kind: model.OutcomeFailed, Reason: "target_exists"}, false
	}
}

// autoSuffix appends "-n" before the extension until a free name is
// found, per spec §4.5's auto_suffix conflict policy, returning the
// chosen candidate path and the suffix string recorded on the
// operation's outcome.
func (e *Engine) autoSuffix(target string) (string, string) {
	dir := filepath.Dir(target)
	ext := filepath.Ext(target)
	base := strings.TrimSuffix(filepath.Base(target), ext)
	for n := 1; ; n++ {
		suffix := fmt.Sprintf("-%d", n)
		candidate := filepath.Join(dir, base+suffix+ext)
		if !e.FS.Exists(candidate) {
			return candidate, suffix
		}
	}
}

// reverseLIFO walks report.Results backwards and renames every
// successful operation back to its source, per spec §4.5's atomic
// mode. Companions are reversed before their principals by virtue of
// LIFO order (they execute after their principal, so they appear later
// in Results and are reversed first). It stops at the first reversal
// failure rather than continuing past it, leaving the remaining
// (earlier) operations unreversed and reporting a partial state.
func (e *Engine) reverseLIFO(report *model.ExecutionReport) {
	for i := len(report.Results) - 1; i >= 0; i-- {
		r := &report.Results[i]
		if r.Outcome.Kind != model.OutcomeSuccess {
			continue
		}
		if err := e.FS.Rename(r.FinalPath, r.Operation.SourcePath); err != nil {
			if e.Log != nil {
				e.Log.Warn("atomic reversal failed",
					logging.String("path", r.FinalPath),
					logging.Error(err))
			}
			r.Outcome = model.OperationOutcome{Kind: model.OutcomeFailed, Reason: "reversal_failed:" + err.Error()}
			return
		}
		if e.Cache != nil {
			e.Cache.Rekey(r.FinalPath, r.Operation.SourcePath)
		}
		r.Outcome = model.OperationOutcome{Kind: model.OutcomeSkipped, Reason: "reverted"}
		r.FinalPath = r.Operation.SourcePath
	}
}
