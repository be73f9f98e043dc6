package history

import (
	"context"
	"testing"
	"time"

	"rebatch/internal/execution"
	"rebatch/internal/logging"
	"rebatch/internal/model"
)

type fakeFS struct {
	files map[string]bool
}

func newFakeFS(paths ...string) *fakeFS {
	m := make(map[string]bool, len(paths))
	for _, p := range paths {
		m[p] = true
	}
	return &fakeFS{files: m}
}

func (f *fakeFS) Rename(src, dst string) error {
	if !f.files[src] {
		return errNotFound(src)
	}
	delete(f.files, src)
	f.files[dst] = true
	return nil
}
func (f *fakeFS) Exists(path string) bool                     { return f.files[path] }
func (f *fakeFS) IsCaseInsensitive(path string) (bool, error) { return false, nil }

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func reportWithCompanion() model.ExecutionReport {
	var report model.ExecutionReport
	report.Add(model.OperationResult{
		Operation: model.RenameOperation{SourcePath: "/a/one.jpg", TargetPath: "/a/two.jpg", PlanIndex: 0, PrincipalID: -1},
		Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess},
		FinalPath: "/a/two.jpg",
	})
	report.Add(model.OperationResult{
		Operation: model.RenameOperation{SourcePath: "/a/one.srt", TargetPath: "/a/two.srt", PlanIndex: 1, PrincipalID: 0, IsCompanion: true},
		Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess},
		FinalPath: "/a/two.srt",
	})
	return report
}

func TestMockStoreRecordAndRetrieveBatch(t *testing.T) {
	store := NewMockStore()
	report := reportWithCompanion()

	id, err := store.RecordBatch(context.Background(), model.Batch{Timestamp: time.Now()}, report)
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated batch ID")
	}

	records, err := store.ListOperations(context.Background(), id)
	if err != nil {
		t.Fatalf("ListOperations: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(records))
	}
	if records[1].CompanionOf == nil || *records[1].CompanionOf != 0 {
		t.Errorf("expected companion's CompanionOf to point at ordinal 0, got %+v", records[1].CompanionOf)
	}
}

func TestMockStoreGetBatchNotFound(t *testing.T) {
	store := NewMockStore()
	if _, err := store.GetBatch(context.Background(), "nope"); err == nil {
		t.Error("expected ErrBatchNotFound for an unknown batch")
	}
}

func TestMockStorePruneKeepsRecent(t *testing.T) {
	store := NewMockStore()
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now()

	oldID, _ := store.RecordBatch(context.Background(), model.Batch{Timestamp: old}, model.ExecutionReport{})
	recentID, _ := store.RecordBatch(context.Background(), model.Batch{Timestamp: recent}, model.ExecutionReport{})

	deleted, err := store.Prune(context.Background(), time.Now().Add(-24*time.Hour), 1)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion, got %d", deleted)
	}
	if _, err := store.GetBatch(context.Background(), oldID); err == nil {
		t.Error("expected the old batch to be pruned")
	}
	if _, err := store.GetBatch(context.Background(), recentID); err != nil {
		t.Error("expected the recent batch to survive pruning")
	}
}

func TestUndoReversesSuccessfulOperations(t *testing.T) {
	fs := newFakeFS("/a/two.jpg")
	engine := execution.NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, false)
	store := NewMockStore()

	var report model.ExecutionReport
	report.Add(model.OperationResult{
		Operation: model.RenameOperation{SourcePath: "/a/one.jpg", TargetPath: "/a/two.jpg", PlanIndex: 0, PrincipalID: -1},
		Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess},
		FinalPath: "/a/two.jpg",
	})
	id, err := store.RecordBatch(context.Background(), model.Batch{Timestamp: time.Now()}, report)
	if err != nil {
		t.Fatalf("RecordBatch: %v", err)
	}

	undoReport, err := Undo(context.Background(), store, engine, id, UndoOptions{})
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if undoReport.Failed != 0 {
		t.Fatalf("expected undo to succeed, got %+v", undoReport)
	}
	if !fs.Exists("/a/one.jpg") || fs.Exists("/a/two.jpg") {
		t.Errorf("expected the rename reversed, have %+v", fs.files)
	}

	batch, err := store.GetBatch(context.Background(), id)
	if err != nil {
		t.Fatalf("GetBatch: %v", err)
	}
	if batch.Status != model.BatchUndone {
		t.Errorf("expected batch status undone, got %s", batch.Status)
	}
}

func TestUndoStrictRefusesWhenTargetOccupied(t *testing.T) {
	fs := newFakeFS("/a/two.jpg", "/a/one.jpg")
	engine := execution.NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, false)
	store := NewMockStore()

	var report model.ExecutionReport
	report.Add(model.OperationResult{
		Operation: model.RenameOperation{SourcePath: "/a/one.jpg", TargetPath: "/a/two.jpg", PlanIndex: 0, PrincipalID: -1},
		Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess},
		FinalPath: "/a/two.jpg",
	})
	id, _ := store.RecordBatch(context.Background(), model.Batch{Timestamp: time.Now()}, report)

	if _, err := Undo(context.Background(), store, engine, id, UndoOptions{Strict: true}); err == nil {
		t.Error("expected strict undo to refuse when the original path is already occupied")
	}
}
