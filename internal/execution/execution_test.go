package execution

import (
	"context"
	"testing"
	"time"

	"rebatch/internal/logging"
	"rebatch/internal/model"
)

// fakeFS is an in-memory rename-capable fsutil.Filesystem double.
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

func (f *fakeFS) Exists(path string) bool { return f.files[path] }

func (f *fakeFS) IsCaseInsensitive(path string) (bool, error) { return false, nil }

type errNotFound string

func (e errNotFound) Error() string { return "not found: " + string(e) }

func descriptor(path string) *model.FileDescriptor {
	return model.NewFileDescriptor(path, time.Now(), 10, true)
}

func row(path, newBase, ext string) model.PreviewRow {
	return model.PreviewRow{
		SourcePath:        path,
		ProposedBaseName:  newBase,
		ProposedExtension: ext,
		Diagnosis:         model.Valid(),
	}
}

func TestBuildPlanSkipsUnchangedRows(t *testing.T) {
	descriptors := []*model.FileDescriptor{descriptor("/a/one.jpg")}
	rows := []model.PreviewRow{{
		SourcePath:        "/a/one.jpg",
		ProposedBaseName:  "one",
		ProposedExtension: "jpg",
		Diagnosis:         model.Unchanged(),
	}}

	ops, err := BuildPlan(descriptors, rows)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(ops) != 0 {
		t.Errorf("expected no operations for an unchanged row, got %d", len(ops))
	}
}

func TestBuildPlanRejectsBlockingRows(t *testing.T) {
	descriptors := []*model.FileDescriptor{descriptor("/a/one.jpg")}
	rows := []model.PreviewRow{{
		SourcePath: "/a/one.jpg",
		Diagnosis:  model.Invalid("illegal_char:?"),
	}}

	if _, err := BuildPlan(descriptors, rows); err == nil {
		t.Error("expected BuildPlan to reject an invalid row")
	}
}

func TestExecuteSimpleRename(t *testing.T) {
	fs := newFakeFS("/a/one.jpg")
	e := NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, false)

	descriptors := []*model.FileDescriptor{descriptor("/a/one.jpg")}
	rows := []model.PreviewRow{row("/a/one.jpg", "two", "jpg")}

	report, err := e.Execute(context.Background(), descriptors, rows, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Succeeded != 1 || report.Failed != 0 {
		t.Fatalf("expected 1 success, got %+v", report)
	}
	if fs.Exists("/a/one.jpg") || !fs.Exists("/a/two.jpg") {
		t.Error("expected /a/one.jpg renamed to /a/two.jpg")
	}
}

func TestExecuteSwapCycleUsesTmpHop(t *testing.T) {
	fs := newFakeFS("/a/foo.txt", "/a/bar.txt")
	e := NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, false)

	descriptors := []*model.FileDescriptor{
		descriptor("/a/foo.txt"),
		descriptor("/a/bar.txt"),
	}
	rows := []model.PreviewRow{
		row("/a/foo.txt", "bar", "txt"),
		row("/a/bar.txt", "foo", "txt"),
	}

	report, err := e.Execute(context.Background(), descriptors, rows, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Failed != 0 {
		t.Fatalf("expected no failures in a swap, got %+v", report)
	}
	if !fs.Exists("/a/foo.txt") || !fs.Exists("/a/bar.txt") {
		t.Errorf("expected both final names to exist after the swap, have %+v", fs.files)
	}
}

func TestExecuteSkipsCompanionWhenPrincipalFails(t *testing.T) {
	// missing.jpg does not exist on the fake filesystem, so the
	// principal's rename fails; its companion missing.srt does exist and
	// must be skipped without being renamed. The plan is built by hand
	// and run through ExecutePlan.
	fs := newFakeFS("/a/missing.srt")
	e := NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, false)

	ops := []model.RenameOperation{
		{SourcePath: "/a/missing.jpg", TargetPath: "/a/renamed.jpg", PrincipalID: -1, PlanIndex: 0},
		{SourcePath: "/a/missing.srt", TargetPath: "/a/renamed.srt", IsCompanion: true, PrincipalID: 0, PlanIndex: 1},
	}

	report, err := e.ExecutePlan(context.Background(), ops, nil)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failure for a missing source, got %+v", report)
	}
	if report.Skipped != 1 {
		t.Errorf("expected the companion to be skipped, got %+v", report)
	}
	if !fs.Exists("/a/missing.srt") || fs.Exists("/a/renamed.srt") {
		t.Errorf("expected the companion left in place, have %+v", fs.files)
	}
}

func TestExecuteConflictPolicyAutoSuffix(t *testing.T) {
	fs := newFakeFS("/a/one.jpg", "/a/two.jpg")
	e := NewEngine(fs, nil, logging.Nop(), model.ConflictAutoSuffix, false)

	descriptors := []*model.FileDescriptor{descriptor("/a/one.jpg")}
	rows := []model.PreviewRow{row("/a/one.jpg", "two", "jpg")}

	report, err := e.Execute(context.Background(), descriptors, rows, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("expected 1 success with auto_suffix, got %+v", report)
	}
	if !fs.Exists("/a/two-1.jpg") {
		t.Errorf("expected auto-suffixed target, have %+v", fs.files)
	}
	if report.Results[0].Outcome.Suffix != "-1" {
		t.Errorf("expected recorded suffix -1, got %q", report.Results[0].Outcome.Suffix)
	}
}

func TestExecuteAtomicReversesOnFailure(t *testing.T) {
	fs := newFakeFS("/a/one.jpg", "/a/two.jpg")
	e := NewEngine(fs, nil, logging.Nop(), model.ConflictAbort, true)

	descriptors := []*model.FileDescriptor{
		descriptor("/a/one.jpg"),
		descriptor("/a/missing.jpg"),
	}
	rows := []model.PreviewRow{
		row("/a/one.jpg", "renamed", "jpg"),
		row("/a/missing.jpg", "also-renamed", "jpg"),
	}

	report, err := e.Execute(context.Background(), descriptors, rows, nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failure, got %+v", report)
	}
	if !fs.Exists("/a/one.jpg") {
		t.Error("expected the successful rename to be reverted after atomic failure")
	}
	if fs.Exists("/a/renamed.jpg") {
		t.Error("expected the reverted target to no longer exist")
	}
}
