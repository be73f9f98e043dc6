// Package preview implements C4: composing naming-module fragments
// into a proposed name per descriptor and diagnosing the result
// (unchanged/valid/invalid/duplicate_of) against the rest of the batch
// and the filesystem.
package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"

	"rebatch/internal/cache"
	"rebatch/internal/fsutil"
	"rebatch/internal/model"
	"rebatch/internal/naming"
)

// Engine computes previews for a batch against a pipeline. It holds no
// per-call state; ComputePreview is a pure function of its arguments
// plus whatever the cache currently contains, matching spec §4.4.
type Engine struct {
	Cache    *cache.Store
	FS       fsutil.Filesystem
	Platform fsutil.Platform
}

// NewEngine builds an Engine over the given cache, filesystem
// collaborator, and target platform.
func NewEngine(store *cache.Store, fs fsutil.Filesystem, platform fsutil.Platform) *Engine {
	return &Engine{Cache: store, FS: fs, Platform: platform}
}

// ComputePreview composes and diagnoses a PreviewRow for every
// descriptor in descriptors, in order, per spec §4.4.
func (e *Engine) ComputePreview(descriptors []*model.FileDescriptor, pipeline model.Pipeline) ([]model.PreviewRow, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	insensitive := false
	if len(descriptors) > 0 {
		if ok, err := e.FS.IsCaseInsensitive(descriptors[0].Dir()); err == nil {
			insensitive = ok
		}
	}

	scopes := naming.BuildScopeIndex(descriptors)
	modules := make([]naming.Module, 0, len(pipeline.Modules))
	kinds := make([]model.ModuleKind, 0, len(pipeline.Modules))
	for _, cfg := range pipeline.Modules {
		modules = append(modules, naming.BuildModule(cfg))
		kinds = append(kinds, cfg.Kind())
	}
	transform := &naming.Transform{Config: pipeline.Transform}

	rows := make([]model.PreviewRow, len(descriptors))
	for i, fd := range descriptors {
		rows[i] = e.composeRow(fd, i, modules, kinds, transform, scopes)
	}

	e.diagnoseDuplicates(descriptors, rows, insensitive)
	return rows, nil
}

// composeRow runs every module's Fragment in order, concatenating
// fragments except for RemoveText, whose result replaces the
// accumulated name (spec §4.3: "reads the current accumulated name...
// and removes"), applies the terminal Transform, and returns the
// unchanged/valid/invalid diagnosis (duplicate detection is a
// separate batch-wide pass).
func (e *Engine) composeRow(fd *model.FileDescriptor, index int, modules []naming.Module, kinds []model.ModuleKind, transform *naming.Transform, scopes *naming.ScopeIndex) model.PreviewRow {
	accumulated := ""

	for i, m := range modules {
		ctx := naming.FragmentContext{
			Descriptor:  fd,
			BatchIndex:  index,
			Accumulated: accumulated,
			Cache:       e.Cache,
			Scopes:      scopes,
		}
		fragment, diag := m.Fragment(ctx)
		if diag != nil {
			return model.PreviewRow{
				SourcePath:        fd.AbsolutePath,
				ProposedBaseName:  accumulated,
				ProposedExtension: fd.Extension,
				Diagnosis:         *diag,
			}
		}

		if kinds[i] == model.KindRemoveText {
			accumulated = fragment
		} else {
			accumulated += fragment
		}
	}

	proposed := transform.Apply(accumulated)

	reason := fsutil.ValidateName(proposed, e.Platform)
	if full := (model.PreviewRow{ProposedBaseName: proposed, ProposedExtension: fd.Extension}).ProposedName(); reason == "" && len(full) > fsutil.MaxNameBytes {
		reason = "length"
	}
	if reason != "" {
		return model.PreviewRow{
			SourcePath:        fd.AbsolutePath,
			ProposedBaseName:  proposed,
			ProposedExtension: fd.Extension,
			Diagnosis:         model.Invalid(reason),
		}
	}

	// Unchanged requires an exact (case-sensitive) match: a pure case
	// change on a case-insensitive filesystem is still a rename, per
	// spec §4.4.
	diag := model.Valid()
	if proposed == fd.BaseName {
		diag = model.Unchanged()
	}

	return model.PreviewRow{
		SourcePath:        fd.AbsolutePath,
		ProposedBaseName:  proposed,
		ProposedExtension: fd.Extension,
		Diagnosis:         diag,
	}
}

// diagnoseDuplicates overwrites the diagnosis of every valid row that
// collides with another row's target in the same parent directory, or
// with a file already on disk outside the batch. A collision between
// batch rows is symmetric: every member of a colliding group is marked
// duplicate_of, not just the later claimants, per spec §8 property 4.
// Comparison is case-insensitive when insensitive is true, per
// spec §4.4.
func (e *Engine) diagnoseDuplicates(descriptors []*model.FileDescriptor, rows []model.PreviewRow, insensitive bool) {
	type key struct{ dir, name string }
	groups := make(map[key][]int)

	for i, fd := range descriptors {
		if rows[i].Diagnosis.Kind != model.DiagValid {
			continue
		}
		k := key{dir: fd.Dir(), name: fsutil.NormalizeForLookup(rows[i].ProposedName(), insensitive)}
		groups[k] = append(groups[k], i)
	}

	for _, indices := range groups {
		if len(indices) > 1 {
			for pos, idx := range indices {
				other := indices[0]
				if pos == 0 {
					other = indices[1]
				}
				rows[idx].Diagnosis = model.DuplicateOf(descriptors[other].AbsolutePath)
			}
			continue
		}

		idx := indices[0]
		fd := descriptors[idx]
		target := fsutil.NormalizeForLookup(rows[idx].ProposedName(), insensitive)
		if e.conflictsOnDisk(fd, target, insensitive) {
			rows[idx].Diagnosis = model.DuplicateOf(model.ExistingFileSentinel)
		}
	}
}

// conflictsOnDisk reports whether the proposed target already exists
// on disk as a different file than fd itself (a pure case-only rename
// is not a conflict with itself). normalizedTarget is the proposed
// name already passed through NormalizeForLookup; since that's only an
// identity transform when insensitive is false, it is safe to rejoin
// into a path either way.
func (e *Engine) conflictsOnDisk(fd *model.FileDescriptor, normalizedTarget string, insensitive bool) bool {
	targetPath := filepath.Join(fd.Dir(), normalizedTarget)
	if fsutil.NormalizeForLookup(fd.AbsolutePath, insensitive) == fsutil.NormalizeForLookup(targetPath, insensitive) {
		return false
	}
	return e.FS.Exists(targetPath)
}

// Fingerprint returns a SHA-256 over the sorted descriptor paths and
// the pipeline. Cache contents (metadata and hash entries) and the
// order of descriptors are not part of it. Callers may use
// this to memoize previously computed rows, per spec §4.4's debouncing
// contract; the engine itself never consults or stores it.
func Fingerprint(descriptors []*model.FileDescriptor, pipeline model.Pipeline) string {
	h := sha256.New()
	paths := make([]string, len(descriptors))
	for i, fd := range descriptors {
		paths[i] = fd.AbsolutePath
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintln(h, p)
	}
	fmt.Fprintf(h, "transform:%+v\n", pipeline.Transform)
	for _, m := range pipeline.Modules {
		fmt.Fprintf(h, "module:%s:%+v\n", m.Kind(), m)
	}
	return hex.EncodeToString(h.Sum(nil))
}
