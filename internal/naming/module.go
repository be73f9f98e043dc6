// Package naming implements the C3 name-fragment modules: pure
// functions from a descriptor plus pipeline position to a name
// fragment, composed by C4 into a proposed name.
//
// Grounded in spirit on whatsoevan-backupbozo/metadata/extractor.go's
// ordered-table dispatch idiom (a fixed, explicit list of handlers
// tried in order), here applied to composing name fragments instead of
// picking a winning date.
package naming

import (
	"rebatch/internal/cache"
	"rebatch/internal/model"
)

// Module is the shared interface every naming module implements.
// Fragment returns the text this module contributes and, if the module
// determines the row can't be completed, a non-nil diagnosis (e.g. a
// missing metadata field, or an invalid regex) that the caller should
// surface instead of using the fragment text.
type Module interface {
	Fragment(ctx FragmentContext) (string, *model.Diagnosis)
}

// FragmentContext carries everything a module needs beyond its own
// config: the descriptor being named, its position in the batch, the
// name accumulated by earlier modules in the pipeline, and the shared
// scope index for counters.
type FragmentContext struct {
	Descriptor  *model.FileDescriptor
	BatchIndex  int
	Accumulated string
	Cache       *cache.Store
	Scopes      *ScopeIndex
}

// ScopeIndex precomputes each descriptor's position within every
// counter scope once per compute_preview call, rather than
// recomputing it per file — the Go analogue of the teacher's
// "cache expensive operations once" discipline
// (FileCandidate.EnsureDate/EnsureDestPath in files.go).
type ScopeIndex struct {
	global       map[string]int
	perFolder    map[string]int
	perExtension map[string]int
}

// BuildScopeIndex computes global/per_folder/per_extension positions
// for every descriptor in descriptors, in the given (batch) order.
func BuildScopeIndex(descriptors []*model.FileDescriptor) *ScopeIndex {
	idx := &ScopeIndex{
		global:       make(map[string]int, len(descriptors)),
		perFolder:    make(map[string]int, len(descriptors)),
		perExtension: make(map[string]int, len(descriptors)),
	}

	folderCounts := make(map[string]int)
	extCounts := make(map[string]int)

	for i, fd := range descriptors {
		idx.global[fd.AbsolutePath] = i

		folder := fd.Dir()
		idx.perFolder[fd.AbsolutePath] = folderCounts[folder]
		folderCounts[folder]++

		idx.perExtension[fd.AbsolutePath] = extCounts[fd.Extension]
		extCounts[fd.Extension]++
	}

	return idx
}

// IndexFor returns fd's position within the given scope.
func (idx *ScopeIndex) IndexFor(scope model.CounterScope, fd *model.FileDescriptor) int {
	switch scope {
	case model.ScopePerFolder:
		return idx.perFolder[fd.AbsolutePath]
	case model.ScopePerExtension:
		return idx.perExtension[fd.AbsolutePath]
	default:
		return idx.global[fd.AbsolutePath]
	}
}

// BuildModule constructs the Module implementation for a ModuleConfig.
// Callers (C4) use this to turn a Pipeline's Modules into a runnable
// chain once per preview computation.
func BuildModule(cfg model.ModuleConfig) Module {
	switch c := cfg.(type) {
	case model.CounterConfig:
		return &Counter{Config: c}
	case model.MetadataConfig:
		return &MetadataFragment{Config: c}
	case model.LiteralTextConfig:
		return &LiteralText{Config: c}
	case model.OriginalNameConfig:
		return &OriginalName{Config: c}
	case model.RemoveTextConfig:
		return &RemoveText{Config: c}
	default:
		return nil
	}
}
