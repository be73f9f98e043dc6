package metadata

import (
	"context"
	"sync/atomic"

	"rebatch/internal/cache"
	"rebatch/internal/events"
	"rebatch/internal/logging"
	"rebatch/internal/model"
	"rebatch/internal/workerpool"
)

// Loader drives extraction for a batch of descriptors through a
// bounded worker pool, populating store and each descriptor's
// MetadataStatus as it goes. This is `metadata.load(paths, mode,
// cancellation_token)` from spec §9's exposed interface.
//
// Grounded on whatsoevan-backupbozo/files.go's
// evaluateFilesForPlanningParallel, generalized from file-plan
// evaluation to metadata extraction, via internal/workerpool so the
// same fan-out implementation backs C1's hash loading and C2's
// metadata loading.
type Loader struct {
	registry *Registry
	store    *cache.Store
	log      *logging.Logger
}

// NewLoader builds a Loader over store, using the standard extractor
// chain from NewRegistry.
func NewLoader(store *cache.Store, log *logging.Logger) *Loader {
	if log == nil {
		log = logging.Nop()
	}
	return &Loader{registry: NewRegistry(), store: store, log: log}
}

// Load extracts metadata for every descriptor not already satisfied at
// mode or better in store, merges companion-file fields into each
// principal's entry, and populates store and the descriptor's status.
// ctx is checked between files; it also reaches the subprocess
// extractors through exec.CommandContext, so canceling it kills a
// running exiftool/ffprobe call.
func (l *Loader) Load(ctx context.Context, descriptors []*model.FileDescriptor, mode Mode, stream events.Stream) {
	total := len(descriptors)
	var done int64

	workerpool.Run(ctx, descriptors, workerpool.Size(), func(ctx context.Context, fd *model.FileDescriptor) struct{} {
		defer func() {
			stream.TrySend(events.Event{Kind: events.ExtractionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: total})
		}()

		if ctx.Err() != nil {
			return struct{}{}
		}

		if existing, ok := l.store.GetMetadata(fd.AbsolutePath); ok {
			if existing.IsExtended || mode == Fast {
				fd.SetMetadataStatus(statusFor(existing))
				return struct{}{}
			}
		}

		entry, err := l.registry.Extract(ctx, fd.AbsolutePath, mode)
		if err != nil {
			fd.SetMetadataStatus(model.MetadataFailed)
			l.log.Warn("metadata extraction failed", logging.String("path", fd.AbsolutePath), logging.Error(err))
			return struct{}{}
		}

		companions, err := DiscoverCompanions(fd.AbsolutePath)
		if err != nil {
			l.log.Debug("companion discovery failed", logging.String("path", fd.AbsolutePath), logging.Error(err))
		}
		for _, companion := range companions {
			if err := MergeCompanion(&entry, companion); err != nil {
				l.log.Debug("companion merge failed", logging.String("companion", companion.Path), logging.Error(err))
			}
		}

		l.store.PutMetadata(fd.AbsolutePath, entry)
		fd.SetMetadataStatus(statusFor(entry))
		return struct{}{}
	})
}

func statusFor(entry model.MetadataEntry) model.MetadataStatus {
	if entry.IsExtended {
		return model.MetadataExtended
	}
	return model.MetadataFast
}
