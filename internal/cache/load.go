package cache

import (
	"context"
	"os"
	"sync/atomic"

	"rebatch/internal/events"
	"rebatch/internal/logging"
	"rebatch/internal/model"
	"rebatch/internal/workerpool"
)

// LoadHashes computes and populates hash entries for every descriptor
// in descriptors whose cache entry is missing or stale, using a
// bounded worker pool. Progress ticks are published to stream as each
// file finishes; this is the hash-loading half of spec §6's "hash
// tier" contract, the C1 counterpart to the metadata extractor's
// fast/extended loading.
func (s *Store) LoadHashes(ctx context.Context, descriptors []*model.FileDescriptor, stream events.Stream) {
	total := len(descriptors)
	var done int64

	workerpool.Run(ctx, descriptors, workerpool.Size(), func(ctx context.Context, fd *model.FileDescriptor) struct{} {
		if ctx.Err() != nil {
			return struct{}{}
		}

		info, err := os.Stat(fd.AbsolutePath)
		if err != nil {
			fd.SetHashStatus(model.HashFailed)
			stream.TrySend(events.Event{Kind: events.ExtractionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: total, Err: err})
			return struct{}{}
		}
		size, modUnix := info.Size(), info.ModTime().Unix()

		if _, ok := s.GetHash(fd.AbsolutePath, size, modUnix); ok {
			fd.SetHashStatus(model.HashPresent)
			stream.TrySend(events.Event{Kind: events.ExtractionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: total})
			return struct{}{}
		}

		entry, err := ComputeHash(fd.AbsolutePath, s.algorithm, size, modUnix)
		if err != nil {
			fd.SetHashStatus(model.HashFailed)
			s.log.Warn("hash computation failed", logging.String("path", fd.AbsolutePath), logging.Error(err))
			stream.TrySend(events.Event{Kind: events.ExtractionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: total, Err: err})
			return struct{}{}
		}

		s.PutHash(fd.AbsolutePath, entry)
		fd.SetHashStatus(model.HashPresent)
		stream.TrySend(events.Event{Kind: events.ExtractionProgress, Done: int(atomic.AddInt64(&done, 1)), Total: total})
		return struct{}{}
	})
}
