// Package metadata implements the C2 metadata extractor: fast
// in-process decoding, an extended subprocess pass, companion-file
// discovery/merge, and device-aware downgrade, feeding the two-tier
// cache in internal/cache.
//
// Grounded directly on whatsoevan-backupbozo/metadata/extractor.go's
// MetadataExtractor interface and ExtractorRegistry, generalized from
// "best single date" to "full field map", with Extract now returning
// every field an extractor can read rather than one winning date.
package metadata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"rebatch/internal/model"
)

// Mode selects how thorough extraction should be. Fast skips exiftool
// but still runs ffprobe (format tags only) for video; Extended
// additionally invokes exiftool and ffprobe's stream tags for
// embedded/telemetry fields GPS/per-sample camera settings.
type Mode int

const (
	Fast Mode = iota
	Extended
)

// Confidence ranks how trustworthy a candidate date is, used to pick
// the "date" field among several raw sources — the same ranking
// whatsoevan-backupbozo's Confidence type encodes, kept under the same
// names.
type Confidence int

const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// dateCandidate is an intermediate result, never stored directly —
// Extractor.Extract folds candidates into the field map with raw keys
// plus the registry folds the winning one into "date"/"date.source".
type dateCandidate struct {
	date       time.Time
	confidence Confidence
	source     string
}

// Extractor extracts whatever fields it can from path and writes them
// under raw keys into fields; the registry then prefixes each key with
// the extractor's Name(). It returns the best date
// candidate it found, if any, so the registry can pick a winner across
// extractors without re-deriving confidence from raw keys.
type Extractor interface {
	// CanHandle reports whether this extractor applies to a
	// lower-cased, dot-stripped extension.
	CanHandle(extension string) bool

	// Extract populates fields with raw keys (the caller namespaces them
	// with this extractor's Name()) and returns a date candidate, if any.
	// ctx governs subprocess extractors only; in-process extractors
	// ignore it.
	Extract(ctx context.Context, path string, mode Mode, fields map[string]string) (dateCandidate, error)

	// Name identifies this extractor for field namespacing and logs.
	Name() string
}

// Registry dispatches to every extractor that can handle a file's
// extension and folds their output into one model.MetadataEntry.
type Registry struct {
	extractors []Extractor
	probe      *DeviceProbe
}

// NewRegistry builds the standard extractor chain: EXIF (fast,
// in-process), exiftool (extended, subprocess — richer EXIF/GPS),
// video via ffprobe, and a filesystem-mtime fallback that always
// applies. Order matters only for which raw namespace keys appear
// first in logs; every applicable extractor always runs.
func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			&EXIFExtractor{},
			&ExifToolExtractor{Timeout: 30 * time.Second},
			&VideoExtractor{Timeout: 30 * time.Second},
			&FilesystemExtractor{},
		},
		probe: NewDeviceProbe(),
	}
}

// Extract runs every applicable extractor against path in the given
// mode, merges their fields into one MetadataEntry (is_extended set
// when mode is Extended and at least one extended-capable extractor
// actually ran), and folds the best date candidate into "date" /
// "date.source" / "date.confidence".
//
// Device-aware downgrade: once a Make/Model probe from a prior fast
// pass identifies a device known not to expose extended fields (per
// DeviceProbe.SkipsExtended), mode is silently lowered to Fast for
// this call — an optimization only, per spec: correctness never
// depends on this path being taken.
func (r *Registry) Extract(ctx context.Context, path string, mode Mode) (model.MetadataEntry, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	effectiveMode := mode
	if mode == Extended && r.probe.SkipsExtended(path) {
		effectiveMode = Fast
	}

	fields := make(map[string]string)
	var best dateCandidate
	ranExtended := false
	var firstErr error

	for _, ex := range r.extractors {
		if !ex.CanHandle(ext) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		ns := make(map[string]string)
		candidate, err := ex.Extract(ctx, path, effectiveMode, ns)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", ex.Name(), err)
			}
			continue
		}
		for k, v := range ns {
			fields[ex.Name()+":"+k] = v
		}
		if effectiveMode == Extended && isExtendedCapable(ex) {
			ranExtended = true
		}
		if candidate.confidence > best.confidence {
			best = candidate
		}

		r.probe.Observe(path, fields)
	}

	if best.confidence > ConfidenceNone {
		fields["date"] = best.date.Format(time.RFC3339)
		fields["date.source"] = best.source
		fields["date.confidence"] = confidenceName(best.confidence)
	}

	if len(fields) == 0 && firstErr != nil {
		return model.MetadataEntry{}, model.Permanent(firstErr)
	}

	return model.MetadataEntry{Fields: fields, IsExtended: ranExtended}, nil
}

func isExtendedCapable(ex Extractor) bool {
	_, ok := ex.(extendedCapable)
	return ok
}

// extendedCapable marks extractors whose behavior actually changes
// between Fast and Extended (as opposed to FilesystemExtractor, which
// always does the same thing regardless of mode).
type extendedCapable interface {
	extendedCapable()
}

func confidenceName(c Confidence) string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "none"
	}
}
