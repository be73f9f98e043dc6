package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ExifToolExtractor shells out to exiftool for the embedded/telemetry
// fields fast-mode EXIF decoding can't reach (GPS, per-sample camera
// settings, maker notes) — the extended-mode pass spec §4.2 calls for.
// It only runs in Extended mode; Fast mode is a no-op so the registry
// never pays the subprocess cost unless extended data was requested.
//
// Grounded on whatsoevan-backupbozo/metadata/extractor.go's
// VideoExtractor subprocess/JSON-parse shape, retargeted from ffprobe
// to exiftool's own `-j` JSON output mode.
type ExifToolExtractor struct {
	Timeout time.Duration
}

func (e *ExifToolExtractor) Name() string { return "exiftool" }

func (e *ExifToolExtractor) extendedCapable() {}

func (e *ExifToolExtractor) CanHandle(extension string) bool {
	switch extension {
	case "jpg", "jpeg", "heic", "heif", "tiff", "png", "raw", "cr2", "nef", "arw":
		return true
	default:
		return false
	}
}

func (e *ExifToolExtractor) Extract(ctx context.Context, path string, mode Mode, fields map[string]string) (dateCandidate, error) {
	if mode != Extended {
		return dateCandidate{}, nil
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	out, err := runTool(ctx, "exiftool", "-j", "-G", path)
	if err != nil {
		return dateCandidate{}, fmt.Errorf("exiftool: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(out, &rows); err != nil || len(rows) == 0 {
		return dateCandidate{}, fmt.Errorf("parsing exiftool output: %w", err)
	}

	for k, v := range rows[0] {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}

	for _, key := range []string{"EXIF:GPSDateStamp", "GPS:GPSDateStamp", "EXIF:DateTimeOriginal"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		for _, format := range []string{"2006:01:02 15:04:05", "2006:01:02"} {
			if d, err := time.Parse(format, raw); err == nil {
				return dateCandidate{date: d, confidence: ConfidenceHigh, source: "exiftool " + key}, nil
			}
		}
	}

	return dateCandidate{}, nil
}
