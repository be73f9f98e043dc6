package metadata

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIFExtractor decodes JPEG/HEIC EXIF in-process via goexif — the
// fast-mode path, lifted directly from
// whatsoevan-backupbozo/metadata/extractor.go's EXIFExtractor, widened
// to populate a full field map rather than returning a single date.
type EXIFExtractor struct{}

func (e *EXIFExtractor) Name() string { return "exif" }

func (e *EXIFExtractor) CanHandle(extension string) bool {
	switch extension {
	case "jpg", "jpeg", "heic", "heif":
		return true
	default:
		return false
	}
}

func (e *EXIFExtractor) Extract(ctx context.Context, path string, mode Mode, fields map[string]string) (dateCandidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return dateCandidate{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return dateCandidate{}, fmt.Errorf("decoding EXIF: %w", err)
	}

	for _, name := range []exif.FieldName{exif.Make, exif.Model, exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		if tag, err := x.Get(name); err == nil {
			if s, err := tag.StringVal(); err == nil {
				fields[string(name)] = s
			}
		}
	}

	dateFields := []struct {
		field  exif.FieldName
		source string
	}{
		{exif.DateTimeOriginal, "exif DateTimeOriginal"},
		{exif.DateTimeDigitized, "exif DateTimeDigitized"},
		{exif.DateTime, "exif DateTime"},
	}
	for _, df := range dateFields {
		if tag, err := x.Get(df.field); err == nil {
			if s, err := tag.StringVal(); err == nil {
				if d, err := time.Parse("2006:01:02 15:04:05", s); err == nil {
					return dateCandidate{date: d, confidence: ConfidenceHigh, source: df.source}, nil
				}
			}
		}
	}
	if dt, err := x.DateTime(); err == nil {
		return dateCandidate{date: dt, confidence: ConfidenceHigh, source: "exif DateTime (legacy)"}, nil
	}

	return dateCandidate{}, nil
}
