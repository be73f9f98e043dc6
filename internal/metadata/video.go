package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// VideoExtractor shells out to ffprobe for container/stream tags.
// Grounded directly on
// whatsoevan-backupbozo/metadata/extractor.go's VideoExtractor
// (same -show_format -show_streams JSON parse, same date-field
// preference order), generalized to populate a field map and to honor
// ctx/Timeout so extraction can be canceled cooperatively.
type VideoExtractor struct {
	Timeout time.Duration
}

func (v *VideoExtractor) Name() string { return "video" }

func (v *VideoExtractor) extendedCapable() {}

func (v *VideoExtractor) CanHandle(extension string) bool {
	switch extension {
	case "mp4", "mov", "mkv", "webm", "avi":
		return true
	default:
		return false
	}
}

type ffprobeOutput struct {
	Format struct {
		Tags map[string]string `json:"tags"`
	} `json:"format"`
	Streams []struct {
		Tags map[string]string `json:"tags"`
	} `json:"streams"`
}

func (v *VideoExtractor) Extract(ctx context.Context, path string, mode Mode, fields map[string]string) (dateCandidate, error) {
	if v.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.Timeout)
		defer cancel()
	}

	args := []string{"-v", "quiet", "-print_format", "json", "-show_format"}
	if mode == Extended {
		args = append(args, "-show_streams")
	}
	args = append(args, path)

	out, err := runTool(ctx, "ffprobe", args...)
	if err != nil {
		return dateCandidate{}, fmt.Errorf("ffprobe: %w", err)
	}

	var data ffprobeOutput
	if err := json.Unmarshal(out, &data); err != nil {
		return dateCandidate{}, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	for k, val := range data.Format.Tags {
		fields["format."+k] = val
	}
	if mode == Extended {
		for i, stream := range data.Streams {
			for k, val := range stream.Tags {
				fields[fmt.Sprintf("stream%d.%s", i, k)] = val
			}
		}
	}

	dateFields := []struct {
		source string
		value  string
	}{
		{"creation_time", data.Format.Tags["creation_time"]},
		{"date", data.Format.Tags["date"]},
		{"com.apple.quicktime.creationdate", data.Format.Tags["com.apple.quicktime.creationdate"]},
	}
	if len(dateFields[0].value) == 0 {
		for _, stream := range data.Streams {
			if ct := stream.Tags["creation_time"]; ct != "" {
				dateFields = append(dateFields, struct {
					source string
					value  string
				}{"stream creation_time", ct})
				break
			}
		}
	}

	formats := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006:01:02 15:04:05"}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	for _, df := range dateFields {
		if df.value == "" {
			continue
		}
		for _, format := range formats {
			if d, err := time.Parse(format, df.value); err == nil {
				confidence := ConfidenceHigh
				if ext == "avi" || ext == "webm" {
					confidence = ConfidenceMedium
				}
				return dateCandidate{date: d, confidence: confidence, source: "video " + df.source}, nil
			}
		}
	}

	return dateCandidate{}, nil
}
