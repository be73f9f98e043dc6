package naming

import (
	"time"

	"rebatch/internal/model"
)

// MetadataFragment looks up Config.FieldKey in the cache for the
// current descriptor. A missing field either falls back to
// Config.Fallback.FallbackText or invalidates the row, per spec §4.3.
// Date-valued fields (those with a non-empty DateFormat) are
// reformatted from the cache's RFC3339 representation.
type MetadataFragment struct {
	Config model.MetadataConfig
}

func (m *MetadataFragment) Fragment(ctx FragmentContext) (string, *model.Diagnosis) {
	entry, ok := ctx.Cache.GetMetadata(ctx.Descriptor.AbsolutePath)
	value, found := "", false
	if ok {
		value, found = entry.Get(m.Config.FieldKey)
	}

	if !found || value == "" {
		if m.Config.Fallback.UseFallback {
			return m.Config.Fallback.FallbackText, nil
		}
		d := model.InvalidMissingField(m.Config.FieldKey)
		return "", &d
	}

	if m.Config.DateFormat != "" {
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t.Format(m.Config.DateFormat), nil
		}
		// Value wasn't RFC3339 (a raw extractor field, not the
		// computed "date" field) — pass it through unformatted rather
		// than invalidating the row over a formatting mismatch.
	}

	return value, nil
}
