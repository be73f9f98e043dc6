package naming

import "rebatch/internal/model"

// OriginalName returns the descriptor's current base name, optionally
// transliterated Greek-to-Latin when Config.Greeklish is set, per spec
// §4.3.
type OriginalName struct {
	Config model.OriginalNameConfig
}

func (o *OriginalName) Fragment(ctx FragmentContext) (string, *model.Diagnosis) {
	name := ctx.Descriptor.BaseName
	if o.Config.Greeklish {
		name = Transliterate(name)
	}
	return name, nil
}
