package naming

import "rebatch/internal/model"

// LiteralText returns Config.Text verbatim, per spec §4.3.
type LiteralText struct {
	Config model.LiteralTextConfig
}

func (l *LiteralText) Fragment(ctx FragmentContext) (string, *model.Diagnosis) {
	return l.Config.Text, nil
}
