package naming

import (
	"fmt"

	"rebatch/internal/model"
)

// Counter produces Start + index_within_scope × Step (a Step of 0 is
// treated as 1), zero-padded to PadWidth, per spec §4.3.
type Counter struct {
	Config model.CounterConfig
}

func (c *Counter) Fragment(ctx FragmentContext) (string, *model.Diagnosis) {
	step := c.Config.Step
	if step == 0 {
		step = 1
	}
	n := c.Config.Start + ctx.Scopes.IndexFor(c.Config.Scope, ctx.Descriptor)*step
	return fmt.Sprintf("%0*d", c.Config.PadWidth, n), nil
}
