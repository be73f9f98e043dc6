package metadata

import (
	"context"
	"os/exec"
)

// runTool invokes name with args under a cancelable, timeout-bounded
// subprocess and returns its stdout. Grounded on
// whatsoevan-backupbozo/metadata/extractor.go's VideoExtractor, which
// shells out to ffprobe via exec.Command; generalized here to
// exec.CommandContext so extended-mode extraction participates in the
// same cooperative cancellation the rest of C2 honors.
func runTool(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}
