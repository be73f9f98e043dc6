package main

import (
	"fmt"
	"html"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"rebatch/internal/model"
)

// reportCSS is the inline stylesheet embedded directly in the report,
// grounded on the teacher's writeHTMLReport (reporting.go), which does
// the same to keep the report a single self-contained file.
const reportCSS = `
<style>
  body { font-family: -apple-system, sans-serif; background: #f7f7f8; color: #222; margin: 2rem; }
  table { border-collapse: collapse; width: 100%; background: #fff; }
  th, td { padding: 0.4rem 0.8rem; border-bottom: 1px solid #e3e3e3; text-align: left; font-size: 0.9rem; }
  th { background: #2b2d42; color: #fff; }
  tr.success td.outcome { color: #1a7f37; }
  tr.skipped td.outcome { color: #9a6700; }
  tr.failed td.outcome { color: #cf222e; }
  .summary { margin-bottom: 1rem; font-size: 1rem; }
  .summary span { margin-right: 1.5rem; }
</style>`

// writeHTMLReport renders report's three-bucket (success/skip/fail)
// accounting to path as a single self-contained HTML file, for --dry-run
// runs that never touch the filesystem.
//
// Grounded directly on whatsoevan-backupbozo's writeHTMLReport/
// writeFileTable (reporting.go): the same three-bucket table structure
// and html.EscapeString-everywhere approach, repurposed from copy
// accounting to rename accounting, with dustin/go-humanize formatting
// the operation count instead of the teacher's raw fmt output.
func writeHTMLReport(path string, report *model.ExecutionReport, elapsed time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %s: %w", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>rebatch dry-run report</title>
%s
</head>
<body>
<h1>Dry-run execution report</h1>
<div class="summary">
<span>Succeeded: %d</span>
<span>Skipped: %d</span>
<span>Failed: %d</span>
<span>Elapsed: %s</span>
<span>Total operations: %s</span>
</div>
<table>
<tr><th>Outcome</th><th>Source</th><th>Final path</th><th>Reason</th></tr>
`, reportCSS, report.Succeeded, report.Skipped, report.Failed, elapsed.Round(time.Millisecond), humanize.Comma(int64(len(report.Results))))

	for _, result := range report.Results {
		rowClass := "success"
		switch result.Outcome.Kind {
		case model.OutcomeSkipped:
			rowClass = "skipped"
		case model.OutcomeFailed:
			rowClass = "failed"
		}
		fmt.Fprintf(f, `<tr class="%s"><td class="outcome">%s</td><td>%s</td><td>%s</td><td>%s</td></tr>
`,
			rowClass,
			html.EscapeString(string(result.Outcome.Kind)),
			html.EscapeString(result.Operation.SourcePath),
			html.EscapeString(result.FinalPath),
			html.EscapeString(result.Outcome.Reason),
		)
	}

	fmt.Fprint(f, "</table>\n</body>\n</html>\n")
	return nil
}
