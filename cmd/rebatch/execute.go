package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"rebatch/internal/config"
	"rebatch/internal/events"
	"rebatch/internal/execution"
	"rebatch/internal/metadata"
	"rebatch/internal/model"
)

func newExecuteCommand() *cobra.Command {
	var pipelinePath string
	var extensions []string
	var recursive bool
	var extended bool
	var dryRun bool
	var reportPath string
	var conflictPolicy string
	var atomic bool
	var verifyHash bool

	cmd := &cobra.Command{
		Use:   "execute <directory>",
		Short: "Compute the preview and perform the renames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]

			overrides := map[string]any{}
			if conflictPolicy != "" {
				overrides["conflict_policy"] = conflictPolicy
			}
			if cmd.Flags().Changed("atomic") {
				overrides["atomic"] = atomic
			}

			a, err := newApp(defaultCachePath(root), defaultHistoryPath(root), extensions, recursive, overrides)
			if err != nil {
				return err
			}
			defer a.close()

			pipeline, err := loadPipeline(pipelinePath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			descriptors, _ := a.walker.Discover(ctx, root)

			mode := metadata.Fast
			if extended {
				mode = metadata.Extended
			}
			a.loader.Load(ctx, descriptors, mode, nil)
			if verifyHash {
				a.store.LoadHashes(ctx, descriptors, nil)
			}

			rows, err := a.preview.ComputePreview(descriptors, pipeline)
			if err != nil {
				return fmt.Errorf("computing preview: %w", err)
			}
			printPreview(rows)

			if dryRun {
				return runDryRun(a, descriptors, rows, reportPath)
			}

			return runExecute(ctx, a, descriptors, rows, pipeline)
		},
	}

	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "path to a .rebatch.yaml pipeline file")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "restrict discovery to these extensions (default: all)")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&extended, "extended", false, "run the extended (subprocess) metadata pass")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build the plan and write an HTML report without touching the filesystem")
	cmd.Flags().StringVar(&reportPath, "report", "", "dry-run HTML report path (default: rebatch_report_<timestamp>.html in the current working directory)")
	cmd.Flags().StringVar(&conflictPolicy, "conflict-policy", "", "abort|skip_row|overwrite|auto_suffix (default: from config)")
	cmd.Flags().BoolVar(&atomic, "atomic", false, "reverse the whole batch, LIFO, on first failure")
	cmd.Flags().BoolVar(&verifyHash, "verify-hash", false, "populate the content hash cache before executing, for later duplicate auditing")
	return cmd
}

// runDryRun builds the flat rename plan with BuildPlan and writes it to
// the HTML report without touching the filesystem. Every operation is
// recorded as a success with reason "dry_run"; cycle elaboration and
// conflict resolution against the live filesystem are not simulated.
func runDryRun(a *app, descriptors []*model.FileDescriptor, rows []model.PreviewRow, reportPath string) error {
	ops, err := execution.BuildPlan(descriptors, rows)
	if err != nil {
		return fmt.Errorf("building plan: %w", err)
	}

	report := &model.ExecutionReport{}
	for _, op := range ops {
		report.Add(model.OperationResult{
			Operation: op,
			Outcome:   model.OperationOutcome{Kind: model.OutcomeSuccess, Reason: "dry_run"},
			FinalPath: op.TargetPath,
		})
	}

	if reportPath == "" {
		reportPath = defaultReportPath()
	}
	if err := writeHTMLReport(reportPath, report, 0); err != nil {
		return err
	}
	color.New(color.FgCyan).Printf("Dry-run report written to %s\n", reportPath)
	return nil
}

func runExecute(ctx context.Context, a *app, descriptors []*model.FileDescriptor, rows []model.PreviewRow, pipeline model.Pipeline) error {
	stream := events.NewStream()
	bar := progressbar.NewOptions(len(descriptors),
		progressbar.OptionSetDescription("Executing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(20),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range stream {
			if ev.Kind == events.ExecutionProgress {
				bar.Set(ev.Done)
			}
		}
	}()

	start := time.Now()
	report, err := a.engine.Execute(ctx, descriptors, rows, stream)
	stream.Close()
	<-done
	if err != nil {
		return fmt.Errorf("executing batch: %w", err)
	}
	elapsed := time.Since(start)

	snapshot, err := config.EncodePipeline(pipeline)
	if err != nil {
		return fmt.Errorf("encoding pipeline snapshot: %w", err)
	}

	batch := model.Batch{
		Timestamp:        time.Now(),
		PipelineSnapshot: snapshot,
		Status:           statusFor(report),
	}
	batchID, err := a.history.RecordBatch(ctx, batch, *report)
	if err != nil {
		return fmt.Errorf("recording batch history: %w", err)
	}

	color.New(color.FgGreen).Printf("Batch %s: %d succeeded, %d skipped, %d failed (%s)\n",
		batchID, report.Succeeded, report.Skipped, report.Failed, elapsed.Round(time.Millisecond))
	return nil
}

func statusFor(report *model.ExecutionReport) model.BatchStatus {
	if report.Failed > 0 {
		return model.BatchPartial
	}
	return model.BatchExecuted
}

func defaultReportPath() string {
	return fmt.Sprintf("rebatch_report_%s.html", time.Now().Format("20060102_150405"))
}
