package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"rebatch/internal/logging"
	"rebatch/internal/metadata"
	"rebatch/internal/model"
)

func newPreviewCommand() *cobra.Command {
	var pipelinePath string
	var extensions []string
	var recursive bool
	var extended bool

	cmd := &cobra.Command{
		Use:   "preview <directory>",
		Short: "Compute and print proposed renames without touching the filesystem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := args[0]
			a, err := newApp(defaultCachePath(root), defaultHistoryPath(root), extensions, recursive, nil)
			if err != nil {
				return err
			}
			defer a.close()

			pipeline, err := loadPipeline(pipelinePath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			descriptors, walkErrors := a.walker.Discover(ctx, root)
			for _, werr := range walkErrors {
				a.log.Warn("discovery error", logging.Error(werr))
			}

			mode := metadata.Fast
			if extended {
				mode = metadata.Extended
			}
			a.loader.Load(ctx, descriptors, mode, nil)

			rows, err := a.preview.ComputePreview(descriptors, pipeline)
			if err != nil {
				return fmt.Errorf("computing preview: %w", err)
			}

			printPreview(rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelinePath, "pipeline", "", "path to a .rebatch.yaml pipeline file")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "restrict discovery to these extensions (default: all)")
	cmd.Flags().BoolVar(&recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().BoolVar(&extended, "extended", false, "run the extended (subprocess) metadata pass")
	return cmd
}

func printPreview(rows []model.PreviewRow) {
	for _, row := range rows {
		switch row.Diagnosis.Kind {
		case model.DiagUnchanged:
			color.New(color.FgWhite).Printf("  = %s\n", row.SourcePath)
		case model.DiagValid:
			color.New(color.FgGreen).Printf("  > %s -> %s\n", row.SourcePath, row.ProposedName())
		case model.DiagInvalid:
			color.New(color.FgRed).Printf("  ! %s (%s)\n", row.SourcePath, row.Diagnosis.Reason)
		case model.DiagDuplicateOf:
			color.New(color.FgYellow).Printf("  # %s collides with %s\n", row.SourcePath, row.Diagnosis.DuplicateOf)
		}
	}
}
