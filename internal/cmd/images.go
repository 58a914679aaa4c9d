package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/descriptor"
	"github.com/cameronsjo/shipwright/internal/docker"
	"github.com/cameronsjo/shipwright/internal/generate"
	"github.com/cameronsjo/shipwright/internal/ui"
)

// newDockerClient is replaced in tests.
var newDockerClient = docker.NewClient

var (
	imagesUser      string
	imagesDelimiter string
	imagesSentinel  string
)

var imagesCmd = &cobra.Command{
	Use:   "images [config...]",
	Short: "Show planned images and whether Docker has them",
	Long: `Plan every configuration without writing anything, then ask the local
Docker daemon whether each resulting image reference exists.

Examples:
  shipwright images node/gcloud`,
	RunE: runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)
	addGeneratorFlags(imagesCmd, &imagesUser, &imagesDelimiter, &imagesSentinel)
}

func runImages(cmd *cobra.Command, args []string) error {
	gen := generate.New(append(generatorOptions(imagesUser, imagesDelimiter, imagesSentinel),
		generate.WithSink(generate.NewMemorySink()),
		generate.WithLogger(logger),
	)...)

	var refs []string
	seen := make(map[string]bool)
	for _, path := range configPaths(args) {
		desc, err := descriptor.Load(path)
		if err != nil {
			return err
		}
		report, err := gen.Run(path, desc, generate.FailFast)
		if err != nil {
			return err
		}
		for _, set := range report.Artifacts {
			if !seen[set.Image] {
				seen[set.Image] = true
				refs = append(refs, set.Image)
			}
		}
	}

	if len(refs) == 0 {
		ui.Warning("No images planned")
		return nil
	}

	client, err := newDockerClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := client.Ping(ctx); err != nil {
		return err
	}

	statuses, err := client.CheckImages(ctx, refs)
	if err != nil {
		return err
	}

	ui.Header("Images (%d)", len(statuses))
	present := 0
	for _, s := range statuses {
		switch {
		case s.Err != nil:
			ui.Error("%s: %v", s.Ref, s.Err)
		case s.Present:
			ui.Success("%s", s.Ref)
			present++
		default:
			ui.Warning("%s (not built)", s.Ref)
		}
	}
	ui.Info("%d of %d present locally", present, len(statuses))

	return nil
}
