package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/preflight"
	"github.com/cameronsjo/shipwright/internal/revision"
	"github.com/cameronsjo/shipwright/internal/tag"
	"github.com/cameronsjo/shipwright/internal/ui"
)

// checker is replaced in tests.
var checker = preflight.NewChecker()

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"checkup"},
	Short:   "Check tools, Docker and the image tree root",
	Long: `Run pre-flight checks before generating or running build scripts:

  - docker and bash on PATH (required), gcloud and git (optional)
  - the Docker daemon answers a ping
  - a sentinel file exists above the working directory
  - the working directory is inside a git repository`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ui.Blue.Fprintln(ui.Out, "Running pre-flight checks...")
	fmt.Fprintln(ui.Out)

	passed, failed, warned := 0, 0, 0

	// Check: binaries
	warnings, errs := checker.CheckAll()
	for _, e := range errs {
		ui.Red.Fprintf(ui.Out, "  x %s\n", e)
		failed++
	}
	for _, w := range warnings {
		ui.Yellow.Fprintf(ui.Out, "  ! %s\n", w)
		warned++
	}
	if len(errs) == 0 {
		ui.Green.Fprintln(ui.Out, "  * Required tools found")
		passed++
	}

	// Check: Docker daemon
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if client, err := newDockerClient(); err != nil {
		ui.Red.Fprintf(ui.Out, "  x Docker client: %v\n", err)
		failed++
	} else {
		if version, err := dockerVersion(ctx, client); err != nil {
			ui.Red.Fprintln(ui.Out, "  x Docker is not running")
			failed++
		} else {
			ui.Green.Fprintf(ui.Out, "  * Docker is running (%s)\n", version)
			passed++
		}
		client.Close()
	}

	// Check: image tree root
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if root, err := tag.FindRoot(wd, settings.Sentinel); err == nil {
		ui.Green.Fprintf(ui.Out, "  * Image tree root: %s\n", root)
		passed++
	} else {
		ui.Yellow.Fprintf(ui.Out, "  ! No %s file above %s (tags cannot be resolved here)\n", settings.Sentinel, wd)
		warned++
	}

	// Check: git revision
	if info, err := revision.Detect(wd); err == nil {
		state := "clean"
		if info.Dirty {
			state = "dirty"
		}
		ui.Green.Fprintf(ui.Out, "  * Git revision %s (%s)\n", info.Short(), state)
		passed++
	} else {
		ui.Yellow.Fprintf(ui.Out, "  ! No git revision: {revision} will be unset\n")
		warned++
	}

	fmt.Fprintln(ui.Out)
	ui.Info("%d passed, %d warnings, %d failed", passed, warned, failed)

	if failed > 0 {
		return errors.New("pre-flight checks failed")
	}
	ui.Success("Ready to generate")
	return nil
}

// dockerPinger is the part of docker.Client that doctor needs.
type dockerPinger interface {
	Ping(ctx context.Context) error
	ServerVersion(ctx context.Context) (string, error)
}

func dockerVersion(ctx context.Context, client dockerPinger) (string, error) {
	if err := client.Ping(ctx); err != nil {
		return "", err
	}
	return client.ServerVersion(ctx)
}
