package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/history"
	"github.com/cameronsjo/shipwright/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:     "history [run]",
	Aliases: []string{"log"},
	Short:   "List recent generate runs, or show one",
	Long: `List the last generate runs recorded in the state directory, newest first.
With a run id (or a prefix of one), show every artifact and failure of that run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		run, err := history.Get(settings.StateDir, args[0])
		if err != nil {
			return err
		}
		showRun(run)
		return nil
	}

	runs, err := history.List(settings.StateDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ui.Info("No runs recorded in %s", settings.StateDir)
		return nil
	}

	ui.Header("Recent runs")
	for _, run := range runs {
		line := fmt.Sprintf("%s  %s  %d artifact(s)", run.Short(), run.Started.Local().Format("2006-01-02 15:04:05"), len(run.Artifacts))
		if run.OK() {
			ui.Success("%s", line)
		} else {
			ui.Error("%s, %d failure(s)", line, len(run.Failures))
		}
	}
	return nil
}

func showRun(run *history.Run) {
	ui.Header("Run %s", run.ID)
	ui.Info("Started:  %s", run.Started.Local().Format("2006-01-02 15:04:05"))
	ui.Info("Duration: %s", run.Finished.Sub(run.Started).Round(time.Millisecond))
	if run.Revision != "" {
		ui.Info("Revision: %s", run.Revision)
	}
	for _, a := range run.Artifacts {
		ui.Ship("%s  %s", a.Image, displayPath(a.Directory))
	}
	for _, f := range run.Failures {
		ui.Error("%s [%d]: %s", f.Config, f.Index, f.Error)
	}
}
