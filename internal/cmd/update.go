package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/ui"
	"github.com/cameronsjo/shipwright/internal/update"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"upgrade", "selfupdate"},
	Short:   "Update shipwright to the latest version",
	Long: `Update shipwright to the latest version from GitHub releases.

This command will:
1. Check for a newer version on GitHub
2. Download the appropriate binary for your platform
3. Replace the current binary with the new version

Examples:
  shipwright update           # Update to latest version
  shipwright update --check   # Check for updates without installing`,
	RunE: runUpdate,
}

var (
	checkOnly bool
)

// maxChangelogLines caps the release notes printed after an update check.
const maxChangelogLines = 10

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for updates, don't install")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	currentVersion := version
	ui.Info("Current version: %s (%s)", currentVersion, update.GetPlatformInfo())
	ui.Info("Checking %s for updates...", update.Slug())

	if checkOnly {
		release, available, err := update.CheckForUpdate(cmd.Context(), currentVersion)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !available {
			ui.Success("You're running the latest version!")
			return nil
		}

		ui.Success("New version available: %s (released %s)", release.Version, release.PublishedAt)
		ui.Info("To update, run: shipwright update")
		printChangelog(release.Changelog)
		return nil
	}

	release, err := update.Update(cmd.Context(), currentVersion)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if release == nil {
		ui.Success("You're already running the latest version!")
		return nil
	}

	ui.Success("Successfully updated to version %s!", release.Version)
	printChangelog(release.Changelog)
	ui.Info("Restart shipwright to use the new version.")
	return nil
}

func printChangelog(changelog string) {
	if changelog == "" {
		return
	}

	ui.Yellow.Fprintln(ui.Out, "What's new:")
	lines := strings.Split(changelog, "\n")
	shown := min(len(lines), maxChangelogLines)
	for _, line := range lines[:shown] {
		fmt.Fprintf(ui.Out, "  %s\n", line)
	}
	if len(lines) > shown {
		fmt.Fprintf(ui.Out, "  ... (%d more lines)\n", len(lines)-shown)
	}
}
