// Package cmd provides the CLI commands for shipwright.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/config"
	"github.com/cameronsjo/shipwright/internal/logging"
	"github.com/cameronsjo/shipwright/internal/ui"
)

const version = "0.1.0"

var (
	logLevelFlag string
	noColorFlag  bool

	// Set by setup before any subcommand runs.
	settings *config.Settings
	logger   = slog.New(slog.DiscardHandler)
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shipwright",
	Short: "Expand image configs into Dockerfiles and build scripts",
	Long: `shipwright - Dockerfiles from config files

A config file holds string fields and list fields. Every combination of
list values is one configuration, and each configuration gets its own
Dockerfile, build script and deploy script under images/<version>/ next to
the config file. The image tag comes from the directories between the
config file and the nearest .root file.

GENERATE
  generate [config...]  Render every configuration (default ./config)
    --dry-run, -n       Show what would be written without touching disk
    --keep-going, -k    Skip failing configurations instead of stopping
  expand [config...]    Print every configuration as YAML
    --count             Print only the number of configurations
  tag [dir]             Print the image tag for a directory

IMAGES
  images [config...]    Show planned images and whether Docker has them

DIAGNOSTICS
  doctor                Check tools, Docker and the image tree root
  history [run]         List recent generate runs, or show one

MAINTENANCE
  update                Update shipwright from GitHub releases
  completion            Generate shell completions`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// setup loads settings and builds the logger. Flags override the environment.
func setup(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}

	s, err := config.Load(wd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel = logLevelFlag
	}
	if noColorFlag {
		s.NoColor = true
	}

	if s.NoColor {
		ui.DisableColor()
	}
	ui.SetOutput(cmd.OutOrStdout())
	logger = logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(s.LogLevel), s.NoColor)
	settings = s

	logger.Debug("settings loaded", "user", s.User, "delimiter", s.Delimiter, "sentinel", s.Sentinel, "state", s.StateDir)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Fatal("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate("shipwright version {{.Version}}\n")
}
