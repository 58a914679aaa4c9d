package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/shipwright/internal/descriptor"
	"github.com/cameronsjo/shipwright/internal/generate"
	"github.com/cameronsjo/shipwright/internal/history"
	"github.com/cameronsjo/shipwright/internal/lock"
	"github.com/cameronsjo/shipwright/internal/revision"
	"github.com/cameronsjo/shipwright/internal/ui"
)

// generateLockName is the lock taken by writing runs.
const generateLockName = "generate"

var (
	generateDryRun    bool
	generateKeepGoing bool
	generateUser      string
	generateDelimiter string
	generateSentinel  string
)

var generateCmd = &cobra.Command{
	Use:     "generate [config...]",
	Aliases: []string{"gen"},
	Short:   "Render Dockerfiles and scripts for every configuration",
	Long: `Render Dockerfiles, build scripts and deploy scripts.

Each argument is a config file, or a directory holding one named "config".
With no arguments ./config is used. For every configuration the file
expands to, shipwright writes images/<version>/{Dockerfile,build,deploy}
next to the config file.

Examples:
  shipwright generate                     # ./config
  shipwright generate node/gcloud         # node/gcloud/config
  shipwright generate -n node/gcloud      # show the files without writing
  shipwright generate -k */config         # skip failing configurations`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVarP(&generateDryRun, "dry-run", "n", false, "Show what would be written without writing")
	generateCmd.Flags().BoolVarP(&generateKeepGoing, "keep-going", "k", false, "Continue past failing configurations")
	addGeneratorFlags(generateCmd, &generateUser, &generateDelimiter, &generateSentinel)
}

// addGeneratorFlags registers the flags that override generator settings.
func addGeneratorFlags(cmd *cobra.Command, user, delimiter, sentinel *string) {
	cmd.Flags().StringVar(user, "user", "", "Image namespace when a config has no user field")
	cmd.Flags().StringVar(delimiter, "delimiter", "", "Separator between directory names in the tag")
	cmd.Flags().StringVar(sentinel, "sentinel", "", "File marking the top of the image tree")
}

// generatorOptions merges settings with flag overrides.
func generatorOptions(user, delimiter, sentinel string) []generate.Option {
	opts := []generate.Option{
		generate.WithUser(settings.User),
		generate.WithDelimiter(settings.Delimiter),
		generate.WithSentinel(settings.Sentinel),
	}
	if user != "" {
		opts = append(opts, generate.WithUser(user))
	}
	if delimiter != "" {
		opts = append(opts, generate.WithDelimiter(delimiter))
	}
	if sentinel != "" {
		opts = append(opts, generate.WithSentinel(sentinel))
	}
	return opts
}

func runGenerate(cmd *cobra.Command, args []string) error {
	paths := configPaths(args)

	policy := generate.FailFast
	if generateKeepGoing || settings.KeepGoing {
		policy = generate.KeepGoing
	}

	run := history.NewRun(time.Now())
	log := logger.With("run", run.Short())
	opts := append(generatorOptions(generateUser, generateDelimiter, generateSentinel), generate.WithLogger(log))

	if generateDryRun {
		sink := generate.NewMemorySink()
		gen := generate.New(append(opts, generate.WithSink(sink))...)

		err := generateAll(gen, paths, policy, run)
		printDryRun(cmd.OutOrStdout(), sink)
		return err
	}

	return lock.WithLock(settings.LocksDir(), generateLockName, func() error {
		log.Info("generate started", "configs", len(paths))
		gen := generate.New(opts...)

		genErr := generateAll(gen, paths, policy, run)

		run.Finished = time.Now()
		if path, err := history.Save(settings.StateDir, run); err != nil {
			log.Warn("could not record run", "error", err)
		} else {
			log.Debug("run recorded", "path", path)
		}
		return genErr
	})
}

// generateAll runs every config file in order and records the outcome in run.
func generateAll(gen *generate.Generator, paths []string, policy generate.Policy, run *history.Run) error {
	failed := 0

	for _, path := range paths {
		gen.Defaults = revisionDefaults(gen.Logger, filepath.Dir(path), run)

		desc, err := descriptor.Load(path)
		if err != nil {
			ui.Error("%v", err)
			run.Failures = append(run.Failures, history.Failure{Config: path, Index: -1, Error: err.Error()})
			failed++
			if policy == generate.FailFast {
				break
			}
			continue
		}

		report, err := gen.Run(path, desc, policy)
		for _, set := range report.Artifacts {
			ui.Ship("%s  %s", set.Image, displayPath(set.Directory))
			run.Artifacts = append(run.Artifacts, history.Artifact{
				Config:    path,
				Directory: set.Directory,
				Version:   set.Version,
				Image:     set.Image,
			})
		}
		for _, f := range report.Failures {
			ui.Error("%s [%d]: %v", path, f.Index, f.Err)
			run.Failures = append(run.Failures, history.Failure{Config: path, Index: f.Index, Error: f.Err.Error()})
		}
		if err != nil {
			failed += len(report.Failures)
			if policy == generate.FailFast {
				break
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d configuration(s) failed", failed)
	}

	ui.Success("Generated %d artifact set(s) (run %s)", len(run.Artifacts), run.Short())
	return nil
}

// revisionDefaults offers the git revision of dir as the {revision} field.
func revisionDefaults(log *slog.Logger, dir string, run *history.Run) map[string]string {
	info, err := revision.Detect(dir)
	if err != nil {
		log.Debug("no git revision", "dir", dir, "error", err)
		return nil
	}
	if run.Revision == "" {
		run.Revision = info.Short()
	}
	if info.Dirty {
		log.Warn("work tree has uncommitted changes", "dir", dir, "revision", info.Short())
	}
	return map[string]string{"revision": info.Short()}
}

// printDryRun writes every recorded file with its content.
func printDryRun(w io.Writer, sink *generate.MemorySink) {
	paths := sink.Paths()
	if len(paths) == 0 {
		ui.Warning("Nothing would be written")
		return
	}

	ui.Header("Dry run: %d file(s) would be written", len(paths))
	for _, path := range paths {
		f := sink.Files[path]
		mode := ""
		if f.Executable {
			mode = " (executable)"
		}
		fmt.Fprintln(w)
		ui.Package("%s%s", displayPath(path), mode)
		fmt.Fprint(w, string(f.Data))
	}
}
