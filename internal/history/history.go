// Package history records what each generate run wrote, under the state
// directory, so earlier runs can be listed and inspected.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cameronsjo/shipwright/internal/fileutil"
)

const (
	// RunPrefix is the prefix of every run record file name.
	RunPrefix = "run-"

	// DateFormat is the timestamp embedded in run record names.
	DateFormat = "20060102-150405.000000000"

	// MaxRuns is the number of run records retained.
	MaxRuns = 20
)

// ErrRunNotFound indicates no record matches the requested id.
var ErrRunNotFound = errors.New("run not found")

// Artifact is one generated artifact set within a run.
type Artifact struct {
	Config    string `yaml:"config"`
	Directory string `yaml:"directory"`
	Version   string `yaml:"version"`
	Image     string `yaml:"image"`
}

// Failure is one configuration that did not generate.
type Failure struct {
	Config string `yaml:"config"`
	Index  int    `yaml:"index"`
	Error  string `yaml:"error"`
}

// Run is the persisted record of one generate invocation.
type Run struct {
	ID        string     `yaml:"id"`
	Started   time.Time  `yaml:"started"`
	Finished  time.Time  `yaml:"finished"`
	Revision  string     `yaml:"revision,omitempty"`
	Artifacts []Artifact `yaml:"artifacts"`
	Failures  []Failure  `yaml:"failures,omitempty"`

	// Path is where the record lives; not persisted.
	Path string `yaml:"-"`
}

// NewRun starts a record with a fresh id.
func NewRun(started time.Time) *Run {
	return &Run{ID: uuid.New().String(), Started: started}
}

// Short returns the first block of the run id.
func (r *Run) Short() string {
	return r.ID[:8]
}

// OK reports whether the run had no failures.
func (r *Run) OK() bool {
	return len(r.Failures) == 0
}

// runsDir returns the directory holding run records.
func runsDir(stateDir string) string {
	return filepath.Join(stateDir, "runs")
}

// Save writes the record under stateDir and prunes records beyond MaxRuns.
func Save(stateDir string, run *Run) (string, error) {
	dir := runsDir(stateDir)
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create runs directory: %w", err)
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	name := RunPrefix + run.Started.UTC().Format(DateFormat) + "-" + run.Short() + ".yml"
	path := filepath.Join(dir, name)
	if err := fileutil.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write run record: %w", err)
	}
	run.Path = path

	if err := Cleanup(stateDir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to clean up old runs: %v\n", err)
	}

	return path, nil
}

// List returns run records newest first.
func List(stateDir string) ([]*Run, error) {
	dir := runsDir(stateDir)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read runs directory: %w", err)
	}

	var runs []*Run
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), RunPrefix) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		run, err := load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot read run %s: %v\n", entry.Name(), err)
			continue
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Started.After(runs[j].Started)
	})

	return runs, nil
}

// Get returns the record whose id starts with prefix.
func Get(stateDir, prefix string) (*Run, error) {
	runs, err := List(stateDir)
	if err != nil {
		return nil, err
	}

	var match *Run
	for _, run := range runs {
		if !strings.HasPrefix(run.ID, prefix) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("run id %q is ambiguous", prefix)
		}
		match = run
	}
	if match == nil {
		return nil, fmt.Errorf("%s: %w", prefix, ErrRunNotFound)
	}
	return match, nil
}

// Cleanup removes records beyond MaxRuns, oldest first. It keeps going past
// individual failures and reports them together.
func Cleanup(stateDir string) error {
	runs, err := List(stateDir)
	if err != nil {
		return err
	}

	if len(runs) <= MaxRuns {
		return nil
	}

	var errs []string
	for _, run := range runs[MaxRuns:] {
		if err := os.Remove(run.Path); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", filepath.Base(run.Path), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to remove %d run(s): %s", len(errs), strings.Join(errs, "; "))
	}

	return nil
}

func load(path string) (*Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var run Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if run.ID == "" {
		return nil, errors.New("missing id")
	}
	run.Path = path
	return &run, nil
}
