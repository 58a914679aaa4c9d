package generate

import (
	"errors"
	"fmt"

	"github.com/cameronsjo/shipwright/internal/descriptor"
)

// Policy decides what a failing configuration does to the rest of a run.
type Policy int

const (
	// FailFast stops at the first failing configuration.
	FailFast Policy = iota

	// KeepGoing records the failure and moves on to the next configuration.
	KeepGoing
)

// Failure is a configuration that could not be generated.
type Failure struct {
	// Index is the position of the configuration in expansion order.
	Index         int
	Configuration descriptor.Configuration
	Err           error
}

// Report collects the outcome of running every configuration of one file.
type Report struct {
	Origin    string
	Artifacts []*ArtifactSet
	Failures  []Failure
}

// Err joins every failure, or returns nil.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: configuration %d: %w", r.Origin, f.Index, f.Err))
	}
	return errors.Join(errs...)
}

// Run generates every configuration of desc in order, one at a time.
// Configurations that share an effective version write to the same directory
// and the later one wins; this is logged as a warning.
func (g *Generator) Run(originFile string, desc *descriptor.Descriptor, policy Policy) (*Report, error) {
	report := &Report{Origin: originFile}
	firstByDir := make(map[string]int)

	index := 0
	for cfg := range desc.Configurations() {
		set, err := g.CreateDockerfile(originFile, cfg)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Index: index, Configuration: cfg, Err: err})
			g.Logger.Error("configuration failed", "config", originFile, "index", index, "error", err)
			if policy == FailFast {
				break
			}
			index++
			continue
		}

		if first, seen := firstByDir[set.Directory]; seen {
			g.Logger.Warn("output directory reused, last write wins",
				"config", originFile, "dir", set.Directory, "first", first, "index", index)
		} else {
			firstByDir[set.Directory] = index
		}

		report.Artifacts = append(report.Artifacts, set)
		index++
	}

	return report, report.Err()
}
