// Package preflight checks for the external tools generated scripts call.
package preflight

import (
	"os/exec"
)

// BinaryCheck is a tool the build and deploy scripts may invoke.
type BinaryCheck struct {
	Name        string
	Required    bool   // false = warning only
	InstallHint string // e.g. a URL or package manager command
}

// requiredBinaries are called by every generated build and deploy script.
var requiredBinaries = []BinaryCheck{
	{
		Name:        "docker",
		Required:    true,
		InstallHint: "Install Docker: https://docs.docker.com/get-docker/",
	},
	{
		Name:        "bash",
		Required:    true,
		InstallHint: "Install bash with your system package manager",
	},
}

// optionalBinaries are only needed by some image trees.
var optionalBinaries = []BinaryCheck{
	{
		Name:        "gcloud",
		Required:    false,
		InstallHint: "Install the Google Cloud CLI: https://cloud.google.com/sdk/docs/install",
	},
	{
		Name:        "git",
		Required:    false,
		InstallHint: "Install git: https://git-scm.com/downloads",
	},
}

// LookPathFunc resolves a binary name to a path.
type LookPathFunc func(name string) (string, error)

// Checker evaluates BinaryChecks with a pluggable PATH lookup.
type Checker struct {
	LookPath LookPathFunc
}

// NewChecker returns a Checker backed by exec.LookPath.
func NewChecker() *Checker {
	return &Checker{LookPath: exec.LookPath}
}

// Missing returns the entries of bins that cannot be found.
func (c *Checker) Missing(bins []BinaryCheck) []BinaryCheck {
	var missing []BinaryCheck
	for _, bin := range bins {
		if _, err := c.LookPath(bin.Name); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}

// CheckAll splits missing binaries into errors (required) and warnings
// (optional), each formatted as "name: hint".
func (c *Checker) CheckAll() (warnings []string, errors []string) {
	for _, bin := range c.Missing(requiredBinaries) {
		errors = append(errors, bin.Name+": "+bin.InstallHint)
	}
	for _, bin := range c.Missing(optionalBinaries) {
		warnings = append(warnings, bin.Name+": "+bin.InstallHint)
	}
	return warnings, errors
}

// CheckAll runs every check against the real PATH.
func CheckAll() (warnings []string, errors []string) {
	return NewChecker().CheckAll()
}

// IsBinaryAvailable checks if a specific binary is available in PATH.
func IsBinaryAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// GetAllBinaries returns all configured binaries, required first.
func GetAllBinaries() []BinaryCheck {
	all := make([]BinaryCheck, 0, len(requiredBinaries)+len(optionalBinaries))
	all = append(all, requiredBinaries...)
	return append(all, optionalBinaries...)
}
