package cmd

import (
	"os"
	"path/filepath"
)

// DefaultConfigFile is the descriptor name looked up inside a directory.
const DefaultConfigFile = "config"

// configPaths maps command arguments to descriptor files. No arguments means
// ./config, and a directory argument means <dir>/config.
func configPaths(args []string) []string {
	if len(args) == 0 {
		return []string{DefaultConfigFile}
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			arg = filepath.Join(arg, DefaultConfigFile)
		}
		paths = append(paths, arg)
	}
	return paths
}

// displayPath shortens path relative to the working directory when possible.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || len(rel) >= len(path) {
		return path
	}
	return rel
}
