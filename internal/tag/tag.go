// Package tag derives image tags from directory structure.
//
// A tag is the list of directory names between a tree root and a starting
// directory, joined by a delimiter. The root is marked by an empty sentinel
// file. Resolving node/gcloud under a root holding .root gives "node-gcloud".
package tag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDelimiter joins directory names.
	DefaultDelimiter = "-"

	// Sentinel is the file name that marks the top of a tagged tree.
	Sentinel = ".root"
)

var (
	// ErrNotADirectory indicates the starting path is not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrSentinelNotFound indicates the walk reached the filesystem root
	// without finding the sentinel.
	ErrSentinelNotFound = errors.New("tag sentinel not found")
)

// Resolve walks upward from dir until a directory containing the default
// sentinel is found and returns the names passed on the way, joined by
// delimiter. A dir that holds the sentinel itself resolves to "".
func Resolve(dir, delimiter string) (string, error) {
	return ResolveWith(dir, delimiter, Sentinel)
}

// ResolveWith is Resolve with a custom sentinel file name.
func ResolveWith(dir, delimiter, sentinel string) (string, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	info, err := os.Stat(start)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%q: %w", dir, ErrNotADirectory)
	}

	root, err := FindRoot(start, sentinel)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, start)
	if err != nil {
		return "", fmt.Errorf("relate %s to %s: %w", start, root, err)
	}
	if rel == "." {
		return "", nil
	}
	return strings.Join(strings.Split(rel, string(filepath.Separator)), delimiter), nil
}

// FindRoot walks upward from start and returns the first directory holding
// sentinel.
func FindRoot(start, sentinel string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		found, err := hasSentinel(current, sentinel)
		if err != nil {
			return "", err
		}
		if found {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: no %s above %s", ErrSentinelNotFound, sentinel, start)
		}
		current = parent
	}
}

func hasSentinel(dir, sentinel string) (bool, error) {
	_, err := os.Lstat(filepath.Join(dir, sentinel))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("check sentinel in %s: %w", dir, err)
}

// Cache memoises resolved tags for the length of one run. It is not safe for
// concurrent use.
type Cache struct {
	entries map[cacheKey]string
}

type cacheKey struct {
	dir, delimiter, sentinel string
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]string)}
}

// Resolve returns the cached tag for dir or computes it with ResolveWith.
// Failures are not cached.
func (c *Cache) Resolve(dir, delimiter, sentinel string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}

	key := cacheKey{dir: abs, delimiter: delimiter, sentinel: sentinel}
	if t, ok := c.entries[key]; ok {
		return t, nil
	}

	t, err := ResolveWith(abs, delimiter, sentinel)
	if err != nil {
		return "", err
	}
	c.entries[key] = t
	return t, nil
}

// Len reports how many tags are cached.
func (c *Cache) Len() int {
	return len(c.entries)
}
