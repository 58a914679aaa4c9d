package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/system"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/shipwright/internal/docker"
	"github.com/cameronsjo/shipwright/internal/preflight"
)

// resetRootCmd resets the root command state for test isolation.
// Flag values are package variables, so they are put back to their defaults
// rather than redefined.
func resetRootCmd(t *testing.T) *bytes.Buffer {
	t.Helper()
	color.NoColor = true

	buf := new(bytes.Buffer)
	// Reset args to empty slice (not nil, which would use os.Args)
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	resetFlags(rootCmd)
	for _, cmd := range rootCmd.Commands() {
		cmd.SetContext(context.TODO())
		resetFlags(cmd)
	}
	return buf
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
}

// executeCmd executes the root command with the given args and returns the output.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := resetRootCmd(t)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

const nodeGcloudConfig = `{
  // node images on the cloud sdk base
  "gcloud_version": ["226.0.0-slim"],
  "node_version": ["8.0.0", "9.11.2"],
  "version": "node_version",
}`

const nodeGcloudTemplate = `FROM google/cloud-sdk:{gcloud_version}
RUN install-node {node_version}
`

// setupTree builds root/.root and root/node/gcloud/{config,Dockerfile.template},
// changes into root and returns it.
func setupTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "node", "gcloud")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".root"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config"), []byte(nodeGcloudConfig), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile.template"), []byte(nodeGcloudTemplate), 0644))
	t.Chdir(root)
	return root
}

// fakeDocker answers image lookups from a fixed set of references.
type fakeDocker struct {
	images  map[string]bool
	pingErr error
}

func (f *fakeDocker) Ping(ctx context.Context) (types.Ping, error) {
	return types.Ping{APIVersion: "1.45"}, f.pingErr
}

func (f *fakeDocker) Info(ctx context.Context) (system.Info, error) {
	return system.Info{ServerVersion: "28.5.2"}, nil
}

func (f *fakeDocker) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	var out []image.Summary
	for _, ref := range options.Filters.Get("reference") {
		if f.images[ref] {
			out = append(out, image.Summary{ID: "sha256:" + ref, RepoTags: []string{ref}})
		}
	}
	return out, nil
}

func (f *fakeDocker) Close() error { return nil }

// useDocker points the commands at fake for the duration of the test.
func useDocker(t *testing.T, fake *fakeDocker) {
	t.Helper()
	orig := newDockerClient
	newDockerClient = func() (*docker.Client, error) {
		return docker.NewClientWithAPI(fake), nil
	}
	t.Cleanup(func() { newDockerClient = orig })
}

// useBinaries makes the preflight checker see only the named binaries.
func useBinaries(t *testing.T, installed ...string) {
	t.Helper()
	orig := checker
	checker = &preflight.Checker{LookPath: func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", os.ErrNotExist
	}}
	t.Cleanup(func() { checker = orig })
}
