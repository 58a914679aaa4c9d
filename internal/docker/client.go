package docker

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// PingTimeout bounds the daemon reachability check.
const PingTimeout = 5 * time.Second

// Client wraps the Docker SDK client.
type Client struct {
	api DockerAPI
}

// NewClient connects using DOCKER_HOST and related environment variables.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}

	return &Client{api: cli}, nil
}

// NewClientWithAPI wraps a custom API implementation, typically a mock.
func NewClientWithAPI(api DockerAPI) *Client {
	return &Client{api: api}
}

// Ping tests the connection to the Docker daemon.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("ping docker: %w", err)
	}

	return nil
}

// ServerVersion returns the daemon's version string.
func (c *Client) ServerVersion(ctx context.Context) (string, error) {
	info, err := c.api.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("docker info: %w", err)
	}
	return info.ServerVersion, nil
}

// ImageExists reports whether ref is present in the local image store.
func (c *Client) ImageExists(ctx context.Context, ref string) (bool, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return false, fmt.Errorf("list images %s: %w", ref, err)
	}
	return len(images) > 0, nil
}

// ImageStatus holds the local state of one generated image reference.
type ImageStatus struct {
	Ref     string
	Present bool
	Err     error
}

// CheckImages looks up every ref in order. Lookup errors are recorded per
// image; the context error stops the scan.
func (c *Client) CheckImages(ctx context.Context, refs []string) ([]ImageStatus, error) {
	statuses := make([]ImageStatus, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return statuses, err
		}
		ok, err := c.ImageExists(ctx, ref)
		statuses = append(statuses, ImageStatus{Ref: ref, Present: ok, Err: err})
	}
	return statuses, nil
}

// Close closes the Docker client connection.
func (c *Client) Close() error {
	if c.api != nil {
		return c.api.Close()
	}
	return nil
}
