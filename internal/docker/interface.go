package docker

import (
	"context"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/system"
	"github.com/docker/docker/client"
)

// DockerAPI is the subset of the Docker SDK client shipwright uses.
type DockerAPI interface {
	// Ping tests the connection to the Docker daemon.
	Ping(ctx context.Context) (types.Ping, error)

	// Info returns system-wide information about the daemon.
	Info(ctx context.Context) (system.Info, error)

	// ImageList returns local images matching options.
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)

	// Close closes the client connection.
	Close() error
}

// The SDK client must keep satisfying DockerAPI.
var _ DockerAPI = (*client.Client)(nil)
