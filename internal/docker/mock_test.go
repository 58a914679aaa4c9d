package docker

import (
	"context"
	"errors"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/system"
)

var (
	errMockPing      = errors.New("mock: ping failed")
	errMockInfo      = errors.New("mock: info failed")
	errMockImageList = errors.New("mock: image list failed")
)

// MockDockerAPI is a mock implementation of DockerAPI for testing.
type MockDockerAPI struct {
	PingFunc      func(ctx context.Context) (types.Ping, error)
	InfoFunc      func(ctx context.Context) (system.Info, error)
	ImageListFunc func(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	CloseFunc     func() error

	PingCalls      int
	InfoCalls      int
	ImageListCalls int
	CloseCalls     int
}

// NewMockDockerAPI creates a new mock with default no-op implementations.
func NewMockDockerAPI() *MockDockerAPI {
	return &MockDockerAPI{}
}

// Ping implements DockerAPI.
func (m *MockDockerAPI) Ping(ctx context.Context) (types.Ping, error) {
	m.PingCalls++
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return types.Ping{APIVersion: "1.45"}, nil
}

// Info implements DockerAPI.
func (m *MockDockerAPI) Info(ctx context.Context) (system.Info, error) {
	m.InfoCalls++
	if m.InfoFunc != nil {
		return m.InfoFunc(ctx)
	}
	return system.Info{ServerVersion: "28.5.2"}, nil
}

// ImageList implements DockerAPI.
func (m *MockDockerAPI) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	m.ImageListCalls++
	if m.ImageListFunc != nil {
		return m.ImageListFunc(ctx, options)
	}
	return []image.Summary{}, nil
}

// Close implements DockerAPI.
func (m *MockDockerAPI) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ DockerAPI = (*MockDockerAPI)(nil)
