package docker

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientWithAPI(t *testing.T) {
	mock := NewMockDockerAPI()
	client := NewClientWithAPI(mock)

	assert.NotNil(t, client)
	assert.Equal(t, mock, client.api)
}

func TestClient_Ping(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*MockDockerAPI)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "success",
			setup:   func(m *MockDockerAPI) {},
			wantErr: false,
		},
		{
			name: "failure",
			setup: func(m *MockDockerAPI) {
				m.PingFunc = func(ctx context.Context) (types.Ping, error) {
					return types.Ping{}, errMockPing
				}
			},
			wantErr: true,
			errMsg:  "ping docker",
		},
		{
			name: "deadline set",
			setup: func(m *MockDockerAPI) {
				m.PingFunc = func(ctx context.Context) (types.Ping, error) {
					_, ok := ctx.Deadline()
					assert.True(t, ok)
					return types.Ping{}, nil
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockDockerAPI()
			tt.setup(mock)
			client := NewClientWithAPI(mock)

			err := client.Ping(context.Background())

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.ErrorIs(t, err, errMockPing)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, mock.PingCalls)
		})
	}
}

func TestClient_ServerVersion(t *testing.T) {
	mock := NewMockDockerAPI()
	client := NewClientWithAPI(mock)

	version, err := client.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "28.5.2", version)

	mock.InfoFunc = func(ctx context.Context) (system.Info, error) {
		return system.Info{}, errMockInfo
	}
	_, err = client.ServerVersion(context.Background())
	assert.ErrorIs(t, err, errMockInfo)
}

func TestClient_ImageExists(t *testing.T) {
	tests := []struct {
		name    string
		images  []image.Summary
		listErr error
		want    bool
		wantErr bool
	}{
		{name: "present", images: []image.Summary{{ID: "sha256:abc", RepoTags: []string{"tslno/node:8.0.0"}}}, want: true},
		{name: "absent", images: nil, want: false},
		{name: "error", listErr: errMockImageList, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockDockerAPI()
			var gotRef []string
			mock.ImageListFunc = func(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
				gotRef = options.Filters.Get("reference")
				return tt.images, tt.listErr
			}
			client := NewClientWithAPI(mock)

			ok, err := client.ImageExists(context.Background(), "tslno/node:8.0.0")
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errMockImageList)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, []string{"tslno/node:8.0.0"}, gotRef)
		})
	}
}

func TestClient_CheckImages(t *testing.T) {
	mock := NewMockDockerAPI()
	mock.ImageListFunc = func(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
		switch options.Filters.Get("reference")[0] {
		case "tslno/node:8.0.0":
			return []image.Summary{{ID: "sha256:abc"}}, nil
		case "tslno/node:broken":
			return nil, errMockImageList
		}
		return nil, nil
	}
	client := NewClientWithAPI(mock)

	statuses, err := client.CheckImages(context.Background(), []string{
		"tslno/node:8.0.0", "tslno/node:9.11.2", "tslno/node:broken",
	})
	require.NoError(t, err)
	require.Len(t, statuses, 3)

	assert.True(t, statuses[0].Present)
	assert.False(t, statuses[1].Present)
	assert.NoError(t, statuses[1].Err)
	assert.ErrorIs(t, statuses[2].Err, errMockImageList)
	assert.Equal(t, 3, mock.ImageListCalls)
}

func TestClient_CheckImages_Cancelled(t *testing.T) {
	mock := NewMockDockerAPI()
	client := NewClientWithAPI(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	statuses, err := client.CheckImages(ctx, []string{"a:1", "b:2"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, statuses)
	assert.Equal(t, 0, mock.ImageListCalls)
}

func TestClient_Close(t *testing.T) {
	mock := NewMockDockerAPI()
	client := NewClientWithAPI(mock)

	require.NoError(t, client.Close())
	assert.Equal(t, 1, mock.CloseCalls)

	var empty Client
	assert.NoError(t, empty.Close())
}
