package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/shipwright/internal/tag"
)

func TestTagCmd(t *testing.T) {
	setupTree(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"nested", []string{"tag", "node/gcloud"}, "node-gcloud\n"},
		{"delimiter", []string{"tag", "--delimiter", "_", "node/gcloud"}, "node_gcloud\n"},
		{"sentinel directory", []string{"tag"}, "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := executeCmd(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, output)
		})
	}
}

func TestTagCmd_Errors(t *testing.T) {
	setupTree(t)

	_, err := executeCmd(t, "tag", "--sentinel", ".nowhere-to-be-found", "node/gcloud")
	assert.ErrorIs(t, err, tag.ErrSentinelNotFound)

	_, err = executeCmd(t, "tag", "node/missing")
	assert.ErrorIs(t, err, tag.ErrNotADirectory)
}
