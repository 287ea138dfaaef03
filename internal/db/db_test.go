package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultListLimit},
		{"negative uses default", -3, DefaultListLimit},
		{"within range", 25, 25},
		{"at max", MaxListLimit, MaxListLimit},
		{"above max is capped", MaxListLimit + 1, MaxListLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLimit(tt.limit))
		})
	}
}

func TestParseJobStatus(t *testing.T) {
	status, err := ParseJobStatus("")
	require.NoError(t, err)
	assert.Equal(t, JobStatusOpen, status)

	status, err = ParseJobStatus("closed")
	require.NoError(t, err)
	assert.Equal(t, JobStatusClosed, status)

	_, err = ParseJobStatus("archived")
	assert.ErrorContains(t, err, `invalid job status "archived"`)
}

func TestJobStatus_Valid(t *testing.T) {
	assert.True(t, JobStatusOpen.Valid())
	assert.True(t, JobStatusClosed.Valid())
	assert.False(t, JobStatus("OPEN").Valid())
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"go"}, nonNil([]string{"go"}))
}
