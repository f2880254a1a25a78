package commands

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name       string
		info       BuildInfo
		wantOut    []string
		notWantOut []string
	}{
		{
			name:       "release build",
			info:       BuildInfo{Version: "1.2.3", GitCommit: "9f1c2ab", BuildDate: "2026-01-02"},
			wantOut:    []string{"csvcollect v1.2.3", "commit: 9f1c2ab", "built:  2026-01-02"},
			notWantOut: []string{"unknown"},
		},
		{
			name:       "local build hides unknown fields",
			info:       BuildInfo{Version: "0.1.0", GitCommit: "unknown", BuildDate: "unknown"},
			wantOut:    []string{"csvcollect v0.1.0"},
			notWantOut: []string{"commit:", "built:"},
		},
		{
			name:    "dev version",
			info:    BuildInfo{Version: "dev"},
			wantOut: []string{"csvcollect vdev", runtime.Version()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)

			require.NoError(t, cmd.Execute())

			out := buf.String()
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notWantOut {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestVersionCommandMetadata(t *testing.T) {
	cmd := NewVersionCommand(BuildInfo{Version: "test"})

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}
