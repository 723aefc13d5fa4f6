package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := map[string]struct {
		content  *string
		wantCode int
		wantOut  string
	}{
		"in sync": {
			content:  ptr(sampleMarkdown),
			wantCode: ExitSuccess,
			wantOut:  "is in sync with",
		},
		"out of sync": {
			content:  ptr("# CHANGELOG\n"),
			wantCode: ExitFailure,
			wantOut:  "is out of sync with",
		},
		"missing file": {
			wantCode: ExitFailure,
			wantOut:  "does not exist",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := sampleChangelog(t)
			md := filepath.Join(t.TempDir(), "CHANGELOG.md")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(md, []byte(*tt.content), 0644))
			}

			stdout, _, err := executeCommand(t, "check", "--path", dir, "--file", md)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stdout, tt.wantOut)
		})
	}
}

func TestCheck_AfterBuild(t *testing.T) {
	dir := sampleChangelog(t)
	md := filepath.Join(t.TempDir(), "CHANGELOG.md")

	_, _, err := executeCommand(t, "build", "--path", dir, "--output", md)
	require.NoError(t, err)

	stdout, _, err := executeCommand(t, "check", "--path", dir, "--file", md)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(4 entries)")
}

func ptr[T any](v T) *T {
	return &v
}
