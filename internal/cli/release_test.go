package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestRelease(t *testing.T) {
	fixedNow(t)
	dir := sampleChangelog(t)
	writeTree(t, dir, map[string]string{"unreleased/summary.md": "Wrapping release.\n"})

	stdout, _, err := executeCommand(t, "release", "--path", dir, "--version", "v0.3.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Released v0.3.0")

	assert.FileExists(t, filepath.Join(dir, "v0.3.0", "features", "12-wrap.md"))
	assert.FileExists(t, filepath.Join(dir, "unreleased", ".gitkeep"))
	assert.Equal(t, "2024-05-06\nWrapping release.\n", readFile(t, filepath.Join(dir, "v0.3.0", "summary.md")))

	stdout, _, err = executeCommand(t, "build", "--path", dir, "--released-only")
	require.NoError(t, err)
	assert.Contains(t, stdout, "## v0.3.0 (2024-05-06)\n\nWrapping release.\n\n### FEATURES")
}

func TestRelease_NoDate(t *testing.T) {
	dir := sampleChangelog(t)

	_, _, err := executeCommand(t, "release", "--path", dir, "--version", "0.3.0", "--no-date")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "0.3.0", "summary.md"))
}

func TestRelease_Editor(t *testing.T) {
	dir := sampleChangelog(t)

	_, _, err := executeCommand(t, "release", "--path", dir, "--version", "v0.3.0",
		"--editor", writeEditor(t, "2024-06-01\nEdited summary.\n"))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01\nEdited summary.\n", readFile(t, filepath.Join(dir, "v0.3.0", "summary.md")))
}

func TestRelease_Errors(t *testing.T) {
	tests := map[string]struct {
		files    map[string]string
		version  string
		wantCode int
	}{
		"invalid version": {
			files:    map[string]string{"unreleased/features/1-a.md": "A"},
			version:  "next",
			wantCode: ExitInvalidArguments,
		},
		"nothing unreleased": {
			files:    map[string]string{"unreleased/": "", "v1.0.0/features/1-a.md": "A"},
			version:  "v1.1.0",
			wantCode: ExitMissingPrerequisite,
		},
		"version already released": {
			files:    map[string]string{"unreleased/features/2-b.md": "B", "v1.0.0/features/1-a.md": "A"},
			version:  "v1.0.0",
			wantCode: ExitFailure,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeTree(t, dir, tt.files)

			_, _, err := executeCommand(t, "release", "--path", dir, "--version", tt.version)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
		})
	}
}
