package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/config"
)

// writeTree creates files under root. Keys ending in "/" create empty
// directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(path, 0755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// testConfig returns the default config with a docs component registered.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Components.All = map[string]config.Component{
		"docs": {Name: "Documentation", Path: "docs"},
		"cli":  {Name: "CLI"},
	}
	return cfg
}

func loadTree(t *testing.T, cfg *config.Config, files map[string]string) *Project {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, files)
	p, err := LoadWithOptions(dir, cfg, LoadOptions{WarningWriter: &strings.Builder{}})
	require.NoError(t, err)
	return p
}

func changeSet(r Release, categoryID string) (*ChangeSet, bool) {
	for i := range r.ChangeSets {
		if r.ChangeSets[i].Category.ID == categoryID {
			return &r.ChangeSets[i], true
		}
	}
	return nil, false
}
