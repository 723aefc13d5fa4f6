package changelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/config"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	p := loadTree(t, testConfig(), map[string]string{
		"prologue.md":                       "Intro text.\n",
		"epilogue.md":                       "\nOutro.\n\n",
		"unreleased/.gitkeep":               "",
		"unreleased/features/12-wrap.md":    "- Add line wrapping\n",
		"v0.1.0/bug-fixes/3-crash.md":       "- Fix crash",
		"v0.2.0/summary.md":                 "2024-01-02\n\nSecond release.\n",
		"v0.2.0/features/docs/7-guide.md":   "Add guide",
		"v0.2.0/features/docs/summary.md":   "Docs work.",
		"v0.2.0/features/20-thing.md":       "- Thing",
		"v0.2.0/features/summary.md":        "Feature summary.",
		"v0.2.0/bug-fixes/.gitkeep":         "",
		"v0.2.0/breaking-changes/1-drop.md": "- Drop Go 1.20",
	})

	require.Len(t, p.Releases, 3)
	assert.Equal(t, []string{"Unreleased", "v0.2.0", "v0.1.0"}, p.ListReleases())
	assert.Equal(t, "Intro text.", p.Prologue)
	assert.Equal(t, "Outro.", p.Epilogue)

	unreleased := p.Releases[0]
	assert.True(t, unreleased.Unreleased)
	assert.Equal(t, "unreleased", unreleased.Dir)
	require.Len(t, unreleased.ChangeSets, 1)
	assert.Equal(t, Entry{
		ID:     "12-wrap",
		Number: 12,
		Body:   "- Add line wrapping",
		File:   "unreleased/features/12-wrap.md",
	}, unreleased.ChangeSets[0].Entries[0])

	v2 := p.Releases[1]
	assert.Equal(t, "v0.2.0", v2.Version)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), v2.Date)
	assert.Equal(t, "Second release.", v2.Summary)
	assert.Equal(t, LayoutCategoryFirst, v2.Layout)

	// Change sets follow configured category order, not directory order.
	var ids []string
	for _, cs := range v2.ChangeSets {
		ids = append(ids, cs.Category.ID)
	}
	assert.Equal(t, []string{"breaking-changes", "features", "bug-fixes"}, ids)

	features, ok := changeSet(v2, "features")
	require.True(t, ok)
	assert.Equal(t, "Feature summary.", features.Summary)
	require.Len(t, features.Entries, 1)
	require.Len(t, features.Components, 1)
	assert.Equal(t, ComponentSection{
		ID:      "docs",
		Name:    "Documentation",
		Path:    "docs",
		Summary: "Docs work.",
		Entries: []Entry{{ID: "7-guide", Number: 7, Body: "Add guide", File: "v0.2.0/features/docs/7-guide.md"}},
	}, features.Components[0])

	bugFixes, ok := changeSet(v2, "bug-fixes")
	require.True(t, ok)
	assert.True(t, bugFixes.IsEmpty())

	assert.Equal(t, 5, p.EntryCount())
}

func TestLoad_Deterministic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := map[string]string{
		"unreleased/features/2-b.md":   "B",
		"unreleased/features/10-a.md":  "A",
		"unreleased/features/zeta.md":  "Z",
		"unreleased/features/alpha.md": "Alpha",
		"v1.0.0/docs/features/1-x.md":  "X",
		"v1.0.0/cli/features/4-y.md":   "Y",
		"v1.0.0/cli/bug-fixes/5-z.md":  "Z",
		"v0.9.0/security/9-cve.md":     "CVE",
	}
	writeTree(t, dir, files)

	opts := LoadOptions{WarningWriter: &bytes.Buffer{}, Concurrency: 2}
	first, err := LoadWithOptions(dir, testConfig(), opts)
	require.NoError(t, err)
	second, err := LoadWithOptions(dir, testConfig(), opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	a, err := RenderMarkdownString(first, testConfig(), RenderOptions{})
	require.NoError(t, err)
	b, err := RenderMarkdownString(second, testConfig(), RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoad_EntryOrder(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"unreleased/features/10-a.md":  "zz",
		"unreleased/features/2-b.md":   "yy",
		"unreleased/features/foo.md":   "aa",
		"unreleased/features/bar.md":   "bb",
		"unreleased/features/0-nil.md": "cc",
	}

	tests := map[string]struct {
		sortBy string
		want   []string
	}{
		"by id puts numbered entries first": {
			sortBy: config.SortEntriesByID,
			want:   []string{"2-b", "10-a", "0-nil", "bar", "foo"},
		},
		"by entry text": {
			sortBy: config.SortEntriesByText,
			want:   []string{"foo", "bar", "0-nil", "2-b", "10-a"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.ChangeSetSections.SortEntriesBy = tt.sortBy
			p := loadTree(t, cfg, files)

			var got []string
			for _, ref := range p.Entries() {
				got = append(got, ref.Entry.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_EntryOrderKeepsTies(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		sortBy string
		files  map[string]string
		want   []string
	}{
		"equal numbers keep file order": {
			sortBy: config.SortEntriesByID,
			files: map[string]string{
				"unreleased/features/5-b.md": "aa",
				"unreleased/features/5-a.md": "zz",
				"unreleased/features/1-c.md": "mm",
			},
			want: []string{"1-c", "5-a", "5-b"},
		},
		"equal text keeps file order": {
			sortBy: config.SortEntriesByText,
			files: map[string]string{
				"unreleased/features/7-z.md": "Same",
				"unreleased/features/3-a.md": "Same",
				"unreleased/features/9-y.md": "Earlier",
			},
			want: []string{"9-y", "3-a", "7-z"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.ChangeSetSections.SortEntriesBy = tt.sortBy
			p := loadTree(t, cfg, tt.files)

			var got []string
			for _, ref := range p.Entries() {
				got = append(got, ref.Entry.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_SkipsWhitespaceEntries(t *testing.T) {
	t.Parallel()

	p := loadTree(t, testConfig(), map[string]string{
		"unreleased/features/1-real.md":  "Real",
		"unreleased/features/2-blank.md": " \n\t\n",
	})
	require.Len(t, p.Releases, 1)
	assert.Equal(t, 1, p.Releases[0].EntryCount())
}

func TestLoad_SkipsHiddenEntries(t *testing.T) {
	t.Parallel()

	var warnings bytes.Buffer
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"v0.1.0/bug-fixes/1-x.md":         "Fix",
		"v0.1.0/bug-fixes/.hidden.md":     "Hidden",
		"v0.1.0/bug-fixes/docs/.draft.md": "Draft",
		"v0.1.0/bug-fixes/docs/2-y.md":    "Docs fix",
		"v0.1.0/.notes.md":                "Notes",
		"v0.1.0/bug-fixes/.swp/":          "",
	})
	p, err := LoadWithOptions(dir, testConfig(), LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)

	require.Len(t, p.Releases, 1)
	assert.Equal(t, 2, p.Releases[0].EntryCount())
	for _, ref := range p.Entries() {
		assert.NotContains(t, ref.Entry.ID, ".")
	}
	assert.Empty(t, warnings.String())
}

func TestLoad_ComponentFirst(t *testing.T) {
	t.Parallel()

	p := loadTree(t, testConfig(), map[string]string{
		"v1.0.0/docs/features/1-guide.md": "Guide",
		"v1.0.0/docs/features/summary.md": "Docs summary",
		"v1.0.0/cli/features/2-flag.md":   "Flag",
		"v1.0.0/cli/bug-fixes/3-crash.md": "Crash",
		"v1.0.0/cli/.gitkeep":             "",
	})

	rel := p.Releases[0]
	assert.Equal(t, LayoutComponentFirst, rel.Layout)
	require.Len(t, rel.ChangeSets, 2)

	features := rel.ChangeSets[0]
	assert.Equal(t, "features", features.Category.ID)
	assert.Empty(t, features.Entries)
	require.Len(t, features.Components, 2)
	assert.Equal(t, "cli", features.Components[0].ID)
	assert.Equal(t, "docs", features.Components[1].ID)
	assert.Equal(t, "Docs summary", features.Components[1].Summary)
	assert.Equal(t, "v1.0.0/docs/features/1-guide.md", features.Components[1].Entries[0].File)

	assert.Equal(t, "bug-fixes", rel.ChangeSets[1].Category.ID)
}

func TestLoad_SortReleases(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"v0.1.0/summary.md":         "2024-05-01",
		"v0.1.0/features/1-a.md":    "A",
		"v0.2.0/summary.md":         "2024-01-01",
		"v0.2.0/features/2-b.md":    "B",
		"0.10.0/features/3-c.md":    "C",
		"v1.0.0-rc.1/features/4.md": "D",
	}

	tests := map[string]struct {
		sortBy []string
		want   []string
	}{
		"semantic version descending": {
			sortBy: []string{config.SortByVersion},
			want:   []string{"v1.0.0-rc.1", "0.10.0", "v0.2.0", "v0.1.0"},
		},
		"dated releases newest first, then undated by version": {
			sortBy: []string{config.SortByDate, config.SortByVersion},
			want:   []string{"v0.1.0", "v0.2.0", "v1.0.0-rc.1", "0.10.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			cfg.SortReleasesBy = tt.sortBy
			p := loadTree(t, cfg, files)
			assert.Equal(t, tt.want, p.ListReleases())
		})
	}
}

func TestLoad_StructureErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files    map[string]string
		wantPath string
		wantMsg  string
	}{
		"release mixes nesting orders": {
			files: map[string]string{
				"v1.0.0/features/1-a.md":       "A",
				"v1.0.0/docs/bug-fixes/2-b.md": "B",
			},
			wantPath: "v1.0.0",
			wantMsg:  "mixes category directories (features) with component directories (docs)",
		},
		"entry directly in release": {
			files:    map[string]string{"v1.0.0/1-a.md": "A"},
			wantPath: "v1.0.0/1-a.md",
			wantMsg:  "inside a category directory",
		},
		"stray file in category": {
			files:    map[string]string{"unreleased/features/notes.txt": "x"},
			wantPath: "unreleased/features/notes.txt",
			wantMsg:  "unexpected file",
		},
		"unregistered component": {
			files:    map[string]string{"unreleased/features/api/1-a.md": "A"},
			wantPath: "unreleased/features/api",
			wantMsg:  "not a registered component",
		},
		"nested category": {
			files:    map[string]string{"unreleased/features/bug-fixes/1-a.md": "A"},
			wantPath: "unreleased/features/bug-fixes",
			wantMsg:  "cannot be nested",
		},
		"directory below component": {
			files:    map[string]string{"unreleased/features/docs/more/1-a.md": "A"},
			wantPath: "unreleased/features/docs/more",
			wantMsg:  "unexpected nested directory",
		},
		"file in component-first component dir": {
			files: map[string]string{
				"v1.0.0/docs/features/1-a.md": "A",
				"v1.0.0/docs/2-b.md":          "B",
			},
			wantPath: "v1.0.0/docs/2-b.md",
			wantMsg:  "may only contain category directories",
		},
		"unknown category in component-first dir": {
			files:    map[string]string{"v1.0.0/docs/misc/1-a.md": "A"},
			wantPath: "v1.0.0/docs/misc",
			wantMsg:  "not a configured category",
		},
		"duplicate release version": {
			files: map[string]string{
				"1.0.0/features/1-a.md":  "A",
				"v1.0.0/features/2-b.md": "B",
			},
			wantMsg: "duplicates directory 1.0.0",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			writeTree(t, dir, tt.files)

			_, err := LoadWithOptions(dir, testConfig(), LoadOptions{WarningWriter: &bytes.Buffer{}})
			require.Error(t, err)
			require.True(t, IsStructureError(err), "got %T: %v", err, err)

			var se *StructureError
			require.True(t, errors.As(err, &se))
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, strings.ReplaceAll(se.Path, `\`, "/"))
			}
			assert.Contains(t, se.Reason, tt.wantMsg)
		})
	}
}

func TestLoad_ReadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir()+"/nope", testConfig())
		require.Error(t, err)
		assert.True(t, IsIOError(err))
	})

	t.Run("path is a file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"file": "x"})
		_, err := Load(dir+"/file", testConfig())
		assert.True(t, IsStructureError(err))
	})

	t.Run("invalid utf-8 entry", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTree(t, dir, map[string]string{"unreleased/features/1-bad.md": "\xff\xfe"})
		_, err := Load(dir, testConfig())
		require.Error(t, err)
		assert.True(t, IsMalformedEntryError(err))
		assert.Contains(t, err.Error(), "1-bad.md")
	})
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"config.yml":                 "wrap: 80\n",
		"notes/readme.txt":           "x",
		"stray.md":                   "- lost",
		".git/HEAD":                  "ref",
		"unreleased/features/1-a.md": "A",
		"unreleased/misc/2-b.md":     "B",
		"unreleased/README.txt":      "x",
	})

	var warnings bytes.Buffer
	p, err := LoadWithOptions(dir, testConfig(), LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)
	assert.Equal(t, 1, p.EntryCount())

	out := warnings.String()
	assert.Contains(t, out, "ignoring directory notes")
	assert.Contains(t, out, "ignoring file stray.md")
	assert.Contains(t, out, "misc: not a configured category or component")
	assert.Contains(t, out, "README.txt")
	assert.NotContains(t, out, ".git")
	assert.NotContains(t, out, "config.yml")
}

func TestLoad_DateWarning(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"v1.0.0/summary.md":      "No date here.",
		"v1.0.0/features/1-a.md": "A",
	})
	cfg := testConfig()
	cfg.SortReleasesBy = []string{config.SortByDate}

	var warnings bytes.Buffer
	p, err := LoadWithOptions(dir, cfg, LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)
	assert.False(t, p.Releases[0].HasDate())
	assert.Equal(t, "No date here.", p.Releases[0].Summary)
	assert.Contains(t, warnings.String(), "release v1.0.0 has no date")
}
