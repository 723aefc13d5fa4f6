package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/fraglog/internal/config"
)

func entry(id string, number int, body string) Entry {
	return Entry{ID: id, Number: number, Body: body}
}

func TestRenderMarkdown_Document(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ProjectURL = "https://github.com/org/repo"

	p := &Project{
		Prologue: "All notable changes.",
		Epilogue: "Older history lives elsewhere.",
		Releases: []Release{
			{
				Label:      UnreleasedLabel,
				Dir:        "unreleased",
				Unreleased: true,
				ChangeSets: []ChangeSet{{
					Category: NewCategory("features"),
					Entries:  []Entry{entry("12-add-wrapping", 12, "Add line wrapping")},
				}},
			},
			{
				Label:   "v0.1.0",
				Version: "v0.1.0",
				Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				Summary: "First release.",
				ChangeSets: []ChangeSet{
					{Category: NewCategory("features")},
					{
						Category: NewCategory("bug-fixes"),
						Entries:  []Entry{entry("fix-crash", 0, "- Fix crash")},
					},
				},
			},
		},
	}

	want := `# CHANGELOG

All notable changes.

## Unreleased

### FEATURES

- Add line wrapping ([#12](https://github.com/org/repo/issues/12))

## v0.1.0 (2024-01-02)

First release.

### BUG FIXES

- Fix crash

Older history lives elsewhere.
`

	got, err := RenderMarkdownString(p, cfg, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := RenderMarkdownString(p, cfg, RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRenderMarkdown_Modes(t *testing.T) {
	t.Parallel()

	unreleased := Release{
		Label:      UnreleasedLabel,
		Unreleased: true,
		ChangeSets: []ChangeSet{{
			Category: NewCategory("features"),
			Entries:  []Entry{entry("1-new", 1, "New thing")},
		}},
	}
	released := Release{
		Label:   "v1.0.0",
		Version: "v1.0.0",
		ChangeSets: []ChangeSet{{
			Category: NewCategory("bug-fixes"),
			Entries:  []Entry{entry("2-old", 2, "Old fix")},
		}},
	}
	emptyUnreleased := Release{Label: UnreleasedLabel, Unreleased: true}

	tests := map[string]struct {
		project *Project
		mode    RenderMode
		want    string
		wantErr error
	}{
		"unreleased only": {
			project: &Project{Prologue: "ignored", Releases: []Release{unreleased, released}},
			mode:    RenderUnreleased,
			want:    "## Unreleased\n\n### FEATURES\n\n- New thing\n",
		},
		"unreleased only with empty unreleased": {
			project: &Project{Releases: []Release{emptyUnreleased, released}},
			mode:    RenderUnreleased,
			wantErr: ErrNoUnreleasedChanges,
		},
		"unreleased only without unreleased folder": {
			project: &Project{Releases: []Release{released}},
			mode:    RenderUnreleased,
			wantErr: ErrNoUnreleasedChanges,
		},
		"released only": {
			project: &Project{Releases: []Release{unreleased, released}},
			mode:    RenderReleased,
			want:    "# CHANGELOG\n\n## v1.0.0\n\n### BUG FIXES\n\n- Old fix\n",
		},
		"empty unreleased is omitted": {
			project: &Project{Releases: []Release{emptyUnreleased, released}},
			mode:    RenderAll,
			want:    "# CHANGELOG\n\n## v1.0.0\n\n### BUG FIXES\n\n- Old fix\n",
		},
		"empty project": {
			project: &Project{Prologue: "Intro", Epilogue: "Outro", Releases: []Release{emptyUnreleased}},
			mode:    RenderAll,
			want:    "# CHANGELOG\n\nNothing to see here! Add some entries to get started.\n\nOutro\n",
		},
		"release without entries": {
			project: &Project{Releases: []Release{released, {Label: "v0.1.0", Version: "v0.1.0", Summary: "Placeholder."}}},
			mode:    RenderAll,
			want:    "# CHANGELOG\n\n## v1.0.0\n\n### BUG FIXES\n\n- Old fix\n\n## v0.1.0\n\nPlaceholder.\n\nNothing to report.\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := RenderMarkdownString(tt.project, testConfig(), RenderOptions{Mode: tt.mode})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMarkdown_Components(t *testing.T) {
	t.Parallel()

	p := &Project{Releases: []Release{{
		Label:   "v1.0.0",
		Version: "v1.0.0",
		ChangeSets: []ChangeSet{{
			Category: NewCategory("features"),
			Summary:  "Lots of features.",
			Entries:  []Entry{entry("3-core", 3, "Core change")},
			Components: []ComponentSection{
				{ID: "cli", Name: "CLI", Entries: []Entry{entry("5-flag", 5, "- New flag\n  - with detail")}},
				{ID: "docs", Name: "Documentation", Path: "docs", Summary: "Docs overhaul.", Entries: []Entry{entry("4-guide", 4, "Add guide")}},
				{ID: "empty", Name: "Empty"},
			},
		}},
	}}}

	want := `# CHANGELOG

## v1.0.0

### FEATURES

Lots of features.

- General
  - Core change
- CLI
  - New flag
    - with detail
- [Documentation](./docs)
  Docs overhaul.
  - Add guide
`

	got, err := RenderMarkdownString(p, testConfig(), RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRenderMarkdown_ComponentsWithoutGeneralEntries(t *testing.T) {
	t.Parallel()

	p := &Project{Releases: []Release{{
		Label:   "v1.0.0",
		Version: "v1.0.0",
		ChangeSets: []ChangeSet{{
			Category: NewCategory("features"),
			Components: []ComponentSection{
				{ID: "docs", Name: "Documentation", Path: "docs", Entries: []Entry{entry("4-guide", 4, "Add guide")}},
			},
		}},
	}}}

	got, err := RenderMarkdownString(p, testConfig(), RenderOptions{})
	require.NoError(t, err)
	assert.NotContains(t, got, "General")
	assert.Contains(t, got, "- [Documentation](./docs)\n  - Add guide\n")
}

func TestRenderEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		cfg    func(*config.Config)
		entry  Entry
		indent int
		want   []string
	}{
		"issue link appended": {
			cfg:   func(c *config.Config) { c.ProjectURL = "https://github.com/org/repo" },
			entry: entry("7-x", 7, "Fix it"),
			want:  []string{"- Fix it ([#7](https://github.com/org/repo/issues/7))"},
		},
		"no link without project url": {
			entry: entry("7-x", 7, "Fix it"),
			want:  []string{"- Fix it"},
		},
		"no link without number": {
			cfg:   func(c *config.Config) { c.ProjectURL = "https://github.com/org/repo" },
			entry: entry("refactor", 0, "Refactor"),
			want:  []string{"- Refactor"},
		},
		"existing pull link is kept": {
			cfg:   func(c *config.Config) { c.ProjectURL = "https://github.com/org/repo" },
			entry: entry("7-x", 7, "Fix it ([#7](https://github.com/org/repo/pull/7))"),
			want:  []string{"- Fix it ([#7](https://github.com/org/repo/pull/7))"},
		},
		"author link text matches generated link": {
			cfg:   func(c *config.Config) { c.ProjectURL = "https://github.com/org/repo" },
			entry: entry("3-x", 3, "Follow-up to [#9](https://x.io/issues/9)"),
			want: []string{
				"- Follow-up to [#9](https://x.io/issues/9)",
				"  ([#3](https://github.com/org/repo/issues/3))",
			},
		},
		"longer number is not the same link": {
			cfg:   func(c *config.Config) { c.ProjectURL = "https://github.com/org/repo" },
			entry: entry("7-x", 7, "See https://github.com/org/repo/issues/70"),
			want: []string{
				"- See https://github.com/org/repo/issues/70",
				"  ([#7](https://github.com/org/repo/issues/7))",
			},
		},
		"asterisk bullets": {
			cfg:   func(c *config.Config) { c.BulletStyle = config.BulletAsterisk },
			entry: entry("1-a", 1, "- One\n- Two"),
			want:  []string{"* One", "* Two"},
		},
		"issue refs escaped": {
			entry: entry("1-a", 1, "Closes #44"),
			want:  []string{`- Closes \#44`},
		},
		"wrapped with indent": {
			cfg:    func(c *config.Config) { c.Wrap = 20 },
			entry:  entry("1-a", 0, "aaaa bbbb cccc dddd eeee"),
			indent: 2,
			want:   []string{"  - aaaa bbbb cccc", "    dddd eeee"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			r := renderer{cfg: cfg}
			assert.Equal(t, tt.want, r.entry(tt.entry, tt.indent))
		})
	}
}

func TestRenderRelease(t *testing.T) {
	t.Parallel()

	rel := &Release{
		Label:   "v2.0.0",
		Version: "v2.0.0",
		ChangeSets: []ChangeSet{{
			Category: NewCategory("security"),
			Entries:  []Entry{entry("9-cve", 9, "Patch CVE")},
		}},
	}
	assert.Equal(t, "## v2.0.0\n\n### SECURITY\n\n- Patch CVE\n", RenderRelease(rel, nil))
}

func TestRenderMarkdown_FromDisk(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ProjectURL = "https://github.com/org/repo"
	p := loadTree(t, cfg, map[string]string{
		"unreleased/features/12-add-wrapping.md":    "Add line wrapping\n",
		"v0.1.0/summary.md":                         "2024-01-02\nInitial release.\n",
		"v0.1.0/features/docs/3-readme.md":          "- Write README\n",
		"v0.1.0/breaking-changes/1-rename-flags.md": "- Rename `--out` to `--output`\n",
	})

	got, err := RenderMarkdownString(p, cfg, RenderOptions{})
	require.NoError(t, err)

	want := strings.Join([]string{
		"# CHANGELOG",
		"## Unreleased",
		"### FEATURES",
		"- Add line wrapping ([#12](https://github.com/org/repo/issues/12))",
		"## v0.1.0 (2024-01-02)",
		"Initial release.",
		"### BREAKING CHANGES",
		"- Rename `--out` to `--output` ([#1](https://github.com/org/repo/issues/1))",
		"### FEATURES",
		"- [Documentation](./docs)\n  - Write README ([#3](https://github.com/org/repo/issues/3))",
	}, "\n\n") + "\n"
	assert.Equal(t, want, got)
}
