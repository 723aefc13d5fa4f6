package config

// Accepted values for enum-like keys.
const (
	BulletDash     = "-"
	BulletAsterisk = "*"

	SortByVersion = "version"
	SortByDate    = "date"

	SortEntriesByID   = "id"
	SortEntriesByText = "entry-text"
)

// projectURLExample is the commented project_url line in the template.
const projectURLExample = "# project_url: https://github.com/org/repo"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# fraglog configuration
# Every key is optional; these are the defaults.

# project_url: https://github.com/org/repo   # Base URL for issue links
wrap: 80                                      # Max width of rendered entries
heading: "# CHANGELOG"                        # First line of the document
bullet_style: "-"                             # - | *
empty_msg: "Nothing to see here! Add some entries to get started."
empty_release_msg: "Nothing to report."
prologue_filename: prologue.md
epilogue_filename: epilogue.md

sort_releases_by: [version]                   # version | date (tried in order)
release_date_formats: ["2006-01-02"]          # Go layouts for summary first line

unreleased:
  folder: unreleased
  heading: "## Unreleased"

change_sets:
  summary_filename: summary.md
  entry_ext: md

change_set_sections:
  sort_entries_by: id                         # id | entry-text

categories:                                   # Recognized categories, in display order
  - breaking-changes
  - features
  - improvements
  - bug-fixes
  - dependencies
  - deprecations
  - removals
  - security

components:
  general_entries_title: General
  entry_indent: 2
  # all:
  #   docs:
  #     name: Documentation
  #     path: docs
`
}

// DefaultCategories returns the built-in category ids in display order.
func DefaultCategories() []string {
	return []string{
		"breaking-changes",
		"features",
		"improvements",
		"bug-fixes",
		"dependencies",
		"deprecations",
		"removals",
		"security",
	}
}

// GetDefaults returns the default configuration values keyed by koanf path.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"project_url":                         "",
		"wrap":                                80,
		"heading":                             "# CHANGELOG",
		"bullet_style":                        BulletDash,
		"empty_msg":                           "Nothing to see here! Add some entries to get started.",
		"empty_release_msg":                   "Nothing to report.",
		"prologue_filename":                   "prologue.md",
		"epilogue_filename":                   "epilogue.md",
		"sort_releases_by":                    []string{SortByVersion},
		"release_date_formats":                []string{"2006-01-02"},
		"unreleased.folder":                   "unreleased",
		"unreleased.heading":                  "## Unreleased",
		"change_sets.summary_filename":        "summary.md",
		"change_sets.entry_ext":               "md",
		"change_set_sections.sort_entries_by": SortEntriesByID,
		"categories":                          DefaultCategories(),
		"components.general_entries_title":    "General",
		"components.entry_indent":             2,
	}
}
