package changelog

import (
	"strings"
	"time"
)

// UnreleasedLabel is the label of the release built from the unreleased folder.
const UnreleasedLabel = "Unreleased"

// Layout records which nesting order a release directory uses.
type Layout int

const (
	// LayoutEmpty is a release with no category or component directories.
	LayoutEmpty Layout = iota
	// LayoutCategoryFirst nests components inside categories:
	// <release>/<category>/<component>/<entry>.
	LayoutCategoryFirst
	// LayoutComponentFirst nests categories inside components:
	// <release>/<component>/<category>/<entry>.
	LayoutComponentFirst
)

func (l Layout) String() string {
	switch l {
	case LayoutCategoryFirst:
		return "category-first"
	case LayoutComponentFirst:
		return "component-first"
	default:
		return "empty"
	}
}

// Category is a configured change-type tag.
type Category struct {
	ID    string
	Title string
}

// NewCategory returns the category for id with its display title.
func NewCategory(id string) Category {
	return Category{ID: id, Title: CategoryTitle(id)}
}

// CategoryTitle converts a category id into its section title:
// "bug-fixes" becomes "BUG FIXES".
func CategoryTitle(id string) string {
	r := strings.NewReplacer("-", " ", "_", " ")
	return strings.ToUpper(r.Replace(id))
}

// Entry is one fragment file: a single changelog line item.
type Entry struct {
	// ID is the file name without its extension, e.g. "12-add-wrapping".
	ID string
	// Number is the issue/PR number parsed from the id prefix, 0 if none.
	Number int
	// Body is the trimmed file content.
	Body string
	// File is the entry path relative to the changelog directory.
	File string
}

// HasNumber reports whether the entry id carries an issue/PR number.
func (e Entry) HasNumber() bool {
	return e.Number > 0
}

// ComponentSection groups the entries of one component within a change set.
type ComponentSection struct {
	ID string
	// Name is the display name from the registry.
	Name string
	// Path is the registered link target, empty when the component has none.
	Path    string
	Summary string
	Entries []Entry
}

// ChangeSet holds a release's entries for one category.
type ChangeSet struct {
	Category Category
	Summary  string
	// Entries are the general entries, those not scoped to a component.
	Entries    []Entry
	Components []ComponentSection
}

// Title returns the section title for the change set.
func (cs ChangeSet) Title() string {
	return cs.Category.Title
}

// EntryCount returns the number of entries including component entries.
func (cs ChangeSet) EntryCount() int {
	n := len(cs.Entries)
	for _, c := range cs.Components {
		n += len(c.Entries)
	}
	return n
}

// IsEmpty returns true if the change set has no entries.
func (cs ChangeSet) IsEmpty() bool {
	return cs.EntryCount() == 0
}

// Release is one release directory, or the unreleased folder.
type Release struct {
	// Label is the directory name for versioned releases, UnreleasedLabel otherwise.
	Label string
	// Dir is the directory name relative to the changelog directory.
	Dir string
	// Version is the canonical "vMAJOR.MINOR.PATCH" form, empty when unreleased.
	Version    string
	Date       time.Time
	Summary    string
	ChangeSets []ChangeSet
	Unreleased bool
	Layout     Layout
}

// HasDate returns true if a release date was parsed from the summary.
func (r Release) HasDate() bool {
	return !r.Date.IsZero()
}

// EntryCount returns the number of entries across all change sets.
func (r Release) EntryCount() int {
	n := 0
	for _, cs := range r.ChangeSets {
		n += cs.EntryCount()
	}
	return n
}

// IsEmpty returns true if the release has no entries.
func (r Release) IsEmpty() bool {
	return r.EntryCount() == 0
}

// Project is a loaded changelog directory.
type Project struct {
	// Releases lists the unreleased release first, when present, then
	// versioned releases in display order (newest first by default).
	Releases []Release
	Prologue string
	Epilogue string
}
