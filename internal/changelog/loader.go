package changelog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/fraglog/internal/config"
)

// DefaultConcurrency bounds the number of entry files read in parallel.
const DefaultConcurrency = 8

const gitkeep = ".gitkeep"

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for loading and scaffolding.
// Pass nil to disable debug logging. It must not be called while a load
// is in progress.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// LoadOptions configures how a changelog directory is loaded.
type LoadOptions struct {
	// WarningWriter receives warnings about ignored content (default: os.Stderr)
	WarningWriter io.Writer
	// Concurrency bounds parallel entry reads (default: DefaultConcurrency)
	Concurrency int
}

// Load reads the changelog directory dir into a Project.
// A nil cfg uses the default configuration.
func Load(dir string, cfg *config.Config) (*Project, error) {
	return LoadWithOptions(dir, cfg, LoadOptions{})
}

// LoadWithOptions reads the changelog directory dir with custom options.
//
// Directory listings are processed in lexical order so that repeated loads
// of an unchanged tree produce identical projects. Content that cannot be
// placed unambiguously is an error; directories the loader does not
// recognize are skipped with a warning.
func LoadWithOptions(dir string, cfg *config.Config, opts LoadOptions) (*Project, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	l := &loader{
		root:  dir,
		cfg:   cfg,
		warn:  opts.WarningWriter,
		limit: opts.Concurrency,
	}
	if l.warn == nil {
		l.warn = os.Stderr
	}
	if l.limit <= 0 {
		l.limit = DefaultConcurrency
	}
	return l.load()
}

type loader struct {
	root  string
	cfg   *config.Config
	warn  io.Writer
	limit int
}

// releasePlan is the result of classifying a release directory's children.
type releasePlan struct {
	layout  Layout
	summary string
	dirs    []string
}

func (l *loader) load() (*Project, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, &IOError{Path: l.root, Op: "open changelog directory", Err: err}
	}
	if !info.IsDir() {
		return nil, &StructureError{Path: l.root, Reason: "changelog path is not a directory"}
	}

	children, err := l.readDir(l.root)
	if err != nil {
		return nil, err
	}

	var (
		unreleased *Release
		releases   []Release
		versions   = make(map[string]string)
	)
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(l.root, name)

		if !l.isDir(path, child) {
			l.checkRootFile(name)
			continue
		}

		switch {
		case strings.HasPrefix(name, "."):
			logDebug("skipping hidden directory %s", path)
		case name == l.cfg.Unreleased.Folder:
			r, err := l.loadRelease(name, "", true)
			if err != nil {
				return nil, err
			}
			unreleased = &r
		default:
			version, ok := ParseReleaseVersion(name)
			if !ok {
				l.warnf("ignoring directory %s: not a release version or the unreleased folder", name)
				continue
			}
			if prev, dup := versions[version]; dup {
				return nil, &StructureError{
					Path:   path,
					Reason: fmt.Sprintf("release version duplicates directory %s", prev),
				}
			}
			versions[version] = name

			r, err := l.loadRelease(name, version, false)
			if err != nil {
				return nil, err
			}
			releases = append(releases, r)
		}
	}

	sortReleases(releases, l.cfg.SortReleasesBy)

	project := &Project{}
	if unreleased != nil {
		project.Releases = append(project.Releases, *unreleased)
	}
	project.Releases = append(project.Releases, releases...)

	if project.Prologue, err = l.readOptional(l.cfg.PrologueFilename); err != nil {
		return nil, err
	}
	if project.Epilogue, err = l.readOptional(l.cfg.EpilogueFilename); err != nil {
		return nil, err
	}

	logDebug("loaded %d releases from %s", len(project.Releases), l.root)
	return project, nil
}

// checkRootFile warns about entry files left at the top of the changelog
// directory. Config, prologue and epilogue files live here.
func (l *loader) checkRootFile(name string) {
	if name == l.cfg.PrologueFilename || name == l.cfg.EpilogueFilename {
		return
	}
	if isEntryFile(name, l.cfg.ChangeSets.EntryExt) {
		l.warnf("ignoring file %s: entries belong inside a release directory", name)
	}
}

func (l *loader) loadRelease(dirName, version string, unreleased bool) (Release, error) {
	dir := filepath.Join(l.root, dirName)
	plan, err := l.classifyRelease(dir)
	if err != nil {
		return Release{}, err
	}

	r := Release{
		Label:      dirName,
		Dir:        dirName,
		Version:    version,
		Unreleased: unreleased,
		Layout:     plan.layout,
	}
	if unreleased {
		r.Label = UnreleasedLabel
	}

	summary, err := l.readSummary(plan.summary)
	if err != nil {
		return Release{}, err
	}
	if unreleased {
		r.Summary = summary
	} else {
		r.Date, r.Summary = l.parseReleaseDate(summary)
		if !r.HasDate() && l.cfg.SortsByDate() {
			l.warnf("release %s has no date; add one as the first line of %s", dirName, l.cfg.ChangeSets.SummaryFilename)
		}
	}

	switch plan.layout {
	case LayoutCategoryFirst:
		r.ChangeSets, err = l.loadCategoryFirst(dir, plan.dirs)
	case LayoutComponentFirst:
		r.ChangeSets, err = l.loadComponentFirst(dir, plan.dirs)
	}
	if err != nil {
		return Release{}, err
	}

	logDebug("loaded release %s (%s, %d entries)", r.Label, r.Layout, r.EntryCount())
	return r, nil
}

// classifyRelease inspects the direct children of a release directory and
// decides which nesting order the release uses. A release whose children
// are categories nests components inside categories; one whose children are
// components nests categories inside components. Mixing both is rejected.
func (l *loader) classifyRelease(dir string) (releasePlan, error) {
	var plan releasePlan

	children, err := l.readDir(dir)
	if err != nil {
		return plan, err
	}

	var categories, components []string
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		if name != gitkeep && strings.HasPrefix(name, ".") {
			logDebug("skipping hidden entry %s", path)
			continue
		}
		if !l.isDir(path, child) {
			switch {
			case name == l.cfg.ChangeSets.SummaryFilename:
				plan.summary = path
			case name == gitkeep:
			case isEntryFile(name, l.cfg.ChangeSets.EntryExt):
				return plan, &StructureError{
					Path:   l.rel(path),
					Reason: "entry files must be placed inside a category directory",
				}
			default:
				l.warnf("ignoring file %s", l.rel(path))
			}
			continue
		}

		_, isComponent := l.cfg.Component(name)
		isCategory := l.cfg.HasCategory(name)
		switch {
		case isCategory && isComponent:
			return plan, &StructureError{
				Path:   l.rel(path),
				Reason: "name is both a configured category and a registered component",
			}
		case isCategory:
			categories = append(categories, name)
		case isComponent:
			components = append(components, name)
		default:
			l.warnf("ignoring directory %s: not a configured category or component", l.rel(path))
		}
	}

	switch {
	case len(categories) > 0 && len(components) > 0:
		return plan, &StructureError{
			Path: l.rel(dir),
			Reason: fmt.Sprintf("release mixes category directories (%s) with component directories (%s); use one nesting order per release",
				strings.Join(categories, ", "), strings.Join(components, ", ")),
		}
	case len(components) > 0:
		plan.layout = LayoutComponentFirst
		plan.dirs = components
	case len(categories) > 0:
		plan.layout = LayoutCategoryFirst
		plan.dirs = categories
	default:
		plan.layout = LayoutEmpty
	}
	return plan, nil
}

func (l *loader) loadCategoryFirst(releaseDir string, categories []string) ([]ChangeSet, error) {
	changeSets := make([]ChangeSet, 0, len(categories))
	for _, id := range categories {
		cs, err := l.loadCategoryDir(filepath.Join(releaseDir, id), id)
		if err != nil {
			return nil, err
		}
		changeSets = append(changeSets, cs)
	}
	l.orderChangeSets(changeSets)
	return changeSets, nil
}

// loadCategoryDir reads <release>/<category>/, which may hold entries, a
// summary, and registered component directories.
func (l *loader) loadCategoryDir(dir, categoryID string) (ChangeSet, error) {
	cs := ChangeSet{Category: NewCategory(categoryID)}

	children, err := l.readDir(dir)
	if err != nil {
		return cs, err
	}

	var summary string
	var files []string
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		if name != gitkeep && strings.HasPrefix(name, ".") {
			logDebug("skipping hidden entry %s", path)
			continue
		}
		if l.isDir(path, child) {
			comp, ok := l.cfg.Component(name)
			if !ok {
				reason := "not a registered component; category directories may only contain entries, a summary and component directories"
				if l.cfg.HasCategory(name) {
					reason = "category directories cannot be nested"
				}
				return cs, &StructureError{Path: l.rel(path), Reason: reason}
			}
			sectionSummary, entries, err := l.loadLeaf(path)
			if err != nil {
				return cs, err
			}
			cs.Components = append(cs.Components, ComponentSection{
				ID:      name,
				Name:    comp.Name,
				Path:    comp.Path,
				Summary: sectionSummary,
				Entries: entries,
			})
			continue
		}

		switch {
		case name == l.cfg.ChangeSets.SummaryFilename:
			summary = path
		case name == gitkeep:
		case isEntryFile(name, l.cfg.ChangeSets.EntryExt):
			files = append(files, path)
		default:
			return cs, &StructureError{Path: l.rel(path), Reason: "unexpected file in category directory"}
		}
	}

	if cs.Summary, err = l.readSummary(summary); err != nil {
		return cs, err
	}
	if cs.Entries, err = l.readEntries(files); err != nil {
		return cs, err
	}
	return cs, nil
}

// loadComponentFirst reads <release>/<component>/<category>/ trees and
// regroups them by category.
func (l *loader) loadComponentFirst(releaseDir string, components []string) ([]ChangeSet, error) {
	byCategory := make(map[string]int)
	var changeSets []ChangeSet

	for _, compID := range components {
		comp, _ := l.cfg.Component(compID)
		compDir := filepath.Join(releaseDir, compID)

		children, err := l.readDir(compDir)
		if err != nil {
			return nil, err
		}

		for _, child := range children {
			name := child.Name()
			path := filepath.Join(compDir, name)

			if !l.isDir(path, child) {
				if name == gitkeep {
					continue
				}
				return nil, &StructureError{
					Path:   l.rel(path),
					Reason: "component directories may only contain category directories",
				}
			}
			if !l.cfg.HasCategory(name) {
				return nil, &StructureError{Path: l.rel(path), Reason: "not a configured category"}
			}

			summary, entries, err := l.loadLeaf(path)
			if err != nil {
				return nil, err
			}

			i, ok := byCategory[name]
			if !ok {
				i = len(changeSets)
				byCategory[name] = i
				changeSets = append(changeSets, ChangeSet{Category: NewCategory(name)})
			}
			changeSets[i].Components = append(changeSets[i].Components, ComponentSection{
				ID:      compID,
				Name:    comp.Name,
				Path:    comp.Path,
				Summary: summary,
				Entries: entries,
			})
		}
	}

	l.orderChangeSets(changeSets)
	return changeSets, nil
}

// loadLeaf reads a directory that may only hold entries and a summary.
func (l *loader) loadLeaf(dir string) (string, []Entry, error) {
	children, err := l.readDir(dir)
	if err != nil {
		return "", nil, err
	}

	var summaryPath string
	var files []string
	for _, child := range children {
		name := child.Name()
		path := filepath.Join(dir, name)

		if name != gitkeep && strings.HasPrefix(name, ".") {
			logDebug("skipping hidden entry %s", path)
			continue
		}
		if l.isDir(path, child) {
			return "", nil, &StructureError{Path: l.rel(path), Reason: "unexpected nested directory"}
		}
		switch {
		case name == l.cfg.ChangeSets.SummaryFilename:
			summaryPath = path
		case name == gitkeep:
		case isEntryFile(name, l.cfg.ChangeSets.EntryExt):
			files = append(files, path)
		default:
			return "", nil, &StructureError{Path: l.rel(path), Reason: "unexpected file in component directory"}
		}
	}

	summary, err := l.readSummary(summaryPath)
	if err != nil {
		return "", nil, err
	}
	entries, err := l.readEntries(files)
	if err != nil {
		return "", nil, err
	}
	return summary, entries, nil
}

type entryResult struct {
	entry Entry
	ok    bool
	err   error
}

// readEntries reads entry files in parallel. Results are collected by
// index so the returned order, and the first error reported, follow the
// lexical order of paths regardless of scheduling.
func (l *loader) readEntries(paths []string) ([]Entry, error) {
	results := make([]entryResult, len(paths))

	var g errgroup.Group
	g.SetLimit(l.limit)
	for i, path := range paths {
		g.Go(func() error {
			e, ok, err := ReadEntry(path, l.rel(path), l.cfg.ChangeSets.EntryExt)
			results[i] = entryResult{entry: e, ok: ok, err: err}
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]Entry, 0, len(paths))
	for _, r := range results {
		if r.err != nil {
			return nil, r.err
		}
		if r.ok {
			entries = append(entries, r.entry)
		}
	}
	sortEntries(entries, l.cfg.ChangeSetSections.SortEntriesBy)
	return entries, nil
}

// orderChangeSets sorts change sets by configured category order and the
// component sections within each by id.
func (l *loader) orderChangeSets(changeSets []ChangeSet) {
	sort.SliceStable(changeSets, func(i, j int) bool {
		return l.cfg.CategoryIndex(changeSets[i].Category.ID) < l.cfg.CategoryIndex(changeSets[j].Category.ID)
	})
	for i := range changeSets {
		comps := changeSets[i].Components
		sort.SliceStable(comps, func(a, b int) bool {
			return comps[a].ID < comps[b].ID
		})
	}
}

// parseReleaseDate tries each configured layout against the first line of
// a release summary. A matching line is consumed from the summary.
func (l *loader) parseReleaseDate(summary string) (time.Time, string) {
	if summary == "" {
		return time.Time{}, ""
	}
	first, rest, _ := strings.Cut(summary, "\n")
	first = strings.TrimSpace(first)
	for _, layout := range l.cfg.ReleaseDateFormats {
		if t, err := time.Parse(layout, first); err == nil {
			return t, strings.TrimSpace(rest)
		}
	}
	return time.Time{}, summary
}

func (l *loader) readSummary(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &IOError{Path: path, Op: "read summary", Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// readOptional reads a top-level file such as the prologue. A missing file
// yields an empty string.
func (l *loader) readOptional(name string) (string, error) {
	if name == "" {
		return "", nil
	}
	path := filepath.Join(l.root, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &IOError{Path: path, Op: "read", Err: err}
	}
	return strings.Trim(string(data), "\r\n"), nil
}

// readDir lists dir. os.ReadDir returns entries sorted by file name.
func (l *loader) readDir(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &IOError{Path: dir, Op: "read directory", Err: err}
	}
	return entries, nil
}

// isDir reports whether a directory entry is a directory, following symlinks.
func (l *loader) isDir(path string, d os.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// rel returns path relative to the changelog directory for messages.
func (l *loader) rel(path string) string {
	if r, err := filepath.Rel(l.root, path); err == nil {
		return r
	}
	return path
}

func (l *loader) warnf(format string, args ...any) {
	fmt.Fprintf(l.warn, "Warning: "+format+"\n", args...)
}
