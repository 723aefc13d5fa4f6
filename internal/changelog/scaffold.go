package changelog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/fraglog/internal/config"
)

// InitOptions configures InitDir.
type InitOptions struct {
	// ProloguePath is copied into the changelog directory when set.
	ProloguePath string
	// EpiloguePath is copied into the changelog directory when set.
	EpiloguePath string
	// Force allows initializing a directory that already exists.
	Force bool
}

// InitDir creates a changelog directory with an empty unreleased folder.
func InitDir(dir string, cfg *config.Config, opts InitOptions) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if _, err := os.Stat(dir); err == nil && !opts.Force {
		return &ExistsError{Path: dir}
	}

	if err := ensureKeptDir(filepath.Join(dir, cfg.Unreleased.Folder)); err != nil {
		return err
	}
	if err := copyOptional(opts.ProloguePath, filepath.Join(dir, cfg.PrologueFilename)); err != nil {
		return err
	}
	if err := copyOptional(opts.EpiloguePath, filepath.Join(dir, cfg.EpilogueFilename)); err != nil {
		return err
	}

	logDebug("initialized changelog directory %s", dir)
	return nil
}

// AddOptions describes a new unreleased entry.
type AddOptions struct {
	Category string
	// Component is optional; empty adds a general entry.
	Component string
	// ID is the entry file name without extension, e.g. "12-fix-wrapping".
	ID   string
	Body string
}

// EntryPath returns where AddEntry would write the entry described by
// opts. Entries for a component go into the category-first location
// unless the unreleased release already nests categories inside that
// component.
func EntryPath(dir string, cfg *config.Config, opts AddOptions) string {
	name := opts.ID + "." + cfg.ChangeSets.EntryExt
	unreleased := filepath.Join(dir, cfg.Unreleased.Folder)
	if opts.Component == "" {
		return filepath.Join(unreleased, opts.Category, name)
	}
	if info, err := os.Stat(filepath.Join(unreleased, opts.Component)); err == nil && info.IsDir() {
		return filepath.Join(unreleased, opts.Component, opts.Category, name)
	}
	return filepath.Join(unreleased, opts.Category, opts.Component, name)
}

// AddEntry writes a new entry into the unreleased release and returns its
// path. Existing entries are never overwritten.
func AddEntry(dir string, cfg *config.Config, opts AddOptions) (string, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if !cfg.HasCategory(opts.Category) {
		return "", &UnknownCategoryError{Category: opts.Category, Available: cfg.Categories}
	}
	if opts.Component != "" {
		if _, ok := cfg.Component(opts.Component); !ok {
			return "", &UnknownComponentError{Component: opts.Component}
		}
	}
	if err := validateEntryID(opts.ID); err != nil {
		return "", err
	}

	path := EntryPath(dir, cfg, opts)
	if _, err := os.Stat(path); err == nil {
		return "", &ExistsError{Path: path}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &IOError{Path: filepath.Dir(path), Op: "create directory", Err: err}
	}
	if err := os.WriteFile(path, []byte(opts.Body), 0644); err != nil {
		return "", &IOError{Path: path, Op: "write entry", Err: err}
	}

	logDebug("added entry %s", path)
	return path, nil
}

// EntryBody formats a one-line message as entry file content.
func EntryBody(cfg *config.Config, message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return ""
	}
	return cfg.BulletStyle + " " + message + "\n"
}

func validateEntryID(id string) error {
	switch {
	case id == "":
		return errors.New("entry id is required")
	case strings.ContainsAny(id, `/\`) || id == "." || id == "..":
		return fmt.Errorf("entry id %q must be a plain file name", id)
	case strings.HasPrefix(id, "."):
		return fmt.Errorf("entry id %q must not start with a dot", id)
	}
	return nil
}

// PrepareRelease moves the unreleased folder to a release directory named
// version, leaves a fresh empty unreleased folder behind, and returns the
// new release directory. Placeholder .gitkeep files are removed from the
// release since it is no longer expected to be empty.
func PrepareRelease(dir string, cfg *config.Config, version string) (string, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if _, ok := ParseReleaseVersion(version); !ok {
		return "", fmt.Errorf("invalid release version %q (expected: vX.Y.Z or X.Y.Z)", version)
	}

	unreleased := filepath.Join(dir, cfg.Unreleased.Folder)
	if info, err := os.Stat(unreleased); err != nil || !info.IsDir() {
		return "", ErrNoUnreleasedChanges
	}

	target := filepath.Join(dir, version)
	if _, err := os.Stat(target); err == nil {
		return "", &ExistsError{Path: target}
	}

	if err := os.Rename(unreleased, target); err != nil {
		return "", &IOError{Path: unreleased, Op: "move", Err: err}
	}
	if err := removeGitkeeps(target); err != nil {
		return "", err
	}
	if err := ensureKeptDir(unreleased); err != nil {
		return "", err
	}

	logDebug("moved %s to %s", unreleased, target)
	return target, nil
}

// ensureKeptDir creates dir with a .gitkeep so that git tracks it while empty.
func ensureKeptDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &IOError{Path: dir, Op: "create directory", Err: err}
	}
	keep := filepath.Join(dir, gitkeep)
	if _, err := os.Stat(keep); err == nil {
		return nil
	}
	if err := os.WriteFile(keep, nil, 0644); err != nil {
		return &IOError{Path: keep, Op: "write", Err: err}
	}
	return nil
}

func removeGitkeeps(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IOError{Path: path, Op: "walk", Err: err}
		}
		if !d.IsDir() && d.Name() == gitkeep {
			if err := os.Remove(path); err != nil {
				return &IOError{Path: path, Op: "remove", Err: err}
			}
		}
		return nil
	})
}

func copyOptional(src, dst string) error {
	if src == "" {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return &IOError{Path: src, Op: "read", Err: err}
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return &IOError{Path: dst, Op: "write", Err: err}
	}
	return nil
}
