package changelog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoUnreleasedChanges is returned when unreleased-only output is
// requested but the unreleased release is absent or has no entries.
var ErrNoUnreleasedChanges = errors.New("no unreleased changes")

// StructureError reports a file or directory that does not belong where it
// was found.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// MalformedEntryError reports an entry file that could not be read or decoded.
type MalformedEntryError struct {
	Path string
	Err  error
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed entry %s: %v", e.Path, e.Err)
}

func (e *MalformedEntryError) Unwrap() error { return e.Err }

// IOError wraps a filesystem failure with the path and operation involved.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ReleaseNotFoundError is returned when a requested release doesn't exist.
type ReleaseNotFoundError struct {
	Label     string
	Available []string
}

func (e *ReleaseNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("release %q not found (no releases)", e.Label)
	}
	return fmt.Sprintf("release %q not found (available: %s)",
		e.Label, strings.Join(e.Available, ", "))
}

// UnknownCategoryError is returned when a category id is not configured.
type UnknownCategoryError struct {
	Category  string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q (configured: %s)",
		e.Category, strings.Join(e.Available, ", "))
}

// UnknownComponentError is returned when a component id is not registered.
type UnknownComponentError struct {
	Component string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q (register it under components.all)", e.Component)
}

// ExistsError is returned when a scaffolding operation would overwrite an
// existing file or directory.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s already exists", e.Path)
}

// IsStructureError returns true if the error is a StructureError.
func IsStructureError(err error) bool {
	var se *StructureError
	return errors.As(err, &se)
}

// IsMalformedEntryError returns true if the error is a MalformedEntryError.
func IsMalformedEntryError(err error) bool {
	var me *MalformedEntryError
	return errors.As(err, &me)
}

// IsIOError returns true if the error is an IOError.
func IsIOError(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// IsReleaseNotFoundError returns true if the error is a ReleaseNotFoundError.
func IsReleaseNotFoundError(err error) bool {
	var re *ReleaseNotFoundError
	return errors.As(err, &re)
}

// IsExistsError returns true if the error is an ExistsError.
func IsExistsError(err error) bool {
	var ee *ExistsError
	return errors.As(err, &ee)
}

// IsUnknownCategoryError returns true if the error is an UnknownCategoryError.
func IsUnknownCategoryError(err error) bool {
	var ue *UnknownCategoryError
	return errors.As(err, &ue)
}

// IsUnknownComponentError returns true if the error is an UnknownComponentError.
func IsUnknownComponentError(err error) bool {
	var ue *UnknownComponentError
	return errors.As(err, &ue)
}

var errInvalidUTF8 = errors.New("content is not valid UTF-8")
