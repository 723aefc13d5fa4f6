package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	Field    string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" && e.FilePath != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		if os.IsPermission(err) {
			return &ValidationError{
				FilePath: filePath,
				Message:  "permission denied",
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks if YAML data has valid syntax.
// Returns nil if valid, or a ValidationError if invalid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	// Empty data is valid - will use defaults
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}
		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// rules are the struct-level constraints checked with validator.
type rules struct {
	Wrap            int      `validate:"min=1"`
	Heading         string   `validate:"required"`
	EntryExt        string   `validate:"required"`
	SummaryFilename string   `validate:"required"`
	UnreleasedDir   string   `validate:"required,excludesall=/\\"`
	EntryIndent     int      `validate:"min=0,max=8"`
	Categories      []string `validate:"required,min=1,dive,required"`
}

// Validate checks cfg against all value constraints.
func Validate(cfg *Config) error {
	r := rules{
		Wrap:            cfg.Wrap,
		Heading:         cfg.Heading,
		EntryExt:        cfg.ChangeSets.EntryExt,
		SummaryFilename: cfg.ChangeSets.SummaryFilename,
		UnreleasedDir:   cfg.Unreleased.Folder,
		EntryIndent:     cfg.Components.EntryIndent,
		Categories:      cfg.Categories,
	}
	if err := validator.New().Struct(r); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fieldErr := validationErrors[0]
			key := fieldErr.StructField()
			if i := strings.IndexByte(key, '['); i >= 0 {
				key = key[:i]
			}
			return &ValidationError{
				Field:   ruleKeys[key],
				Message: formatValidationError(fieldErr),
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	if cfg.BulletStyle != BulletDash && cfg.BulletStyle != BulletAsterisk {
		return &ValidationError{
			Field:   "bullet_style",
			Message: fmt.Sprintf("invalid bullet style %q (expected \"-\" or \"*\")", cfg.BulletStyle),
		}
	}

	for _, s := range cfg.SortReleasesBy {
		if s != SortByVersion && s != SortByDate {
			return &ValidationError{
				Field:   "sort_releases_by",
				Message: fmt.Sprintf("unknown sort key %q (expected version or date)", s),
			}
		}
	}

	switch cfg.ChangeSetSections.SortEntriesBy {
	case SortEntriesByID, SortEntriesByText:
	default:
		return &ValidationError{
			Field:   "change_set_sections.sort_entries_by",
			Message: fmt.Sprintf("unknown sort key %q (expected id or entry-text)", cfg.ChangeSetSections.SortEntriesBy),
		}
	}

	if err := validateCategories(cfg.Categories); err != nil {
		return err
	}

	if err := validateComponents(cfg); err != nil {
		return err
	}

	if cfg.ProjectURL != "" {
		u, err := url.Parse(cfg.ProjectURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &ValidationError{
				Field:   "project_url",
				Message: fmt.Sprintf("invalid URL %q", cfg.ProjectURL),
			}
		}
	}

	return nil
}

var ruleKeys = map[string]string{
	"Wrap":            "wrap",
	"Heading":         "heading",
	"EntryExt":        "change_sets.entry_ext",
	"SummaryFilename": "change_sets.summary_filename",
	"UnreleasedDir":   "unreleased.folder",
	"EntryIndent":     "components.entry_indent",
	"Categories":      "categories",
}

func validateCategories(categories []string) error {
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if seen[c] {
			return &ValidationError{Field: "categories", Message: fmt.Sprintf("duplicate category %q", c)}
		}
		if strings.ContainsAny(c, `/\ `) {
			return &ValidationError{Field: "categories", Message: fmt.Sprintf("category %q must be a plain directory name", c)}
		}
		seen[c] = true
	}
	return nil
}

// validateComponents rejects components whose id collides with a category,
// since such a directory could be read under either nesting order.
func validateComponents(cfg *Config) error {
	for id, comp := range cfg.Components.All {
		field := "components.all." + id
		if cfg.HasCategory(id) {
			return &ValidationError{Field: field, Message: "component id collides with a category id"}
		}
		if id == cfg.Unreleased.Folder {
			return &ValidationError{Field: field, Message: "component id collides with the unreleased folder"}
		}
		if strings.TrimSpace(comp.Name) == "" {
			return &ValidationError{Field: field + ".name", Message: "is required"}
		}
	}
	return nil
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "excludesall":
		return "must not contain path separators"
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}
