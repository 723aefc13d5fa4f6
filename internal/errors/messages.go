package errors

import "fmt"

// Common error messages for the fraglog CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogDirNotFound creates an error for a missing changelog directory.
func ChangelogDirNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog directory not found: %s", path),
		"Run 'fraglog init' to create it",
		"Or point to an existing directory with --path",
	)
}

// NoUnreleasedChanges creates an error when unreleased-only output has
// nothing to show.
func NoUnreleasedChanges(folder string) *CLIError {
	return NewPrerequisiteError(
		"no unreleased changes",
		fmt.Sprintf("Add an entry under %s/<category>/ with 'fraglog add'", folder),
		"Or build the full changelog without --unreleased",
	)
}

// InvalidStructure wraps a changelog structure problem.
func InvalidStructure(err error) *CLIError {
	return WrapWithMessage(err, Structure,
		"invalid changelog structure",
		"Entries belong in <release>/<category>/ or <release>/<category>/<component>/",
		"Components must be registered under components.all in the config",
		"Use one nesting order (category-first or component-first) per release",
	)
}

// MalformedEntry wraps an unreadable or undecodable entry file.
func MalformedEntry(err error) *CLIError {
	return WrapWithMessage(err, Structure,
		"cannot read entry",
		"Entry files must be UTF-8 text",
		"Check the file permissions",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to load config: %s", path),
		"Check the file for YAML syntax errors",
		"Show the effective configuration with: fraglog config show",
		"Regenerate it with: fraglog init --gen-config --force",
	)
}

// ConfigInvalid creates an error for a config file that parses but holds
// an invalid value or malformed YAML.
func ConfigInvalid(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("invalid config: %s", path),
		"Fix the field or line named above",
		"Regenerate it with: fraglog init --gen-config --force",
	)
}

// ReleaseNotFound wraps a lookup of a release that does not exist.
func ReleaseNotFound(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"unknown release",
		"Release names match directory names, with or without a leading v",
		"Use 'unreleased' for pending changes",
	)
}

// InvalidEntryTarget wraps an unknown category or component passed to add.
func InvalidEntryTarget(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"cannot add entry",
		"List configured categories with: fraglog config show",
		"Register components under components.all in the config",
	)
}

// AlreadyExists creates an error when a command would overwrite a path.
func AlreadyExists(path string, remediation ...string) *CLIError {
	return NewRuntimeError(fmt.Sprintf("%s already exists", path), remediation...)
}

// InvalidVersion creates an error for a release version that is not semver.
func InvalidVersion(version string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid release version: %s", version),
		"fraglog release --version v1.2.3",
		"Versions must be semantic versions, optionally prefixed with v",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'fraglog <command> --help' to see valid options",
	)
}

// EditorFailed wraps a failure to run the user's editor.
func EditorFailed(editor string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("editor %q failed", editor),
		"Set $EDITOR to an editor available on your PATH",
		"Or pass the entry text with --message",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// GitRemoteNotFound creates an error when the project URL cannot be
// inferred from the repository.
func GitRemoteNotFound(remote string, err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("cannot read git remote %q", remote),
		"Run from inside a git repository with that remote configured",
		"Or set project_url in the config manually",
	)
}
