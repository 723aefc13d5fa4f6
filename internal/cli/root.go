// Package cli implements the fraglog command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/git"
)

// Command group IDs used in help output.
const (
	GroupChangelog = "changelog"
	GroupEntries   = "entries"
	GroupSetup     = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "fraglog",
	Short: "Build a Markdown changelog from a directory of entry files",
	Long: `fraglog assembles CHANGELOG.md from small entry files.

Each change is one file under <release>/<category>/, optionally nested in a
registered component directory. Pending changes live in unreleased/ and are
moved to a version directory when a release is cut. Keeping one file per
change means concurrent branches never conflict on the changelog.`,
	Example: `  # Create a changelog directory
  fraglog init --gen-config

  # Record a change
  fraglog add --section features --id 42-wrap-lines --message "Wrap long lines"

  # Write the changelog
  fraglog build --output CHANGELOG.md`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupGlobals,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupEntries, Title: "Entry Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)

	rootCmd.PersistentFlags().StringP("path", "p", config.DefaultChangelogDir, "Changelog directory")
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigFilename, "Config file, relative to the changelog directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print debug information to stderr")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})
}

// Execute runs the root command and prints any error. The returned error
// carries the process exit code; see ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		clierrors.PrintError(err)
	}
	return err
}

// setupGlobals applies the global flags before any command runs.
func setupGlobals(cmd *cobra.Command, _ []string) error {
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		color.NoColor = true
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger := log.New(cmd.ErrOrStderr(), "[debug] ", 0)
		changelog.SetDebugLogger(logger.Printf)
		git.SetDebugLogger(logger.Printf)
	} else {
		changelog.SetDebugLogger(nil)
		git.SetDebugLogger(nil)
	}
	return nil
}

// changelogDir returns the --path flag value.
func changelogDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("path")
	return dir
}

// warningWriter returns where non-fatal warnings go; --quiet discards them.
func warningWriter(cmd *cobra.Command) io.Writer {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}

// loadConfig loads the config for the changelog directory named by --path.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dir := changelogDir(cmd)
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		Path:          path,
		ChangelogDir:  dir,
		WarningWriter: warningWriter(cmd),
	})
	if config.IsValidationError(err) {
		return nil, clierrors.ConfigInvalid(config.ResolvePath(dir, path), err)
	}
	if err != nil {
		return nil, clierrors.ConfigParseError(config.ResolvePath(dir, path), err)
	}
	return cfg, nil
}

// loadProject loads the config and then the changelog tree.
func loadProject(cmd *cobra.Command) (*changelog.Project, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	dir := changelogDir(cmd)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, nil, clierrors.ChangelogDirNotFound(dir)
	}

	p, err := changelog.LoadWithOptions(dir, cfg, changelog.LoadOptions{WarningWriter: warningWriter(cmd)})
	if err != nil {
		return nil, nil, classifyLoadError(err)
	}
	return p, cfg, nil
}

// classifyLoadError converts a loader error into a CLIError.
func classifyLoadError(err error) error {
	switch {
	case changelog.IsStructureError(err):
		return clierrors.InvalidStructure(err)
	case changelog.IsMalformedEntryError(err):
		return clierrors.MalformedEntry(err)
	default:
		return clierrors.Wrap(fmt.Errorf("loading changelog: %w", err), clierrors.Runtime)
	}
}
