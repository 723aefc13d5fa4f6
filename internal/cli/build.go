package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/output"
	"github.com/ariel-frischer/fraglog/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the changelog as Markdown",
	Long: `Render the changelog directory as Markdown.

By default the whole document is written to stdout: heading, prologue,
unreleased changes, every release from newest to oldest, and the epilogue.

--unreleased renders only the pending changes, which is useful for release
notes. It fails when there are none. --released-only renders the full
document without the pending changes.

With --watch the output file is rewritten whenever the changelog directory
changes, until interrupted.`,
	Example: `  # Print the changelog
  fraglog build

  # Write CHANGELOG.md
  fraglog build --output CHANGELOG.md

  # Release notes for the next version
  fraglog build --unreleased

  # Keep CHANGELOG.md up to date while editing entries
  fraglog build --output CHANGELOG.md --watch`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().BoolP("unreleased", "u", false, "Render only unreleased changes")
	buildCmd.Flags().Bool("released-only", false, "Omit unreleased changes")
	buildCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	buildCmd.Flags().BoolP("watch", "w", false, "Rebuild the output file when entries change")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	unreleased, _ := cmd.Flags().GetBool("unreleased")
	releasedOnly, _ := cmd.Flags().GetBool("released-only")
	outPath, _ := cmd.Flags().GetString("output")
	watchMode, _ := cmd.Flags().GetBool("watch")

	if unreleased && releasedOnly {
		return clierrors.InvalidFlagCombination("--unreleased and --released-only",
			"Pick one: --unreleased renders only pending changes, --released-only omits them")
	}
	if watchMode && outPath == "" {
		return clierrors.InvalidFlagCombination("--watch without --output",
			"Watching rewrites a file; pass --output FILE")
	}

	mode := changelog.RenderAll
	switch {
	case unreleased:
		mode = changelog.RenderUnreleased
	case releasedOnly:
		mode = changelog.RenderReleased
	}

	if err := buildOnce(cmd, mode, outPath); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}
	return watchAndBuild(cmd, mode, outPath)
}

// buildOnce loads the changelog and writes it to outPath, or to stdout
// when outPath is empty.
func buildOnce(cmd *cobra.Command, mode changelog.RenderMode, outPath string) error {
	p, cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}

	opts := changelog.RenderOptions{Mode: mode}
	if outPath == "" {
		return renderError(changelog.RenderMarkdown(p, cfg, cmd.OutOrStdout(), opts), cfg)
	}

	text, err := changelog.RenderMarkdownString(p, cfg, opts)
	if err != nil {
		return renderError(err, cfg)
	}
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		return clierrors.FileNotWritable(outPath, err)
	}
	output.PrintPath(cmd.ErrOrStderr(), "Wrote", outPath)
	return nil
}

func renderError(err error, cfg *config.Config) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, changelog.ErrNoUnreleasedChanges) {
		return clierrors.NoUnreleasedChanges(cfg.Unreleased.Folder)
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

// watchAndBuild rebuilds on every settled change until the command's
// context is cancelled. Build failures are reported and watching goes on.
func watchAndBuild(cmd *cobra.Command, mode changelog.RenderMode, outPath string) error {
	dir := changelogDir(cmd)
	w, err := watch.New(dir)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer w.Close()

	message := fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", dir)
	spin := output.StartSpinner(cmd.ErrOrStderr(), message)
	if spin == nil {
		output.PrintInfo(cmd.ErrOrStderr(), "%s", message)
	}
	defer spin.Stop()

	err = w.Run(cmd.Context(), func() error {
		spin.Pause()
		defer spin.Resume()
		if err := buildOnce(cmd, mode, outPath); err != nil {
			clierrors.FprintError(cmd.ErrOrStderr(), err)
		}
		return nil
	})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}
