package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the changelog directory and the generated file",
	Long: `Verify that the changelog directory can be read and that the
Markdown file is up to date with it.

The directory is loaded with the same rules as build, so structure problems
are reported with their path. The rendered output is then compared byte for
byte with --file. Returns exit code 0 if in sync, or exit code 1 if the
file is missing or out of date.`,
	Example: `  fraglog check
  fraglog check --file docs/CHANGELOG.md`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("file", "CHANGELOG.md", "Generated changelog to compare against")
}

func runCheck(cmd *cobra.Command, _ []string) error {
	mdPath, _ := cmd.Flags().GetString("file")

	p, cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}

	expected, err := changelog.RenderMarkdownString(p, cfg, changelog.RenderOptions{})
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	actual, err := os.ReadFile(mdPath)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s does not exist\n", mdPath)
		printSyncHint(cmd, mdPath)
		return NewExitError(ExitFailure)
	}
	if err != nil {
		return clierrors.Wrap(fmt.Errorf("reading %s: %w", mdPath, err), clierrors.Runtime)
	}

	dir := changelogDir(cmd)
	if !bytes.Equal([]byte(expected), actual) {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s is out of sync with %s\n", mdPath, dir)
		printSyncHint(cmd, mdPath)
		return NewExitError(ExitFailure)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is in sync with %s (%d entries)\n", mdPath, dir, p.EntryCount())
	return nil
}

func printSyncHint(cmd *cobra.Command, mdPath string) {
	fmt.Fprintf(cmd.OutOrStdout(), "\nTo fix, run:\n  fraglog build --output %s\n", mdPath)
}
