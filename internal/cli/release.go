package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	"github.com/ariel-frischer/fraglog/internal/config"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/output"
)

// now is replaced in tests.
var now = time.Now

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Move unreleased entries into a new release",
	Long: `Move the unreleased directory to a release directory named after the
version, and leave an empty unreleased directory behind.

The release summary gets today's date as its first line, which is shown in
the release heading. Any summary already written for the unreleased changes
is kept below the date. With --editor the summary is opened for editing
afterwards.`,
	Example: `  fraglog release --version v1.2.0
  fraglog release --version 1.2.0 --editor vim
  fraglog release --version v1.2.0 --no-date`,
	Args: cobra.NoArgs,
	RunE: runRelease,
}

func init() {
	releaseCmd.GroupID = GroupEntries
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().String("version", "", "Version of the new release (e.g. v1.2.0)")
	releaseCmd.Flags().StringP("editor", "e", "", "Open the release summary in this editor")
	releaseCmd.Flags().Bool("no-date", false, "Do not add today's date to the summary")
	_ = releaseCmd.MarkFlagRequired("version")
}

func runRelease(cmd *cobra.Command, _ []string) error {
	version, _ := cmd.Flags().GetString("version")
	editor, _ := cmd.Flags().GetString("editor")
	noDate, _ := cmd.Flags().GetBool("no-date")

	if _, ok := changelog.ParseReleaseVersion(version); !ok {
		return clierrors.InvalidVersion(version)
	}

	p, cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if u := p.Unreleased(); u == nil || u.IsEmpty() {
		return clierrors.NoUnreleasedChanges(cfg.Unreleased.Folder)
	}

	target, err := changelog.PrepareRelease(changelogDir(cmd), cfg, version)
	if err != nil {
		return releaseError(err, cfg)
	}

	summary := filepath.Join(target, cfg.ChangeSets.SummaryFilename)
	if !noDate {
		if err := prependDate(summary, cfg); err != nil {
			return clierrors.FileNotWritable(summary, err)
		}
	}
	if editor != "" {
		if err := runEditor(cmd, editor, summary); err != nil {
			return err
		}
	}

	output.PrintPath(cmd.OutOrStdout(), fmt.Sprintf("Released %s to", version), target)
	return nil
}

// prependDate writes today's date as the first line of the summary file,
// keeping any text that is already there.
func prependDate(path string, cfg *config.Config) error {
	layout := "2006-01-02"
	if len(cfg.ReleaseDateFormats) > 0 {
		layout = cfg.ReleaseDateFormats[0]
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	content := now().Format(layout) + "\n"
	if text := strings.TrimSpace(string(existing)); text != "" {
		content += text + "\n"
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func releaseError(err error, cfg *config.Config) error {
	var exists *changelog.ExistsError
	switch {
	case errors.Is(err, changelog.ErrNoUnreleasedChanges):
		return clierrors.NoUnreleasedChanges(cfg.Unreleased.Folder)
	case errors.As(err, &exists):
		return clierrors.AlreadyExists(exists.Path, "Choose a version that has not been released yet")
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}
