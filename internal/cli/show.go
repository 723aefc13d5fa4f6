package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/output"
)

var showCmd = &cobra.Command{
	Use:   "show [release]",
	Short: "Show one release in the terminal",
	Long: `Show one release with colored category headers, wrapped to the
terminal width.

Without an argument the unreleased changes are shown, or the latest release
when nothing is pending. Release names match directory names; the leading v
is optional.`,
	Example: `  fraglog show              # Pending changes, or the latest release
  fraglog show v0.6.0       # A specific release
  fraglog show 0.6.0        # Same (v prefix optional)
  fraglog show --list       # List releases with entry counts
  fraglog show --entries    # One line per entry with its file
  fraglog show --markdown   # The release section as Markdown
  fraglog show --plain      # Plain output (no colors/icons)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("plain", false, "Plain text output (no colors/icons)")
	showCmd.Flags().Int("width", 0, "Wrap width (default: terminal width)")
	showCmd.Flags().BoolP("list", "l", false, "List releases instead of showing one")
	showCmd.Flags().Bool("entries", false, "List entries with their files")
	showCmd.Flags().Bool("markdown", false, "Print the release as it appears in the changelog")
}

func runShow(cmd *cobra.Command, args []string) error {
	p, cfg, err := loadProject(cmd)
	if err != nil {
		return err
	}

	width, _ := cmd.Flags().GetInt("width")
	if width <= 0 {
		width = output.GetTerminalWidth()
	}
	opts := changelog.FormatOptions{Plain: plainOutput(cmd), MaxWidth: width}

	if list, _ := cmd.Flags().GetBool("list"); list {
		return showReleaseList(cmd, p)
	}

	rel, err := selectRelease(p, args)
	if err != nil {
		return err
	}
	if rel == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No releases found.")
		return nil
	}

	if entries, _ := cmd.Flags().GetBool("entries"); entries {
		return showEntries(cmd, rel, opts)
	}
	if markdown, _ := cmd.Flags().GetBool("markdown"); markdown {
		_, err := fmt.Fprint(cmd.OutOrStdout(), changelog.RenderRelease(rel, cfg))
		return err
	}
	if err := changelog.FormatRelease(rel, cmd.OutOrStdout(), opts); err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	return nil
}

// selectRelease returns the named release, or the default one when no
// name is given. The result is nil only for a project without releases.
func selectRelease(p *changelog.Project, args []string) (*changelog.Release, error) {
	if len(args) == 1 {
		rel, err := p.GetRelease(args[0])
		if changelog.IsReleaseNotFoundError(err) {
			return nil, clierrors.ReleaseNotFound(err)
		}
		if err != nil {
			return nil, clierrors.Wrap(err, clierrors.Runtime)
		}
		return rel, nil
	}
	if u := p.Unreleased(); u != nil && !u.IsEmpty() {
		return u, nil
	}
	if latest := p.LatestRelease(); latest != nil {
		return latest, nil
	}
	return p.Unreleased(), nil
}

func showReleaseList(cmd *cobra.Command, p *changelog.Project) error {
	if len(p.Releases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No releases found.")
		return nil
	}
	for _, rel := range p.Releases {
		date := ""
		if rel.HasDate() {
			date = " " + rel.Date.Format("2006-01-02")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s (%d entries)\n", rel.Label, date, rel.EntryCount())
	}
	return nil
}

func showEntries(cmd *cobra.Command, rel *changelog.Release, opts changelog.FormatOptions) error {
	refs := rel.Entries()
	if len(refs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no entries.\n", rel.Label)
		return nil
	}
	dim := color.New(color.Faint).SprintFunc()
	for _, ref := range refs {
		path := ref.Path()
		if !opts.Plain {
			path = dim(path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", changelog.FormatEntrySummary(ref, opts), path)
	}
	return nil
}

// plainOutput reports whether output should skip colors and icons.
// Non-terminal stdout is always plain.
func plainOutput(cmd *cobra.Command) bool {
	if plain, _ := cmd.Flags().GetBool("plain"); plain {
		return true
	}
	return color.NoColor || !output.IsTerminal(cmd.OutOrStdout())
}
