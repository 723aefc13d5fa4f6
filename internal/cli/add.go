package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
	"github.com/ariel-frischer/fraglog/internal/output"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an unreleased entry",
	Long: `Add an entry file to the unreleased changes.

The entry is written to <unreleased>/<section>/<id>.md, or into the
component directory when --component is given. Start the id with the issue
or PR number (e.g. 42-wrap-lines) to get an issue link in the rendered
changelog.

With --message the entry text is written directly. Otherwise the new file
is opened in --editor, $VISUAL or $EDITOR; leaving it empty discards the
entry. Existing entries are never overwritten.`,
	Example: `  fraglog add --section features --id 42-wrap-lines --message "Wrap long lines"
  fraglog add --section bug-fixes --component cli --id 51-flag-parsing
  fraglog add -s improvements -i 60-faster-load -e "code --wait"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.GroupID = GroupEntries
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringP("section", "s", "", "Category of the change (e.g. features, bug-fixes)")
	addCmd.Flags().StringP("id", "i", "", "Entry id, used as the file name (e.g. 42-wrap-lines)")
	addCmd.Flags().String("component", "", "Registered component the change belongs to")
	addCmd.Flags().StringP("message", "m", "", "Entry text; skips the editor")
	addCmd.Flags().StringP("editor", "e", "", "Editor command (default: $VISUAL, $EDITOR or vi)")
	_ = addCmd.MarkFlagRequired("section")
	_ = addCmd.MarkFlagRequired("id")
}

func runAdd(cmd *cobra.Command, _ []string) error {
	section, _ := cmd.Flags().GetString("section")
	id, _ := cmd.Flags().GetString("id")
	component, _ := cmd.Flags().GetString("component")
	message, _ := cmd.Flags().GetString("message")
	editor, _ := cmd.Flags().GetString("editor")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := changelogDir(cmd)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return clierrors.ChangelogDirNotFound(dir)
	}

	useEditor := strings.TrimSpace(message) == ""
	body := changelog.EntryBody(cfg, message)
	if useEditor {
		body = cfg.BulletStyle + " \n"
	}

	path, err := changelog.AddEntry(dir, cfg, changelog.AddOptions{
		Category:  section,
		Component: component,
		ID:        id,
		Body:      body,
	})
	if err != nil {
		return addError(err)
	}

	if useEditor {
		if err := editEntry(cmd, resolveEditor(editor), path); err != nil {
			return err
		}
	}

	output.PrintPath(cmd.OutOrStdout(), "Added", path)
	return nil
}

// editEntry opens the new entry in the editor and removes it again when
// it is left without text.
func editEntry(cmd *cobra.Command, editor, path string) error {
	if err := runEditor(cmd, editor, path); err != nil {
		os.Remove(path)
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return clierrors.Wrap(fmt.Errorf("reading %s: %w", path, err), clierrors.Runtime)
	}
	text := strings.TrimSpace(string(data))
	if text == "" || text == "-" || text == "*" {
		os.Remove(path)
		return clierrors.NewArgumentError("entry is empty; nothing was added",
			"Write the change description in the editor and save before closing",
			"Or pass the text with --message")
	}
	return nil
}

func addError(err error) error {
	var exists *changelog.ExistsError
	switch {
	case changelog.IsUnknownCategoryError(err), changelog.IsUnknownComponentError(err):
		return clierrors.InvalidEntryTarget(err)
	case errors.As(err, &exists):
		return clierrors.AlreadyExists(exists.Path,
			"Pick a different --id",
			"Or edit the existing file directly")
	case changelog.IsIOError(err):
		return clierrors.Wrap(err, clierrors.Runtime)
	default:
		return clierrors.NewArgumentError(err.Error(),
			"Entry ids are plain file names such as 42-wrap-lines")
	}
}
