package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/fraglog/internal/changelog"
	clierrors "github.com/ariel-frischer/fraglog/internal/errors"
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report entries that appear in more than one release",
	Long: `Report entries that appear in more than one release.

By default entries are compared by their issue/PR number, the leading
digits of the entry file name. With --by body they are compared by their
text instead. Repeats within a single release are not reported.

Exits with status 1 when duplicates are found, so the command can gate CI.`,
	Example: `  fraglog duplicates
  fraglog duplicates --by body
  fraglog duplicates --format json`,
	Args: cobra.NoArgs,
	RunE: runDuplicates,
}

func init() {
	duplicatesCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(duplicatesCmd)

	duplicatesCmd.Flags().String("by", "number", "Compare entries by: number, body")
	duplicatesCmd.Flags().StringP("format", "f", "text", "Output format: text, yaml, json")
}

// duplicateReport is one duplicated number or text in yaml/json output.
type duplicateReport struct {
	Number   int      `yaml:"number,omitempty" json:"number,omitempty"`
	Text     string   `yaml:"text,omitempty" json:"text,omitempty"`
	Releases []string `yaml:"releases" json:"releases"`
}

func runDuplicates(cmd *cobra.Command, _ []string) error {
	by, _ := cmd.Flags().GetString("by")
	format, _ := cmd.Flags().GetString("format")

	if by != "number" && by != "body" {
		return clierrors.NewArgumentError(fmt.Sprintf("invalid --by value: %s", by), "Use --by number or --by body")
	}
	if format != "text" && format != "yaml" && format != "json" {
		return clierrors.NewArgumentError(fmt.Sprintf("invalid --format value: %s", format), "Use text, yaml or json")
	}

	p, _, err := loadProject(cmd)
	if err != nil {
		return err
	}

	var reports []duplicateReport
	if by == "number" {
		dups := changelog.FindDuplicates(p)
		for _, n := range dups.Numbers() {
			reports = append(reports, duplicateReport{Number: n, Releases: dups[n]})
		}
		if format == "text" {
			err = writeDuplicatesText(cmd, len(reports), func(w io.Writer) error {
				return changelog.FormatDuplicates(dups, w, changelog.FormatOptions{Plain: plainOutput(cmd)})
			})
		}
	} else {
		dups := changelog.FindDuplicateBodies(p)
		for _, body := range dups.Bodies() {
			reports = append(reports, duplicateReport{Text: body, Releases: dups[body]})
		}
		if format == "text" {
			err = writeDuplicatesText(cmd, len(reports), func(w io.Writer) error {
				return changelog.FormatBodyDuplicates(dups, w, changelog.FormatOptions{Plain: plainOutput(cmd)})
			})
		}
	}
	if format != "text" {
		err = writeStructured(cmd.OutOrStdout(), format, reportsOrEmpty(reports))
	}
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	if len(reports) > 0 {
		return NewExitError(ExitFailure)
	}
	return nil
}

func writeDuplicatesText(cmd *cobra.Command, count int, write func(io.Writer) error) error {
	if count == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No duplicate entries found.")
		return err
	}
	return write(cmd.OutOrStdout())
}

// reportsOrEmpty keeps an empty result rendering as [] rather than null.
func reportsOrEmpty(reports []duplicateReport) []duplicateReport {
	if reports == nil {
		return []duplicateReport{}
	}
	return reports
}

// writeStructured encodes v as yaml or json.
func writeStructured(w io.Writer, format string, v any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
