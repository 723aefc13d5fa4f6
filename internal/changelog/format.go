package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps the default category ids to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	"breaking-changes": {Color: color.New(color.FgRed, color.Bold), Icon: "!"},
	"features":         {Color: color.New(color.FgGreen), Icon: "✓"},
	"improvements":     {Color: color.New(color.FgBlue), Icon: "~"},
	"bug-fixes":        {Color: color.New(color.FgYellow), Icon: "⚡"},
	"dependencies":     {Color: color.New(color.FgCyan), Icon: "⬆"},
	"deprecations":     {Color: color.New(color.FgRed), Icon: "⚠"},
	"removals":         {Color: color.New(color.FgRed), Icon: "✗"},
	"security":         {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgWhite), Icon: "•"}

// styleFor returns the style for a category id, falling back to a neutral
// style for user-defined categories.
func styleFor(id string) CategoryStyle {
	if s, ok := categoryStyles[id]; ok {
		return s
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatRelease writes a release to the writer with terminal styling.
// Change sets get color-coded headers and component entries are grouped
// under their component name.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeReleaseHeader(r, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if r.Summary != "" {
		for _, line := range wrapText(r.Summary, width, "", "") {
			fmt.Fprintln(w, line)
		}
	}
	if r.IsEmpty() {
		_, err := fmt.Fprintln(w, "\n  (no entries)")
		return err
	}

	for i := range r.ChangeSets {
		cs := &r.ChangeSets[i]
		if cs.IsEmpty() {
			continue
		}
		if err := writeChangeSet(cs, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s: %w", cs.Category.ID, err)
		}
	}
	return nil
}

// writeReleaseHeader writes the release header line.
func writeReleaseHeader(r *Release, w io.Writer, opts FormatOptions) error {
	header := r.Label
	if r.HasDate() {
		header = fmt.Sprintf("%s (%s)", r.Label, r.Date.Format("2006-01-02"))
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeChangeSet writes a single change set with its entries.
func writeChangeSet(cs *ChangeSet, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(cs.Category.ID)

	if err := writeCategoryHeader(cs.Title(), style, w, opts); err != nil {
		return err
	}

	for _, e := range cs.Entries {
		if err := writeEntry(e, "  ", style, w, opts, width); err != nil {
			return err
		}
	}
	for _, comp := range cs.Components {
		if len(comp.Entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s:\n", comp.Name); err != nil {
			return err
		}
		for _, e := range comp.Entries {
			if err := writeEntry(e, "    ", style, w, opts, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(title string, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", title)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(title))
	return err
}

// writeEntry writes a single entry, one line per bullet item, wrapped to
// the terminal width.
func writeEntry(e Entry, indent string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	colored := style.Color.SprintFunc()
	for _, it := range splitItems(e.Body) {
		pad := indent + strings.Repeat(" ", it.indent)
		lines := wrapText(it.text, width, pad+"- ", pad+"  ")
		for _, line := range lines {
			if !opts.Plain {
				line = colored(line)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatDuplicates writes a duplicates report, one number per line.
func FormatDuplicates(d Duplicates, w io.Writer, opts FormatOptions) error {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, n := range d.Numbers() {
		num := fmt.Sprintf("#%d", n)
		if !opts.Plain {
			num = warn(num)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", num, strings.Join(d[n], ", ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatBodyDuplicates writes a duplicated-text report. Each body is
// shortened to one line.
func FormatBodyDuplicates(d BodyDuplicates, w io.Writer, opts FormatOptions) error {
	warn := color.New(color.FgYellow).SprintFunc()
	for _, body := range d.Bodies() {
		text := fmt.Sprintf("%q", truncateText(strings.Join(strings.Fields(body), " "), 60))
		if !opts.Plain {
			text = warn(text)
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", text, strings.Join(d[body], ", ")); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(ref EntryRef, opts FormatOptions) string {
	style := styleFor(ref.ChangeSet.Category.ID)
	text := truncateText(strings.Join(strings.Fields(ref.Entry.Body), " "), 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", ref.ChangeSet.Category.ID, text)
	}

	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// truncateText truncates text to maxLen runes, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}
