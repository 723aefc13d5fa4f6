package changelog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ariel-frischer/fraglog/internal/config"
)

// RenderMode selects which releases are rendered.
type RenderMode int

const (
	// RenderAll renders the unreleased release followed by every release.
	RenderAll RenderMode = iota
	// RenderReleased renders versioned releases only.
	RenderReleased
	// RenderUnreleased renders only the unreleased release, without the
	// document heading, prologue or epilogue.
	RenderUnreleased
)

// RenderOptions configures Markdown rendering.
type RenderOptions struct {
	Mode RenderMode
}

// RenderMarkdown writes the Markdown changelog for p to w.
//
// The document is a sequence of paragraphs separated by blank lines and
// ends with a single newline. Rendering the same project twice produces
// byte-identical output. In RenderUnreleased mode ErrNoUnreleasedChanges
// is returned when there is nothing to render.
func RenderMarkdown(p *Project, cfg *config.Config, w io.Writer, opts RenderOptions) error {
	if cfg == nil {
		cfg = config.Default()
	}
	r := renderer{cfg: cfg}

	var paragraphs []string
	switch opts.Mode {
	case RenderUnreleased:
		u := p.Unreleased()
		if u == nil || u.IsEmpty() {
			return ErrNoUnreleasedChanges
		}
		paragraphs = r.release(u)
	default:
		paragraphs = r.document(p, opts.Mode == RenderAll)
	}

	if _, err := io.WriteString(w, strings.Join(paragraphs, "\n\n")+"\n"); err != nil {
		return fmt.Errorf("writing changelog: %w", err)
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(p *Project, cfg *config.Config, opts RenderOptions) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(p, cfg, &b, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderRelease renders a single release section, heading included.
func RenderRelease(rel *Release, cfg *config.Config) string {
	if cfg == nil {
		cfg = config.Default()
	}
	r := renderer{cfg: cfg}
	return strings.Join(r.release(rel), "\n\n") + "\n"
}

type renderer struct {
	cfg *config.Config
}

func (r renderer) document(p *Project, withUnreleased bool) []string {
	var releases []*Release
	hasEntries := false
	for i := range p.Releases {
		rel := &p.Releases[i]
		if rel.Unreleased && (!withUnreleased || rel.IsEmpty()) {
			continue
		}
		releases = append(releases, rel)
		hasEntries = hasEntries || !rel.IsEmpty()
	}

	paragraphs := []string{r.cfg.Heading}
	if !hasEntries {
		paragraphs = appendNonEmpty(paragraphs, r.cfg.EmptyMsg)
		return appendNonEmpty(paragraphs, p.Epilogue)
	}

	paragraphs = appendNonEmpty(paragraphs, p.Prologue)
	for _, rel := range releases {
		paragraphs = append(paragraphs, r.release(rel)...)
	}
	return appendNonEmpty(paragraphs, p.Epilogue)
}

func (r renderer) release(rel *Release) []string {
	paragraphs := []string{r.releaseHeading(rel)}
	paragraphs = appendNonEmpty(paragraphs, rel.Summary)

	if rel.IsEmpty() {
		return appendNonEmpty(paragraphs, r.cfg.EmptyReleaseMsg)
	}
	for i := range rel.ChangeSets {
		if rel.ChangeSets[i].IsEmpty() {
			continue
		}
		paragraphs = append(paragraphs, r.changeSet(&rel.ChangeSets[i])...)
	}
	return paragraphs
}

func (r renderer) releaseHeading(rel *Release) string {
	if rel.Unreleased {
		return r.cfg.Unreleased.Heading
	}
	if rel.HasDate() {
		return fmt.Sprintf("## %s (%s)", rel.Label, rel.Date.Format("2006-01-02"))
	}
	return "## " + rel.Label
}

func (r renderer) changeSet(cs *ChangeSet) []string {
	paragraphs := []string{"### " + cs.Title()}
	paragraphs = appendNonEmpty(paragraphs, cs.Summary)

	var lines []string
	if len(cs.Components) == 0 {
		for _, e := range cs.Entries {
			lines = append(lines, r.entry(e, 0)...)
		}
		return append(paragraphs, strings.Join(lines, "\n"))
	}

	indent := r.cfg.Components.EntryIndent
	if len(cs.Entries) > 0 {
		lines = append(lines, r.cfg.BulletStyle+" "+r.cfg.Components.GeneralEntriesTitle)
		for _, e := range cs.Entries {
			lines = append(lines, r.entry(e, indent)...)
		}
	}
	for _, c := range cs.Components {
		if len(c.Entries) == 0 {
			continue
		}
		lines = append(lines, r.cfg.BulletStyle+" "+componentLink(c))
		if c.Summary != "" {
			pad := strings.Repeat(" ", indent)
			lines = append(lines, wrapText(c.Summary, r.cfg.Wrap, pad, pad)...)
		}
		for _, e := range c.Entries {
			lines = append(lines, r.entry(e, indent)...)
		}
	}
	return append(paragraphs, strings.Join(lines, "\n"))
}

// entry renders one entry as bullet lines indented by indent spaces.
func (r renderer) entry(e Entry, indent int) []string {
	items := splitItems(e.Body)
	for i := range items {
		items[i].text = escapeIssueRefs(items[i].text)
	}
	if link := r.issueLink(e); link != "" && len(items) > 0 {
		items[0].text += " " + link
	}

	var lines []string
	for _, it := range items {
		pad := strings.Repeat(" ", indent+it.indent)
		lines = append(lines, wrapText(it.text, r.cfg.Wrap, pad+r.cfg.BulletStyle+" ", pad+"  ")...)
	}
	return lines
}

// issueLink returns the link appended to numbered entries, or "" when no
// project URL is configured or the body already links the number.
func (r renderer) issueLink(e Entry) string {
	if r.cfg.ProjectURL == "" || !e.HasNumber() {
		return ""
	}
	n := strconv.Itoa(e.Number)
	if linksNumber(e.Body, n) {
		return ""
	}
	return fmt.Sprintf("([#%s](%s/issues/%s))", n, r.cfg.ProjectURL, n)
}

// linksNumber reports whether body contains an issue or pull request URL
// ending in number n.
func linksNumber(body, n string) bool {
	for _, marker := range []string{"/issues/" + n, "/pull/" + n} {
		s := body
		for {
			i := strings.Index(s, marker)
			if i < 0 {
				break
			}
			s = s[i+len(marker):]
			if s == "" || !isDigit(s[0]) {
				return true
			}
		}
	}
	return false
}

// componentLink renders a component bullet label, linking the registered
// path relative to the changelog document.
func componentLink(c ComponentSection) string {
	if c.Path == "" {
		return c.Name
	}
	target := c.Path
	if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") &&
		!strings.HasPrefix(target, "/") && !strings.Contains(target, "://") {
		target = "./" + target
	}
	return fmt.Sprintf("[%s](%s)", c.Name, target)
}

func appendNonEmpty(paragraphs []string, s string) []string {
	if s == "" {
		return paragraphs
	}
	return append(paragraphs, s)
}
