package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitItems(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		body string
		want []item
	}{
		"plain text": {
			body: "Add wrapping",
			want: []item{{text: "Add wrapping"}},
		},
		"bullet with continuation": {
			body: "- Add wrapping\n  to long lines",
			want: []item{{text: "Add wrapping to long lines"}},
		},
		"asterisk bullet": {
			body: "* Add wrapping",
			want: []item{{text: "Add wrapping"}},
		},
		"nested bullets": {
			body: "- Parent\n  - Child one\n  - Child two\n- Sibling",
			want: []item{
				{text: "Parent"},
				{indent: 2, text: "Child one"},
				{indent: 2, text: "Child two"},
				{text: "Sibling"},
			},
		},
		"blank lines are dropped": {
			body: "First line\n\nsecond paragraph",
			want: []item{{text: "First line second paragraph"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, splitItems(tt.body))
		})
	}
}

func TestWrapText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text  string
		width int
		want  []string
	}{
		"fits": {
			text:  "short text",
			width: 80,
			want:  []string{"- short text"},
		},
		"breaks at spaces": {
			text:  "aaaa bbbb cccc dddd eeee",
			width: 20,
			want:  []string{"- aaaa bbbb cccc", "  dddd eeee"},
		},
		"exact width stays on one line": {
			text:  "aaaa bbbb cccc ddd",
			width: 20,
			want:  []string{"- aaaa bbbb cccc ddd"},
		},
		"long word is not split": {
			text:  "supercalifragilistic word",
			width: 10,
			want:  []string{"- supercalifragilistic", "  word"},
		},
		"list marker is kept off line starts": {
			text:  "aaaa bbbb - cccc",
			width: 12,
			want:  []string{"- aaaa", "  bbbb -", "  cccc"},
		},
		"ordered list marker is kept off line starts": {
			text:  "step number 1. done",
			width: 16,
			want:  []string{"- step number 1.", "  done"},
		},
		"multi-byte runes count once": {
			text:  "ééééé ééééé",
			width: 13,
			want:  []string{"- ééééé ééééé"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := wrapText(tt.text, tt.width, "- ", "  ")
			assert.Equal(t, tt.want, got)
			for _, line := range got {
				words := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "- "))
				if len(words) <= 1 {
					continue
				}
				assert.LessOrEqual(t, len([]rune(line)), tt.width, "line %q", line)
			}
		})
	}
}

func TestEscapeIssueRefs(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"bare reference":        {in: "Fixes #123", want: `Fixes \#123`},
		"several references":    {in: "#1 and #22", want: `\#1 and \#22`},
		"already escaped":       {in: `Fixes \#123`, want: `Fixes \#123`},
		"heading-like hash":     {in: "see #readme", want: "see #readme"},
		"code span":             {in: "run `git log #5`", want: "run `git log #5`"},
		"link destination":      {in: "[docs](https://x.io/p#12)", want: "[docs](https://x.io/p#12)"},
		"link text":             {in: "[#12](https://x.io/issues/12) #3", want: `[#12](https://x.io/issues/12) \#3`},
		"brackets without link": {in: "[#12] done", want: `[\#12] done`},
		"autolink":              {in: "<https://x.io/#3>", want: "<https://x.io/#3>"},
		"bare url":              {in: "see https://x.io/page#4 and #5", want: `see https://x.io/page#4 and \#5`},
		"html entity":           {in: "&#123;", want: "&#123;"},
		"emphasis untouched":    {in: "*bold* _it_ #9", want: `*bold* _it_ \#9`},
		"nested parens in url":  {in: "[a](https://x.io/(b)#1) #2", want: `[a](https://x.io/(b)#1) \#2`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, escapeIssueRefs(tt.in))
		})
	}
}
