package changelog

import (
	"strings"
	"unicode/utf8"
)

// item is one bullet of an entry body with its indentation relative to
// the entry.
type item struct {
	indent int
	text   string
}

// splitItems breaks an entry body into bullet items. A line starting with
// "- ", "* " or "+ " opens a new item at its own indentation; other lines
// continue the current item and are joined with single spaces. A body
// that does not start with a bullet becomes a single top-level item.
func splitItems(body string) []item {
	var items []item
	var cur *item

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if text, ok := cutBullet(trimmed); ok {
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			if len(items) == 0 {
				indent = 0
			}
			items = append(items, item{indent: indent, text: text})
			cur = &items[len(items)-1]
			continue
		}
		if cur == nil {
			items = append(items, item{text: trimmed})
			cur = &items[len(items)-1]
			continue
		}
		cur.text += " " + trimmed
	}

	// Nested items are measured from the first item's column.
	if len(items) > 0 {
		base := items[0].indent
		for i := range items {
			items[i].indent = max(items[i].indent-base, 0)
		}
	}
	return items
}

func cutBullet(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "+ "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}

// wrapText greedily fills lines of at most width runes. Lines break only at
// spaces and words are never split, so a word longer than the width
// overflows on its own line. The first line starts with first and every
// following line with rest.
func wrapText(text string, width int, first, rest string) []string {
	words := joinUnsafeBreaks(strings.Fields(text))
	if len(words) == 0 {
		return []string{strings.TrimRight(first, " ")}
	}

	var lines []string
	line := first + words[0]
	lineLen := utf8.RuneCountInString(line)
	for _, w := range words[1:] {
		wl := utf8.RuneCountInString(w)
		if lineLen+1+wl > width {
			lines = append(lines, line)
			line = rest + w
			lineLen = utf8.RuneCountInString(line)
			continue
		}
		line += " " + w
		lineLen += 1 + wl
	}
	return append(lines, line)
}

// joinUnsafeBreaks glues a word to its predecessor when starting a wrapped
// line with it would turn the continuation into a list item or heading.
func joinUnsafeBreaks(words []string) []string {
	out := words[:0:0]
	for _, w := range words {
		if len(out) > 0 && startsBlock(w) {
			out[len(out)-1] += " " + w
			continue
		}
		out = append(out, w)
	}
	return out
}

func startsBlock(word string) bool {
	switch word {
	case "-", "*", "+", ">":
		return true
	}
	if strings.HasPrefix(word, "#") {
		return true
	}
	digits := strings.TrimRight(word, ".)")
	if digits == word || digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// escapeIssueRefs escapes "#" directly followed by a digit so that Markdown
// processors which auto-link issue references leave the text alone. Code
// spans, inline links (text and destination), autolinks, bare URLs, HTML
// entities and already escaped references are left untouched.
func escapeIssueRefs(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inCode := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c == '`':
			inCode = !inCode
		case inCode:
		case c == '[':
			if end := closingBracket(s, i); end < len(s) && s[end] == '(' {
				b.WriteString(s[i:end])
				i = end - 1
				continue
			}
		case c == '(' && i > 0 && s[i-1] == ']':
			end := closingParen(s, i)
			b.WriteString(s[i:end])
			i = end - 1
			continue
		case c == '<':
			if end := strings.IndexByte(s[i:], '>'); end > 0 && !strings.ContainsAny(s[i:i+end], " \t") {
				b.WriteString(s[i : i+end+1])
				i += end
				continue
			}
		case strings.HasPrefix(s[i:], "http://") || strings.HasPrefix(s[i:], "https://"):
			end := strings.IndexAny(s[i:], " \t\n")
			if end < 0 {
				end = len(s) - i
			}
			b.WriteString(s[i : i+end])
			i += end - 1
			continue
		case c == '#' && i+1 < len(s) && isDigit(s[i+1]):
			if i == 0 || (s[i-1] != '\\' && s[i-1] != '&') {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closingParen returns the index just past the parenthesis that closes the
// one at open, or len(s) if it is never closed.
func closingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

// closingBracket returns the index just past the bracket that closes the
// one at open, or len(s) if it is never closed.
func closingBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
