package units

import (
	"regexp"
	"strings"
)

var (
	assignStartRe = regexp.MustCompile(`^\s*[A-Za-z][A-Za-z0-9_]*\$?\s*:?=`)
	assignNameRe  = regexp.MustCompile(`^\s*([A-Za-z][A-Za-z0-9_]*\$?)\s*:?=`)
	bracketRe     = regexp.MustCompile(`\[([^\[\]]+)\]`)
)

// Extract scans raw source text for unit annotations and associates
// each with the nearest preceding assignment target.
//
// The scan is a single forward pass over lines carrying one piece of
// state, the pending variable:
//
//  1. A line starting an assignment (identifier followed by := or =)
//     makes that identifier pending.
//  2. While a variable is pending, the first bracket-enclosed token on
//     a line binds to it: a bare [unit] wins over one embedded in a
//     comment. A later assignment to the same variable overwrites.
//  3. Any other non-blank, non-comment line breaks the association.
//
// Keys are variable names as written; canonicalization happens at the
// variable store boundary.
func Extract(source string) map[string]string {
	found := make(map[string]string)
	pending := ""

	for _, line := range strings.Split(source, "\n") {
		if m := assignNameRe.FindStringSubmatch(line); m != nil {
			pending = m[1]
		}
		if pending != "" {
			if unit, ok := findUnit(line); ok {
				found[pending] = unit
				pending = ""
			}
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !assignStartRe.MatchString(line) && !isCommentLine(trimmed) {
			pending = ""
		}
	}
	return found
}

// findUnit looks for a bracket-enclosed token on one line, preferring a
// bare occurrence outside any comment.
func findUnit(line string) (string, bool) {
	code, comments := splitComments(line)
	if m := bracketRe.FindStringSubmatch(code); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	for _, c := range comments {
		if m := bracketRe.FindStringSubmatch(c); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// isCommentLine reports whether a trimmed line is entirely introduced
// by one of the three comment forms.
func isCommentLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, `"`) ||
		strings.HasPrefix(trimmed, "//")
}

// splitComments separates a line into its code text and the bodies of
// any comments on it. String literals are dropped from the code text so
// their brackets never read as units.
func splitComments(line string) (string, []string) {
	var code strings.Builder
	var comments []string

	i := 0
	for i < len(line) {
		switch {
		case line[i] == '{':
			end := strings.IndexByte(line[i+1:], '}')
			if end < 0 {
				comments = append(comments, line[i+1:])
				i = len(line)
				break
			}
			comments = append(comments, line[i+1:i+1+end])
			i += end + 2

		case line[i] == '"':
			body, rest := scanQuoted(line[i+1:], '"')
			comments = append(comments, body)
			i = len(line) - len(rest)

		case line[i] == '/' && i+1 < len(line) && line[i+1] == '/':
			comments = append(comments, line[i+2:])
			i = len(line)

		case line[i] == '\'':
			_, rest := scanQuoted(line[i+1:], '\'')
			i = len(line) - len(rest)

		default:
			code.WriteByte(line[i])
			i++
		}
	}
	return code.String(), comments
}

// scanQuoted scans s for the closing quote, honoring doubled-quote
// escapes, and returns the body and the remainder after the close.
func scanQuoted(s string, quote byte) (string, string) {
	var body strings.Builder
	for j := 0; j < len(s); j++ {
		if s[j] != quote {
			body.WriteByte(s[j])
			continue
		}
		if j+1 < len(s) && s[j+1] == quote {
			body.WriteByte(quote)
			j++
			continue
		}
		return body.String(), s[j+1:]
	}
	return body.String(), ""
}
