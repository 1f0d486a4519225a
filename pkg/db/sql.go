package db

import (
	"strings"
	"unicode"
)

// splitSQLStatements splits a migration file on top-level semicolons. Comments
// are dropped; quoted strings, quoted identifiers and dollar-quoted bodies are
// kept intact.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}

		current.Reset()
	}

	for i := 0; i < len(content); {
		rest := content[i:]

		switch {
		case strings.HasPrefix(rest, "--"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				i = len(content)
				continue
			}

			current.WriteByte('\n')
			i += end + 1
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				i = len(content)
				continue
			}

			i += end + 4
		case rest[0] == '\'' || rest[0] == '"':
			n := quotedLen(rest, rest[0])
			current.WriteString(rest[:n])
			i += n
		case rest[0] == '$':
			tag := dollarTag(rest)
			if tag == "" {
				current.WriteByte('$')
				i++

				continue
			}

			n := len(tag)
			if end := strings.Index(rest[n:], tag); end >= 0 {
				n += end + len(tag)
			} else {
				n = len(rest)
			}

			current.WriteString(rest[:n])
			i += n
		case rest[0] == ';':
			flush()
			i++
		default:
			current.WriteByte(rest[0])
			i++
		}
	}

	flush()

	return statements
}

// quotedLen returns the length of the quoted token at the start of s,
// treating a doubled quote as an escape. An unterminated token runs to the end.
func quotedLen(s string, quote byte) int {
	for i := 1; i < len(s); i++ {
		if s[i] != quote {
			continue
		}

		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}

		return i + 1
	}

	return len(s)
}

// dollarTag returns the $tag$ opening s, or "" when s does not start one.
func dollarTag(s string) string {
	for i := 1; i < len(s); i++ {
		ch := rune(s[i])

		if ch == '$' {
			return s[:i+1]
		}

		if ch != '_' && !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			return ""
		}

		if i == 1 && unicode.IsDigit(ch) {
			return ""
		}
	}

	return ""
}
