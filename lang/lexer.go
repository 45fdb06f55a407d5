package lang

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
)

// tokenPattern lists the token grammar in priority order. Text literals come
// first so that operators inside quotes are not split out.
var tokenPattern = regexp.MustCompile(
	`"[^"]*"|'[^']*'|==|!=|<=|>=|[+\-*/=()<>\[\],:.]|\band\b|\bor\b|\bnot\b|[a-zA-Z_]\w*|\d+\.\d+|\d+`,
)

// Lex splits expression text into raw tokens. Whitespace between tokens is
// discarded; any other character that no rule matches is an
// [ErrUnknownToken].
func Lex(text string) ([]string, error) {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]string, 0, len(locs))
	prev := 0

	for _, loc := range locs {
		if gap := text[prev:loc[0]]; strings.TrimSpace(gap) != "" {
			return nil, unknownToken(gap)
		}

		tokens = append(tokens, text[loc[0]:loc[1]])
		prev = loc[1]
	}

	if gap := text[prev:]; strings.TrimSpace(gap) != "" {
		return nil, unknownToken(gap)
	}

	return tokens, nil
}

func unknownToken(gap string) error {
	return ErrUnknownToken.With(slog.String("token", strings.TrimSpace(gap)))
}

// isTextLiteral reports whether tok is a quoted text literal.
func isTextLiteral(tok string) bool {
	if len(tok) < 2 {
		return false
	}

	q := tok[0]

	return (q == '"' || q == '\'') && tok[len(tok)-1] == q
}

// isNumberLiteral reports whether tok is an integer or decimal literal.
func isNumberLiteral(tok string) bool {
	return tok != "" && tok[0] >= '0' && tok[0] <= '9'
}

// isIdentifier reports whether tok is an identifier (keywords included).
func isIdentifier(tok string) bool {
	if tok == "" {
		return false
	}

	for i, r := range tok {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}

// stripComment removes a trailing comment (text after an unquoted '#').
func stripComment(line string) string {
	var quote rune

	for i, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#':
			return line[:i]
		}
	}

	return line
}

// indentation counts the leading whitespace characters of line.
func indentation(line string) int {
	n := 0

	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}

		n++
	}

	return n
}
