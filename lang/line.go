package lang

import "strings"

// line is one non-blank source line of a program.
type line struct {
	num    int    // 1-based line number in the source text
	raw    string // original text
	code   string // text with any comment and trailing space removed
	indent int
	end    bool // sentinel marking the end of input
}

var sentinel = line{indent: -1, end: true, raw: "End of file"}

// loadLines builds the line table of src. Blank and comment-only lines are
// dropped.
func loadLines(src string) []line {
	raw := strings.Split(src, "\n")
	lines := make([]line, 0, len(raw))

	for n, text := range raw {
		text = strings.TrimRight(text, "\r")
		code := strings.TrimRight(stripComment(text), " \t")

		if strings.TrimSpace(code) == "" {
			continue
		}

		lines = append(lines, line{
			num:    n + 1,
			raw:    text,
			code:   code,
			indent: indentation(code),
		})
	}

	return lines
}

// stmt returns the statement text of l without indentation.
func (l line) stmt() string { return strings.TrimSpace(l.code) }

// keyword splits a statement into its leading word and the remaining text.
func keyword(stmt string) (string, string) {
	n := 0

	for n < len(stmt) && (stmt[n] == '_' || isAlnum(stmt[n])) {
		n++
	}

	return stmt[:n], strings.TrimSpace(stmt[n:])
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// header strips the optional trailing colon of a block header.
func header(rest string) string {
	return strings.TrimSpace(strings.TrimSuffix(rest, ":"))
}

// blockEnd returns the index of the first line after the header at pc that
// is not indented deeper than it. lines must end with the sentinel.
func blockEnd(lines []line, pc int) int {
	depth := lines[pc].indent
	k := pc + 1

	for !lines[k].end && lines[k].indent > depth {
		k++
	}

	return k
}

func (i *Interpreter) blockEnd(pc int) int { return blockEnd(i.lines, pc) }
