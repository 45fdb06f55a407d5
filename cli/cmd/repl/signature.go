package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// functionCall describes the call whose argument list holds the cursor.
type functionCall struct {
	name     string // callee, possibly "recv.method"
	argIndex int    // 0-based argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor.
// Parentheses and commas inside text literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	var (
		opens []int // positions of unclosed "("
		args  []int // comma count per unclosed "("
		quote byte
	)

	for k := 0; k < cursor; k++ {
		c := input[k]

		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			opens = append(opens, k)
			args = append(args, 0)
		case (c == ')' || c == ']') && len(opens) > 0:
			opens = opens[:len(opens)-1]
			args = args[:len(args)-1]
		case c == ',' && len(args) > 0:
			args[len(args)-1]++
		}
	}

	for len(opens) > 0 {
		at := opens[len(opens)-1]
		if input[at] == '(' {
			name := calleeBefore(input, at)
			if name == "" {
				return functionCall{}
			}

			return functionCall{name: name, argIndex: args[len(args)-1], inCall: true}
		}

		opens = opens[:len(opens)-1]
		args = args[:len(args)-1]
	}

	return functionCall{}
}

// calleeBefore returns the dotted name ending at position end of input.
func calleeBefore(input string, end int) string {
	start := end

	for start > 0 {
		c := rune(input[start-1])
		if c != '.' && !isIdentRune(c) {
			break
		}

		start--
	}

	return strings.Trim(input[start:end], ".")
}

// renderSignatureHint renders signature with the parameter at current
// highlighted.
func renderSignatureHint(name string, params []string, current int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for k, p := range params {
		if k > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if k == current {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
