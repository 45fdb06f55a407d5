package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// blockHeaders are the statement keywords that open an indented body.
var blockHeaders = map[string]bool{
	"if": true, "elif": true, "else": true, "while": true, "for": true,
	"def": true, "class": true,
}

// statements are the keywords that begin a statement rather than an
// expression.
var statements = map[string]bool{
	"if": true, "elif": true, "else": true, "while": true, "for": true,
	"def": true, "class": true, "import": true, "return": true,
	"break": true, "continue": true, "pass": true,
}

// IsExpression reports whether text is a single expression rather than a
// statement or an assignment.
func IsExpression(text string) bool {
	stmt := strings.TrimSpace(stripComment(text))
	if stmt == "" {
		return false
	}

	if word, _ := keyword(stmt); statements[word] {
		return false
	}

	tokens, err := Lex(stmt)
	if err != nil {
		return false
	}

	for _, tok := range tokens {
		if tok == "=" {
			return false
		}
	}

	return true
}

// IsBlockHeader reports whether text opens an indented body.
func IsBlockHeader(text string) bool {
	word, _ := keyword(strings.TrimSpace(stripComment(text)))

	return blockHeaders[word]
}

// Format writes src re-indented with indent spaces per block level. Blank
// lines are kept; comment-only lines take the level of the code around
// them. Indentation that does not return to an enclosing level, or a block
// header without a body, is an [ErrIndent].
func Format(w io.Writer, src string, indent int) error {
	var (
		depths    = []int{}
		expectRun bool
		lineNum   int
	)

	for text := range strings.SplitSeq(strings.TrimRight(src, "\r\n"), "\n") {
		lineNum++
		text = strings.TrimRight(text, "\r")
		code := strings.TrimRight(stripComment(text), " \t")

		if strings.TrimSpace(code) == "" {
			level := max(len(depths)-1, 0)
			if expectRun {
				level++
			}

			if err := writeLine(w, text, level, indent); err != nil {
				return err
			}

			continue
		}

		ind := indentation(code)

		switch {
		case len(depths) == 0:
			depths = append(depths, ind)
		case expectRun:
			if ind <= depths[len(depths)-1] {
				return formatError(lineNum, text, errNoBody)
			}

			depths = append(depths, ind)
		default:
			for len(depths) > 1 && ind < depths[len(depths)-1] {
				depths = depths[:len(depths)-1]
			}

			if ind != depths[len(depths)-1] {
				return formatError(lineNum, text, nil)
			}
		}

		word, _ := keyword(strings.TrimSpace(code))
		expectRun = blockHeaders[word]

		if err := writeLine(w, text, len(depths)-1, indent); err != nil {
			return err
		}
	}

	if expectRun {
		return formatError(lineNum, "", errNoBody)
	}

	return nil
}

func writeLine(w io.Writer, text string, level, indent int) error {
	text = strings.TrimSpace(text)
	if text == "" {
		_, err := fmt.Fprintln(w)

		return err
	}

	_, err := fmt.Fprintln(w, strings.Repeat(" ", level*indent)+text)

	return err
}

func formatError(num int, text string, cause error) error {
	err := ErrIndent
	if cause != nil {
		err = err.Wrap(cause)
	}

	return &EvalError{Err: err, Line: num, Text: text}
}

// Symbol is a function, class or method declared in a program.
type Symbol struct {
	Kind    string   `json:"kind"              yaml:"kind"`
	Name    string   `json:"name"              yaml:"name"`
	Params  []string `json:"params,omitempty"  yaml:"params,omitempty"`
	Base    string   `json:"base,omitempty"    yaml:"base,omitempty"`
	Line    int      `json:"line"              yaml:"line"`
	End     int      `json:"end"               yaml:"end"`
	Members []Symbol `json:"members,omitempty" yaml:"members,omitempty"`
}

// Outline lists the top-level functions and classes of src, with the
// methods of each class, and the 1-based line range each declaration spans.
func Outline(src string) ([]Symbol, error) {
	lines := append(loadLines(src), sentinel)

	return outline(lines, 0, len(lines)-1)
}

func outline(lines []line, start, end int) ([]Symbol, error) {
	var (
		out   []Symbol
		depth = -1
	)

	for pc := start; pc < end; {
		ln := lines[pc]
		if depth < 0 {
			depth = ln.indent
		}

		if ln.indent != depth {
			pc++

			continue
		}

		word, rest := keyword(ln.stmt())
		if !blockHeaders[word] {
			pc++

			continue
		}

		stop := blockEnd(lines, pc)
		last := lines[stop-1].num

		switch word {
		case "def":
			name, params, err := signature(header(rest))
			if err != nil {
				return nil, &EvalError{Err: err, Line: ln.num, Text: ln.raw}
			}

			out = append(out, Symbol{
				Kind: "function", Name: name, Params: params, Line: ln.num, End: last,
			})

		case "class":
			name, base, _ := strings.Cut(header(rest), "(")

			members, err := outline(lines, pc+1, stop)
			if err != nil {
				return nil, err
			}

			for k := range members {
				if members[k].Kind == "function" {
					members[k].Kind = "method"
				}
			}

			out = append(out, Symbol{
				Kind:    "class",
				Name:    strings.TrimSpace(name),
				Base:    strings.TrimSpace(strings.TrimSuffix(base, ")")),
				Line:    ln.num,
				End:     last,
				Members: members,
			})
		}

		pc = stop
	}

	return out, nil
}

// WriteOutline writes symbols as YAML, or as JSON when json is true. An
// indent of zero selects the compact (flow) form.
func WriteOutline(
	ctx context.Context,
	w io.Writer,
	symbols []Symbol,
	indent int,
	asJSON bool,
) error {
	if symbols == nil {
		symbols = []Symbol{}
	}

	if asJSON {
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(symbols, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(symbols)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err
	}

	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, symbols, opts...)
	if err != nil {
		return ErrParse.With(slog.String("format", "yaml")).Wrap(err)
	}

	_, err = w.Write(data)

	return err
}
