package lang

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ItemKind identifies the variant of a reordered expression [Item].
type ItemKind int

const (
	ItemLiteral ItemKind = iota // a Number, Text, Boolean or None literal
	ItemName                    // a variable, class or library reference
	ItemList                    // a list literal
	ItemCall                    // a function, built-in or constructor call
	ItemMethod                  // a call on the preceding operand
	ItemAttr                    // a field read on the preceding operand
	ItemIndex                   // an index or slice of the preceding operand
	ItemOp                      // a binary or prefix operator
)

// NameKind classifies an identifier token.
type NameKind int

const (
	NameUndefined NameKind = iota
	NameVariable
	NameLibrary
	NameClass
	NameFunction
	NameBuiltin
	NameConstructor
)

// Item is one element of an expression in evaluation (postfix) order.
type Item struct {
	Kind  ItemKind
	Name  NameKind   // for ItemName and ItemCall
	Text  string     // identifier, attribute, method or operator
	Value Value      // for ItemLiteral
	Args  [][]string // call arguments or list elements, unevaluated
	Start []string   // index start, empty when open
	End   []string   // index end, empty when open
	Slice bool       // index is a slice rather than an element
	Unary bool       // operator is a prefix operator
}

// Tables is the read-only view of the names known while an expression is
// reordered.
type Tables interface {
	// Lookup classifies name. call is true when name is immediately followed
	// by an opening parenthesis.
	Lookup(name string, call bool) NameKind
	// Names lists every visible name, used to suggest corrections.
	Names() []string
}

// precedence of each operator, low to high.
var precedence = map[string]int{
	"or":  1,
	"and": 2,
	"not": 3,
	"==":  4, "!=": 4, "<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6,
}

// precNegate is the precedence of prefix '-'.
const precNegate = 7

// Reorder converts a token sequence into evaluation order. Calls, list
// literals and index expressions are collected structurally; their nested
// token runs are reordered when they are evaluated.
func Reorder(tokens []string, tab Tables) ([]Item, error) {
	type pending struct {
		op    string
		prec  int
		unary bool
	}

	var (
		out   = make([]Item, 0, len(tokens))
		stack []pending
		want  = true // an operand is expected next
	)

	popOp := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, Item{Kind: ItemOp, Text: top.op, Unary: top.unary})
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch {
		case tok == "(":
			if !want {
				return nil, unexpected(tok)
			}

			stack = append(stack, pending{op: "("})

		case tok == ")":
			if want {
				return nil, unexpected(tok)
			}

			for len(stack) > 0 && stack[len(stack)-1].op != "(" {
				popOp()
			}

			if len(stack) == 0 {
				return nil, ErrMismatchedParens
			}

			stack = stack[:len(stack)-1]

		case tok == "[":
			body, next, err := collect(tokens, i, "[", "]")
			if err != nil {
				return nil, err
			}

			i = next

			if want {
				out = append(out, Item{Kind: ItemList, Args: split(body, ",")})
				want = false

				continue
			}

			item, err := indexItem(body)
			if err != nil {
				return nil, err
			}

			out = append(out, item)

		case tok == ".":
			if want || i+1 >= len(tokens) || !isIdentifier(tokens[i+1]) {
				return nil, ErrParse.With(slog.String("expected", "attribute after '.'"))
			}

			i++
			attr := tokens[i]

			if i+1 < len(tokens) && tokens[i+1] == "(" {
				body, next, err := collect(tokens, i+1, "(", ")")
				if err != nil {
					return nil, err
				}

				i = next
				out = append(out, Item{Kind: ItemMethod, Text: attr, Args: split(body, ",")})

				continue
			}

			out = append(out, Item{Kind: ItemAttr, Text: attr})

		case want && (tok == "-" || tok == "not"):
			prec := precNegate
			if tok == "not" {
				prec = precedence["not"]
			}

			stack = append(stack, pending{op: tok, prec: prec, unary: true})

		case isBinary(tok):
			if want {
				return nil, unexpected(tok)
			}

			prec := precedence[tok]
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.op == "(" || top.prec < prec {
					break
				}

				popOp()
			}

			stack = append(stack, pending{op: tok, prec: prec})
			want = true

		default:
			if !want {
				return nil, unexpected(tok)
			}

			item, next, err := operand(tokens, i, tab)
			if err != nil {
				return nil, err
			}

			i = next
			out = append(out, item)
			want = false
		}
	}

	if want {
		if len(out) == 0 && len(stack) == 0 {
			return nil, ErrParse.Wrap(errNoValue)
		}

		return nil, ErrParse.With(slog.String("expected", "operand"))
	}

	for len(stack) > 0 {
		if stack[len(stack)-1].op == "(" {
			return nil, ErrMismatchedParens
		}

		popOp()
	}

	return out, nil
}

// operand reorders the primary expression starting at tokens[i]. It returns
// the item and the index of its last token.
func operand(tokens []string, i int, tab Tables) (Item, int, error) {
	tok := tokens[i]

	if v, ok := literal(tok); ok {
		return Item{Kind: ItemLiteral, Value: v}, i, nil
	}

	if !isIdentifier(tok) || isKeyword(tok) {
		return Item{}, i, unexpected(tok)
	}

	call := i+1 < len(tokens) && tokens[i+1] == "("
	kind := tab.Lookup(tok, call)

	switch kind {
	case NameFunction, NameBuiltin, NameConstructor:
		body, next, err := collect(tokens, i+1, "(", ")")
		if err != nil {
			return Item{}, i, err
		}

		return Item{Kind: ItemCall, Name: kind, Text: tok, Args: split(body, ",")}, next, nil

	case NameVariable, NameLibrary, NameClass:
		return Item{Kind: ItemName, Name: kind, Text: tok}, i, nil

	default:
		return Item{}, i, undefined(tok, tab.Names())
	}
}

// literal converts a literal token into its Value.
func literal(tok string) (Value, bool) {
	switch {
	case isTextLiteral(tok):
		return Text(tok[1 : len(tok)-1]), true
	case isNumberLiteral(tok):
		n, err := strconv.ParseFloat(tok, 64)

		return Number(n), err == nil
	case tok == "true":
		return Boolean(true), true
	case tok == "false":
		return Boolean(false), true
	case tok == "None":
		return None, true
	default:
		return None, false
	}
}

// indexItem builds an index item from the tokens between brackets.
func indexItem(body []string) (Item, error) {
	parts := splitAll(body, ":")

	switch len(parts) {
	case 1:
		if len(parts[0]) == 0 {
			return Item{}, ErrIndex.Wrap(errNoValue)
		}

		return Item{Kind: ItemIndex, Start: parts[0]}, nil
	case 2:
		return Item{Kind: ItemIndex, Start: parts[0], End: parts[1], Slice: true}, nil
	default:
		return Item{}, ErrIndex.With(slog.String("index", strings.Join(body, "")))
	}
}

// collect returns the tokens strictly between tokens[open] and its matching
// closing token, and the index of that closing token.
func collect(tokens []string, open int, lhs, rhs string) ([]string, int, error) {
	if open >= len(tokens) || tokens[open] != lhs {
		return nil, open, ErrParse.With(slog.String("expected", lhs))
	}

	depth := 0

	for i := open; i < len(tokens); i++ {
		switch tokens[i] {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
			if depth == 0 {
				if tokens[i] != rhs {
					return nil, i, ErrMismatchedParens
				}

				return tokens[open+1 : i], i, nil
			}

			if depth < 0 {
				return nil, i, ErrMismatchedParens
			}
		}
	}

	return nil, len(tokens), ErrMismatchedParens
}

// splitAll splits tokens at every top-level separator.
func splitAll(tokens []string, sep string) [][]string {
	var (
		parts [][]string
		depth int
		start int
	)

	for i, tok := range tokens {
		switch tok {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, tokens[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, tokens[start:])
}

// split splits tokens at every top-level separator, dropping empty pieces.
func split(tokens []string, sep string) [][]string {
	parts := splitAll(tokens, sep)
	out := parts[:0]

	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}

	return out
}

func isBinary(tok string) bool {
	_, ok := precedence[tok]

	return ok && tok != "not"
}

// keywords are identifiers that cannot name a value.
var keywords = map[string]bool{
	"and": true, "or": true, "not": true,
	"if": true, "elif": true, "else": true, "while": true, "for": true,
	"def": true, "class": true, "return": true, "break": true,
	"continue": true, "import": true, "pass": true,
	"true": true, "false": true, "None": true,
}

func isKeyword(tok string) bool { return keywords[tok] }

// Keywords returns the reserved words in sorted order.
func Keywords() []string { return sortedKeys(keywords) }

func unexpected(tok string) error {
	return ErrParse.With(slog.String("unexpected", tok))
}

// undefined reports an unknown name with the closest visible match.
func undefined(name string, names []string) error {
	err := ErrUndefined.With(nameAttr(name))

	if m := fuzzy.Find(name, names); len(m) > 0 {
		err = err.With(slog.String("suggest", m[0].Str))
	}

	return err
}
