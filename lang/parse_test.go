package lang

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// stubTables classifies names from fixed sets.
type stubTables struct {
	vars  []string
	funcs []string
}

func (s stubTables) Lookup(name string, call bool) NameKind {
	if call {
		if slices.Contains(s.funcs, name) {
			return NameFunction
		}

		return NameUndefined
	}

	if slices.Contains(s.vars, name) {
		return NameVariable
	}

	return NameUndefined
}

func (s stubTables) Names() []string { return append(slices.Clone(s.vars), s.funcs...) }

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "   ", []string{}},
		{"assignment", "x = a.b(1, 2.5)", []string{"x", "=", "a", ".", "b", "(", "1", ",", "2.5", ")"}},
		{"comparison", "a<=b != c", []string{"a", "<=", "b", "!=", "c"}},
		{"quoted operators", `"a + b" == 'c, d'`, []string{`"a + b"`, "==", "'c, d'"}},
		{"keywords", "not a and b or c", []string{"not", "a", "and", "b", "or", "c"}},
		{"keyword prefix", "android", []string{"android"}},
		{"slice", "xs[1:]", []string{"xs", "[", "1", ":", "]"}},
		{"tabs", "a\t+\tb", []string{"a", "+", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.text)
			if err != nil {
				t.Fatalf("Lex(%q) error = %v", tt.text, err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("Lex(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestLexUnknownToken(t *testing.T) {
	for _, text := range []string{"a $ b", "x ! y", "1 % 2", "a ;"} {
		t.Run(text, func(t *testing.T) {
			_, err := Lex(text)
			if !errors.Is(err, ErrUnknownToken) {
				t.Errorf("Lex(%q) error = %v, want %v", text, err, ErrUnknownToken)
			}
		})
	}
}

// postfix renders items compactly for comparison.
func postfix(items []Item) string {
	parts := make([]string, 0, len(items))

	for _, it := range items {
		switch it.Kind {
		case ItemLiteral:
			parts = append(parts, it.Value.String())
		case ItemOp:
			if it.Unary {
				parts = append(parts, "u"+it.Text)
			} else {
				parts = append(parts, it.Text)
			}
		case ItemCall:
			parts = append(parts, it.Text+"()")
		case ItemMethod:
			parts = append(parts, "."+it.Text+"()")
		case ItemAttr:
			parts = append(parts, "."+it.Text)
		case ItemIndex:
			parts = append(parts, "[]")
		case ItemList:
			parts = append(parts, "list")
		default:
			parts = append(parts, it.Text)
		}
	}

	return strings.Join(parts, " ")
}

func TestReorder(t *testing.T) {
	tab := stubTables{vars: []string{"a", "b", "xs"}, funcs: []string{"f"}}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"precedence", "2 + 3 * 4", "2 3 4 * +"},
		{"parentheses", "(2 + 3) * 4", "2 3 + 4 *"},
		{"left associative", "8 - 4 - 2", "8 4 - 2 -"},
		{"negation", "-2 * 3", "2 u- 3 *"},
		{"not binds looser than comparison", "not a == b", "a b == unot"},
		{"and before or", "a or b and a", "a b a and or"},
		{"call", "f(a, b) + 1", "f() 1 +"},
		{"method and attribute", "a.m(1).x", "a .m() .x"},
		{"list then index", "[1, 2][0]", "list []"},
		{"index binds tighter than negation", "-xs[0]", "xs [] u-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.text)
			if err != nil {
				t.Fatal(err)
			}

			items, err := Reorder(tokens, tab)
			if err != nil {
				t.Fatalf("Reorder(%q) error = %v", tt.text, err)
			}

			if got := postfix(items); got != tt.want {
				t.Errorf("Reorder(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestReorderErrors(t *testing.T) {
	tab := stubTables{vars: []string{"food"}, funcs: []string{"f"}}

	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{"unclosed", "(1 + 2", ErrMismatchedParens},
		{"unopened", "1 + 2)", ErrMismatchedParens},
		{"unclosed call", "f(1", ErrMismatchedParens},
		{"dangling operator", "1 +", ErrParse},
		{"adjacent operands", "1 2", ErrParse},
		{"undefined", "foo + 1", ErrUndefined},
		{"empty index", "food[]", ErrIndex},
		{"too many colons", "food[1:2:3]", ErrIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.text)
			if err != nil {
				t.Fatal(err)
			}

			if _, err := Reorder(tokens, tab); !errors.Is(err, tt.wantErr) {
				t.Errorf("Reorder(%q) error = %v, want %v", tt.text, err, tt.wantErr)
			}
		})
	}
}

func TestUndefinedSuggestion(t *testing.T) {
	err := undefined("foo", []string{"bar", "food"})

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("undefined() = %T, want *Error", err)
	}

	if v, ok := ee.Attr("suggest"); !ok || v.String() != "food" {
		t.Errorf("suggest = %v (%v), want food", v, ok)
	}

	if v, ok := ee.Attr("name"); !ok || v.String() != "foo" {
		t.Errorf("name = %v (%v), want foo", v, ok)
	}
}

func TestKeywords(t *testing.T) {
	kw := Keywords()

	if !slices.IsSorted(kw) {
		t.Errorf("Keywords() not sorted: %v", kw)
	}

	for _, want := range []string{"while", "None", "import"} {
		if !slices.Contains(kw, want) {
			t.Errorf("Keywords() missing %q", want)
		}
	}
}
