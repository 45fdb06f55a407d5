package lang

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzLex tests the lexer and reorderer with random expression text.
func FuzzLex(f *testing.F) {
	f.Add("1 + 2 * 3")
	f.Add("-xs[0]")
	f.Add("xs[1:]")
	f.Add(`"text" + 'more'`)
	f.Add("not x == 1 and f(x, [1, 2])")
	f.Add("a.b(1).c")
	f.Add("((1)")
	f.Add("x $ y")

	tab := stubTables{vars: []string{"x", "xs", "a"}, funcs: []string{"f"}}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("panicked on input %q: %v", input, r)
			}
		}()

		tokens, err := Lex(input)
		if err != nil {
			return
		}

		for k, tok := range tokens {
			if tok == "" {
				t.Errorf("token %d of %q is empty", k, input)
			}
		}

		_, _ = Reorder(tokens, tab)
	})
}

// FuzzExec tests that short programs finish with a value or an error.
func FuzzExec(f *testing.F) {
	f.Add("x = 1\nout(x + 2)\n")
	f.Add("xs = [10, 20, 30]\nout(xs[pow(10, 300)])\n")
	f.Add("xs = [10, 20, 30]\nxs[pow(2, 63)] = 99\n")
	f.Add("out('abc'[1:pow(2, 63)])\n")
	f.Add("out(random(pow(0 - 2, 63), pow(2, 62)))\n")
	f.Add("out(random(0.5, 0.7))\n")
	f.Add("def f(n)\n    return f(n + 1)\nf(0)\n")
	f.Add("class A\n    self.v = 1\na = A()\nout(a.v)\n")
	f.Add("i = 0\nwhile i < 3\n    i = i + 1\n    if i == 2\n        continue\n")

	f.Fuzz(func(t *testing.T, src string) {
		if !utf8.ValidString(src) || len(src) > 256 {
			t.Skip("input out of range")
		}

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("panicked on input %q: %v", src, r)
			}
		}()

		ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
		defer cancel()

		interp, _ := newTestInterp(t, "", WithMaxDepth(32))

		if _, err := interp.Exec(ctx, src); err != nil && err.Error() == "" {
			t.Errorf("empty error message for input %q", src)
		}
	})
}
