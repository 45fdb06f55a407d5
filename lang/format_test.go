package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		indent  int
		want    string
		wantErr error
	}{
		{
			name:   "reindent",
			src:    "# head\n\nif true:\n  out(1)\n  if x\n     out(2)\nout(3)\n",
			indent: 4,
			want:   "# head\n\nif true:\n    out(1)\n    if x\n        out(2)\nout(3)\n",
		},
		{
			name:   "tabs to two spaces",
			src:    "def f()\n\treturn 1\n",
			indent: 2,
			want:   "def f()\n  return 1\n",
		},
		{
			name:    "dedent to unknown level",
			src:     "if x\n    a = 1\n  b = 2\n",
			indent:  4,
			wantErr: ErrIndent,
		},
		{
			name:    "header without body",
			src:     "out(1)\nwhile x\n",
			indent:  4,
			wantErr: ErrIndent,
		},
		{
			name:    "header followed by sibling",
			src:     "class A\nx = 1\n",
			indent:  4,
			wantErr: ErrIndent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			err := Format(&buf, tt.src, tt.indent)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Format() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

const outlineSource = `def add(a, b)
    return a + b

class Dog(Animal)
    def __init__(self)
        self.n = 1
    def speak(self)
        return "Woof!"
x = 1
`

func TestOutline(t *testing.T) {
	symbols, err := Outline(outlineSource)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}

	if len(symbols) != 2 {
		t.Fatalf("Outline() = %+v, want 2 symbols", symbols)
	}

	add := symbols[0]
	if add.Kind != "function" || add.Name != "add" || add.Line != 1 || add.End != 2 ||
		strings.Join(add.Params, ",") != "a,b" {
		t.Errorf("add = %+v", add)
	}

	dog := symbols[1]
	if dog.Kind != "class" || dog.Name != "Dog" || dog.Base != "Animal" || dog.Line != 4 || dog.End != 8 {
		t.Errorf("Dog = %+v", dog)
	}

	if len(dog.Members) != 2 {
		t.Fatalf("Dog members = %+v", dog.Members)
	}

	if m := dog.Members[1]; m.Kind != "method" || m.Name != "speak" || m.Line != 7 || m.End != 8 {
		t.Errorf("speak = %+v", m)
	}
}

func TestOutlineBadSignature(t *testing.T) {
	if _, err := Outline("def (x)\n    pass\n"); !errors.Is(err, ErrParse) {
		t.Errorf("Outline() error = %v, want %v", err, ErrParse)
	}
}

func TestWriteOutline(t *testing.T) {
	symbols := []Symbol{{Kind: "function", Name: "add", Params: []string{"a", "b"}, Line: 1, End: 2}}

	var buf bytes.Buffer
	if err := WriteOutline(t.Context(), &buf, symbols, 0, true); err != nil {
		t.Fatal(err)
	}

	want := `[{"kind":"function","name":"add","params":["a","b"],"line":1,"end":2}]` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("JSON = %q, want %q", got, want)
	}

	buf.Reset()

	if err := WriteOutline(t.Context(), &buf, nil, 2, true); err != nil {
		t.Fatal(err)
	}

	if got := buf.String(); got != "[]\n" {
		t.Errorf("empty JSON = %q, want %q", got, "[]\n")
	}

	buf.Reset()

	if err := WriteOutline(t.Context(), &buf, symbols, 2, false); err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{"kind: function", "name: add", "line: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML %q missing %q", buf.String(), want)
		}
	}
}

func TestIsExpression(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"1 + 2", true},
		{"f(x)", true},
		{"x == 1", true},
		{"x = 1", false},
		{"xs[0] = 1", false},
		{"if x", false},
		{"return x", false},
		{"import lib", false},
		{"", false},
		{"# note", false},
		{"a $ b", false},
	}

	for _, tt := range tests {
		if got := IsExpression(tt.text); got != tt.want {
			t.Errorf("IsExpression(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsBlockHeader(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"while x:", true},
		{"def f()", true},
		{"  else", true},
		{"class A(B)", true},
		{"out(1)", false},
		{"return 1", false},
		{"iffy = 1", false},
	}

	for _, tt := range tests {
		if got := IsBlockHeader(tt.text); got != tt.want {
			t.Errorf("IsBlockHeader(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
