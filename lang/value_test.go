package lang

import (
	"errors"
	"math"
	"testing"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"none", None, "None"},
		{"integer", Number(3), "3"},
		{"decimal", Number(2.5), "2.5"},
		{"negative zero", Number(math.Copysign(0, -1)), "0"},
		{"infinity", Number(math.Inf(1)), "inf"},
		{"true", Boolean(true), "true"},
		{"false", Boolean(false), "false"},
		{"text", Text("hi"), "hi"},
		{"path", Path("/tmp/x.ipl"), "/tmp/x.ipl"},
		{"empty sequence", Sequence(), "[]"},
		{"mixed sequence", Sequence(Number(1), Text("a"), Sequence(Boolean(true))), "[1, 'a', [true]]"},
		{"slice range", Range(IndexRange{Start: 1, OpenEnd: true}), "1:"},
		{"element range", Range(IndexRange{Start: 2, End: 3, Element: true}), "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"none", None, false},
		{"zero", Number(0), false},
		{"number", Number(-1), true},
		{"false", Boolean(false), false},
		{"true", Boolean(true), true},
		{"empty text", Text(""), false},
		{"text", Text("0"), true},
		{"empty sequence", Sequence(), false},
		{"sequence", Sequence(None), true},
		{"range", Range(IndexRange{}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Truthy(); got != tt.want {
				t.Errorf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"numbers", Number(1), Number(1), true},
		{"number and boolean", Number(1), Boolean(true), false},
		{"text and path", Text("a"), Path("a"), false},
		{"none", None, None, true},
		{"sequences", Sequence(Number(1), Text("x")), Sequence(Number(1), Text("x")), true},
		{"sequence lengths", Sequence(Number(1)), Sequence(Number(1), Number(2)), false},
		{"nested sequences", Sequence(Sequence(Number(1))), Sequence(Sequence(Number(2))), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestBinary(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		a, b    Value
		want    Value
		wantErr error
	}{
		{"add numbers", "+", Number(2), Number(3), Number(5), nil},
		{"concatenate text", "+", Text("ab"), Text("cd"), Text("abcd"), nil},
		{"concatenate sequences", "+", Sequence(Number(1)), Sequence(Number(2)), Sequence(Number(1), Number(2)), nil},
		{"text plus number", "+", Text("a"), Number(1), None, ErrType},
		{"subtract", "-", Number(2), Number(5), Number(-3), nil},
		{"multiply text", "*", Text("a"), Number(2), None, ErrType},
		{"divide", "/", Number(1), Number(4), Number(0.25), nil},
		{"divide by zero", "/", Number(1), Number(0), None, ErrDivideByZero},
		{"less text", "<", Text("a"), Text("b"), Boolean(true), nil},
		{"greater equal", ">=", Number(2), Number(2), Boolean(true), nil},
		{"order mixed", "<", Number(1), Text("a"), None, ErrType},
		{"equal mixed", "==", Number(1), Text("1"), Boolean(false), nil},
		{"not equal", "!=", Text("a"), Text("b"), Boolean(true), nil},
		{"and", "and", Number(1), Text(""), Boolean(false), nil},
		{"or", "or", None, Sequence(Number(0)), Boolean(true), nil},
		{"unknown operator", "%", Number(1), Number(2), None, ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Binary(tt.op, tt.a, tt.b)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Binary() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Binary() error = %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("Binary() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnary(t *testing.T) {
	if v, err := Unary("-", Number(4)); err != nil || !Equal(v, Number(-4)) {
		t.Errorf("Unary(-, 4) = %v, %v", v, err)
	}

	if v, err := Unary("not", Text("")); err != nil || !Equal(v, Boolean(true)) {
		t.Errorf("Unary(not, '') = %v, %v", v, err)
	}

	if _, err := Unary("-", Text("x")); !errors.Is(err, ErrType) {
		t.Errorf("Unary(-, 'x') error = %v, want %v", err, ErrType)
	}
}

func TestIndex(t *testing.T) {
	seq := Sequence(Number(1), Number(2), Number(3))

	tests := []struct {
		name    string
		v       Value
		r       IndexRange
		want    Value
		wantErr error
	}{
		{"element", seq, IndexRange{Start: 1, End: 2, Element: true}, Number(2), nil},
		{"open end", seq, IndexRange{Start: 1, OpenEnd: true}, Sequence(Number(2), Number(3)), nil},
		{"open start", seq, IndexRange{End: 2, OpenStart: true}, Sequence(Number(1), Number(2)), nil},
		{"empty slice", seq, IndexRange{Start: 2, End: 2}, Sequence(), nil},
		{"element out of range", seq, IndexRange{Start: 3, End: 4, Element: true}, None, ErrIndex},
		{"end out of range", seq, IndexRange{Start: 0, End: 4}, None, ErrIndex},
		{"start after end", seq, IndexRange{Start: 2, End: 1}, None, ErrIndex},
		{"negative start", seq, IndexRange{Start: -1, End: 2}, None, ErrIndex},
		{"text slice", Text("hello"), IndexRange{Start: 1, End: 3}, Text("el"), nil},
		{"text element", Text("héllo"), IndexRange{Start: 1, End: 2, Element: true}, Text("é"), nil},
		{"number", Number(1), IndexRange{Start: 0, End: 1, Element: true}, None, ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Index(tt.v, tt.r)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Index() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Index() error = %v", err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("Index() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetElementCopies(t *testing.T) {
	seq := Sequence(Number(1), Number(2))

	out, err := setElement(seq, IndexRange{Start: 0, End: 1, Element: true}, Text("x"))
	if err != nil {
		t.Fatalf("setElement() error = %v", err)
	}

	if got := out.String(); got != "['x', 2]" {
		t.Errorf("setElement() = %s, want ['x', 2]", got)
	}

	if got := seq.String(); got != "[1, 2]" {
		t.Errorf("original changed to %s", got)
	}

	if _, err := setElement(seq, IndexRange{Start: 0, End: 1}, None); !errors.Is(err, ErrIndex) {
		t.Errorf("slice assignment error = %v, want %v", err, ErrIndex)
	}
}

func TestToNumber(t *testing.T) {
	if n, err := Text(" 4.5 ").ToNumber(); err != nil || n != 4.5 {
		t.Errorf("ToNumber(' 4.5 ') = %v, %v", n, err)
	}

	if _, err := Text("four").ToNumber(); !errors.Is(err, ErrType) {
		t.Errorf("ToNumber('four') error = %v, want %v", err, ErrType)
	}

	if _, err := None.ToNumber(); !errors.Is(err, ErrType) {
		t.Errorf("ToNumber(None) error = %v, want %v", err, ErrType)
	}
}
