package lang

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies the active variant of a [Value].
type Kind int

const (
	KindNone Kind = iota
	KindNumber
	KindSequence
	KindBoolean
	KindText
	KindPath
	KindInstance
	KindLibrary
	KindClass
	KindRange
)

// String returns the name of the variant as it appears in error messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindNumber:
		return "Number"
	case KindSequence:
		return "Sequence"
	case KindBoolean:
		return "Boolean"
	case KindText:
		return "Text"
	case KindPath:
		return "Path"
	case KindInstance:
		return "Instance"
	case KindLibrary:
		return "Library"
	case KindClass:
		return "Class"
	case KindRange:
		return "IndexRange"
	default:
		return "Unknown"
	}
}

// Value is the runtime datum every expression produces. Exactly one variant,
// named by Kind, is meaningful at a time. The zero Value is None.
type Value struct {
	kind Kind
	num  float64
	text string // Text and Path
	seq  []Value
	inst *Instance
	lib  *Interpreter
	cls  ClassRef
	rng  IndexRange
}

// ClassRef names a class before it is instantiated. Owner is the file whose
// class table defines it.
type ClassRef struct {
	Name  string
	Owner string
}

// IndexRange selects part of a sequence or text. Start and End are half-open
// bounds; Element marks a single-index selection (End == Start+1). An open
// bound defaults to the corresponding end of the operand.
type IndexRange struct {
	Start     int
	End       int
	OpenStart bool
	OpenEnd   bool
	Element   bool
}

// MaxIndex is the largest index bound accepted.
const MaxIndex = math.MaxInt32

// None is the absence of a value.
var None = Value{}

// Number returns a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Boolean returns a Boolean value.
func Boolean(b bool) Value {
	if b {
		return Value{kind: KindBoolean, num: 1}
	}

	return Value{kind: KindBoolean}
}

// Text returns a Text value.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Path returns a Path value.
func Path(p string) Value { return Value{kind: KindPath, text: p} }

// Sequence returns a Sequence value holding elems.
func Sequence(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{kind: KindSequence, seq: elems}
}

// Range returns an IndexRange value.
func Range(r IndexRange) Value { return Value{kind: KindRange, rng: r} }

func instanceValue(inst *Instance) Value {
	return Value{kind: KindInstance, inst: inst}
}

func libraryValue(lib *Interpreter) Value {
	return Value{kind: KindLibrary, lib: lib}
}

func classValue(ref ClassRef) Value {
	return Value{kind: KindClass, cls: ref}
}

// Kind returns the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is None.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Num returns the numeric payload of a Number.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Bool returns the payload of a Boolean.
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == KindBoolean }

// Str returns the payload of a Text or Path.
func (v Value) Str() (string, bool) {
	return v.text, v.kind == KindText || v.kind == KindPath
}

// Elems returns the elements of a Sequence. The slice must not be modified.
func (v Value) Elems() ([]Value, bool) { return v.seq, v.kind == KindSequence }

// Instance returns the payload of an Instance.
func (v Value) Instance() (*Instance, bool) {
	return v.inst, v.kind == KindInstance
}

// Class returns the payload of a ClassReference.
func (v Value) Class() (ClassRef, bool) { return v.cls, v.kind == KindClass }

// Range returns the payload of an IndexRange.
func (v Value) Range() (IndexRange, bool) { return v.rng, v.kind == KindRange }

// Truthy converts v to a boolean. None, false, zero, empty text and the empty
// sequence are false; everything else is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindNumber, KindBoolean:
		return v.num != 0
	case KindText, KindPath:
		return v.text != ""
	case KindSequence:
		return len(v.seq) > 0
	default:
		return true
	}
}

// ToNumber converts v to a number. Text is parsed as a decimal literal.
func (v Value) ToNumber() (float64, error) {
	switch v.kind {
	case KindNumber, KindBoolean:
		return v.num, nil
	case KindText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, ErrType.With(kindAttr("operand", v.kind)).Wrap(err)
		}

		return n, nil
	default:
		return 0, ErrType.With(kindAttr("operand", v.kind))
	}
}

// Iter returns the elements visited by a for loop over v: the elements of a
// sequence or the characters of a text.
func (v Value) Iter() ([]Value, error) {
	switch v.kind {
	case KindSequence:
		return v.seq, nil
	case KindText:
		out := make([]Value, 0, utf8.RuneCountInString(v.text))
		for _, r := range v.text {
			out = append(out, Text(string(r)))
		}

		return out, nil
	default:
		return nil, ErrType.With(kindAttr("iterable", v.kind))
	}
}

// String renders v as the out built-in prints it.
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindNumber:
		return formatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.num != 0)
	case KindText, KindPath:
		return v.text
	case KindSequence:
		var sb strings.Builder

		sb.WriteByte('[')

		for i, e := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(e.repr())
		}

		sb.WriteByte(']')

		return sb.String()
	case KindInstance:
		return "<" + v.inst.Class.Name + " instance>"
	case KindLibrary:
		return "<library " + v.lib.name + ">"
	case KindClass:
		return "<class " + v.cls.Name + ">"
	case KindRange:
		return v.rng.String()
	default:
		return ""
	}
}

// repr renders v as an element of a sequence: text is quoted.
func (v Value) repr() string {
	if v.kind == KindText {
		return "'" + v.text + "'"
	}

	return v.String()
}

func (r IndexRange) String() string {
	if r.Element {
		return strconv.Itoa(r.Start)
	}

	var sb strings.Builder

	if !r.OpenStart {
		sb.WriteString(strconv.Itoa(r.Start))
	}

	sb.WriteByte(':')

	if !r.OpenEnd {
		sb.WriteString(strconv.Itoa(r.End))
	}

	return sb.String()
}

func formatNumber(n float64) string {
	if math.IsInf(n, 1) {
		return "inf"
	}

	if math.IsInf(n, -1) {
		return "-inf"
	}

	if math.IsNaN(n) {
		return "NaN"
	}

	if n == 0 {
		return "0" // no negative zero
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Equal reports whether a and b hold the same variant and payload. Values of
// different variants are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNone:
		return true
	case KindNumber, KindBoolean:
		return a.num == b.num
	case KindText, KindPath:
		return a.text == b.text
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}

		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}

		return true
	case KindInstance:
		return a.inst == b.inst
	case KindLibrary:
		return a.lib == b.lib
	case KindClass:
		return a.cls == b.cls
	case KindRange:
		return a.rng == b.rng
	default:
		return false
	}
}

// Compare orders a and b. Only numbers, texts and booleans of the same variant
// are ordered.
func Compare(a, b Value) (int, error) {
	if a.kind != b.kind {
		return 0, ErrType.With(kindAttr("left", a.kind), kindAttr("right", b.kind))
	}

	switch a.kind {
	case KindNumber, KindBoolean:
		switch {
		case a.num < b.num:
			return -1, nil
		case a.num > b.num:
			return 1, nil
		default:
			return 0, nil
		}
	case KindText:
		return strings.Compare(a.text, b.text), nil
	default:
		return 0, ErrType.With(kindAttr("left", a.kind), kindAttr("right", b.kind))
	}
}

// Binary applies the binary operator op to a and b.
func Binary(op string, a, b Value) (Value, error) {
	switch op {
	case "and":
		return Boolean(a.Truthy() && b.Truthy()), nil
	case "or":
		return Boolean(a.Truthy() || b.Truthy()), nil
	case "==":
		return Boolean(Equal(a, b)), nil
	case "!=":
		return Boolean(!Equal(a, b)), nil
	case "<", "<=", ">", ">=":
		c, err := Compare(a, b)
		if err != nil {
			return None, ErrType.With(opAttr(op)).Wrap(err)
		}

		return Boolean(ordered(op, c)), nil
	case "+":
		return add(a, b)
	case "-", "*", "/":
		x, okx := a.Num()
		y, oky := b.Num()

		if !okx || !oky {
			return None, ErrType.With(
				opAttr(op), kindAttr("left", a.kind), kindAttr("right", b.kind),
			)
		}

		switch op {
		case "-":
			return Number(x - y), nil
		case "*":
			return Number(x * y), nil
		default:
			if y == 0 {
				return None, ErrDivideByZero
			}

			return Number(x / y), nil
		}
	default:
		return None, ErrParse.With(opAttr(op))
	}
}

// Unary applies the prefix operator op to v.
func Unary(op string, v Value) (Value, error) {
	switch op {
	case "not":
		return Boolean(!v.Truthy()), nil
	case "-":
		n, ok := v.Num()
		if !ok {
			return None, ErrType.With(opAttr(op), kindAttr("operand", v.kind))
		}

		return Number(-n), nil
	default:
		return None, ErrParse.With(opAttr(op))
	}
}

func add(a, b Value) (Value, error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		return Number(a.num + b.num), nil
	case a.kind == KindText && b.kind == KindText:
		return Text(a.text + b.text), nil
	case a.kind == KindSequence && b.kind == KindSequence:
		out := make([]Value, 0, len(a.seq)+len(b.seq))
		out = append(out, a.seq...)

		return Sequence(append(out, b.seq...)...), nil
	default:
		return None, ErrType.With(
			opAttr("+"), kindAttr("left", a.kind), kindAttr("right", b.kind),
		)
	}
}

func ordered(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	default:
		return c >= 0
	}
}

// Index selects from v (a sequence or text) with r. An element selection
// yields the element itself; a slice yields a value of the same variant.
func Index(v Value, r IndexRange) (Value, error) {
	var n int

	switch v.kind {
	case KindSequence:
		n = len(v.seq)
	case KindText:
		n = utf8.RuneCountInString(v.text)
	default:
		return None, ErrType.With(kindAttr("indexed", v.kind))
	}

	lo, hi, err := r.bounds(n)
	if err != nil {
		return None, err
	}

	if v.kind == KindText {
		runes := []rune(v.text)

		return Text(string(runes[lo:hi])), nil
	}

	if r.Element {
		return v.seq[lo], nil
	}

	out := make([]Value, hi-lo)
	copy(out, v.seq[lo:hi])

	return Sequence(out...), nil
}

// bounds resolves r against an operand of length n.
func (r IndexRange) bounds(n int) (int, int, error) {
	lo, hi := r.Start, r.End
	if r.OpenStart {
		lo = 0
	}

	if r.OpenEnd {
		hi = n
	}

	if lo < 0 || hi < 0 {
		return 0, 0, ErrIndex.With(rangeAttr(r), lenAttr(n))
	}

	if r.Element && (lo >= n) {
		return 0, 0, ErrIndex.With(rangeAttr(r), lenAttr(n))
	}

	if lo > hi {
		return 0, 0, ErrIndex.With(rangeAttr(r)).Wrap(errStartAfterEnd)
	}

	if hi > n {
		return 0, 0, ErrIndex.With(rangeAttr(r), lenAttr(n))
	}

	return lo, hi, nil
}

// setElement returns a copy of seq with the element selected by r replaced by
// x.
func setElement(seq Value, r IndexRange, x Value) (Value, error) {
	if seq.kind != KindSequence {
		return None, ErrType.With(kindAttr("indexed", seq.kind))
	}

	if !r.Element {
		return None, ErrIndex.With(rangeAttr(r)).Wrap(errSliceAssign)
	}

	lo, _, err := r.bounds(len(seq.seq))
	if err != nil {
		return None, err
	}

	out := make([]Value, len(seq.seq))
	copy(out, seq.seq)
	out[lo] = x

	return Sequence(out...), nil
}
