package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
)

// builtin is a function of the fixed built-in registry.
type builtin struct {
	params []string
	fn     func(ctx context.Context, i *Interpreter, args []Value) (Value, error)
}

// builtins is the registry of built-in functions by name.
var builtins = map[string]builtin{
	"out":    {[]string{"output"}, builtinOut},
	"value":  {[]string{"number"}, builtinValue},
	"in":     {[]string{"message"}, builtinIn},
	"random": {[]string{"start", "end"}, builtinRandom},
	"min":    {[]string{"values"}, builtinMin},
	"max":    {[]string{"values"}, builtinMax},
	"round":  {[]string{"number"}, builtinRound},
	"pow":    {[]string{"base", "exp"}, builtinPow},
	"len":    {[]string{"collection"}, builtinLen},
	"quit":   {nil, builtinQuit},
}

// Builtins returns the signature of each built-in function, such as
// "pow(base, exp)", keyed by name.
func Builtins() map[string]string {
	out := make(map[string]string, len(builtins))
	for name, b := range builtins {
		out[name] = name + "(" + strings.Join(b.params, ", ") + ")"
	}

	return out
}

func (b builtin) call(ctx context.Context, i *Interpreter, name string, args []Value) (Value, error) {
	if len(args) != len(b.params) {
		return None, arity(name, len(b.params), len(args))
	}

	v, err := b.fn(ctx, i, args)
	if err != nil && !errors.Is(err, ErrQuit) {
		return None, WrapError(err).With(slog.String("function", name))
	}

	return v, err
}

func builtinOut(_ context.Context, i *Interpreter, args []Value) (Value, error) {
	if _, err := fmt.Fprintln(i.stdout, args[0].String()); err != nil {
		return None, err
	}

	return None, nil
}

func builtinValue(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	switch args[0].Kind() {
	case KindNumber, KindText:
		n, err := args[0].ToNumber()
		if err != nil {
			return None, err
		}

		return Number(n), nil
	default:
		return None, ErrType.With(kindAttr("number", args[0].Kind()))
	}
}

func builtinIn(_ context.Context, i *Interpreter, args []Value) (Value, error) {
	if _, err := fmt.Fprintln(i.stdout, args[0].String()); err != nil {
		return None, err
	}

	text, err := i.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || text == "") {
		return None, ErrReadInput.Wrap(err)
	}

	return Text(strings.TrimSpace(text)), nil
}

// maxExactInt is the largest magnitude of a whole number represented
// exactly by a Number.
const maxExactInt = 1 << 53

func builtinRandom(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	lo, ok1 := args[0].Num()
	hi, ok2 := args[1].Num()

	if !ok1 || !ok2 {
		return None, ErrType.With(kindAttr("start", args[0].Kind()), kindAttr("end", args[1].Kind()))
	}

	for _, n := range []float64{lo, hi} {
		if n != math.Trunc(n) || math.Abs(n) > maxExactInt {
			return None, ErrType.
				With(slog.String("start", args[0].String()), slog.String("end", args[1].String())).
				Wrap(errRandomBound)
		}
	}

	a, b := int64(lo), int64(hi)
	if a > b {
		return None, ErrType.With(slog.Int64("start", a), slog.Int64("end", b)).Wrap(errStartAfterEnd)
	}

	return Number(float64(a + rand.Int64N(b-a+1))), nil
}

func builtinMin(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	return extreme(args[0], func(a, b float64) bool { return a < b })
}

func builtinMax(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	return extreme(args[0], func(a, b float64) bool { return a > b })
}

// extreme returns the element of a non-empty sequence of numbers that is
// better than every other.
func extreme(v Value, better func(a, b float64) bool) (Value, error) {
	elems, ok := v.Elems()
	if !ok || len(elems) == 0 {
		return None, ErrType.With(slog.String("expected", "non-empty sequence of numbers"))
	}

	var best float64

	for k, e := range elems {
		n, ok := e.Num()
		if !ok {
			return None, ErrType.With(slog.Int("element", k), kindAttr("kind", e.Kind()))
		}

		if k == 0 || better(n, best) {
			best = n
		}
	}

	return Number(best), nil
}

func builtinRound(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	n, ok := args[0].Num()
	if !ok {
		return None, ErrType.With(kindAttr("number", args[0].Kind()))
	}

	return Number(math.Round(n)), nil
}

func builtinPow(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	base, ok1 := args[0].Num()
	exp, ok2 := args[1].Num()

	if !ok1 || !ok2 {
		return None, ErrType.With(kindAttr("base", args[0].Kind()), kindAttr("exp", args[1].Kind()))
	}

	return Number(math.Pow(base, exp)), nil
}

func builtinLen(_ context.Context, _ *Interpreter, args []Value) (Value, error) {
	switch args[0].Kind() {
	case KindText, KindSequence:
		elems, err := args[0].Iter()
		if err != nil {
			return None, err
		}

		return Number(float64(len(elems))), nil
	default:
		return None, ErrType.With(kindAttr("collection", args[0].Kind()))
	}
}

func builtinQuit(context.Context, *Interpreter, []Value) (Value, error) {
	return None, ErrQuit
}
