package lang

import (
	"log/slog"
	"os"
	"reflect"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// defineEnv is the environment of a definition expression.
func defineEnv() map[string]any {
	return map[string]any{
		"env":      os.Getenv,
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"home":     LibraryHome(),
	}
}

// Define parses a definition of the form "NAME=EXPR". EXPR is an expr-lang
// expression with env(key), platform and home available; its result becomes
// the value of global variable NAME.
func Define(def string) (string, Value, error) {
	name, source, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)

	if !ok || !isIdentifier(name) || isKeyword(name) {
		return "", None, ErrDefine.With(slog.String("definition", def))
	}

	env := defineEnv()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return "", None, ErrDefine.With(nameAttr(name)).Wrap(err)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return "", None, ErrDefine.With(nameAttr(name)).Wrap(err)
	}

	v, err := FromNative(result)
	if err != nil {
		return "", None, ErrDefine.With(nameAttr(name)).Wrap(err)
	}

	return name, v, nil
}

// FromNative converts a Go value into a Value. Numbers, strings, booleans,
// nil and slices of those are supported.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return None, nil
	case Value:
		return t, nil
	case bool:
		return Boolean(t), nil
	case string:
		return Text(t), nil
	case int:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case []any:
		elems := make([]Value, 0, len(t))

		for _, e := range t {
			v, err := FromNative(e)
			if err != nil {
				return None, err
			}

			elems = append(elems, v)
		}

		return Sequence(elems...), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32:
		return Number(rv.Float()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]Value, 0, rv.Len())

		for k := range rv.Len() {
			v, err := FromNative(rv.Index(k).Interface())
			if err != nil {
				return None, err
			}

			elems = append(elems, v)
		}

		return Sequence(elems...), nil
	default:
		return None, ErrType.With(slog.String("native", rv.Type().String()))
	}
}
