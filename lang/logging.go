package lang

import (
	"errors"
	"log/slog"
	"sort"
)

var (
	errStartAfterEnd = errors.New("start index cannot be greater than end index")
	errSliceAssign   = errors.New("cannot assign to a slice")
	errRandomBound   = errors.New("bounds must be whole numbers within ±2^53")
	errNoValue       = errors.New("expression produced no value")
	errManyValues    = errors.New("expression produced more than one value")
	errNoBody        = errors.New("block has no indented body")
	errSelf          = errors.New("'self' used outside a class")
)

func sortedKeys[T any](m map[string]T) []string {
	if len(m) == 0 {
		return nil
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func kindAttr(key string, k Kind) slog.Attr { return slog.String(key, k.String()) }

func opAttr(op string) slog.Attr { return slog.String("operator", op) }

func nameAttr(name string) slog.Attr { return slog.String("name", name) }

func rangeAttr(r IndexRange) slog.Attr { return slog.String("index", r.String()) }

func lenAttr(n int) slog.Attr { return slog.Int("length", n) }

func fileAttr(path string) slog.Attr { return slog.String("file", path) }
