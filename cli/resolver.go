package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/ipl/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
// The document is a mapping of long flag names to values:
//
//	log-level: debug
//	lib-path:
//	  - ~/ipl
//	define:
//	  - greeting="hello"
//
// Keys may use "_" in place of "-". Flags given on the command line take
// precedence. A file that does not decode as a mapping is ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return config{}, nil
		}

		var doc map[string]any

		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring configuration", slog.Any("error", err))

			return config{}, nil
		}

		return makeConfig(doc), nil
	}
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// makeConfig normalizes the keys and scalar values of doc. kong parses
// numbers from their string form.
func makeConfig(doc map[string]any) config {
	c := make(config, len(doc))

	for key, val := range doc {
		c[strings.ReplaceAll(key, "_", "-")] = scalar(val)
	}

	return c
}

func scalar(val any) any {
	switch v := val.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for k, e := range v {
			out[k] = scalar(e)
		}

		return out
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
