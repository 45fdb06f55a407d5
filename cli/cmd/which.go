package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/ipl/lang"
)

// Which locates an installed library on the search path.
type Which struct {
	Manifest bool `help:"Print the library manifest instead of its entry file." short:"m"`

	Name string `arg:"" help:"Library name." name:"library"`
}

// Run executes the which command.
func (w *Which) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	lib, err := lang.FindLibrary(w.Name, lang.SearchPath(eng.LibPath...))
	if err != nil {
		return err
	}

	if !w.Manifest {
		_, err = fmt.Fprintln(os.Stdout, lib.Entry)

		return err
	}

	data, err := yaml.MarshalContext(ctx, yaml.MapSlice{
		{Key: "name", Value: lib.Manifest.Name},
		{Key: "version", Value: lib.Manifest.Version},
		{Key: "entry", Value: lib.Entry},
		{Key: "dir", Value: lib.Dir},
		{Key: "dependencies", Value: lib.Manifest.Dependencies},
	})
	if err != nil {
		return ErrYAMLMarshal.With(slog.String("library", w.Name)).Wrap(err)
	}

	_, err = os.Stdout.Write(data)

	return err
}
