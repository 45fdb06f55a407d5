package cmd

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

var (
	errNoProgram = errors.New("missing program file")
	errExtension = errors.New("program file must have the " + lang.Ext + " extension")
)

// Run executes a program file.
type Run struct {
	File string `arg:"" help:"Program file (${ext})." name:"file" optional:""`
}

// Validate checks the program file name before anything runs.
func (r *Run) Validate() error {
	switch {
	case r.File == "":
		return lang.ErrUsage.Wrap(errNoProgram)
	case filepath.Ext(r.File) != lang.Ext:
		return lang.ErrUsage.With(slog.String("file", r.File)).Wrap(errExtension)
	}

	return nil
}

// Run executes the run command. A program that calls quit() exits
// successfully.
func (r *Run) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if err := r.Validate(); err != nil {
		return err
	}

	log.DebugContext(ctx, "run", slog.String("file", r.File))

	_, err = eng.Interpreter().RunFile(ctx, r.File)
	if errors.Is(err, lang.ErrQuit) {
		log.DebugContext(ctx, "quit", slog.String("file", r.File))

		return nil
	}

	if err != nil {
		return ErrRun.With(slog.String("file", r.File)).Wrap(err)
	}

	return nil
}
