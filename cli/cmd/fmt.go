package cmd

import (
	"bytes"
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/ipl/lang"
)

// Fmt formats programs.
type Fmt struct {
	Indent  Indent  `cmd:"" default:"withargs" help:"Re-indent a program (default)."`
	Outline Outline `cmd:""                    help:"List the functions and classes of a program."`
}

// Indent re-indents a program with a fixed width per block level.
type Indent struct {
	Width int  `default:"4" help:"Indent width of each block level." short:"i"`
	Write bool `            help:"Write the result back to the source file." short:"w"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Indent) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(f.Source)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := lang.Format(&buf, src, f.Width); err != nil {
		return ErrFormat.With(slog.String("file", f.Source)).Wrap(err)
	}

	if f.Write && f.Source != stdinSource {
		info, err := os.Stat(f.Source)
		if err != nil {
			return ErrFormat.With(slog.String("file", f.Source)).Wrap(err)
		}

		return os.WriteFile(f.Source, buf.Bytes(), info.Mode().Perm())
	}

	_, err = buf.WriteTo(os.Stdout)

	return err
}

// Outline prints the declarations of a program as YAML or JSON.
type Outline struct {
	Format string `default:"yaml" enum:"yaml,json" help:"Output format."                                short:"f"`
	Indent int    `default:"2"                     help:"Indent width, or 0 for compact output." short:"i"`

	Source string `arg:"" default:"-" help:"Source file or '-' for stdin." name:"source"`
}

// Run executes the outline command.
func (o *Outline) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(o.Source)
	if err != nil {
		return err
	}

	symbols, err := lang.Outline(src)
	if err != nil {
		return ErrFormat.With(slog.String("file", o.Source)).Wrap(err)
	}

	return lang.WriteOutline(ctx, os.Stdout, symbols, o.Indent, o.Format == "json")
}
