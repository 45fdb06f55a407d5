package cmd

import (
	"bufio"
	"context"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/ipl/cli/cmd/repl"
	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

// Repl starts an interactive session. Without a terminal on standard
// input, lines are read and executed as they arrive.
type Repl struct {
	Plain bool `help:"Read plain lines even on a terminal." short:"P"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, eng *Engine) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Plain || !term.IsTerminal(int(os.Stdin.Fd())) {
		in := bufio.NewReader(os.Stdin)

		return repl.Lines(ctx, eng.Interpreter(lang.WithStdin(in)), in, os.Stdout, log.Default())
	}

	return repl.Run(ctx, eng.Interpreter(), modelVar(ctx, CacheIdentifier), log.Default())
}
