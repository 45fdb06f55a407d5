package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

// Lines runs a session over line-oriented input without a terminal UI.
// Values of expressions are written to w, one per line; errors are written
// to w and do not stop the session. r should also be the interpreter's
// input so that the in built-in reads the lines that follow.
func Lines(
	ctx context.Context,
	interp *lang.Interpreter,
	r *bufio.Reader,
	w io.Writer,
	logger log.Logger,
) error {
	s := newSession(interp, logger)

	run := func(src string) error {
		v, show, err := s.execute(ctx, src)

		switch {
		case errors.Is(err, lang.ErrQuit):
			return err
		case err != nil:
			_, err = fmt.Fprintln(w, "error:", err)

			return err
		case show:
			_, err = fmt.Fprintln(w, v.String())

			return err
		}

		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, readErr := r.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}

		if text != "" || readErr == nil {
			src, ok := s.feed(trimEOL(text))
			if ok {
				if err := run(src); err != nil {
					return quitOK(err)
				}
			}
		}

		if readErr != nil {
			if s.pending() {
				return quitOK(run(s.flush()))
			}

			return nil
		}
	}
}

func trimEOL(text string) string {
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}

	return text
}

// quitOK maps a quit() request to a successful end of session.
func quitOK(err error) error {
	if errors.Is(err, lang.ErrQuit) {
		return nil
	}

	return err
}
