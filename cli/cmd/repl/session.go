package repl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

// indentUnit is the indentation added after a block header.
const indentUnit = "    "

// session feeds input lines to one interpreter. A line that opens a block
// starts a multi-line entry that runs once an empty line is entered.
type session struct {
	interp *lang.Interpreter
	logger log.Logger
	block  []string
}

func newSession(interp *lang.Interpreter, logger log.Logger) *session {
	return &session{interp: interp, logger: logger}
}

// pending reports whether a block is being entered.
func (s *session) pending() bool { return len(s.block) > 0 }

// feed adds one line of input and returns the source to execute when a
// statement or block is complete.
func (s *session) feed(text string) (string, bool) {
	blank := strings.TrimSpace(text) == ""

	switch {
	case !s.pending() && blank:
		return "", false

	case !s.pending() && !lang.IsBlockHeader(text):
		return text, true

	case s.pending() && blank:
		return s.flush(), true
	}

	s.block = append(s.block, text)

	return "", false
}

// flush returns and clears the pending block.
func (s *session) flush() string {
	src := strings.Join(s.block, "\n")
	s.block = nil

	return src
}

// indent returns the indentation suggested for the line after the last
// line of the pending block.
func (s *session) indent() string {
	if !s.pending() {
		return ""
	}

	last := s.block[len(s.block)-1]
	lead := last[:len(last)-len(strings.TrimLeft(last, " \t"))]

	if lang.IsBlockHeader(last) {
		return lead + indentUnit
	}

	return lead
}

// execute runs src. A single expression is evaluated and its value is
// returned with show set; statements are executed for their effect.
func (s *session) execute(ctx context.Context, src string) (v lang.Value, show bool, err error) {
	s.logger.TraceContext(ctx, "repl execute", slog.String("source", src))

	if lang.IsExpression(src) {
		v, err = s.interp.Eval(ctx, src)

		return v, err == nil && !v.IsNone(), err
	}

	_, err = s.interp.Exec(ctx, src)

	return lang.None, false, err
}
