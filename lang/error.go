package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse            = NewError("parse error")
	ErrUnknownToken     = NewError("unknown token")
	ErrMismatchedParens = NewError("mismatched parentheses")
	ErrUndefined        = NewError("undefined name")
	ErrArity            = NewError("argument count mismatch")
	ErrType             = NewError("invalid operand type")
	ErrIndex            = NewError("invalid index")
	ErrDivideByZero     = NewError("division by zero")
	ErrScope            = NewError("statement outside enclosing block")
	ErrIndent           = NewError("inconsistent indentation")
	ErrImport           = NewError("import failed")
	ErrImportCycle      = NewError("import cycle")
	ErrLibrary          = NewError("library not found")
	ErrManifest         = NewError("invalid library manifest")
	ErrReadInput        = NewError("failed to read input")
	ErrMaxDepth         = NewError("maximum call depth exceeded")
	ErrDefine           = NewError("invalid definition")
	ErrQuit             = NewError("quit")
	ErrUsage            = NewError("usage")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is formatted as "<msg> (<key>=<value> ...): <err>", omitting
// whichever parts are unset.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" || len(e.attrs) > 0 {
		var sb strings.Builder

		sb.WriteString(e.msg)

		for i, a := range e.attrs {
			switch {
			case i == 0 && e.msg != "":
				sb.WriteString(" (")
			case i == 0:
				sb.WriteByte('(')
			default:
				sb.WriteByte(' ')
			}

			sb.WriteString(a.Key + "=" + a.Value.String())

			if i == len(e.attrs)-1 {
				sb.WriteByte(')')
			}
		}

		part = append(part, sb.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
// Errors derived through [Error.With] and [Error.Wrap] keep their message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.msg == "" {
		return false
	}

	return t.msg == e.msg
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// EvalError is the fatal error raised while executing a program. It records
// the source position that was being processed when the failure occurred.
type EvalError struct {
	Err  error
	File string
	Line int // 1-based line number in File
	Text string
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Err.Error())

	if e.Line > 0 {
		sb.WriteString(" (")

		if e.File != "" {
			sb.WriteString(e.File)
			sb.WriteByte(':')
		} else {
			sb.WriteString("line ")
		}

		sb.WriteString(strconv.Itoa(e.Line))
		sb.WriteString("): ")
		sb.WriteString(strings.TrimSpace(e.Text))
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *EvalError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *EvalError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Any("error", e.Err),
		slog.String("file", e.File),
		slog.Int("line", e.Line),
		slog.String("text", strings.TrimSpace(e.Text)),
	}

	return slog.GroupValue(attrs...)
}

// diagnostic tracks the line currently being processed so that failures can
// be reported against it.
type diagnostic struct {
	file string
	line int
	text string
}

// raise attaches the diagnostic position to err unless err already carries
// one from a deeper frame.
func (d diagnostic) raise(err error) error {
	if err == nil {
		return nil
	}

	var ee *EvalError
	if errors.As(err, &ee) {
		return err
	}

	if errors.Is(err, ErrQuit) {
		return err
	}

	return &EvalError{Err: err, File: d.file, Line: d.line, Text: d.text}
}
