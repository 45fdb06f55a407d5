package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/ipl/lang"
	"github.com/ardnew/ipl/log"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// modelVar returns the kong variable key, or "" if ctx has no kong context.
func modelVar(ctx context.Context, key string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil || ktx.Model == nil {
		return ""
	}

	return ktx.Model.Vars()[key]
}

// Engine holds the flags shared by every command that runs programs.
type Engine struct {
	LibPath  []string `help:"Library root searched before ILI_PATH."   placeholder:"DIR"       sep:"none"`
	Define   []string `help:"Define global NAME as the value of EXPR." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	MaxDepth int      `default:"${maxDepth}"                           help:"Maximum nested function call depth."`
}

// Vars returns the kong variables referenced by the Engine flags.
func (*Engine) Vars() kong.Vars {
	return kong.Vars{"maxDepth": strconv.Itoa(lang.DefaultMaxDepth)}
}

// Group returns the kong flag group of the Engine flags.
func (*Engine) Group() kong.Group {
	return kong.Group{Key: "engine", Title: "Interpreter options"}
}

// Interpreter returns a new root interpreter configured from e. opts are
// applied last.
func (e *Engine) Interpreter(opts ...lang.Option) *lang.Interpreter {
	return lang.New(append([]lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithSearchPath(lang.SearchPath(e.LibPath...)...),
		lang.WithDefines(e.Define...),
		lang.WithMaxDepth(e.MaxDepth),
	}, opts...)...)
}

// stdinSource names standard input as a source.
const stdinSource = "-"

// readSource returns the contents of path, or of standard input if path is
// "-".
func readSource(path string) (string, error) {
	var (
		data []byte
		err  error
	)

	if path == stdinSource {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return "", ErrReadSource.With(slog.String("file", path)).Wrap(err)
	}

	return string(data), nil
}
