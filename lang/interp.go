package lang

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/ipl/log"
)

// Ext is the reserved extension of program files.
const Ext = ".ipl"

// DefaultMaxDepth is the default bound on nested function calls.
const DefaultMaxDepth = 1000

// Function is a user function or method: its owning file, parameter names
// and body line range.
type Function struct {
	Name   string
	File   string
	Params []string
	Start  int // first body line index
	End    int // line index just past the body
}

// Class is a class record. Methods and Fields are filled while the class
// body executes.
type Class struct {
	Name    string
	File    string
	Base    string
	Start   int
	End     int
	Methods map[string]*Function
	Fields  map[string]Value
}

// Instance is an object created from a Class, with its own field values.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Interpreter is one file's complete interpreter state. Imported files and
// libraries each get their own Interpreter, created and cached through the
// registry shared by the whole program run.
type Interpreter struct {
	name    string // library or file name
	file    string // absolute path of the loaded file
	lines   []line
	vars    map[string]Value
	funcs   map[string]*Function
	classes map[string]*Class
	libs    map[string]*Interpreter
	imports map[string]*Interpreter
	class   *Class // class whose body is executing
	diag    diagnostic
	shared  *registry

	logger   log.Logger
	stdout   io.Writer
	stdin    *bufio.Reader
	search   []string
	maxDepth int
	defines  []string
	defined  bool
}

// registry tracks every instance of one program run, keyed by absolute file
// path.
type registry struct {
	files   map[string]*Interpreter
	loading map[string]bool
	depth   int
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(i *Interpreter) { i.logger = logger }
}

// WithStdout sets the writer that the out and in built-ins print to.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.stdout = w }
}

// WithStdin sets the reader that the in built-in reads lines from.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.stdin = bufio.NewReader(r) }
}

// WithSearchPath sets the directories searched for installed libraries.
// By default, [SearchPath] is used.
func WithSearchPath(roots ...string) Option {
	return func(i *Interpreter) { i.search = roots }
}

// WithMaxDepth bounds the number of nested function calls.
func WithMaxDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxDepth = depth
		}
	}
}

// WithDefines adds global variables, each given as "NAME=EXPR". See
// [Define].
func WithDefines(defs ...string) Option {
	return func(i *Interpreter) { i.defines = append(i.defines, defs...) }
}

// New returns a new root interpreter with no program loaded.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		vars:     make(map[string]Value),
		funcs:    make(map[string]*Function),
		classes:  make(map[string]*Class),
		libs:     make(map[string]*Interpreter),
		imports:  make(map[string]*Interpreter),
		lines:    []line{sentinel},
		stdout:   os.Stdout,
		maxDepth: DefaultMaxDepth,
		shared: &registry{
			files:   make(map[string]*Interpreter),
			loading: make(map[string]bool),
		},
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.stdin == nil {
		i.stdin = bufio.NewReader(os.Stdin)
	}

	if i.search == nil {
		i.search = SearchPath()
	}

	i.shared.files[i.file] = i

	return i
}

// spawn returns a nested interpreter for the file at path sharing the
// registry and I/O of i.
func (i *Interpreter) spawn(name, path string) *Interpreter {
	return &Interpreter{
		name:     name,
		file:     path,
		vars:     make(map[string]Value),
		funcs:    make(map[string]*Function),
		classes:  make(map[string]*Class),
		libs:     make(map[string]*Interpreter),
		imports:  make(map[string]*Interpreter),
		lines:    []line{sentinel},
		shared:   i.shared,
		logger:   i.logger.With(fileAttr(path)),
		stdout:   i.stdout,
		stdin:    i.stdin,
		search:   i.search,
		maxDepth: i.maxDepth,
		defined:  true,
	}
}

// RunFile loads the program at path and executes it to completion. The
// result is the value of a top-level return, or None.
func (i *Interpreter) RunFile(ctx context.Context, path string) (Value, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return None, ErrReadInput.Wrap(err)
	}

	if err := i.prepare(ctx); err != nil {
		return None, err
	}

	delete(i.shared.files, i.file)
	i.file = abs
	i.name = strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
	i.logger = i.logger.With(fileAttr(abs))
	i.shared.files[abs] = i

	i.shared.loading[abs] = true
	defer delete(i.shared.loading, abs)

	return i.load(ctx)
}

// load reads the file of i and executes it.
func (i *Interpreter) load(ctx context.Context) (Value, error) {
	src, err := os.ReadFile(i.file)
	if err != nil {
		return None, ErrReadInput.With(fileAttr(i.file)).Wrap(err)
	}

	i.vars["__file__"] = Path(i.file)

	i.logger.TraceContext(ctx, "load", slog.Int("bytes", len(src)))

	return i.run(ctx, string(src))
}

// Exec executes source text in the current scope of i. Functions and
// classes it defines remain available to later calls.
func (i *Interpreter) Exec(ctx context.Context, src string) (Value, error) {
	if err := i.prepare(ctx); err != nil {
		return None, err
	}

	return i.run(ctx, src)
}

// run appends the lines of src to the line table and executes them as a
// top-level body.
func (i *Interpreter) run(ctx context.Context, src string) (Value, error) {
	start := len(i.lines) - 1
	i.lines = append(i.lines[:start], append(loadLines(src), sentinel)...)

	f, err := i.execBody(ctx, start, len(i.lines)-1, baseBlock(blockNormal, -1, -1))
	if err != nil {
		return None, err
	}

	if f.sig != sigReturn {
		return None, nil
	}

	return f.val, nil
}

// Eval evaluates a single expression in the current scope of i.
func (i *Interpreter) Eval(ctx context.Context, expr string) (Value, error) {
	if err := i.prepare(ctx); err != nil {
		return None, err
	}

	i.diag = diagnostic{file: i.file, text: expr}

	v, err := i.eval(ctx, expr)

	return v, i.diag.raise(err)
}

// prepare applies the configured definitions once.
func (i *Interpreter) prepare(ctx context.Context) error {
	if i.defined {
		return nil
	}

	i.defined = true

	for _, def := range i.defines {
		name, v, err := Define(def)
		if err != nil {
			return err
		}

		i.logger.TraceContext(ctx, "define", nameAttr(name), slog.String("value", v.String()))
		i.vars[name] = v
	}

	return nil
}

// Names returns every name visible in the current scope, built-ins
// included, in sorted order.
func (i *Interpreter) Names() []string {
	seen := make(map[string]struct{})

	for _, m := range [][]string{
		sortedKeys(i.vars),
		sortedKeys(i.funcs),
		sortedKeys(i.classes),
		sortedKeys(i.libs),
		sortedKeys(builtins),
	} {
		for _, n := range m {
			seen[n] = struct{}{}
		}
	}

	return sortedKeys(seen)
}

// Lookup implements [Tables].
func (i *Interpreter) Lookup(name string, call bool) NameKind {
	if call {
		if _, ok := i.funcs[name]; ok {
			return NameFunction
		}

		if _, ok := i.classes[name]; ok {
			return NameConstructor
		}

		if _, ok := builtins[name]; ok {
			return NameBuiltin
		}

		return NameUndefined
	}

	if _, ok := i.vars[name]; ok {
		return NameVariable
	}

	if _, ok := i.libs[name]; ok {
		return NameLibrary
	}

	if _, ok := i.classes[name]; ok {
		return NameClass
	}

	return NameUndefined
}

// owner returns the instance that loaded file.
func (i *Interpreter) owner(file string) *Interpreter {
	if file == i.file {
		return i
	}

	if o, ok := i.shared.files[file]; ok {
		return o
	}

	return i
}
