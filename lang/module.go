package lang

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// execImport handles "import <path>". A quoted or unquoted path names a
// program file relative to the importing file; the extension is implied
// when absent. A bare name that matches no such file is resolved as an
// installed library and bound under that name.
func (i *Interpreter) execImport(ctx context.Context, rest string) error {
	arg := strings.TrimSpace(rest)
	if isTextLiteral(arg) {
		arg = arg[1 : len(arg)-1]
	}

	if arg == "" {
		return ErrImport.With(slog.String("expected", "file or library name"))
	}

	path := arg
	if filepath.Ext(path) == "" {
		path += Ext
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(i.dir(), path)
	}

	_, statErr := os.Stat(path)

	switch {
	case statErr == nil:
		child, err := i.importFile(ctx, path)
		if err != nil {
			return err
		}

		i.merge(child)

		return nil

	case errors.Is(statErr, fs.ErrNotExist) && isIdentifier(arg):
		lib, err := i.importLibrary(ctx, arg)
		if err != nil {
			return err
		}

		i.libs[arg] = lib

		return nil

	default:
		return ErrImport.With(fileAttr(path)).Wrap(statErr)
	}
}

// dir returns the directory imports are resolved against.
func (i *Interpreter) dir() string {
	if i.file == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}

		return "."
	}

	return filepath.Dir(i.file)
}

// importFile returns the instance that loaded path, loading and executing it
// first if no instance of this run has.
func (i *Interpreter) importFile(ctx context.Context, path string) (*Interpreter, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ErrImport.Wrap(err)
	}

	name := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))

	return i.instance(ctx, name, abs, nil)
}

// importLibrary resolves an installed library and returns its instance. The
// library's dependencies are imported into its own instance before its entry
// file runs.
func (i *Interpreter) importLibrary(ctx context.Context, name string) (*Interpreter, error) {
	lib, err := FindLibrary(name, i.search)
	if err != nil {
		return nil, err
	}

	i.logger.TraceContext(ctx, "library",
		nameAttr(name), slog.String("version", lib.Manifest.Version), fileAttr(lib.Entry))

	libName := lib.Manifest.Name
	if libName == "" {
		libName = name
	}

	return i.instance(ctx, libName, lib.Entry, lib.Manifest.Dependencies)
}

// instance returns the cached instance of abs or creates, registers and runs
// a new one. An instance that is still loading when it is requested again is
// part of an import cycle.
func (i *Interpreter) instance(
	ctx context.Context,
	name, abs string,
	deps []string,
) (*Interpreter, error) {
	if i.shared.loading[abs] {
		return nil, ErrImportCycle.With(fileAttr(abs))
	}

	if child, ok := i.shared.files[abs]; ok {
		i.logger.TraceContext(ctx, "import cached", fileAttr(abs))
		i.imports[abs] = child

		return child, nil
	}

	child := i.spawn(name, abs)
	i.shared.files[abs] = child
	i.shared.loading[abs] = true
	i.imports[abs] = child

	defer delete(i.shared.loading, abs)

	i.logger.TraceContext(ctx, "import", fileAttr(abs))

	for _, dep := range deps {
		lib, err := child.importLibrary(ctx, dep)
		if err != nil {
			return nil, ErrLibrary.With(nameAttr(name)).Wrap(err)
		}

		child.libs[dep] = lib
	}

	if _, err := child.load(ctx); err != nil {
		return nil, err
	}

	return child, nil
}

// merge folds the variables, functions, classes and libraries of child into
// i. Later imports overwrite earlier names.
func (i *Interpreter) merge(child *Interpreter) {
	for k, v := range child.vars {
		if k == "__file__" {
			continue
		}

		i.vars[k] = v
	}

	for k, v := range child.funcs {
		i.funcs[k] = v
	}

	for k, v := range child.classes {
		i.classes[k] = v
	}

	for k, v := range child.libs {
		i.libs[k] = v
	}
}
