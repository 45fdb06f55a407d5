package lang

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/ardnew/mung"
)

// LibraryEnv is the environment variable naming the library home.
const LibraryEnv = "ILI_PATH"

// ManifestFile is the name of the manifest in each library directory.
const ManifestFile = "Library.json"

// Manifest describes an installed library.
type Manifest struct {
	Name         string
	Version      string
	Entry        string
	Dependencies []string
}

// Library is an installed library located on the search path.
type Library struct {
	Dir      string
	Entry    string // absolute path of the entry file
	Manifest Manifest
}

// LibraryHome returns the default library home for the host platform.
func LibraryHome() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("PROGRAMDATA"), "ILI")
	case "darwin":
		return "/Library/Application Support/ILI"
	default:
		return "/usr/local/share/ILI"
	}
}

// SearchPath returns the library roots: the extra roots first, then the
// roots listed in $ILI_PATH, or [LibraryHome] when it is unset.
func SearchPath(extra ...string) []string {
	home := os.Getenv(LibraryEnv)
	if home == "" {
		home = LibraryHome()
	}

	list := mung.Make(
		mung.WithSubjectItems(home),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(extra...),
	).String()

	var roots []string

	for _, r := range filepath.SplitList(list) {
		if r != "" {
			roots = append(roots, r)
		}
	}

	return roots
}

// FindLibrary locates the library name in the first root that holds a
// "libs/<name>" directory with a manifest.
func FindLibrary(name string, roots []string) (Library, error) {
	for _, root := range roots {
		dir := filepath.Join(root, "libs", name)

		f, err := os.Open(filepath.Join(dir, ManifestFile))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err != nil {
			return Library{}, ErrLibrary.With(nameAttr(name)).Wrap(err)
		}

		m, err := ParseManifest(f)
		_ = f.Close()

		if err != nil {
			return Library{}, ErrManifest.With(nameAttr(name), fileAttr(dir)).Wrap(err)
		}

		entry, err := filepath.Abs(filepath.Join(dir, m.Entry))
		if err != nil {
			return Library{}, ErrLibrary.With(nameAttr(name)).Wrap(err)
		}

		if info, err := os.Stat(entry); err != nil || info.IsDir() {
			return Library{}, ErrLibrary.With(nameAttr(name), fileAttr(entry)).
				Wrap(errors.New("entry file does not exist"))
		}

		return Library{Dir: dir, Entry: entry, Manifest: m}, nil
	}

	return Library{}, ErrLibrary.With(nameAttr(name), slog.String("path", strings.Join(roots, string(os.PathListSeparator))))
}

// ResolveLibrary returns the entry file of the library name.
func ResolveLibrary(name string, roots []string) (string, error) {
	lib, err := FindLibrary(name, roots)
	if err != nil {
		return "", err
	}

	return lib.Entry, nil
}

// ParseManifest reads a manifest. The format is loosely parsed line by line:
// the first quoted token of a line is the key and the second is its value.
// The dependencies key takes every quoted token up to the closing bracket
// of its list, which may span several lines.
func ParseManifest(r io.Reader) (Manifest, error) {
	var (
		m      Manifest
		inDeps bool
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := sc.Text()
		quoted := quotedTokens(text)

		if inDeps {
			m.Dependencies = append(m.Dependencies, quoted...)
			inDeps = !strings.Contains(text, "]")

			continue
		}

		if len(quoted) == 0 {
			continue
		}

		switch quoted[0] {
		case "name", "version", "entry":
			if len(quoted) < 2 {
				return m, ErrManifest.With(slog.String("key", quoted[0]))
			}

			switch quoted[0] {
			case "name":
				m.Name = quoted[1]
			case "version":
				m.Version = quoted[1]
			default:
				m.Entry = quoted[1]
			}

		case "dependencies":
			m.Dependencies = append(m.Dependencies, quoted[1:]...)
			inDeps = strings.Contains(text, "[") && !strings.Contains(text, "]")
		}
	}

	if err := sc.Err(); err != nil {
		return m, ErrReadInput.Wrap(err)
	}

	if m.Entry == "" {
		return m, ErrManifest.With(slog.String("key", "entry"))
	}

	return m, nil
}

// quotedTokens returns the contents of each double-quoted token of text.
func quotedTokens(text string) []string {
	var out []string

	for {
		start := strings.IndexByte(text, '"')
		if start < 0 {
			return out
		}

		text = text[start+1:]

		end := strings.IndexByte(text, '"')
		if end < 0 {
			return out
		}

		out = append(out, text[:end])
		text = text[end+1:]
	}
}
