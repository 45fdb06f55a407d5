package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/ipl/lang"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr error
	}{
		{"missing file", "", errNoProgram},
		{"wrong extension", "prog.py", errExtension},
		{"no extension", "prog", errExtension},
		{"valid", "dir/prog.ipl", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Run{File: tt.file}).Validate()

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v", err)
				}

				return
			}

			if !errors.Is(err, lang.ErrUsage) || !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want usage error wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunRun(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"quit is success", "x = 1\nquit()\nout(undefined_name)\n", nil},
		{"empty program", "", nil},
		{"undefined name", "y = missing + 1\n", lang.ErrUndefined},
	}

	for k, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, "p"+string(rune('a'+k))+".ipl"), tt.src)

			err := (&Run{File: path}).Run(t.Context(), &Engine{})

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Run() = %v", err)
				}

				return
			}

			if !errors.Is(err, ErrRun) || !errors.Is(err, tt.wantErr) {
				t.Errorf("Run() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineInterpreter(t *testing.T) {
	eng := &Engine{Define: []string{`greeting="hi"`}, MaxDepth: 8}

	v, err := eng.Interpreter().Eval(t.Context(), "greeting + \"!\"")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}

	if got, _ := v.Str(); got != "hi!" {
		t.Errorf("Eval = %q, want %q", got, "hi!")
	}

	src := "def down(n)\n    return down(n + 1)\ndown(0)\n"
	if _, err := eng.Interpreter().Exec(t.Context(), src); !errors.Is(err, lang.ErrMaxDepth) {
		t.Errorf("Exec recursion = %v, want %v", err, lang.ErrMaxDepth)
	}
}

func TestErrorLogValue(t *testing.T) {
	err := ErrRun.With(slog.String("file", "a.ipl")).Wrap(lang.ErrIndex)

	if got, want := err.Error(), "run program: "+lang.ErrIndex.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	attrs := err.LogValue().Group()
	if len(attrs) != 3 || attrs[0].Value.String() != "run program" || attrs[2].Key != "file" {
		t.Errorf("LogValue() = %v", attrs)
	}

	if !errors.Is(err, ErrRun) || errors.Is(err, ErrFormat) {
		t.Error("Is matched the wrong sentinel")
	}
}

func TestWhich(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "libs", "greet", lang.ManifestFile), `{
  "name": "greet",
  "version": "1.0.0",
  "entry": "main.ipl",
  "dependencies": []
}
`)
	writeFile(t, filepath.Join(root, "libs", "greet", "main.ipl"), "def hello()\n    return \"hello\"\n")

	eng := &Engine{LibPath: []string{root}}

	if err := (&Which{Name: "greet"}).Run(t.Context(), eng); err != nil {
		t.Errorf("Which greet: %v", err)
	}

	if err := (&Which{Name: "greet", Manifest: true}).Run(t.Context(), eng); err != nil {
		t.Errorf("Which --manifest greet: %v", err)
	}

	if err := (&Which{Name: "absent"}).Run(t.Context(), eng); !errors.Is(err, lang.ErrLibrary) {
		t.Errorf("Which absent = %v, want %v", err, lang.ErrLibrary)
	}
}
