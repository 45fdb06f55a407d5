package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/ipl/lang"
)

func TestIndentWrite(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		src     string
		want    string
		wantErr error
	}{
		{
			name:  "reindent two spaces",
			width: 2,
			src:   "if x\n        out(1)\nelse\n        out(2)\n",
			want:  "if x\n  out(1)\nelse\n  out(2)\n",
		},
		{
			name:  "nested blocks",
			width: 4,
			src:   "def f(a)\n  while a\n   a = a - 1\n  return a\n",
			want:  "def f(a)\n    while a\n        a = a - 1\n    return a\n",
		},
		{
			name:    "header without body",
			width:   4,
			src:     "while true\nout(1)\n",
			wantErr: lang.ErrIndent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(t.TempDir(), "prog.ipl"), tt.src)

			err := (&Indent{Width: tt.width, Write: true, Source: path}).Run(t.Context())

			if tt.wantErr != nil {
				if !errors.Is(err, ErrFormat) || !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() = %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}

			if string(got) != tt.want {
				t.Errorf("formatted:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestReadSourceMissing(t *testing.T) {
	_, err := readSource(filepath.Join(t.TempDir(), "absent.ipl"))
	if !errors.Is(err, ErrReadSource) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("readSource = %v", err)
	}
}

func TestOutlineRun(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "prog.ipl"), "class A\n    def m(self)\n        pass\n")

	for _, format := range []string{"yaml", "json"} {
		if err := (&Outline{Format: format, Indent: 2, Source: path}).Run(t.Context()); err != nil {
			t.Errorf("Outline %s: %v", format, err)
		}
	}
}
