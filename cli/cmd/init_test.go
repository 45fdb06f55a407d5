package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var app struct {
		Engine Engine `embed:""`
		Init   Init   `cmd:""`
	}

	parser, err := kong.New(&app,
		kong.Exit(func(int) {}),
		kong.Vars{ConfigIdentifier: path}.CloneWith(app.Engine.Vars()),
	)
	if err != nil {
		t.Fatal(err)
	}

	run := func(args ...string) error {
		ktx, err := parser.Parse(args)
		if err != nil {
			t.Fatal(err)
		}

		return app.Init.Run(WithContext(t.Context(), ktx))
	}

	if err := run("init", "--max-depth", "50", "-D", "x=1"); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}

	if _, ok := doc["help"]; ok {
		t.Error("help flag written")
	}

	if _, ok := doc["lib-path"]; ok {
		t.Error("empty lib-path written")
	}

	if got := fmt.Sprint(doc["max-depth"]); got != "50" {
		t.Errorf("max-depth = %#v", doc["max-depth"])
	}

	if defs, ok := doc["define"].([]any); !ok || len(defs) != 1 || defs[0] != "x=1" {
		t.Errorf("define = %#v", doc["define"])
	}

	err = run("init")
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("init over existing file = %v", err)
	}

	if err := run("init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
}
