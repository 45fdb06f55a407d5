package cli

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigPath(t *testing.T) {
	got := configPath(baseConfig)

	if filepath.Base(got) != baseConfig {
		t.Errorf("configPath base = %q", filepath.Base(got))
	}

	if filepath.Dir(got) != configDir() {
		t.Errorf("configPath dir = %q, want %q", filepath.Dir(got), configDir())
	}

	if strings.HasPrefix(basePrefix(), ".") || basePrefix() == "" {
		t.Errorf("basePrefix = %q", basePrefix())
	}
}
