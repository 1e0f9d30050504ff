package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigDir_FlagWins(t *testing.T) {
	t.Setenv(EnvConfigDir, "/ignored")

	dir, err := ResolveConfigDir("relative/conf")
	if err != nil {
		t.Fatalf("ResolveConfigDir: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("expected absolute path, got %q", dir)
	}
	if !strings.HasSuffix(dir, filepath.Join("relative", "conf")) {
		t.Errorf("flag value not honored: %q", dir)
	}
}

func TestResolveConfigDir_EnvFallback(t *testing.T) {
	t.Setenv(EnvConfigDir, "/from-env")

	dir, err := ResolveConfigDir("")
	if err != nil {
		t.Fatalf("ResolveConfigDir: %v", err)
	}
	if dir != "/from-env" {
		t.Errorf("expected env value, got %q", dir)
	}
}

func TestResolveDataDir_Precedence(t *testing.T) {
	t.Setenv(EnvDataDir, "/from-env")

	dir, err := ResolveDataDir("", "/from-config")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if dir != "/from-config" {
		t.Errorf("config value should beat env, got %q", dir)
	}

	dir, err = ResolveDataDir("", "")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if dir != "/from-env" {
		t.Errorf("env value should beat default, got %q", dir)
	}
}

func TestResolveDataDir_DefaultIsCWDRelative(t *testing.T) {
	t.Setenv(EnvDataDir, "")

	dir, err := ResolveDataDir("", "")
	if err != nil {
		t.Fatalf("ResolveDataDir: %v", err)
	}
	if !strings.HasSuffix(dir, DefaultDataDirName) {
		t.Errorf("expected %s suffix, got %q", DefaultDataDirName, dir)
	}
}
