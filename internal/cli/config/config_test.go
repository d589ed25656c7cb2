package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	homedir.DisableCache = true
	t.Setenv("HOME", dir)
	t.Setenv("BABYWORDS_CONFIG_PATH", "")
	t.Setenv("BABYWORDS_API_BASE", "")
	t.Setenv("BABYWORDS_CACHE_DIR", "")
	t.Setenv("BABYWORDS_SAVED_FLASH", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Errorf("APIBase = %q, want %q", cfg.APIBase, DefaultAPIBase)
	}
	if cfg.SavedFlash != 2*time.Second {
		t.Errorf("SavedFlash = %v, want 2s", cfg.SavedFlash)
	}
	if want := filepath.Join(home, ".babywords"); cfg.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := isolate(t)
	content := "api_base: https://words.example.com\ncache_dir: ~/cache\nsaved_flash: 500ms\n"
	if err := os.WriteFile(filepath.Join(dir, ".babywords.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBase != "https://words.example.com" {
		t.Errorf("APIBase = %q", cfg.APIBase)
	}
	if cfg.SavedFlash != 500*time.Millisecond {
		t.Errorf("SavedFlash = %v, want 500ms", cfg.SavedFlash)
	}
	if want := filepath.Join(dir, "cache"); cfg.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	os.WriteFile(filepath.Join(dir, ".babywords.yaml"), []byte("api_base: https://file.example.com\n"), 0o600)
	t.Setenv("BABYWORDS_API_BASE", "https://env.example.com")
	t.Setenv("BABYWORDS_SAVED_FLASH", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBase != "https://env.example.com" {
		t.Errorf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.SavedFlash != DefaultSavedFlash {
		t.Errorf("SavedFlash = %v, want default for malformed value", cfg.SavedFlash)
	}
}
