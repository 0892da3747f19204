package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvAPIKey, "")

	cfg := DefaultConfig()
	cfg.APIKey = "sk-test-1234567890"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config saved with mode %v, want 0600", info.Mode().Perm())
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.APIKey != cfg.APIKey || got.Model != "gpt-4" || got.Host.Timeout != 30*time.Second {
		t.Errorf("loaded %+v", got)
	}
}

func TestLoadMissing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || cfg != nil {
		t.Errorf("LoadFrom() = %v, %v; want nil, nil", cfg, err)
	}
}

func TestLoadAppliesDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: groq\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "from-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Model != "llama-3.1-70b-versatile" {
		t.Errorf("Model = %q, want provider default", cfg.Model)
	}
	if cfg.Key() != "from-env" {
		t.Errorf("Key() = %q, want env override", cfg.Key())
	}
	if cfg.Host.Mode != HostBridge || cfg.MaxTokens != 3000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestEnvKeyIsNotSaved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\napi_key: sk-stored\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvAPIKey, "sk-from-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Model = "gpt-4o"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-from-env") {
		t.Errorf("env key written to disk:\n%s", data)
	}
	if !strings.Contains(string(data), "sk-stored") {
		t.Errorf("stored key lost:\n%s", data)
	}
	if cfg.Key() != "sk-from-env" || cfg.APIKey != "sk-stored" {
		t.Errorf("Key() = %q, APIKey = %q", cfg.Key(), cfg.APIKey)
	}
}

func TestCredentialStoreSetReplacesEnvKey(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	store := newCredentialStore(cfg, func(c *Config) error { return c.SaveTo(path) })
	if store.Get() != "sk-from-env" {
		t.Fatalf("Get() = %q, want env key", store.Get())
	}
	if err := store.Set("sk-typed"); err != nil {
		t.Fatal(err)
	}
	if store.Get() != "sk-typed" {
		t.Errorf("Get() = %q, want typed key", store.Get())
	}
}

func TestMaskedKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", "Not set"},
		{"short", "****"},
		{"sk-abcdefghijkl", "sk-a****ijkl"},
	}
	for _, tt := range tests {
		c := &Config{APIKey: tt.key}
		if got := c.MaskedKey(); got != tt.want {
			t.Errorf("MaskedKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestCredentialStore(t *testing.T) {
	saves := 0
	store := newCredentialStore(DefaultConfig(), func(*Config) error {
		saves++
		return nil
	})

	ch, cancel := store.Subscribe()
	defer cancel()

	if err := store.Set("   "); !errors.Is(err, ErrEmptyKey) {
		t.Fatalf("Set(blank) = %v, want ErrEmptyKey", err)
	}
	if saves != 0 {
		t.Fatalf("blank key was saved")
	}

	if err := store.Set(" first "); err != nil {
		t.Fatal(err)
	}
	if err := store.Set("second"); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ch:
		if got != "second" {
			t.Errorf("subscriber got %q, want latest key", got)
		}
	default:
		t.Fatal("subscriber was not notified")
	}
	if store.Get() != "second" || saves != 2 {
		t.Errorf("Get() = %q, saves = %d", store.Get(), saves)
	}
}

func TestCredentialStoreSaveFailureKeepsOldKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "old"
	store := newCredentialStore(cfg, func(*Config) error { return errors.New("disk full") })

	if err := store.Set("new"); err == nil {
		t.Fatal("expected save error")
	}
	if store.Get() != "old" {
		t.Errorf("Get() = %q, want old key kept", store.Get())
	}
}
