// config_test.go
package sentience

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Config_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sentience.yaml")
	data := `
gateway:
  url: http://localhost:9090
max_call_depth: 256
history_file: /tmp/.sn_history
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Gateway.URL != "http://localhost:9090" {
		t.Fatalf("gateway url = %q", cfg.Gateway.URL)
	}
	if cfg.MaxCallDepth != 256 {
		t.Fatalf("max_call_depth = %d", cfg.MaxCallDepth)
	}
	if cfg.HistoryFile != "/tmp/.sn_history" {
		t.Fatalf("history_file = %q", cfg.HistoryFile)
	}

	// Gateway contributes embedder and invoker, depth contributes one more.
	if got := len(cfg.Options(nil)); got != 3 {
		t.Fatalf("option count = %d", got)
	}
}

func Test_Config_IfPresentMissingFileIsZeroConfig(t *testing.T) {
	cfg, err := LoadConfigIfPresent(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Gateway.URL != "" || cfg.MaxCallDepth != 0 {
		t.Fatalf("zero config expected, got %+v", cfg)
	}
	if len(cfg.Options(nil)) != 0 {
		t.Fatal("zero config should produce no options")
	}
}

func Test_Config_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}
