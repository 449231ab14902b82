package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TobiSchelling/dendro/internal/linkage"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Criterion != "ward" {
		t.Errorf("expected criterion 'ward', got %q", cfg.Criterion)
	}
	if cfg.GetCriterion() != linkage.Ward {
		t.Errorf("expected Ward, got %v", cfg.GetCriterion())
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Cut.Threshold != 0 || cfg.Cut.MaxGroups != 0 {
		t.Errorf("expected cut disabled by default, got %+v", cfg.Cut)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
criterion: single_link
cut:
  threshold: 1.5
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.GetCriterion() != linkage.SingleLink {
		t.Errorf("expected single link, got %v", cfg.GetCriterion())
	}
	if cfg.Cut.Threshold != 1.5 {
		t.Errorf("expected threshold 1.5, got %g", cfg.Cut.Threshold)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"unknown criterion":  "criterion: nearest\n",
		"negative threshold": "cut:\n  threshold: -1\n",
		"negative groups":    "cut:\n  max_groups: -2\n",
		"invalid yaml":       "criterion: [\n",
	}
	for name, data := range cases {
		if _, err := parse([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestResolveConfigPathExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveConfigPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("resolved %q, expected %q", got, path)
	}
}

func TestResolveConfigPathMissingExplicit(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestGetDataDirOverride(t *testing.T) {
	cfg := &Config{Output: Output{DataDir: "/tmp/x"}}
	if got := cfg.GetDataDir(); got != "/tmp/x" {
		t.Errorf("GetDataDir = %q", got)
	}
}
