package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

type graphSection struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
}

type testConfig struct {
	Graph graphSection `mapstructure:"graph"`
	Cache struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"cache"`
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yaml := "graph:\n  uri: neo4j://db:7687\n  username: neo4j\ncache:\n  url: redis://cache:6379\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	var cfg testConfig
	if err := Load("chronos", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Graph.URI != "neo4j://db:7687" {
		t.Errorf("graph uri: %q", cfg.Graph.URI)
	}
	if cfg.Cache.URL != "redis://cache:6379" {
		t.Errorf("cache url: %q", cfg.Cache.URL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("graph:\n  uri: neo4j://file:7687\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("GRAPH_URI", "neo4j://env:7687")

	var cfg testConfig
	if err := Load("chronos", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Graph.URI != "neo4j://env:7687" {
		t.Errorf("expected environment to win, got %q", cfg.Graph.URI)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("GRAPH_USERNAME=fromenvfile\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("GRAPH_USERNAME") })

	var cfg testConfig
	if err := Load("chronos", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Graph.Username != "fromenvfile" {
		t.Errorf("expected .env value, got %q", cfg.Graph.Username)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("GRAPH_MAX_POOL_SIZE")
	want := []string{
		"graph_max_pool_size",
		"graph.max.pool.size",
		"graph.max_pool_size",
		"graph.max.pool_size",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("variants: %v, want %v", got, want)
	}

	if got := envKeyVariants("PORT"); !reflect.DeepEqual(got, []string{"port"}) {
		t.Errorf("single segment: %v", got)
	}
}
