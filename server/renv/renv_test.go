package renv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	ServerName string `yaml:"server_name"`
	Optimizer  struct {
		MaxNodes int `yaml:"max_nodes"`
	} `yaml:"optimizer"`
}

func TestParse_AtLocation(t *testing.T) {
	dir := t.TempDir()
	content := "server_name: test-optimizer\noptimizer:\n  max_nodes: 42\n"
	if err := os.WriteFile(filepath.Join(dir, ".env.staging.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var s sample
	if err := Parse("staging", dir, &s); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if s.ServerName != "test-optimizer" {
		t.Errorf("Expected server name test-optimizer, got %q", s.ServerName)
	}
	if s.Optimizer.MaxNodes != 42 {
		t.Errorf("Expected max nodes 42, got %d", s.Optimizer.MaxNodes)
	}
}

func TestParse_MissingFile(t *testing.T) {
	var s sample
	err := Parse("missing", t.TempDir(), &s)
	if !errors.Is(err, ErrEnvFileNotFound) {
		t.Errorf("Expected ErrEnvFileNotFound, got %v", err)
	}
}

func TestParseAtLocation_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local.yaml")
	if err := os.WriteFile(path, []byte("server_name: [unclosed"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var s sample
	if err := ParseAtLocation(path, &s); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestFileName(t *testing.T) {
	if FileName("") != ".env.local.yaml" {
		t.Errorf("Unexpected default file name %s", FileName(""))
	}
	if FileName("prod") != ".env.prod.yaml" {
		t.Errorf("Unexpected file name %s", FileName("prod"))
	}
}
