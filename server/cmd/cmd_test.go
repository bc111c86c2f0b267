package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"latency_optimizer/server/edgelist"
	"latency_optimizer/server/optimizer"
	"latency_optimizer/server/psql"
	"latency_optimizer/server/verify"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func TestReadNetwork(t *testing.T) {
	tests := []struct {
		name    string
		content string
		n       int
		edges   [][]int
	}{
		{"edge list", "n=3\n0,1\n1,2\n", 3, [][]int{{0, 1}, {1, 2}}},
		{"json", `  {"n": 2, "edges": [[1, 0]]}`, 2, [][]int{{1, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			network, err := ReadNetwork(writeFile(t, "network.txt", tt.content))
			if err != nil {
				t.Fatalf("ReadNetwork failed: %v", err)
			}
			if network.N != tt.n || !reflect.DeepEqual(network.Edges, tt.edges) {
				t.Errorf("Expected n=%d edges=%v, got %+v", tt.n, tt.edges, network)
			}
		})
	}
}

func TestReadNetwork_Errors(t *testing.T) {
	if _, err := ReadNetwork(""); !errors.Is(err, ErrMissingInput) {
		t.Errorf("Expected ErrMissingInput, got %v", err)
	}
	if _, err := ReadNetwork(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("Expected an error for a missing file")
	}
	if _, err := ReadNetwork(writeFile(t, "bad.txt", "0,1\nzero,one\n")); !errors.Is(err, edgelist.ErrBadEdge) {
		t.Errorf("Expected ErrBadEdge, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	var out bytes.Buffer
	network := &edgelist.Network{N: 6, Edges: [][]int{{0, 1}, {0, 2}, {2, 3}, {2, 4}, {2, 5}}}

	if err := Verify(&out, network); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !strings.Contains(out.String(), "min distance 6 at [2]") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestVerify_Rejections(t *testing.T) {
	if err := Verify(&bytes.Buffer{}, &edgelist.Network{N: verify.MaxNodes + 1}); !errors.Is(err, verify.ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}
	if err := Verify(&bytes.Buffer{}, &edgelist.Network{N: 3, Edges: [][]int{{0, 1}}}); !errors.Is(err, optimizer.ErrNotATree) {
		t.Errorf("Expected ErrNotATree, got %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	if got := ResolvePath(dir); got != dir {
		t.Errorf("Expected existing path to be returned unchanged, got %s", got)
	}
	if got := ResolvePath("does/not/exist"); got != "does/not/exist" {
		t.Errorf("Expected fallback to the input, got %s", got)
	}
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	printStatus(&out, []psql.Status{
		{Version: "20250101000000", Name: "create_optimization_runs", Applied: true},
		{Version: "20250201000000", Name: "add_index", Applied: false},
	})

	for _, want := range []string{
		"[x] Applied  20250101000000_create_optimization_runs",
		"[ ] Pending  20250201000000_add_index",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in %q", want, out.String())
		}
	}
}
