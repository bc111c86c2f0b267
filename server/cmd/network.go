package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"latency_optimizer/server/edgelist"
	"latency_optimizer/server/optimizer"
	"latency_optimizer/server/verify"
)

var ErrMissingInput = errors.New("-input is required")

type jsonNetwork struct {
	N     int     `json:"n"`
	Edges [][]int `json:"edges"`
}

// ReadNetwork loads a network file. A file starting with '{' is read as the
// JSON request body {"n":..,"edges":..}; anything else as an edge list.
func ReadNetwork(path string) (*edgelist.Network, error) {
	if path == "" {
		return nil, ErrMissingInput
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var body jsonNetwork
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return &edgelist.Network{N: body.N, Edges: body.Edges}, nil
	}

	return edgelist.ParseString(string(data))
}

// Verify optimizes network and checks every total against the BFS oracle
func Verify(w io.Writer, network *edgelist.Network) error {
	if network.N > verify.MaxNodes {
		return fmt.Errorf("%w: network has %d nodes", verify.ErrTooLarge, network.N)
	}

	result, err := optimizer.Optimize(network.N, network.Edges)
	if err != nil {
		return err
	}
	if err := verify.Compare(network.N, network.Edges, result.TotalDistance); err != nil {
		return err
	}

	fmt.Fprintf(w, "verified %d nodes: min distance %d at %v\n", network.N, result.MinDistance, result.OptimalNodes)
	return nil
}

// WriteJSON prints v indented, followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
