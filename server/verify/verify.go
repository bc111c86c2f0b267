// Package verify recomputes per-node total distances by running a breadth
// first search from every node. It is quadratic and only meant to audit the
// linear rerooting results on small inputs.
package verify

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"
)

// MaxNodes is the largest graph the oracle accepts
const MaxNodes = 5000

// Errors
var (
	ErrTooLarge     = fmt.Errorf("graph exceeds %d nodes", MaxNodes)
	ErrMalformed    = errors.New("malformed graph")
	ErrDisconnected = errors.New("graph is disconnected")
)

// Mismatch describes the first node whose total differs from the oracle
type Mismatch struct {
	Node     int
	Got      int64
	Expected int64
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("node %d: got total distance %d, expected %d", m.Node, m.Got, m.Expected)
}

func buildGraph(n int, edges [][]int) (*simple.UndirectedGraph, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: node count %d", ErrMalformed, n)
	}
	if n > MaxNodes {
		return nil, ErrTooLarge
	}

	g := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		g.AddNode(simple.Node(i))
	}
	for i, e := range edges {
		if len(e) != 2 || e[0] < 0 || e[0] >= n || e[1] < 0 || e[1] >= n || e[0] == e[1] {
			return nil, fmt.Errorf("%w: edge %d %v", ErrMalformed, i, e)
		}
		g.SetEdge(g.NewEdge(simple.Node(e[0]), simple.Node(e[1])))
	}
	return g, nil
}

// TotalDistances returns, for every node, the sum of BFS depths of all
// other nodes.
func TotalDistances(n int, edges [][]int) ([]int64, error) {
	g, err := buildGraph(n, edges)
	if err != nil {
		return nil, err
	}

	total := make([]int64, n)
	var bf traverse.BreadthFirst
	for src := 0; src < n; src++ {
		bf.Reset()
		reached := 0
		bf.Walk(g, simple.Node(src), func(_ graph.Node, depth int) bool {
			total[src] += int64(depth)
			reached++
			return false
		})
		if reached != n {
			return nil, fmt.Errorf("%w: %d of %d nodes reachable from %d", ErrDisconnected, reached, n, src)
		}
	}
	return total, nil
}

// Compare checks got against the oracle and returns a *Mismatch for the
// first differing node.
func Compare(n int, edges [][]int, got []int64) error {
	expected, err := TotalDistances(n, edges)
	if err != nil {
		return err
	}
	if len(got) != len(expected) {
		return fmt.Errorf("%w: got %d totals for %d nodes", ErrMalformed, len(got), n)
	}
	for v := range expected {
		if got[v] != expected[v] {
			return &Mismatch{Node: v, Got: got[v], Expected: expected[v]}
		}
	}
	return nil
}
