package optimizer

import "fmt"

// Graph is the adjacency structure of an undirected tree over nodes [0, N)
type Graph struct {
	N   int
	Adj [][]int
}

// BuildGraph validates the edge list and builds the adjacency structure.
// Every edge is checked before anything is allocated, so an error never
// comes with a partially built graph.
func BuildGraph(n int, edges [][]int) (*Graph, error) {
	if n <= 0 {
		return nil, ErrInvalidNodeCount
	}

	for i, e := range edges {
		if len(e) != 2 {
			return nil, &EdgeError{Index: i, Edge: e, Err: ErrInvalidEdge}
		}
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, &EdgeError{Index: i, Edge: e, Err: ErrInvalidEdge}
		}
		if u == v {
			return nil, &EdgeError{Index: i, Edge: e, Err: ErrSelfLoopNotAllowed}
		}
	}

	if len(edges) != n-1 {
		return nil, fmt.Errorf("%w: %d nodes need %d edges, got %d", ErrNotATree, n, n-1, len(edges))
	}

	degree := make([]int, n)
	for _, e := range edges {
		degree[e[0]]++
		degree[e[1]]++
	}

	adj := make([][]int, n)
	for v := range adj {
		adj[v] = make([]int, 0, degree[v])
	}
	for _, e := range edges {
		u, v := e[0], e[1]
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}

	return &Graph{N: n, Adj: adj}, nil
}
