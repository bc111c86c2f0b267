package optimizer

import "fmt"

// Distances holds the per-node quantities of both traversal passes,
// indexed by node id. The subtree values are relative to node 0 as root.
type Distances struct {
	SubtreeSize        []int64
	SubtreeDistanceSum []int64
	TotalDistance      []int64
}

type frame struct {
	node   int
	parent int
	next   int // index of the next neighbor to visit
}

// Aggregate computes the sum of distances from every node to all other
// nodes in O(n). Both passes run on explicit stacks, so a path-shaped tree
// with millions of nodes does not grow the goroutine stack.
func Aggregate(g *Graph) (*Distances, error) {
	if g == nil || g.N <= 0 {
		return nil, ErrInvalidNodeCount
	}

	n := g.N
	d := &Distances{
		SubtreeSize:        make([]int64, n),
		SubtreeDistanceSum: make([]int64, n),
		TotalDistance:      make([]int64, n),
	}
	parent := make([]int, n)
	visited := make([]bool, n)

	// Pass 1: post-order subtree sizes and distance sums.
	stack := make([]frame, 0, 64)
	stack = append(stack, frame{node: 0, parent: -1})
	parent[0] = -1
	visited[0] = true
	d.SubtreeSize[0] = 1
	seen := 1

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(g.Adj[top.node]) {
			v, p := g.Adj[top.node][top.next], top.node
			top.next++
			if v == top.parent {
				continue
			}
			if visited[v] {
				return nil, fmt.Errorf("%w: cycle through node %d", ErrNotATree, v)
			}
			visited[v] = true
			parent[v] = p
			d.SubtreeSize[v] = 1
			seen++
			stack = append(stack, frame{node: v, parent: p})
			continue
		}

		v, p := top.node, top.parent
		stack = stack[:len(stack)-1]
		if p >= 0 {
			d.SubtreeSize[p] += d.SubtreeSize[v]
			d.SubtreeDistanceSum[p] += d.SubtreeDistanceSum[v] + d.SubtreeSize[v]
		}
	}

	if seen != n {
		return nil, fmt.Errorf("%w: only %d of %d nodes reachable from node 0", ErrNotATree, seen, n)
	}

	// Pass 2: pre-order rerooting, parent before child.
	d.TotalDistance[0] = d.SubtreeDistanceSum[0]
	nodes := make([]int, 0, 64)
	nodes = append(nodes, 0)
	for len(nodes) > 0 {
		v := nodes[len(nodes)-1]
		nodes = nodes[:len(nodes)-1]
		for _, c := range g.Adj[v] {
			if c == parent[v] {
				continue
			}
			d.TotalDistance[c] = d.TotalDistance[v] + int64(n) - 2*d.SubtreeSize[c]
			nodes = append(nodes, c)
		}
	}

	return d, nil
}
