// Package optimizer finds the nodes of a tree network whose summed
// hop distance to every other node is minimal.
package optimizer

// Result is the outcome of one optimization request
type Result struct {
	MinDistance   int64   `json:"minDistance"`
	OptimalNodes  []int   `json:"optimalNodes"`
	TotalDistance []int64 `json:"totalDistance"`
}

// SelectOptimal returns the smallest total distance and every node that
// reaches it, in ascending order.
func SelectOptimal(total []int64) (int64, []int) {
	if len(total) == 0 {
		return 0, nil
	}

	best := total[0]
	for _, d := range total[1:] {
		if d < best {
			best = d
		}
	}

	nodes := make([]int, 0, 1)
	for i, d := range total {
		if d == best {
			nodes = append(nodes, i)
		}
	}
	return best, nodes
}

// Optimize computes the total distance of every node of the tree given by
// n and edges, and the nodes with the minimum total.
func Optimize(n int, edges [][]int) (*Result, error) {
	if n <= 0 {
		return nil, ErrInvalidNodeCount
	}

	// A single node is trivially optimal, whatever the edge list says.
	if n == 1 {
		return &Result{
			MinDistance:   0,
			OptimalNodes:  []int{0},
			TotalDistance: []int64{0},
		}, nil
	}

	g, err := BuildGraph(n, edges)
	if err != nil {
		return nil, err
	}

	d, err := Aggregate(g)
	if err != nil {
		return nil, err
	}

	best, nodes := SelectOptimal(d.TotalDistance)
	return &Result{
		MinDistance:   best,
		OptimalNodes:  nodes,
		TotalDistance: d.TotalDistance,
	}, nil
}
