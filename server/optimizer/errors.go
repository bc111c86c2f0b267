package optimizer

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidNodeCount   = errors.New("node count must be a positive integer")
	ErrInvalidEdge        = errors.New("invalid edge")
	ErrSelfLoopNotAllowed = errors.New("self-loops are not allowed")
	ErrNotATree           = errors.New("graph is not a tree")
)

// EdgeError reports which edge of the input violated a validation rule
type EdgeError struct {
	Index int
	Edge  []int
	Err   error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge %d %v: %v", e.Index, e.Edge, e.Err)
}

func (e *EdgeError) Unwrap() error {
	return e.Err
}
