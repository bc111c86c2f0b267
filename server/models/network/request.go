package network

import (
	"bytes"
	"encoding/json"
	"fmt"

	"latency_optimizer/server/optimizer"
	"latency_optimizer/server/response"

	"github.com/labstack/echo/v4"
)

type OptimizeRequest struct {
	N     int     `json:"n"`
	Edges [][]int `json:"edges"`
}

// rawRequest defers number decoding so that a non-integer node count or
// edge endpoint is reported with the same codes as other invalid input.
type rawRequest struct {
	N     json.RawMessage `json:"n"`
	Edges json.RawMessage `json:"edges"`
}

type rawBatchRequest struct {
	Requests []rawRequest `json:"requests"`
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// decode converts the raw body into an OptimizeRequest. A missing n decodes
// to zero and a missing edge list to no edges; the optimizer rejects both
// where they are invalid.
func (r rawRequest) decode() (OptimizeRequest, *response.AppError) {
	var req OptimizeRequest

	if !isNull(r.N) {
		if err := json.Unmarshal(r.N, &req.N); err != nil {
			return req, &response.AppError{
				Code:    response.ErrCodeInvalidNodeCount,
				Message: "Node count must be a positive integer",
				Err:     fmt.Errorf("%w: %s", optimizer.ErrInvalidNodeCount, r.N),
				Details: echo.Map{"n": r.N},
			}
		}
	}

	if isNull(r.Edges) {
		req.Edges = [][]int{}
		return req, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(r.Edges, &items); err != nil {
		return req, &response.AppError{
			Code:    response.ErrCodeInvalidEdge,
			Message: "Edges must be a list of node pairs",
			Err:     fmt.Errorf("%w: %v", optimizer.ErrInvalidEdge, err),
		}
	}

	req.Edges = make([][]int, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &req.Edges[i]); err != nil {
			return req, &response.AppError{
				Code:    response.ErrCodeInvalidEdge,
				Message: "Invalid edge",
				Err:     &optimizer.EdgeError{Index: i, Err: optimizer.ErrInvalidEdge},
				Details: echo.Map{"index": i, "edge": item},
			}
		}
	}
	return req, nil
}
