package network

import (
	"context"
	"errors"
	"time"

	"latency_optimizer/server/optimizer"
)

// Sources record where a run came from
const (
	SourceAPI    = "api"
	SourceBatch  = "batch"
	SourceUpload = "upload"
	SourceCLI    = "cli"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one served optimization as kept in the run history
type Run struct {
	ID            int64     `json:"id"`
	Fingerprint   string    `json:"fingerprint"`
	Source        string    `json:"source"`
	NodeCount     int       `json:"nodeCount"`
	EdgeCount     int       `json:"edgeCount"`
	MinDistance   int64     `json:"minDistance"`
	OptimalNodes  []int     `json:"optimalNodes"`
	TotalDistance []int64   `json:"totalDistance"`
	ClientIP      string    `json:"clientIp,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`

	// Truncated is set when the history dropped TotalDistance to save memory
	Truncated bool `json:"truncated,omitempty"`
}

// NewRun describes a successful optimization of n nodes and edgeCount edges
func NewRun(fingerprint, source, clientIP string, n, edgeCount int, result *optimizer.Result) *Run {
	return &Run{
		Fingerprint:   fingerprint,
		Source:        source,
		NodeCount:     n,
		EdgeCount:     edgeCount,
		MinDistance:   result.MinDistance,
		OptimalNodes:  result.OptimalNodes,
		TotalDistance: result.TotalDistance,
		ClientIP:      clientIP,
	}
}

// Repository stores the run history
type Repository interface {
	Create(ctx context.Context, run *Run) (*Run, error)
	GetByID(ctx context.Context, id int64) (*Run, error)
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
}
