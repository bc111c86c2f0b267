package validation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 100
)

// MaxEdgeListFileSize bounds uploaded edge list files
const MaxEdgeListFileSize = 32 * 1024 * 1024 // 32 MB

// CheckGraphSize reports whether a request fits the configured node limit.
// Structural checks on n and the edges belong to the optimizer.
func CheckGraphSize(n, edgeCount, maxNodes int) (bool, string) {
	if maxNodes <= 0 {
		return true, ""
	}
	if n > maxNodes {
		return false, fmt.Sprintf("Network has %d nodes, the limit is %d", n, maxNodes)
	}
	if edgeCount > maxNodes {
		return false, fmt.Sprintf("Network has %d edges, the limit is %d", edgeCount, maxNodes)
	}
	return true, ""
}

func ValidateBatchSize(size, maxSize int) (bool, string) {
	if size == 0 {
		return false, "Batch must contain at least one request"
	}
	if size > maxSize {
		return false, fmt.Sprintf("Batch must not exceed %d requests", maxSize)
	}
	return true, ""
}

// ParseRunLimit reads the "limit" query parameter of run listings
func ParseRunLimit(raw string) (int, bool, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultRunLimit, true, ""
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false, "Limit must be a positive integer"
	}
	if limit > MaxRunLimit {
		return 0, false, fmt.Sprintf("Limit must not exceed %d", MaxRunLimit)
	}
	return limit, true, ""
}

func ParseRunID(raw string) (int64, bool, string) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false, "Run id must be a positive integer"
	}
	return id, true, ""
}
