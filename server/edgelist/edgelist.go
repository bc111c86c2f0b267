// Package edgelist reads the plain-text network description accepted by the
// upload endpoint and the command mode: one "u,v" edge per line.
//
//	# optional comments
//	n=4
//	0,1
//	0 2
//	0, 3 # trailing comments are ignored too
//
// The node count line is optional; without it the count is the largest
// node index plus one. A bare integer on the first line is read as the count.
package edgelist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxLineLength bounds a single input line
const MaxLineLength = 1024

// Errors
var (
	ErrEmpty      = errors.New("edge list is empty")
	ErrBadHeader  = errors.New("invalid node count line")
	ErrBadEdge    = errors.New("edge must be two integers")
	ErrLineLength = errors.New("line too long")
)

// LineError carries the 1-based line number of a parse failure
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Network is a parsed node count and edge list
type Network struct {
	N     int
	Edges [][]int
}

// Parse reads a network description from r
func Parse(r io.Reader) (*Network, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), MaxLineLength)

	var (
		net      = &Network{Edges: [][]int{}}
		hasCount bool
		first    = true
		maxIndex = -1
		lineNo   int
	)

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if first {
			first = false
			if n, ok, err := parseHeader(line); err != nil {
				return nil, &LineError{Line: lineNo, Err: err}
			} else if ok {
				net.N = n
				hasCount = true
				continue
			}
		}

		edge, err := parseEdge(line)
		if err != nil {
			return nil, &LineError{Line: lineNo, Err: err}
		}
		for _, v := range edge {
			if v > maxIndex {
				maxIndex = v
			}
		}
		net.Edges = append(net.Edges, edge)
	}

	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &LineError{Line: lineNo + 1, Err: ErrLineLength}
		}
		return nil, err
	}

	if !hasCount {
		if len(net.Edges) == 0 {
			return nil, ErrEmpty
		}
		net.N = maxIndex + 1
	}

	return net, nil
}

// ParseString is Parse over an in-memory description
func ParseString(s string) (*Network, error) {
	return Parse(strings.NewReader(s))
}

// parseHeader recognises "n=<count>", "n: <count>" and a bare "<count>"
func parseHeader(line string) (int, bool, error) {
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "n") {
		rest := strings.TrimSpace(lower[1:])
		if !strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, ":") {
			return 0, false, ErrBadHeader
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest[1:]))
		if err != nil {
			return 0, false, ErrBadHeader
		}
		return n, true, nil
	}

	if len(fields(line)) == 1 {
		n, err := strconv.Atoi(line)
		if err != nil {
			return 0, false, ErrBadHeader
		}
		return n, true, nil
	}

	return 0, false, nil
}

func parseEdge(line string) ([]int, error) {
	parts := fields(line)
	if len(parts) != 2 {
		return nil, ErrBadEdge
	}
	u, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, ErrBadEdge
	}
	v, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, ErrBadEdge
	}
	return []int{u, v}, nil
}

func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
}
