package network

import (
	"encoding/hex"
	"slices"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Fingerprint identifies a network independently of edge order and edge
// direction. Equal fingerprints mean equal optimization results.
func Fingerprint(n int, edges [][]int) string {
	canonical := make([][]int, len(edges))
	for i, e := range edges {
		c := slices.Clone(e)
		if len(c) == 2 && c[0] > c[1] {
			c[0], c[1] = c[1], c[0]
		}
		canonical[i] = c
	}
	slices.SortFunc(canonical, func(a, b []int) int {
		return slices.Compare(a, b)
	})

	buf := make([]byte, 0, 16+len(canonical)*12)
	buf = append(buf, "n="...)
	buf = strconv.AppendInt(buf, int64(n), 10)
	for _, e := range canonical {
		buf = append(buf, '\n')
		for j, v := range e {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = strconv.AppendInt(buf, int64(v), 10)
		}
	}

	sum := blake2b.Sum256(buf)
	return hex.EncodeToString(sum[:])
}

func cacheKey(fingerprint string) string {
	return "optimize:" + fingerprint
}
