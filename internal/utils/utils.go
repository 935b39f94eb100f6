// Package utils provides small helpers with no domain knowledge.
package utils

import "strconv"

// AtoiDefault parses s as an int, returning def when s is empty or not a
// valid integer. Input is not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
