package util

import "strconv"

// MustParseUint converts a string path parameter to uint, returning 0 on
// failure (id 0 never resolves, so callers fall through to not-found).
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
