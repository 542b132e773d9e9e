// Package vpath parses the kernel's "scheme:sub-path" virtual file paths
// (spec.md §4.9: "open('name:sub', flags, ctx) looks up 'name' and
// delegates to the handler with 'sub'").
package vpath

import (
	"strings"

	"jon/internal/kerr"
)

// Parse splits a path of the form "scheme:sub" into its scheme name and
// sub-path. A path with no colon is invalid; a path with an empty scheme
// name, or one with a character outside [a-z0-9], is invalid.
func Parse(path string) (scheme, sub string, err error) {
	idx := strings.IndexByte(path, ':')
	if idx <= 0 {
		return "", "", kerr.ErrUnknownPath
	}
	for _, c := range path[:idx] {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return "", "", kerr.ErrUnknownPath
		}
	}
	return path[:idx], path[idx+1:], nil
}
