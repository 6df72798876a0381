package fileutil

import "strings"

// splitSegments splits a path on both separator styles so the predicates
// behave the same for paths produced on any platform.
func splitSegments(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
}

// IsPathIgnored reports whether Unity's asset importer would skip path: any
// segment that is hidden (leading '.') or ends with '~'. The "." and ".."
// segments of a relative path are not considered hidden.
func IsPathIgnored(path string) bool {
	for _, seg := range splitSegments(path) {
		if seg == "." || seg == ".." {
			continue
		}
		if strings.HasPrefix(seg, ".") || strings.HasSuffix(seg, "~") {
			return true
		}
	}
	return false
}

// IsTestFolder reports whether path contains a "Tests" segment (case-insensitive).
func IsTestFolder(path string) bool {
	for _, seg := range splitSegments(path) {
		if strings.EqualFold(seg, "Tests") {
			return true
		}
	}
	return false
}
