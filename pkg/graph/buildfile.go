package graph

import "path"

// BuildFile is the location of a BUILD definition file within the workspace.
// Candidate enumeration (same file, ancestors, siblings, descendants) is
// resolved against the Graph, which knows every registered definition file.
type BuildFile struct {
	// Path is the definition file path relative to the workspace root,
	// e.g. "src/java/com/example/BUILD".
	Path string

	// Dir is the package directory relative to the workspace root. The
	// workspace root itself is "".
	Dir string
}

// NewBuildFile returns the BuildFile for a definition file at relPath
// (relative to the workspace root, forward slashes).
func NewBuildFile(relPath string) *BuildFile {
	dir := path.Dir(relPath)
	if dir == "." {
		dir = ""
	}
	return &BuildFile{Path: relPath, Dir: dir}
}

// isAncestorDir reports whether a is a proper ancestor directory of b.
// The empty string (workspace root) is an ancestor of every other directory.
func isAncestorDir(a, b string) bool {
	if a == b {
		return false
	}
	if a == "" {
		return true
	}
	return len(b) > len(a) && b[:len(a)] == a && b[len(a)] == '/'
}

// parentDir returns the parent package directory of dir, or "" at the root.
func parentDir(dir string) string {
	p := path.Dir(dir)
	if p == "." {
		return ""
	}
	return p
}
