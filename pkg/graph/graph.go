package graph

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/bazelbuild/bazel-gazelle/label"
)

// ErrUnresolvedAddress is returned when a label does not resolve to a
// registered target. This indicates a defect in the definition files (or in
// the collaborator that produced them), not a recoverable condition.
var ErrUnresolvedAddress = errors.New("unresolved target address")

// Graph is a registry of targets keyed by label, plus an index of the
// definition files that declared them. Registration order is preserved so
// that every downstream walk is deterministic.
type Graph struct {
	root    string // absolute workspace root
	order   []*Target
	byLabel map[string]*Target
	byDir   map[string][]*Target // package dir -> declaring targets
	dirs    []string             // sorted package dirs with definition files
}

// NewGraph creates an empty graph rooted at the absolute workspace root.
func NewGraph(root string) *Graph {
	return &Graph{
		root:    root,
		byLabel: make(map[string]*Target),
		byDir:   make(map[string][]*Target),
	}
}

// Root returns the absolute workspace root.
func (g *Graph) Root() string { return g.root }

// Add registers a target. Duplicate labels are a definition-file defect.
func (g *Graph) Add(t *Target) error {
	key := t.Label.String()
	if _, ok := g.byLabel[key]; ok {
		return fmt.Errorf("duplicate target %s", key)
	}
	g.byLabel[key] = t
	g.order = append(g.order, t)
	if t.BuildFile != nil {
		dir := t.BuildFile.Dir
		if _, seen := g.byDir[dir]; !seen {
			g.dirs = append(g.dirs, dir)
			sort.Strings(g.dirs)
		}
		g.byDir[dir] = append(g.byDir[dir], t)
	}
	return nil
}

// Resolve looks up a target by label.
func (g *Graph) Resolve(l label.Label) (*Target, error) {
	t, ok := g.byLabel[l.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedAddress, l)
	}
	return t, nil
}

// Targets returns all registered targets in registration order.
func (g *Graph) Targets() []*Target {
	return slices.Clone(g.order)
}

// TargetsInDir returns the targets declared by the definition file in dir,
// in declaration order.
func (g *Graph) TargetsInDir(dir string) []*Target {
	return slices.Clone(g.byDir[dir])
}

// CandidateTargets enumerates every target declared in the given definition
// file, its ancestor definition files, its sibling definition files (same
// parent directory), and its descendant definition files. This is the
// candidate pool for shared-directory sibling discovery: globs in any of
// these files can reach into directories the given file's targets also touch.
//
// The result is deterministic: same file first, then ancestors, siblings and
// descendants each in sorted directory order.
func (g *Graph) CandidateTargets(bf *BuildFile) []*Target {
	if bf == nil {
		return nil
	}
	var out []*Target
	seen := map[string]bool{bf.Dir: true}
	out = append(out, g.byDir[bf.Dir]...)

	add := func(dir string) {
		if seen[dir] {
			return
		}
		seen[dir] = true
		out = append(out, g.byDir[dir]...)
	}

	for _, dir := range g.dirs {
		if isAncestorDir(dir, bf.Dir) {
			add(dir)
		}
	}
	if bf.Dir != "" {
		parent := parentDir(bf.Dir)
		for _, dir := range g.dirs {
			if dir != bf.Dir && dir != parent && parentDir(dir) == parent {
				add(dir)
			}
		}
	}
	for _, dir := range g.dirs {
		if isAncestorDir(bf.Dir, dir) {
			add(dir)
		}
	}
	return out
}
