package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/albertocavalcante/idegen/internal/log"
	"github.com/albertocavalcante/idegen/pkg/graph"
	"github.com/albertocavalcante/idegen/pkg/util"
)

// Options configure a resolution.
type Options struct {
	// Transitive includes the full dependency closure of the requested
	// targets; when false only the requested targets contribute sources.
	Transitive bool

	// SkipJava excludes Java sources from the project. Java targets still
	// contribute to the classpath.
	SkipJava bool

	// SkipScala excludes Scala sources from the project. Scala targets
	// still contribute to the classpath.
	SkipScala bool

	// ExtraSourceRoots and ExtraTestRoots are caller-supplied roots,
	// relative to the workspace root, appended verbatim as additional
	// source sets. No exclude computation runs against them.
	ExtraSourceRoots []string
	ExtraTestRoots   []string
}

// Resolver computes directory ownership for a set of requested targets: the
// expanded target set, the source sets they own, and the minimal exclude
// list per source set.
//
// A single target's declared sources do not necessarily describe full
// directory ownership. Globs in other definition files (in the same
// directory, ancestors, siblings, or descendants) can claim files inside
// directories this target also touches, so resolution closes over the
// "shares a directory" relation before computing excludes.
type Resolver struct {
	graph *graph.Graph
	proj  *Project
	opts  Options

	roots    *graph.TargetSet
	analyzed *graph.TargetSet
	// targeted holds every absolute directory claimed by a source set.
	targeted map[string]struct{}
}

// NewResolver creates a resolver for the requested root targets.
func NewResolver(g *graph.Graph, proj *Project, roots []*graph.Target, opts Options) *Resolver {
	proj.SkipJava = opts.SkipJava
	proj.SkipScala = opts.SkipScala
	return &Resolver{
		graph:    g,
		proj:     proj,
		opts:     opts,
		roots:    graph.NewTargetSet(roots...),
		analyzed: graph.NewTargetSet(),
		targeted: make(map[string]struct{}),
	}
}

// sourceTarget reports whether t is eligible to contribute source sets.
// Ineligible targets still contribute to the classpath.
func (r *Resolver) sourceTarget(t *graph.Target) bool {
	return (r.opts.Transitive || r.roots.Contains(t)) &&
		t.HasSources() &&
		!t.IsCodegen() &&
		!(r.opts.SkipJava && t.IsJava()) &&
		!(r.opts.SkipScala && t.IsScala())
}

// Resolve runs the ownership resolution and populates the project's source
// sets, flags, and member target set. It returns the expanded target set:
// the closure-eligible targets plus every target discovered through shared
// directories.
//
// Resolution is read-only on the filesystem and deterministic: the same
// target set against the same directory tree yields the same ordered source
// sets and the same expanded target set.
func (r *Resolver) Resolve() (*graph.TargetSet, error) {
	logger := log.Component("resolver")

	included, err := graph.Closure(r.graph, r.roots.Slice(), r.opts.Transitive, r.sourceTarget)
	if err != nil {
		return nil, err
	}

	// Fixed point over sibling discovery: the analyzed set only grows, and
	// each target is configured exactly once, so processing order cannot
	// change the final set.
	work := included.Slice()
	for len(work) > 0 {
		t := work[0]
		work = work[1:]
		if !r.analyzed.Add(t) {
			continue
		}
		siblings := r.configureTarget(t)
		if len(siblings) > 0 {
			logger.Debug("discovered co-owning targets", "target", t, "count", len(siblings))
		}
		work = append(work, siblings...)
	}

	if err := r.computeExcludes(); err != nil {
		return nil, err
	}

	expanded, err := graph.Closure(r.graph, r.roots.Slice(), r.opts.Transitive, r.sourceTarget)
	if err != nil {
		return nil, err
	}
	for _, t := range r.analyzed.Slice() {
		expanded.Add(t)
	}

	// Caller-supplied extra roots are trusted as-is: appended after exclude
	// computation and never scanned.
	for _, p := range r.opts.ExtraSourceRoots {
		r.proj.Sources = append(r.proj.Sources, &SourceSet{RootDir: r.proj.RootDir, SourceBase: p})
	}
	for _, p := range r.opts.ExtraTestRoots {
		r.proj.Sources = append(r.proj.Sources, &SourceSet{RootDir: r.proj.RootDir, SourceBase: p, IsTest: true})
		r.proj.markTestBase(p)
	}

	r.proj.Targets = expanded
	logger.Info("resolved project sources",
		"targets", expanded.Len(), "sourceSets", len(r.proj.Sources))
	return expanded, nil
}

// configureTarget absorbs one target into the project and returns the
// not-yet-analyzed candidates that share a source directory with it.
func (r *Resolver) configureTarget(t *graph.Target) []*graph.Target {
	if !r.opts.SkipScala && t.IsScala() {
		r.proj.HasScala = true
	}
	if !r.opts.SkipJava && t.IsJava() {
		r.proj.HasJava = true
	}

	for _, rg := range t.Resources {
		r.proj.AddResourceExtensions(rg.Files)
		r.configureSourceSets(rg.Base, rg.Files, false)
	}

	if t.HasSources() {
		test := t.IsTest()
		if test {
			r.proj.HasTests = true
		}
		r.configureSourceSets(t.Base, t.Sources, test)
	}

	dirs := t.SourceDirs(r.proj.RootDir)
	var siblings []*graph.Target
	for _, c := range r.graph.CandidateTargets(t.BuildFile) {
		if c == t || !r.sourceTarget(c) {
			continue
		}
		if intersects(dirs, c.SourceDirs(r.proj.RootDir)) {
			siblings = append(siblings, c)
		}
	}
	return siblings
}

// configureSourceSets registers one source set per not-yet-claimed directory
// holding the given files. A directory claimed by an earlier target is never
// re-registered, which keeps source-set keys unique.
func (r *Resolver) configureSourceSets(relBase string, files []string, isTest bool) {
	dirs := make(map[string]struct{}, len(files))
	for _, f := range files {
		d := filepath.Dir(f)
		if d == "." {
			d = ""
		}
		dirs[d] = struct{}{}
	}

	absBase := filepath.Join(r.proj.RootDir, relBase)
	for _, d := range util.SortedKeys(dirs) {
		abs := filepath.Join(absBase, d)
		if _, claimed := r.targeted[abs]; claimed {
			continue
		}
		r.targeted[abs] = struct{}{}
		r.proj.Sources = append(r.proj.Sources, &SourceSet{
			RootDir:    r.proj.RootDir,
			SourceBase: relBase,
			RelPath:    d,
			IsTest:     isTest,
		})
		if isTest {
			r.proj.markTestBase(relBase)
		}
	}
}

// computeExcludes hides unowned directories from each source set.
//
// Two cases must never be excluded: a directory owned by any source set, and
// any ancestor of an owned directory (excluding an ancestor would silently
// hide the owned descendant). The unexcludable set is built by walking from
// each owned directory up to, but not including, the workspace root; every
// other on-disk subdirectory of a source set is excluded.
func (r *Resolver) computeExcludes() error {
	unexcludable := make(map[string]struct{})
	for _, ss := range r.proj.Sources {
		dir := ss.Dir()
		for dir != r.proj.RootDir {
			unexcludable[dir] = struct{}{}
			next := filepath.Dir(dir)
			if next == dir {
				break
			}
			dir = next
		}
	}

	for _, ss := range r.proj.Sources {
		base := filepath.Join(r.proj.RootDir, ss.SourceBase)
		own := ss.Dir()
		if info, err := os.Stat(own); err != nil || !info.IsDir() {
			// Declared but absent on disk: nothing to exclude.
			continue
		}
		err := filepath.WalkDir(own, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() || p == own {
				return nil
			}
			if _, owned := r.targeted[p]; owned {
				return nil
			}
			if _, keep := unexcludable[p]; keep {
				return nil
			}
			rel, err := filepath.Rel(base, p)
			if err != nil {
				return err
			}
			ss.Excludes = append(ss.Excludes, rel)
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to scan %s for excludes: %w", own, err)
		}
	}
	return nil
}

func intersects(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}
