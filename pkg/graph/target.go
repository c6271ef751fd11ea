// Package graph models the build-target graph that idegen resolves projects
// against: targets addressed by Bazel labels, the BUILD definition files that
// declare them, and the products (compiled artifacts) the build pipeline maps
// onto them.
//
// Targets are immutable once registered in a Graph. Capability flags are
// computed once at construction time by the loader and never re-derived from
// file names afterwards.
package graph

import (
	"path/filepath"

	"github.com/bazelbuild/bazel-gazelle/label"
)

// Caps is a closed capability bitset for a target. The bits are assigned at
// target construction (from the rule kind and declared source extensions) and
// are the only way capability is ever checked.
type Caps uint8

const (
	// CapJava marks a target with Java sources or a Java rule kind.
	CapJava Caps = 1 << iota
	// CapScala marks a target with Scala sources or a Scala rule kind.
	CapScala
	// CapPython marks a target with Python sources or a Python rule kind.
	CapPython
	// CapCodegen marks a generated-code target. Codegen targets contribute to
	// the classpath but never to source sets.
	CapCodegen
	// CapAPT marks an annotation-processor target. Some IDEs need these
	// pre-compiled, so they are kept on the classpath.
	CapAPT
	// CapTest marks a test target.
	CapTest
)

// Has reports whether all bits in f are set.
func (c Caps) Has(f Caps) bool { return c&f == f }

// ResourceGroup is one base-relative set of resource files owned by a target.
type ResourceGroup struct {
	// Base is the resource root, relative to the workspace root.
	Base string
	// Files are resource paths relative to Base.
	Files []string
}

// Target is a declared build unit. Instances are created by the loader (or by
// tests) and are read-only for the duration of a resolution.
type Target struct {
	// Label is the target address.
	Label label.Label

	// BuildFile is the definition file that declares this target.
	BuildFile *BuildFile

	// Base is the source root for Sources, relative to the workspace root.
	Base string

	// Sources are declared source files, relative to Base.
	Sources []string

	// Resources are declared resource groups, already linked to their bases.
	Resources []ResourceGroup

	// Deps are the addresses of direct dependencies.
	Deps []label.Label

	// Caps is the capability bitset, fixed at construction.
	Caps Caps
}

// HasSources reports whether the target declares any source files.
func (t *Target) HasSources() bool { return len(t.Sources) > 0 }

// HasResources reports whether the target declares any resource groups.
func (t *Target) HasResources() bool { return len(t.Resources) > 0 }

// IsJava reports the Java capability.
func (t *Target) IsJava() bool { return t.Caps.Has(CapJava) }

// IsScala reports the Scala capability.
func (t *Target) IsScala() bool { return t.Caps.Has(CapScala) }

// IsPython reports the Python capability.
func (t *Target) IsPython() bool { return t.Caps.Has(CapPython) }

// IsCodegen reports the generated-code capability.
func (t *Target) IsCodegen() bool { return t.Caps.Has(CapCodegen) }

// IsAPT reports the annotation-processor capability.
func (t *Target) IsAPT() bool { return t.Caps.Has(CapAPT) }

// IsTest reports the test capability.
func (t *Target) IsTest() bool { return t.Caps.Has(CapTest) }

// SourceDirs returns the set of absolute directories holding the target's
// declared sources, rooted at rootDir.
func (t *Target) SourceDirs(rootDir string) map[string]struct{} {
	dirs := make(map[string]struct{}, len(t.Sources))
	base := filepath.Join(rootDir, t.Base)
	for _, src := range t.Sources {
		dirs[filepath.Join(base, filepath.Dir(src))] = struct{}{}
	}
	return dirs
}

// String returns the target's label.
func (t *Target) String() string { return t.Label.String() }
