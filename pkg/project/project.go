package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/idegen/pkg/graph"
	"github.com/albertocavalcante/idegen/pkg/util"
)

// Project is the aggregate result of a resolution: the model handed to an
// IDE-specific writer. It is created once per invocation, populated by the
// Resolver and the classpath materializer, and discarded after writing.
type Project struct {
	// Name is the project name, used to scope staging directories.
	Name string
	// RootDir is the absolute workspace root.
	RootDir string

	// Targets is the expanded member target set (requested targets plus
	// discovered co-owning siblings), in resolution order.
	Targets *graph.TargetSet

	// Sources are the resolved JVM source sets, in resolution order.
	Sources []*SourceSet
	// PySources are Python source/test roots, appended verbatim.
	PySources []*SourceSet
	// PyLibs are Python library roots, one source set per discovered entry.
	PyLibs []*SourceSet

	// SkipJava and SkipScala record the per-language include flags the
	// project was resolved with.
	SkipJava bool
	SkipScala bool

	// HasJava, HasScala and HasTests are monotone flags: once set by an
	// absorbed target they are never reset.
	HasJava  bool
	HasScala bool
	HasTests bool

	// InternalJars and ExternalJars are staged classpath entries, in
	// staging order.
	InternalJars []ClasspathEntry
	ExternalJars []ClasspathEntry

	// CheckstyleSuppressionFiles and DebugPort are opaque passthrough
	// configuration for the writer.
	CheckstyleSuppressionFiles []string
	DebugPort                  int

	// Tool classpaths, opaque, set post-hoc by the caller.
	CheckstyleClasspath []string
	ScalacClasspath     []string

	resourceExts map[string]struct{}
	testBases    map[string]struct{}
}

// New creates an empty, unconfigured project rooted at the absolute rootDir.
func New(name, rootDir string) *Project {
	return &Project{
		Name:         name,
		RootDir:      rootDir,
		Targets:      graph.NewTargetSet(),
		resourceExts: make(map[string]struct{}),
		testBases:    make(map[string]struct{}),
	}
}

// AddResourceExtensions accumulates the unique extensions (including the
// dot) of the given resource files into the project.
func (p *Project) AddResourceExtensions(files []string) {
	for _, f := range files {
		if ext := filepath.Ext(f); ext != "" {
			p.resourceExts[ext] = struct{}{}
		}
	}
}

// ResourceExtensions returns the discovered resource extensions, sorted.
func (p *Project) ResourceExtensions() []string {
	return util.SortedKeys(p.resourceExts)
}

// markTestBase records a source base that holds test sources.
func (p *Project) markTestBase(base string) {
	p.testBases[base] = struct{}{}
}

// TestBases returns the source bases holding test sources, sorted.
func (p *Project) TestBases() []string {
	return util.SortedKeys(p.testBases)
}

// ConfigurePython registers Python source, test, and library roots. Source
// and test roots become source sets as-is; each library root expands to one
// source set per top-level subdirectory or packaged .egg entry found on disk.
func (p *Project) ConfigurePython(sourceRoots, testRoots, libRoots []string) error {
	for _, root := range sourceRoots {
		p.PySources = append(p.PySources, &SourceSet{RootDir: p.RootDir, SourceBase: root})
	}
	for _, root := range testRoots {
		p.PySources = append(p.PySources, &SourceSet{RootDir: p.RootDir, SourceBase: root, IsTest: true})
		p.markTestBase(root)
	}
	for _, root := range libRoots {
		entries, err := os.ReadDir(filepath.Join(p.RootDir, root))
		if err != nil {
			return fmt.Errorf("failed to list python lib root %s: %w", root, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || strings.HasSuffix(entry.Name(), ".egg") {
				p.PyLibs = append(p.PyLibs, &SourceSet{
					RootDir:    p.RootDir,
					SourceBase: root,
					RelPath:    entry.Name(),
				})
			}
		}
	}
	return nil
}

// SetToolClasspaths records the opaque tool classpaths for the writer.
func (p *Project) SetToolClasspaths(checkstyle, scalac []string) {
	p.CheckstyleClasspath = checkstyle
	p.ScalacClasspath = scalac
}
