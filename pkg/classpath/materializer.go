// Package classpath stages compiled artifacts into the deterministic local
// directory layout an IDE consumes: internal jars and their sources, and
// external jars with sources and javadoc.
//
// Materialization is a sequential, all-or-nothing phase. Every mapping is
// validated before any directory is touched, so a validation failure leaves
// the previous staging output intact and copies nothing.
package classpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/idegen/internal/log"
	"github.com/albertocavalcante/idegen/pkg/graph"
	"github.com/albertocavalcante/idegen/pkg/project"
	"github.com/albertocavalcante/idegen/pkg/util"
)

// Staging directory names under the project work directory.
const (
	InternalLibsDir       = "internal-libs"
	InternalLibSourcesDir = "internal-libsources"
	ExternalLibsDir       = "external-libs"
	ExternalLibSourcesDir = "external-libsources"
	ExternalLibJavadocDir = "external-libjavadoc"
)

// AmbiguousMappingError reports more than one artifact mapped for a single
// (target, base directory) pair. A unique artifact is required for a
// deterministic classpath entry, so this aborts materialization.
type AmbiguousMappingError struct {
	Product string
	Target  string
	Base    string
	Files   []string
}

func (e *AmbiguousMappingError) Error() string {
	return fmt.Sprintf("ambiguous %s mapping for %s under %s: %s",
		e.Product, e.Target, e.Base, strings.Join(e.Files, ", "))
}

// ExternalArtifact is one resolved external artifact triple. Paths are
// absolute; SourceJar and JavadocJar are empty when unavailable.
type ExternalArtifact struct {
	Jar        string
	SourceJar  string
	JavadocJar string
}

// Materializer stages artifacts into the work directory and records staged
// files in the manifest.
type Materializer struct {
	workDir  string
	products graph.Products
	manifest *Manifest
}

// NewMaterializer creates a materializer rooted at the absolute project work
// directory.
func NewMaterializer(workDir string, products graph.Products) *Materializer {
	return &Materializer{
		workDir:  workDir,
		products: products,
		manifest: NewManifest(),
	}
}

// plannedCopy is one validated copy, deferred until validation completes.
type plannedCopy struct {
	src, dst string
}

// Materialize stages the internal artifacts of targets and the external
// artifacts attached to the aggregate external target, appends the resulting
// classpath entries to proj, and writes the staging manifest.
func (m *Materializer) Materialize(proj *project.Project, targets []*graph.Target, external *graph.Target) error {
	if err := m.MapInternal(proj, targets); err != nil {
		return err
	}
	if err := m.MapExternal(proj, ExternalArtifacts(m.products, external)); err != nil {
		return err
	}
	return NewManifestStore(m.workDir).Save(m.manifest)
}

// MapInternal stages the compiled archives (and source archives, when
// produced) of the given targets into internal-libs and internal-libsources.
// Exactly one artifact may be mapped per (target, base) pair; anything else
// is an AmbiguousMappingError and nothing is staged.
func (m *Materializer) MapInternal(proj *project.Project, targets []*graph.Target) error {
	jarDir := filepath.Join(m.workDir, InternalLibsDir)
	sourceDir := filepath.Join(m.workDir, InternalLibSourcesDir)

	var copies []plannedCopy
	var entries []project.ClasspathEntry
	for _, t := range targets {
		jars := m.products.Get(graph.ProductJars, t)
		if len(jars) == 0 {
			continue
		}
		sourceJars := m.products.Get(graph.ProductSourceJars, t)

		for _, base := range util.SortedKeys(jars) {
			files := jars[base]
			if len(files) != 1 {
				return &AmbiguousMappingError{
					Product: graph.ProductJars,
					Target:  t.String(),
					Base:    base,
					Files:   files,
				}
			}
			entry := project.ClasspathEntry{Jar: filepath.Join(jarDir, files[0])}
			copies = append(copies, plannedCopy{filepath.Join(base, files[0]), entry.Jar})

			if srcFiles, ok := sourceJars[base]; ok {
				if len(srcFiles) != 1 {
					return &AmbiguousMappingError{
						Product: graph.ProductSourceJars,
						Target:  t.String(),
						Base:    base,
						Files:   srcFiles,
					}
				}
				entry.SourceJar = filepath.Join(sourceDir, srcFiles[0])
				copies = append(copies, plannedCopy{filepath.Join(base, srcFiles[0]), entry.SourceJar})
			}
			entries = append(entries, entry)
		}
	}

	if err := m.stage(copies, jarDir, sourceDir); err != nil {
		return err
	}
	proj.InternalJars = append(proj.InternalJars, entries...)
	return nil
}

// MapExternal stages external artifact triples into external-libs,
// external-libsources, and external-libjavadoc. External artifacts are
// shared between targets, so staging is keyed by artifact filename: a
// filename already staged in this run is not staged again.
func (m *Materializer) MapExternal(proj *project.Project, artifacts []ExternalArtifact) error {
	jarDir := filepath.Join(m.workDir, ExternalLibsDir)
	sourceDir := filepath.Join(m.workDir, ExternalLibSourcesDir)
	javadocDir := filepath.Join(m.workDir, ExternalLibJavadocDir)

	var copies []plannedCopy
	var entries []project.ClasspathEntry
	staged := make(map[string]struct{})
	for _, art := range artifacts {
		name := filepath.Base(art.Jar)
		if _, ok := staged[name]; ok {
			continue
		}
		staged[name] = struct{}{}

		entry := project.ClasspathEntry{Jar: filepath.Join(jarDir, name)}
		copies = append(copies, plannedCopy{art.Jar, entry.Jar})
		if art.SourceJar != "" {
			entry.SourceJar = filepath.Join(sourceDir, filepath.Base(art.SourceJar))
			copies = append(copies, plannedCopy{art.SourceJar, entry.SourceJar})
		}
		if art.JavadocJar != "" {
			entry.JavadocJar = filepath.Join(javadocDir, filepath.Base(art.JavadocJar))
			copies = append(copies, plannedCopy{art.JavadocJar, entry.JavadocJar})
		}
		entries = append(entries, entry)
	}

	if err := m.stage(copies, jarDir, sourceDir, javadocDir); err != nil {
		return err
	}
	proj.ExternalJars = append(proj.ExternalJars, entries...)
	return nil
}

// stage recreates the staging directories and performs the validated copies.
// Re-running is idempotent: directories are cleared first so no stale
// artifact survives.
func (m *Materializer) stage(copies []plannedCopy, dirs ...string) error {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to clear staging dir %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create staging dir %s: %w", dir, err)
		}
	}
	logger := log.Component("classpath")
	for _, c := range copies {
		sum, err := copyFile(c.src, c.dst)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(m.workDir, c.dst)
		if err != nil {
			return err
		}
		m.manifest.Files[filepath.ToSlash(rel)] = sum
		logger.Debug("staged artifact", "src", c.src, "dst", c.dst)
	}
	return nil
}

// ExternalArtifacts resolves the artifact triples attached to the aggregate
// external target. Source and javadoc archives are matched to their primary
// archive by the -sources/-javadoc classifier naming convention.
func ExternalArtifacts(products graph.Products, external *graph.Target) []ExternalArtifact {
	if external == nil {
		return nil
	}
	jars := products.Get(graph.ProductExternalJars, external)
	if len(jars) == 0 {
		return nil
	}
	sources := indexByName(products.Get(graph.ProductExternalSourceJars, external))
	javadocs := indexByName(products.Get(graph.ProductExternalJavadocJars, external))

	var out []ExternalArtifact
	for _, base := range util.SortedKeys(jars) {
		files := jars[base]
		for _, f := range util.Sorted(files) {
			art := ExternalArtifact{Jar: filepath.Join(base, f)}
			stem := strings.TrimSuffix(f, ".jar")
			if p, ok := sources[stem+"-sources.jar"]; ok {
				art.SourceJar = p
			}
			if p, ok := javadocs[stem+"-javadoc.jar"]; ok {
				art.JavadocJar = p
			}
			out = append(out, art)
		}
	}
	return out
}

// indexByName flattens a base -> filenames mapping into filename -> path.
func indexByName(mapping map[string][]string) map[string]string {
	idx := make(map[string]string)
	for _, base := range util.SortedKeys(mapping) {
		for _, f := range mapping[base] {
			if _, ok := idx[f]; !ok {
				idx[f] = filepath.Join(base, f)
			}
		}
	}
	return idx
}
