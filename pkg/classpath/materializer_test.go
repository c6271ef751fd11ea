package classpath

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/stretchr/testify/require"

	"github.com/albertocavalcante/idegen/pkg/graph"
	"github.com/albertocavalcante/idegen/pkg/project"
)

func artifactTarget(t *testing.T, lbl string) *graph.Target {
	t.Helper()
	l, err := label.Parse(lbl)
	require.NoError(t, err)
	return &graph.Target{Label: l, BuildFile: graph.NewBuildFile("BUILD")}
}

// writeArtifacts creates the named files under a temp dist directory and
// returns its path.
func writeArtifacts(t *testing.T, names ...string) string {
	t.Helper()
	dist := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dist, n), []byte(n), 0o644))
	}
	return dist
}

func TestMaterializeInternalAndExternal(t *testing.T) {
	dist := writeArtifacts(t,
		"lib.jar", "lib-src.jar",
		"guava.jar", "guava-sources.jar", "guava-javadoc.jar")
	workDir := filepath.Join(t.TempDir(), "work")

	tgt := artifactTarget(t, "//lib:lib")
	ext := graph.NewExternalJarsTarget("demo")

	products := graph.NewProductMap()
	products.Add(graph.ProductJars, tgt, dist, "lib.jar")
	products.Add(graph.ProductSourceJars, tgt, dist, "lib-src.jar")
	products.Add(graph.ProductExternalJars, ext, dist, "guava.jar")
	products.Add(graph.ProductExternalSourceJars, ext, dist, "guava-sources.jar")
	products.Add(graph.ProductExternalJavadocJars, ext, dist, "guava-javadoc.jar")

	proj := project.New("demo", t.TempDir())
	m := NewMaterializer(workDir, products)
	require.NoError(t, m.Materialize(proj, []*graph.Target{tgt}, ext))

	require.Equal(t, []project.ClasspathEntry{{
		Jar:       filepath.Join(workDir, InternalLibsDir, "lib.jar"),
		SourceJar: filepath.Join(workDir, InternalLibSourcesDir, "lib-src.jar"),
	}}, proj.InternalJars)
	require.Equal(t, []project.ClasspathEntry{{
		Jar:        filepath.Join(workDir, ExternalLibsDir, "guava.jar"),
		SourceJar:  filepath.Join(workDir, ExternalLibSourcesDir, "guava-sources.jar"),
		JavadocJar: filepath.Join(workDir, ExternalLibJavadocDir, "guava-javadoc.jar"),
	}}, proj.ExternalJars)

	for _, entry := range append(proj.InternalJars, proj.ExternalJars...) {
		for _, p := range []string{entry.Jar, entry.SourceJar, entry.JavadocJar} {
			if p == "" {
				continue
			}
			_, err := os.Stat(p)
			require.NoError(t, err, "staged file missing: %s", p)
		}
	}

	manifest, err := NewManifestStore(workDir).Load()
	require.NoError(t, err)
	require.Len(t, manifest.Files, 5)
	require.Contains(t, manifest.Files, InternalLibsDir+"/lib.jar")
	require.Contains(t, manifest.Files, ExternalLibJavadocDir+"/guava-javadoc.jar")
	for p, sum := range manifest.Files {
		require.NotEmpty(t, sum, "no digest recorded for %s", p)
	}
}

func TestMaterializeAmbiguousJarStagesNothing(t *testing.T) {
	dist := writeArtifacts(t, "lib-1.jar", "lib-2.jar")
	workDir := filepath.Join(t.TempDir(), "work")

	tgt := artifactTarget(t, "//lib:lib")
	products := graph.NewProductMap()
	products.Add(graph.ProductJars, tgt, dist, "lib-1.jar", "lib-2.jar")

	proj := project.New("demo", t.TempDir())
	err := NewMaterializer(workDir, products).MapInternal(proj, []*graph.Target{tgt})

	var ambiguous *AmbiguousMappingError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, graph.ProductJars, ambiguous.Product)
	require.Equal(t, "//lib:lib", ambiguous.Target)
	require.Equal(t, []string{"lib-1.jar", "lib-2.jar"}, ambiguous.Files)

	// Validation failed before staging: no directory was created, no file
	// copied, no classpath entry recorded.
	_, statErr := os.Stat(filepath.Join(workDir, InternalLibsDir))
	require.True(t, os.IsNotExist(statErr))
	require.Empty(t, proj.InternalJars)
}

func TestMaterializeAmbiguousSourceJar(t *testing.T) {
	dist := writeArtifacts(t, "lib.jar", "lib-a-src.jar", "lib-b-src.jar")
	workDir := filepath.Join(t.TempDir(), "work")

	tgt := artifactTarget(t, "//lib:lib")
	products := graph.NewProductMap()
	products.Add(graph.ProductJars, tgt, dist, "lib.jar")
	products.Add(graph.ProductSourceJars, tgt, dist, "lib-a-src.jar", "lib-b-src.jar")

	proj := project.New("demo", t.TempDir())
	err := NewMaterializer(workDir, products).MapInternal(proj, []*graph.Target{tgt})

	var ambiguous *AmbiguousMappingError
	require.ErrorAs(t, err, &ambiguous)
	require.Equal(t, graph.ProductSourceJars, ambiguous.Product)
	_, statErr := os.Stat(filepath.Join(workDir, InternalLibsDir))
	require.True(t, os.IsNotExist(statErr))
}

func TestMaterializeRerunClearsStaleArtifacts(t *testing.T) {
	dist := writeArtifacts(t, "lib.jar")
	workDir := filepath.Join(t.TempDir(), "work")

	stale := filepath.Join(workDir, InternalLibsDir, "old.jar")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	tgt := artifactTarget(t, "//lib:lib")
	products := graph.NewProductMap()
	products.Add(graph.ProductJars, tgt, dist, "lib.jar")

	proj := project.New("demo", t.TempDir())
	require.NoError(t, NewMaterializer(workDir, products).MapInternal(proj, []*graph.Target{tgt}))

	_, err := os.Stat(stale)
	require.True(t, os.IsNotExist(err), "stale artifact must not survive restaging")
	_, err = os.Stat(filepath.Join(workDir, InternalLibsDir, "lib.jar"))
	require.NoError(t, err)
}

func TestMaterializeTargetsWithoutProductsSkipped(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "work")
	tgt := artifactTarget(t, "//lib:lib")

	proj := project.New("demo", t.TempDir())
	require.NoError(t, NewMaterializer(workDir, graph.NewProductMap()).MapInternal(proj, []*graph.Target{tgt}))
	require.Empty(t, proj.InternalJars)
}

func TestExternalArtifactsClassifierPairing(t *testing.T) {
	ext := graph.NewExternalJarsTarget("demo")
	products := graph.NewProductMap()
	products.Add(graph.ProductExternalJars, ext, "/dist/a", "guava.jar", "unpaired.jar")
	products.Add(graph.ProductExternalJars, ext, "/dist/b", "guava.jar")
	products.Add(graph.ProductExternalSourceJars, ext, "/dist/a", "guava-sources.jar")
	products.Add(graph.ProductExternalJavadocJars, ext, "/dist/a", "guava-javadoc.jar")

	arts := ExternalArtifacts(products, ext)
	require.Equal(t, []ExternalArtifact{
		{
			Jar:        filepath.Join("/dist/a", "guava.jar"),
			SourceJar:  filepath.Join("/dist/a", "guava-sources.jar"),
			JavadocJar: filepath.Join("/dist/a", "guava-javadoc.jar"),
		},
		{Jar: filepath.Join("/dist/a", "unpaired.jar")},
		{
			Jar:        filepath.Join("/dist/b", "guava.jar"),
			SourceJar:  filepath.Join("/dist/a", "guava-sources.jar"),
			JavadocJar: filepath.Join("/dist/a", "guava-javadoc.jar"),
		},
	}, arts)
}

func TestExternalStagingDeduplicatesByFilename(t *testing.T) {
	distA := writeArtifacts(t, "guava.jar")
	distB := writeArtifacts(t, "guava.jar")
	workDir := filepath.Join(t.TempDir(), "work")

	proj := project.New("demo", t.TempDir())
	m := NewMaterializer(workDir, graph.NewProductMap())
	err := m.MapExternal(proj, []ExternalArtifact{
		{Jar: filepath.Join(distA, "guava.jar")},
		{Jar: filepath.Join(distB, "guava.jar")},
	})
	require.NoError(t, err)
	require.Len(t, proj.ExternalJars, 1)
}

func TestManifestStoreRoundTrip(t *testing.T) {
	workDir := t.TempDir()
	store := NewManifestStore(workDir)

	m, err := store.Load()
	require.NoError(t, err)
	require.Empty(t, m.Files)

	m.Files["internal-libs/lib.jar"] = "deadbeef"
	require.NoError(t, store.Save(m))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, ManifestVersion, loaded.Version)
	require.Equal(t, m.Files, loaded.Files)
	require.False(t, loaded.UpdatedAt.IsZero())
}

func TestManifestStoreRejectsNewerVersion(t *testing.T) {
	workDir := t.TempDir()
	data := []byte(`{"version": 99, "files": {}}`)
	require.NoError(t, os.WriteFile(filepath.Join(workDir, manifestFile), data, 0o644))

	_, err := NewManifestStore(workDir).Load()
	require.Error(t, err)
}

func TestAmbiguousMappingErrorMessage(t *testing.T) {
	err := &AmbiguousMappingError{
		Product: graph.ProductJars,
		Target:  "//lib:lib",
		Base:    "/dist",
		Files:   []string{"a.jar", "b.jar"},
	}
	require.EqualError(t, err, "ambiguous jars mapping for //lib:lib under /dist: a.jar, b.jar")
	require.True(t, errors.As(error(err), new(*AmbiguousMappingError)))
}
