package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceSetKeyDisambiguatesBaseAndPath(t *testing.T) {
	a := &SourceSet{SourceBase: "src/java", RelPath: ""}
	b := &SourceSet{SourceBase: "src", RelPath: "java"}
	require.NotEqual(t, a.Key(), b.Key())
}

func TestSourceSetDir(t *testing.T) {
	ss := &SourceSet{RootDir: "/ws", SourceBase: "src/java", RelPath: "com/acme"}
	require.Equal(t, filepath.Join("/ws", "src/java", "com/acme"), ss.Dir())
}

func TestResourceExtensionsSortedAndUnique(t *testing.T) {
	p := New("test", t.TempDir())
	p.AddResourceExtensions([]string{"a.properties", "b.properties", "c.png", "README"})
	p.AddResourceExtensions([]string{"d.png"})
	require.Equal(t, []string{".png", ".properties"}, p.ResourceExtensions())
}

func TestConfigurePythonExpandsLibRoots(t *testing.T) {
	root := t.TempDir()
	lib := filepath.Join(root, "3rdparty", "python")
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "requests"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "flask"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "six.egg"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "notes.txt"), []byte(""), 0o644))

	p := New("test", root)
	err := p.ConfigurePython([]string{"src/python"}, []string{"tests/python"}, []string{"3rdparty/python"})
	require.NoError(t, err)

	require.Len(t, p.PySources, 2)
	require.False(t, p.PySources[0].IsTest)
	require.True(t, p.PySources[1].IsTest)
	require.Contains(t, p.TestBases(), "tests/python")

	var rels []string
	for _, ss := range p.PyLibs {
		require.Equal(t, "3rdparty/python", ss.SourceBase)
		rels = append(rels, ss.RelPath)
	}
	// Directories and .egg entries only; plain files are skipped.
	require.ElementsMatch(t, []string{"requests", "flask", "six.egg"}, rels)
}

func TestConfigurePythonMissingLibRoot(t *testing.T) {
	p := New("test", t.TempDir())
	err := p.ConfigurePython(nil, nil, []string{"no/such/dir"})
	require.Error(t, err)
}
