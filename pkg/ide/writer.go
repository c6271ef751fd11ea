// Package ide is the boundary to IDE-specific project writers. The resolver
// and materializer produce a project model; a Writer turns it into something
// an IDE opens. The generic descriptor writer here is deliberately thin —
// real IDE formats live behind the same interface.
package ide

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/albertocavalcante/idegen/pkg/project"
)

// Writer generates IDE configuration from a resolved project and returns the
// path of the file a developer should open.
type Writer interface {
	Write(p *project.Project) (string, error)
}

// DescriptorWriter renders a generic project descriptor into the project
// work directory.
type DescriptorWriter struct {
	// OutDir is the directory the descriptor is written to.
	OutDir string
	// Cwd is the working directory for processes the project launches.
	Cwd string
	// JavaLanguageLevel and JavaJDK are recorded verbatim.
	JavaLanguageLevel int
	JavaJDK           string
}

// descriptorContext is the template payload.
type descriptorContext struct {
	*project.Project
	Cwd               string
	JavaLanguageLevel int
	JavaJDK           string
}

var descriptorTemplate = template.Must(
	template.New("descriptor").Funcs(sprig.TxtFuncMap()).Parse(`<!-- generated {{ now | date "2006-01-02T15:04:05Z07:00" }} -->
<project name="{{ .Name }}" root="{{ .RootDir }}" cwd="{{ .Cwd }}" jdk="{{ .JavaJDK }}" languageLevel="{{ .JavaLanguageLevel }}" debugPort="{{ .DebugPort }}">
  <flags java="{{ .HasJava }}" scala="{{ .HasScala }}" tests="{{ .HasTests }}"/>
  <resourceExtensions>{{ .ResourceExtensions | join "," }}</resourceExtensions>
  <targets>
{{- range .Targets.Slice }}
    <target label="{{ . }}"/>
{{- end }}
  </targets>
  <sourceSets>
{{- range .Sources }}
    <sourceSet base="{{ .SourceBase }}" path="{{ .RelPath }}" test="{{ .IsTest }}">
{{- range .Excludes }}
      <exclude>{{ . }}</exclude>
{{- end }}
    </sourceSet>
{{- end }}
{{- range .PySources }}
    <pySourceSet base="{{ .SourceBase }}" test="{{ .IsTest }}"/>
{{- end }}
{{- range .PyLibs }}
    <pyLib base="{{ .SourceBase }}" path="{{ .RelPath }}"/>
{{- end }}
  </sourceSets>
  <classpath>
{{- range .InternalJars }}
    <internal jar="{{ .Jar }}" sources="{{ .SourceJar }}"/>
{{- end }}
{{- range .ExternalJars }}
    <external jar="{{ .Jar }}" sources="{{ .SourceJar }}" javadoc="{{ .JavadocJar }}"/>
{{- end }}
  </classpath>
  <tools>
    <checkstyle classpath="{{ .CheckstyleClasspath | join ":" }}" suppressions="{{ .CheckstyleSuppressionFiles | join ":" }}"/>
    <scalac classpath="{{ .ScalacClasspath | join ":" }}"/>
  </tools>
</project>
`))

// Write renders the descriptor to <OutDir>/<name>.xml.
func (w *DescriptorWriter) Write(p *project.Project) (string, error) {
	var buf bytes.Buffer
	ctx := descriptorContext{
		Project:           p,
		Cwd:               w.Cwd,
		JavaLanguageLevel: w.JavaLanguageLevel,
		JavaJDK:           w.JavaJDK,
	}
	if err := descriptorTemplate.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render project descriptor: %w", err)
	}

	if err := os.MkdirAll(w.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	out := filepath.Join(w.OutDir, p.Name+".xml")
	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write project descriptor: %w", err)
	}
	return out, nil
}
