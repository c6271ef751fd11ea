package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/spf13/cobra"

	"github.com/albertocavalcante/idegen/internal/log"
	"github.com/albertocavalcante/idegen/pkg/classpath"
	"github.com/albertocavalcante/idegen/pkg/config"
	"github.com/albertocavalcante/idegen/pkg/graph"
	"github.com/albertocavalcante/idegen/pkg/ide"
	"github.com/albertocavalcante/idegen/pkg/project"
)

var genFlags struct {
	projectName  string
	projectDir   string
	projectCwd   string
	intransitive bool
	java         bool
	scala        bool
	python       bool
	productsFile string
}

var genCmd = &cobra.Command{
	Use:   "gen [target...]",
	Short: "Generate an IDE project for the given targets",
	Long: `Generates an IDE project comprised of the sources visible to the
given targets. Sources owned by other, unrequested targets are excluded from
the project view.

With --products, compiled artifacts recorded by the build pipeline are staged
into the project work directory and added to the project classpath.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().StringVar(&genFlags.projectName, "project-name", "",
		"Name to use for the generated project")
	genCmd.Flags().StringVar(&genFlags.projectDir, "project-dir", "",
		"Directory to output the generated project files to")
	genCmd.Flags().StringVar(&genFlags.projectCwd, "project-cwd", "",
		"Working directory the generated project uses for processes it launches")
	genCmd.Flags().BoolVar(&genFlags.intransitive, "intransitive", false,
		"Limit project sources to just the targets specified on the command line")
	genCmd.Flags().BoolVar(&genFlags.java, "java", true,
		"Include java sources in the project; otherwise they only contribute to the classpath")
	genCmd.Flags().BoolVar(&genFlags.scala, "scala", true,
		"Include scala sources in the project; otherwise they only contribute to the classpath")
	genCmd.Flags().BoolVar(&genFlags.python, "python", false,
		"Add python support to the generated project")
	genCmd.Flags().StringVar(&genFlags.productsFile, "products", "",
		"Product mapping file recorded by the build pipeline (enables classpath staging)")

	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	wd, err = filepath.Abs(wd)
	if err != nil {
		return err
	}
	root := config.FindWorkspaceRoot(wd)
	cfg := config.LoadFrom(wd)
	applyGenFlags(cmd, cfg)

	g, err := graph.LoadWorkspace(root)
	if err != nil {
		return err
	}
	roots, err := resolveRoots(g, root, wd, args)
	if err != nil {
		return err
	}

	proj := project.New(cfg.Project.Name, root)
	proj.CheckstyleSuppressionFiles = cfg.Checkstyle.SuppressionFiles
	proj.DebugPort = cfg.Project.DebugPort

	opts := project.Options{
		Transitive:       !*cfg.Project.Intransitive,
		SkipJava:         !*cfg.JVM.Java,
		SkipScala:        !*cfg.JVM.Scala,
		ExtraSourceRoots: cfg.JVM.ExtraSourceRoots,
		ExtraTestRoots:   cfg.JVM.ExtraTestRoots,
	}
	expanded, err := project.NewResolver(g, proj, roots, opts).Resolve()
	if err != nil {
		return err
	}

	if *cfg.Python.Enabled {
		if err := proj.ConfigurePython(cfg.Python.SourceRoots, cfg.Python.TestRoots, cfg.Python.LibRoots); err != nil {
			return err
		}
	}
	proj.SetToolClasspaths(cfg.Checkstyle.Classpath, cfg.JVM.ScalacClasspath)

	workDir := cfg.ResolvedWorkDir(root)
	if genFlags.productsFile != "" {
		external := graph.NewExternalJarsTarget(proj.Name)
		if err := g.Add(external); err != nil {
			return err
		}
		products, err := graph.LoadProducts(genFlags.productsFile, g)
		if err != nil {
			return err
		}
		mat := classpath.NewMaterializer(workDir, products)
		if err := mat.Materialize(proj, expanded.Slice(), external); err != nil {
			return err
		}
	}

	writer := &ide.DescriptorWriter{
		OutDir:            workDir,
		Cwd:               cfg.ResolvedCwd(root),
		JavaLanguageLevel: cfg.JVM.JavaLanguageLevel,
		JavaJDK:           javaJDK(cfg),
	}
	out, err := writer.Write(proj)
	if err != nil {
		return err
	}
	log.Info("project generated", "file", out, "targets", expanded.Len())
	fmt.Println(out)
	return nil
}

// applyGenFlags overlays explicitly-set CLI flags onto the loaded config.
func applyGenFlags(cmd *cobra.Command, cfg *config.Config) {
	if genFlags.projectName != "" {
		cfg.Project.Name = genFlags.projectName
	}
	if genFlags.projectDir != "" {
		cfg.Project.WorkDir = genFlags.projectDir
	}
	if genFlags.projectCwd != "" {
		cfg.Project.Cwd = genFlags.projectCwd
	}
	if cmd.Flags().Changed("intransitive") {
		cfg.Project.Intransitive = &genFlags.intransitive
	}
	if cmd.Flags().Changed("java") {
		cfg.JVM.Java = &genFlags.java
	}
	if cmd.Flags().Changed("scala") {
		cfg.JVM.Scala = &genFlags.scala
	}
	if cmd.Flags().Changed("python") {
		cfg.Python.Enabled = &genFlags.python
	}
}

// resolveRoots parses the requested target labels, resolving relative labels
// against the package the command was invoked from.
func resolveRoots(g *graph.Graph, root, wd string, args []string) ([]*graph.Target, error) {
	pkg, err := filepath.Rel(root, wd)
	if err != nil {
		return nil, err
	}
	if pkg == "." {
		pkg = ""
	}
	pkg = filepath.ToSlash(pkg)

	roots := make([]*graph.Target, 0, len(args))
	for _, arg := range args {
		l, err := label.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("bad target label %q: %w", arg, err)
		}
		t, err := g.Resolve(l.Abs("", pkg))
		if err != nil {
			return nil, err
		}
		roots = append(roots, t)
	}
	return roots, nil
}

// javaJDK derives the jdk name from the language level when not set.
func javaJDK(cfg *config.Config) string {
	if cfg.JVM.JavaJDK != "" {
		return cfg.JVM.JavaJDK
	}
	return fmt.Sprintf("1.%d", cfg.JVM.JavaLanguageLevel)
}
