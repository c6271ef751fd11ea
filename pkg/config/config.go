// Package config provides configuration management for idegen.
// It supports multi-layer configuration with precedence:
//  1. Built-in defaults (lowest priority)
//  2. Global user config (~/.config/idegen/config.toml)
//  3. Project config (.idegen/config.toml or idegen.toml)
//  4. Environment variables (IDEGEN_*)
//  5. CLI flags (highest priority)
package config

import "path/filepath"

// Config is the main configuration struct for idegen.
type Config struct {
	// Project configures the generated project itself.
	Project ProjectConfig `toml:"project"`

	// JVM configures JVM source resolution.
	JVM JVMConfig `toml:"jvm"`

	// Python configures optional Python support.
	Python PythonConfig `toml:"python"`

	// Checkstyle configures opaque checkstyle passthrough.
	Checkstyle CheckstyleConfig `toml:"checkstyle"`
}

// ProjectConfig holds project-level settings.
type ProjectConfig struct {
	// Name is the generated project name. Staging directories are scoped
	// by it, so two projects with different names never collide.
	Name string `toml:"name"`

	// WorkDir is the directory project files and staged artifacts are
	// written to. Defaults to .idegen/<name> under the workspace root.
	WorkDir string `toml:"workdir"`

	// Cwd is the working directory for processes the project launches.
	// Defaults to WorkDir.
	Cwd string `toml:"cwd"`

	// Intransitive limits project sources to the requested targets only.
	Intransitive *bool `toml:"intransitive"`

	// DebugPort is passed through to the writer.
	DebugPort int `toml:"debug_port"`
}

// JVMConfig holds JVM resolution settings.
type JVMConfig struct {
	// Java includes Java sources in the project; when false Java targets
	// only contribute to the classpath.
	Java *bool `toml:"java"`

	// Scala includes Scala sources in the project; when false Scala
	// targets only contribute to the classpath.
	Scala *bool `toml:"scala"`

	// JavaLanguageLevel sets the language level recorded in the project.
	JavaLanguageLevel int `toml:"java_language_level"`

	// JavaJDK names the JDK; derived from JavaLanguageLevel when unset.
	JavaJDK string `toml:"java_jdk"`

	// ExtraSourceRoots and ExtraTestRoots are appended verbatim as
	// additional source sets, relative to the workspace root.
	ExtraSourceRoots []string `toml:"extra_source_roots"`
	ExtraTestRoots   []string `toml:"extra_test_roots"`

	// ScalacClasspath is the opaque scala compiler tool classpath.
	ScalacClasspath []string `toml:"scalac_classpath"`
}

// PythonConfig holds Python support settings.
type PythonConfig struct {
	// Enabled adds Python roots to the generated project.
	Enabled *bool `toml:"enabled"`

	// SourceRoots, TestRoots and LibRoots are workspace-relative paths.
	SourceRoots []string `toml:"source_roots"`
	TestRoots   []string `toml:"test_roots"`
	LibRoots    []string `toml:"lib_roots"`
}

// CheckstyleConfig holds opaque checkstyle passthrough settings.
type CheckstyleConfig struct {
	// SuppressionFiles are passed through to the writer untouched.
	SuppressionFiles []string `toml:"suppression_files"`

	// Classpath is the opaque checkstyle tool classpath.
	Classpath []string `toml:"classpath"`
}

// NewConfig creates a new Config with built-in defaults.
func NewConfig() *Config {
	trueVal := true
	falseVal := false
	return &Config{
		Project: ProjectConfig{
			Name:         "project",
			Intransitive: &falseVal,
			DebugPort:    5005,
		},
		JVM: JVMConfig{
			Java:              &trueVal,
			Scala:             &trueVal,
			JavaLanguageLevel: 8,
		},
		Python: PythonConfig{
			Enabled: &falseVal,
		},
	}
}

// ResolvedWorkDir returns the absolute work directory for a workspace root.
func (c *Config) ResolvedWorkDir(root string) string {
	if c.Project.WorkDir != "" {
		if filepath.IsAbs(c.Project.WorkDir) {
			return c.Project.WorkDir
		}
		return filepath.Join(root, c.Project.WorkDir)
	}
	return filepath.Join(root, ".idegen", c.Project.Name)
}

// ResolvedCwd returns the working directory for launched processes.
func (c *Config) ResolvedCwd(root string) string {
	if c.Project.Cwd != "" {
		if filepath.IsAbs(c.Project.Cwd) {
			return c.Project.Cwd
		}
		return filepath.Join(root, c.Project.Cwd)
	}
	return c.ResolvedWorkDir(root)
}

// Merge merges another config into this one (other takes precedence).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Project.Name != "" {
		c.Project.Name = other.Project.Name
	}
	if other.Project.WorkDir != "" {
		c.Project.WorkDir = other.Project.WorkDir
	}
	if other.Project.Cwd != "" {
		c.Project.Cwd = other.Project.Cwd
	}
	if other.Project.Intransitive != nil {
		c.Project.Intransitive = other.Project.Intransitive
	}
	if other.Project.DebugPort != 0 {
		c.Project.DebugPort = other.Project.DebugPort
	}

	if other.JVM.Java != nil {
		c.JVM.Java = other.JVM.Java
	}
	if other.JVM.Scala != nil {
		c.JVM.Scala = other.JVM.Scala
	}
	if other.JVM.JavaLanguageLevel != 0 {
		c.JVM.JavaLanguageLevel = other.JVM.JavaLanguageLevel
	}
	if other.JVM.JavaJDK != "" {
		c.JVM.JavaJDK = other.JVM.JavaJDK
	}
	if len(other.JVM.ExtraSourceRoots) > 0 {
		c.JVM.ExtraSourceRoots = other.JVM.ExtraSourceRoots
	}
	if len(other.JVM.ExtraTestRoots) > 0 {
		c.JVM.ExtraTestRoots = other.JVM.ExtraTestRoots
	}
	if len(other.JVM.ScalacClasspath) > 0 {
		c.JVM.ScalacClasspath = other.JVM.ScalacClasspath
	}

	if other.Python.Enabled != nil {
		c.Python.Enabled = other.Python.Enabled
	}
	if len(other.Python.SourceRoots) > 0 {
		c.Python.SourceRoots = other.Python.SourceRoots
	}
	if len(other.Python.TestRoots) > 0 {
		c.Python.TestRoots = other.Python.TestRoots
	}
	if len(other.Python.LibRoots) > 0 {
		c.Python.LibRoots = other.Python.LibRoots
	}

	if len(other.Checkstyle.SuppressionFiles) > 0 {
		c.Checkstyle.SuppressionFiles = other.Checkstyle.SuppressionFiles
	}
	if len(other.Checkstyle.Classpath) > 0 {
		c.Checkstyle.Classpath = other.Checkstyle.Classpath
	}
}
