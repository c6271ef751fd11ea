// Package project builds the IDE project model: directory-grain source sets
// with safe exclude lists, the expanded target set, classpath entries, and
// the derived project flags an IDE writer needs.
package project

import "path/filepath"

// SourceSet is a directory-grain record of owned sources or resources.
//
// Identity is the (SourceBase, RelPath) pair: no two source sets in a project
// may claim the same directory. Excludes lists subdirectories, relative to
// SourceBase, that must be hidden from the IDE's recursive view of this
// directory because no requested target owns them.
type SourceSet struct {
	// RootDir is the absolute workspace root.
	RootDir string
	// SourceBase is the source root, relative to RootDir.
	SourceBase string
	// RelPath is the path of the owned directory within SourceBase.
	// Empty for sources directly under the base.
	RelPath string
	// IsTest is true iff the contained sources implement tests.
	IsTest bool
	// Excludes are subdirectories to hide, relative to SourceBase, in the
	// order they were discovered.
	Excludes []string
}

// Key returns the identity of this source set. The separator cannot appear
// in a path, so distinct (base, path) splits never collide.
func (s *SourceSet) Key() string {
	return s.SourceBase + "::" + s.RelPath
}

// Dir returns the absolute path of the owned directory.
func (s *SourceSet) Dir() string {
	return filepath.Join(s.RootDir, s.SourceBase, s.RelPath)
}

// ClasspathEntry is one locally-staged artifact triple ready for IDE
// consumption. SourceJar and JavadocJar are empty when unavailable.
type ClasspathEntry struct {
	Jar        string
	SourceJar  string
	JavadocJar string
}
