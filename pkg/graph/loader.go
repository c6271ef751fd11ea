package graph

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/buildtools/build"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/albertocavalcante/idegen/internal/log"
)

// kindCaps is the closed set of rule kinds that declare targets, with the
// capability bits implied by the kind. Capability is decided here, once, at
// load time.
var kindCaps = map[string]Caps{
	"java_library":          CapJava,
	"java_binary":           CapJava,
	"jvm_binary":            CapJava,
	"java_tests":            CapJava | CapTest,
	"junit_tests":           CapJava | CapTest,
	"scala_library":         CapScala,
	"scala_tests":           CapScala | CapTest,
	"annotation_processor":  CapJava | CapAPT,
	"java_protobuf_library": CapJava | CapCodegen,
	"java_thrift_library":   CapJava | CapCodegen,
	"python_library":        CapPython,
	"python_tests":          CapPython | CapTest,
	"resources":             0,
}

// extCaps maps declared source extensions to capability bits. This is the
// only place extensions imply capability; targets are never re-inspected.
var extCaps = map[string]Caps{
	".java":  CapJava,
	".scala": CapScala,
	".py":    CapPython,
}

// ignoredDirPrefixes are directory name prefixes skipped while scanning for
// definition files. Prefix "." covers .git, .idegen and friends.
var ignoredDirPrefixes = []string{"bazel-", ".", "node_modules", "__pycache__", "vendor"}

// definition file names recognized by the loader.
var buildFileNames = map[string]bool{"BUILD": true, "BUILD.bazel": true}

// parsedRule is a rule lifted out of a definition file before resource
// references are linked.
type parsedRule struct {
	target       *Target
	resourceRefs []label.Label
}

// LoadWorkspace scans root for BUILD definition files, parses them, expands
// source globs against the filesystem, links resource references, and returns
// the populated target graph. root must be an absolute path.
func LoadWorkspace(root string) (*Graph, error) {
	logger := log.Component("loader")

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			for _, prefix := range ignoredDirPrefixes {
				if strings.HasPrefix(name, prefix) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if buildFileNames[name] {
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}
	slices.Sort(files)

	g := NewGraph(root)
	var rules []*parsedRule
	for _, rel := range files {
		parsed, err := loadBuildFile(root, rel)
		if err != nil {
			return nil, err
		}
		for _, pr := range parsed {
			if err := g.Add(pr.target); err != nil {
				return nil, fmt.Errorf("%s: %w", rel, err)
			}
			rules = append(rules, pr)
		}
	}

	// Resource references can point at targets in any definition file, so
	// linking runs after every target is registered.
	for _, pr := range rules {
		for _, ref := range pr.resourceRefs {
			res, err := g.Resolve(ref)
			if err != nil {
				return nil, fmt.Errorf("%s: resources: %w", pr.target, err)
			}
			pr.target.Resources = append(pr.target.Resources, ResourceGroup{
				Base:  res.Base,
				Files: slices.Clone(res.Sources),
			})
		}
	}

	logger.Debug("workspace loaded", "buildFiles", len(files), "targets", len(g.order))
	return g, nil
}

// loadBuildFile parses one definition file and returns its declared targets.
func loadBuildFile(root, rel string) ([]*parsedRule, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	f, err := build.ParseBuild(rel, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", rel, err)
	}

	bf := NewBuildFile(rel)
	pkgDir := filepath.Join(root, filepath.FromSlash(bf.Dir))

	var out []*parsedRule
	for _, rule := range f.Rules("") {
		caps, known := kindCaps[rule.Kind()]
		if !known {
			continue
		}
		name := rule.Name()
		if name == "" {
			return nil, fmt.Errorf("%s: %s rule without a name", rel, rule.Kind())
		}

		srcs, err := expandSources(pkgDir, rule.Attr("srcs"))
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", rel, name, err)
		}
		for _, src := range srcs {
			caps |= extCaps[path.Ext(src)]
		}

		deps, err := parseLabels(bf.Dir, rule.AttrStrings("deps"))
		if err != nil {
			return nil, fmt.Errorf("%s: %s: deps: %w", rel, name, err)
		}
		resourceRefs, err := parseLabels(bf.Dir, rule.AttrStrings("resources"))
		if err != nil {
			return nil, fmt.Errorf("%s: %s: resources: %w", rel, name, err)
		}

		out = append(out, &parsedRule{
			target: &Target{
				Label:     label.New("", bf.Dir, name),
				BuildFile: bf,
				Base:      bf.Dir,
				Sources:   srcs,
				Deps:      deps,
				Caps:      caps,
			},
			resourceRefs: resourceRefs,
		})
	}
	return out, nil
}

// parseLabels parses label strings, resolving relative labels against pkg.
func parseLabels(pkg string, raw []string) ([]label.Label, error) {
	out := make([]label.Label, 0, len(raw))
	for _, s := range raw {
		l, err := label.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("bad label %q: %w", s, err)
		}
		out = append(out, l.Abs("", pkg))
	}
	return out, nil
}

// expandSources evaluates a srcs attribute: string literals, lists, glob()
// calls, and + concatenations of those. Paths are returned relative to the
// package directory, sorted and deduplicated.
func expandSources(pkgDir string, expr build.Expr) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	var srcs []string
	if err := collectSources(pkgDir, expr, &srcs); err != nil {
		return nil, err
	}
	slices.Sort(srcs)
	return slices.Compact(srcs), nil
}

func collectSources(pkgDir string, expr build.Expr, out *[]string) error {
	switch e := expr.(type) {
	case *build.StringExpr:
		*out = append(*out, e.Value)
	case *build.ListExpr:
		for _, item := range e.List {
			if err := collectSources(pkgDir, item, out); err != nil {
				return err
			}
		}
	case *build.BinaryExpr:
		if e.Op != "+" {
			return fmt.Errorf("unsupported srcs operator %q", e.Op)
		}
		if err := collectSources(pkgDir, e.X, out); err != nil {
			return err
		}
		return collectSources(pkgDir, e.Y, out)
	case *build.CallExpr:
		ident, ok := e.X.(*build.Ident)
		if !ok || ident.Name != "glob" {
			return fmt.Errorf("unsupported srcs call")
		}
		matches, err := expandGlob(pkgDir, e)
		if err != nil {
			return err
		}
		*out = append(*out, matches...)
	default:
		return fmt.Errorf("unsupported srcs expression %T", expr)
	}
	return nil
}

// expandGlob evaluates glob([patterns], exclude=[patterns]) against pkgDir.
func expandGlob(pkgDir string, call *build.CallExpr) ([]string, error) {
	var patterns, excludes []string
	for i, arg := range call.List {
		switch a := arg.(type) {
		case *build.ListExpr:
			if i != 0 {
				return nil, fmt.Errorf("unexpected positional glob argument")
			}
			for _, item := range a.List {
				s, ok := item.(*build.StringExpr)
				if !ok {
					return nil, fmt.Errorf("glob pattern must be a string literal")
				}
				patterns = append(patterns, s.Value)
			}
		case *build.AssignExpr:
			ident, ok := a.LHS.(*build.Ident)
			if !ok || ident.Name != "exclude" {
				return nil, fmt.Errorf("unsupported glob keyword")
			}
			list, ok := a.RHS.(*build.ListExpr)
			if !ok {
				return nil, fmt.Errorf("glob exclude must be a list")
			}
			for _, item := range list.List {
				s, ok := item.(*build.StringExpr)
				if !ok {
					return nil, fmt.Errorf("glob exclude must be a string literal")
				}
				excludes = append(excludes, s.Value)
			}
		default:
			return nil, fmt.Errorf("unsupported glob argument %T", arg)
		}
	}

	fsys := os.DirFS(pkgDir)
	var matches []string
	for _, pattern := range patterns {
		found, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
		}
	match:
		for _, m := range found {
			for _, ex := range excludes {
				if doublestar.MatchUnvalidated(ex, m) {
					continue match
				}
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}
