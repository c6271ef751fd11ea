package graph

import (
	"fmt"

	"github.com/bazelbuild/bazel-gazelle/label"
)

// NewExternalJarsTarget creates the synthetic aggregate target that stands
// for the union of all external (third-party) dependencies of a project. The
// dependency-resolution pipeline attaches its external_* products to this
// target, and materialization resolves external artifacts through it rather
// than through individual owning targets.
func NewExternalJarsTarget(project string) *Target {
	return &Target{
		Label: label.New("", "", fmt.Sprintf("%s-external-jars", project)),
	}
}
