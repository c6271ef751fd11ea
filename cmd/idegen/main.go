// Idegen generates IDE project definitions from Bazel-style BUILD targets.
package main

import "github.com/albertocavalcante/idegen/cmd/idegen/internal/cli"

func main() {
	cli.Execute()
}
