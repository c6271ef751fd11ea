package graph

// Closure computes the dependency closure of roots over g.
//
// Traversal always follows every dependency edge, so targets that do not
// satisfy pred are still visited (their dependencies can matter for the
// classpath even when they contribute no sources). pred only gates whether a
// visited target is included in the result; a nil pred includes everything.
//
// If transitive is false, only the roots themselves are eligible for
// inclusion; dependencies are still walked but never included.
//
// The walk is an explicit worklist over a visited set. Ordering is
// insertion-stable (first visited, first ordered) and the walk is idempotent
// for identical inputs. The graph is assumed acyclic; a cycle simply
// terminates through the visited set but is a defect in the definition files.
func Closure(g *Graph, roots []*Target, transitive bool, pred func(*Target) bool) (*TargetSet, error) {
	rootSet := NewTargetSet(roots...)
	visited := NewTargetSet()
	included := NewTargetSet()

	work := make([]*Target, 0, len(roots))
	work = append(work, roots...)
	for len(work) > 0 {
		t := work[0]
		work = work[1:]
		if !visited.Add(t) {
			continue
		}
		if (transitive || rootSet.Contains(t)) && (pred == nil || pred(t)) {
			included.Add(t)
		}
		for _, dep := range t.Deps {
			d, err := g.Resolve(dep)
			if err != nil {
				return nil, err
			}
			work = append(work, d)
		}
	}
	return included, nil
}
