package graph

// adjacency is the explicit graph structure the pruning pass runs over: a
// dependency list keyed by canonical node id, with a secondary index from
// pre-expansion original names to expanded instance ids.
type adjacency struct {
	deps       map[string][]string
	byOriginal map[string][]string
}

// resolve maps a dependency name to canonical node ids, falling back to
// the original-name index when no node carries the name directly. Pruning
// runs after expansion, but some dependency lists can still carry
// un-expanded original names.
func (a *adjacency) resolve(name string) []string {
	if _, ok := a.deps[name]; ok {
		return []string{name}
	}

	return a.byOriginal[name]
}

// reaches reports whether from can reach target through the dependency
// relation, excluding the trivial zero-length path.
func (a *adjacency) reaches(from, target string, visited map[string]struct{}) bool {
	if _, seen := visited[from]; seen {
		return false
	}

	visited[from] = struct{}{}

	for _, dep := range a.deps[from] {
		for _, id := range a.resolve(dep) {
			if id == target {
				return true
			}

			if a.reaches(id, target, visited) {
				return true
			}
		}
	}

	return false
}

// pruneTransitive drops every dependency of a node that one of its other
// dependencies already reaches, collapsing redundant diamond edges so only
// the most specific dependency remains.
func (a *adjacency) pruneTransitive(id string) []string {
	deps := a.deps[id]
	if len(deps) < 2 {
		return deps
	}

	kept := make([]string, 0, len(deps))

	for _, candidate := range deps {
		redundant := false

		for _, other := range deps {
			if other == candidate {
				continue
			}

			for _, otherID := range a.resolve(other) {
				if otherID == candidate {
					continue
				}

				if a.reachesDependency(otherID, candidate) {
					redundant = true

					break
				}
			}

			if redundant {
				break
			}
		}

		if !redundant {
			kept = append(kept, candidate)
		}
	}

	return kept
}

// reachesDependency reports whether node from depends, directly or
// transitively, on the named dependency (resolving matrix instances).
func (a *adjacency) reachesDependency(from, dependency string) bool {
	targets := a.resolve(dependency)
	if len(targets) == 0 {
		targets = []string{dependency}
	}

	for _, target := range targets {
		if from == target {
			continue
		}

		if a.reaches(from, target, make(map[string]struct{})) {
			return true
		}
	}

	return false
}
