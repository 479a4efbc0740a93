package graph

// dependents inverts the pruned dependency lists: node id -> ids of nodes
// that declare a dependency on it.
func dependents(nodes []Node) map[string][]string {
	inverted := make(map[string][]string, len(nodes))

	for _, node := range nodes {
		for _, dep := range node.RunAfterTasks {
			inverted[dep] = append(inverted[dep], node.ID)
		}
	}

	return inverted
}

// assignLevels computes each node's hierarchical level: 1 + the maximum
// level among the nodes depending on it, 0 when nothing depends on it.
// Levels count distance from the sink end of the graph.
func assignLevels(nodes []Node) {
	inverted := dependents(nodes)

	var levelOf func(id string, visiting map[string]struct{}) int
	levelOf = func(id string, visiting map[string]struct{}) int {
		children := inverted[id]
		if len(children) == 0 {
			return 0
		}

		if _, cyclic := visiting[id]; cyclic {
			return 0
		}

		visiting[id] = struct{}{}
		defer delete(visiting, id)

		maxChild := -1
		for _, child := range children {
			if level := levelOf(child, visiting); level > maxChild {
				maxChild = level
			}
		}

		return maxChild + 1
	}

	for i := range nodes {
		nodes[i].Level = levelOf(nodes[i].ID, make(map[string]struct{}))
	}
}

// alignWidths widens every node to the widest node sharing its level, so
// the rendered columns line up.
func alignWidths(nodes []Node) {
	widest := make(map[int]int)

	for _, node := range nodes {
		if node.Width > widest[node.Level] {
			widest[node.Level] = node.Width
		}
	}

	for i := range nodes {
		nodes[i].Width = widest[nodes[i].Level]
	}
}
