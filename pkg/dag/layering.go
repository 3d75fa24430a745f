package dag

// AssignLayers places every node one row below the deepest of its parents,
// using a longest-path traversal in topological order (Kahn's algorithm).
// Source nodes land in row 0. Existing row assignments are overwritten.
//
// The graph must be acyclic; run [DAG.Validate] first. Nodes on a cycle
// never reach in-degree zero and keep row 0.
func AssignLayers(g *DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for _, n := range nodes {
		n.Row = rows[n.ID]
	}
}
