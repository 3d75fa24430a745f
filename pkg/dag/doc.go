// Package dag provides the directed graph used to place activities into
// rows.
//
// Activities are the nodes, arrows are the edges. The diagram builder adds
// every activity with [DAG.AddNode] in declaration order, connects them
// with [DAG.AddEdge], checks the result with [DAG.Validate] and then calls
// [AssignLayers] so that every activity sits strictly below all of its
// predecessors:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "write"})
//	g.AddNode(dag.Node{ID: "convert"})
//	g.AddEdge(dag.Edge{From: "write", To: "convert"})
//	if err := g.Validate(); err != nil {
//	    return err
//	}
//	dag.AssignLayers(g)
//
// Unlike a general purpose graph library, iteration order is always the
// insertion order, which keeps the rendered diagrams stable between runs.
package dag
