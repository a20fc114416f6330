/*
Package pipecanvas is a node schema engine for building data-processing
pipelines as directed graphs of typed nodes.

Every node kind is a declarative schema: fields, ports and a visual theme.
The engine renders any instance from its schema and the values stored for it,
and takes every change through a single entry point, OnEdit, which updates
local state, writes through to the graph-state store and then runs the
field's declared effect.

# Template nodes

The text node derives its input ports from the {{name}} placeholders of its
text. Each edit re-derives the port list in first-occurrence order, resizes
the node, and drops edges attached to ports that no longer exist.

# Validation

Validate counts the nodes and edges of a pipeline and reports whether it is a
DAG. A cyclic pipeline is reported, not rejected. The same check is served
over HTTP at POST /pipelines/parse by the serve command.

# Usage

	ctx := context.Background()
	ed, err := pipecanvas.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	id, _ := ed.AddNode(ctx, domain.KindText)
	_ = ed.OnEdit(ctx, id, domain.TextField, "Summarize {{doc}} for {{audience}}")

	node, _ := ed.RenderNode(ctx, id)
	for _, in := range node.Inputs {
		fmt.Println(in.ID, in.Top)
	}
*/
package pipecanvas
