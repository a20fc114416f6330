package pipecanvas_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/pipecanvas"
	"github.com/aretw0/pipecanvas/pkg/domain"
)

// ExampleEditor_OnEdit shows a template node deriving its input ports from
// the placeholders of its text.
func ExampleEditor_OnEdit() {
	ctx := context.Background()
	ed, err := pipecanvas.New(ctx)
	if err != nil {
		log.Fatal(err)
	}

	id, err := ed.AddNode(ctx, domain.KindText)
	if err != nil {
		log.Fatal(err)
	}
	if err := ed.OnEdit(ctx, id, domain.TextField, "Summarize {{doc}} for {{ audience }}"); err != nil {
		log.Fatal(err)
	}

	node, err := ed.RenderNode(ctx, id)
	if err != nil {
		log.Fatal(err)
	}
	for _, in := range node.Inputs {
		fmt.Println(in.ID)
	}
	// Output:
	// text-1-doc
	// text-1-audience
}

// ExampleValidate checks a pipeline with a cycle.
func ExampleValidate() {
	result := pipecanvas.Validate(domain.Pipeline{
		Nodes: []domain.Node{{ID: "a", Type: domain.KindLLM}, {ID: "b", Type: domain.KindLLM}},
		Edges: []domain.Edge{
			{ID: "e1", Source: "a", Target: "b"},
			{ID: "e2", Source: "b", Target: "a"},
		},
	})
	fmt.Println(result.NumNodes, result.NumEdges, result.IsDAG)
	fmt.Println(result.Warning())
	// Output:
	// 2 2 false
	// Warning: Your pipeline contains cycles. A valid pipeline should be a DAG.
}

// ExampleDerivePorts lists the variables of a template text.
func ExampleDerivePorts() {
	inf := pipecanvas.DerivePorts("{{a}} {{b}} {{a}} {{ 1bad }}")
	fmt.Println(inf.Variables)
	// Output:
	// [a b]
}
