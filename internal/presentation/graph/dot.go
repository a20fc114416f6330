package graph

import (
	"fmt"

	"github.com/aretw0/pipecanvas/pkg/domain"
	gographviz "github.com/awalterschulze/gographviz"
)

const dotGraphName = "pipeline"

// GenerateDOT renders a pipeline as a Graphviz digraph. Node ids are quoted
// as needed; cyclic nodes from the overlay are filled red.
func GenerateDOT(p domain.Pipeline, overlay *Overlay) (string, error) {
	g := gographviz.NewEscape()
	if err := g.SetName(dotGraphName); err != nil {
		return "", err
	}
	if err := g.SetDir(true); err != nil {
		return "", err
	}
	if err := g.AddAttr(dotGraphName, "rankdir", "LR"); err != nil {
		return "", err
	}

	cyclic := make(map[string]bool)
	if overlay != nil {
		for _, id := range overlay.Cyclic {
			cyclic[id] = true
		}
	}

	for _, node := range p.Nodes {
		attrs := map[string]string{
			"label": fmt.Sprintf("%s\\n(%s)", node.ID, node.Type),
			"shape": dotShape(node.Type),
		}
		if cyclic[node.ID] {
			attrs["style"] = "filled"
			attrs["fillcolor"] = "#ffcdd2"
		}
		if err := g.AddNode(dotGraphName, node.ID, attrs); err != nil {
			return "", fmt.Errorf("dot node %s: %w", node.ID, err)
		}
	}

	for _, e := range p.Edges {
		attrs := map[string]string{}
		if label := edgeLabel(e); label != "" {
			attrs["label"] = label
		}
		if err := g.AddEdge(e.Source, e.Target, true, attrs); err != nil {
			return "", fmt.Errorf("dot edge %s: %w", e.ID, err)
		}
	}

	return g.String(), nil
}

func dotShape(kind string) string {
	switch kind {
	case domain.KindInput, domain.KindOutput:
		return "oval"
	case domain.KindLLM:
		return "box3d"
	case domain.KindText:
		return "note"
	default:
		return "box"
	}
}
