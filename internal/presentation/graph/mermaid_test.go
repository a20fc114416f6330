package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/pipecanvas/internal/presentation/graph"
	"github.com/aretw0/pipecanvas/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		pipeline domain.Pipeline
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Kind Shapes",
			pipeline: domain.Pipeline{Nodes: []domain.Node{
				{ID: "customInput-1", Type: domain.KindInput},
				{ID: "llm-1", Type: domain.KindLLM},
				{ID: "text-1", Type: domain.KindText},
				{ID: "filter-1", Type: domain.KindFilter},
			}},
			contains: []string{
				`customInput_1(["customInput-1"])`,
				`llm_1[["llm-1"]]`,
				`text_1[/"text-1"/]`,
				`filter_1["filter-1"]`,
			},
		},
		{
			name: "Edge Labels",
			pipeline: domain.Pipeline{
				Nodes: []domain.Node{{ID: "text-1", Type: domain.KindText}, {ID: "llm-1", Type: domain.KindLLM}},
				Edges: []domain.Edge{
					{ID: "e1", Source: "text-1", Target: "llm-1", SourceHandle: "text-1-output", TargetHandle: "llm-1-prompt"},
					{ID: "e2", Source: "llm-1", Target: "text-1"},
				},
			},
			contains: []string{
				`text_1 -- "output → prompt" --> llm_1`,
				`llm_1 --> text_1`,
			},
		},
		{
			name:     "Cyclic Overlay",
			pipeline: domain.Pipeline{Nodes: []domain.Node{{ID: "a"}, {ID: "b"}}},
			overlay:  &graph.Overlay{Cyclic: []string{"a", "b", "a"}},
			contains: []string{
				"classDef cyclic",
				"class a cyclic;",
				"class b cyclic;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.pipeline, tt.overlay)
			if !strings.HasPrefix(got, "graph LR\n") {
				t.Errorf("GenerateMermaid() missing header:\n%v", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class a cyclic;") != 1 {
				t.Errorf("overlay class applied more than once:\n%v", got)
			}
		})
	}
}
