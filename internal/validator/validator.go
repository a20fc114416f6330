// Package validator lints a submitted pipeline against the node catalog.
// Cycles are the DAG check's business; this package reports references
// that cannot be drawn.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/pipecanvas/pkg/catalog"
	"github.com/aretw0/pipecanvas/pkg/domain"
	"github.com/aretw0/pipecanvas/pkg/template"
)

// ValidatePipeline checks that node ids are unique, kinds are known, data
// only holds declared fields and edges join existing nodes through ports
// those nodes render. All problems are reported in one error.
func ValidatePipeline(p domain.Pipeline, c *catalog.Catalog) error {
	var problems []string

	type placed struct {
		inputs  map[string]bool
		outputs map[string]bool
		known   bool
	}
	nodes := make(map[string]placed, len(p.Nodes))

	for i, n := range p.Nodes {
		if n.ID == "" {
			problems = append(problems, fmt.Sprintf("Node #%d has no id", i))
			continue
		}
		if _, dup := nodes[n.ID]; dup {
			problems = append(problems, fmt.Sprintf("Duplicate node id: '%s'", n.ID))
			continue
		}

		schema, err := c.Get(n.Type)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Unknown kind '%s' for node '%s'", n.Type, n.ID))
			nodes[n.ID] = placed{}
			continue
		}

		for key := range n.Data {
			if _, ok := schema.Field(key); !ok {
				problems = append(problems, fmt.Sprintf("Undeclared field '%s' on node '%s'", key, n.ID))
			}
		}

		id := n.ID
		nodes[id] = placed{
			inputs: handleSet(inputPorts(schema, n.Data), func(port string) string {
				return domain.InputHandleID(id, port, schema.Outputs)
			}),
			outputs: handleSet(portIDs(schema.Outputs), func(port string) string {
				return domain.HandleID(id, port)
			}),
			known: true,
		}
	}

	for _, e := range p.Edges {
		src, okSrc := nodes[e.Source]
		dst, okDst := nodes[e.Target]
		if !okSrc {
			problems = append(problems, fmt.Sprintf("Edge '%s' starts at missing node '%s'", e.ID, e.Source))
		}
		if !okDst {
			problems = append(problems, fmt.Sprintf("Edge '%s' ends at missing node '%s'", e.ID, e.Target))
		}
		if okSrc && src.known && e.SourceHandle != "" && !src.outputs[e.SourceHandle] {
			problems = append(problems, fmt.Sprintf("Edge '%s' uses unknown output handle '%s'", e.ID, e.SourceHandle))
		}
		if okDst && dst.known && e.TargetHandle != "" && !dst.inputs[e.TargetHandle] {
			problems = append(problems, fmt.Sprintf("Edge '%s' uses unknown input handle '%s'", e.ID, e.TargetHandle))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(problems), strings.Join(problems, "\n- "))
	}
	return nil
}

// inputPorts lists the input port ids a node renders. A field with the
// reconcile effect replaces the declared inputs with its variables.
func inputPorts(schema domain.NodeSchema, data map[string]any) []string {
	for _, f := range schema.Fields {
		if f.Effect != catalog.EffectReconcilePorts {
			continue
		}
		text, ok := data[f.Name].(string)
		if !ok {
			text, _ = f.DefaultValue.(string)
		}
		return template.Variables(text)
	}
	return portIDs(schema.Inputs)
}

func portIDs(specs []domain.PortSpec) []string {
	ids := make([]string, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}

// handleSet maps port ids to the handles edges use for them.
func handleSet(ids []string, handle func(string) string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[handle(id)] = true
	}
	return set
}
