package validation

import (
	"errors"
	"fmt"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/go-playground/validator/v10"
)

// structure checks the graph shape: name, non-empty node list, per-node required fields,
// position tuples, and id / position uniqueness.
func (p *pass) structure() {
	p.structErrors("", "", p.validate.Struct(p.graph))

	ids := make(map[string]int)
	positions := make(map[models.Point]int)

	for index, node := range p.graph.Nodes {
		if node == nil {
			p.report.Add(schemaError("", fmt.Sprintf("node #%d is null", index+1)))

			continue
		}

		p.structErrors(node.ID, nodeLabel(index, node), p.validate.Struct(node))

		if node.ID != "" {
			if first, dup := ids[node.ID]; dup {
				p.report.Add(schemaError(node.ID,
					fmt.Sprintf("duplicate node id %q (node #%d and node #%d)", node.ID, first+1, index+1)))
			} else {
				ids[node.ID] = index
			}
		}

		if point, ok := node.Point(); ok {
			if first, dup := positions[point]; dup {
				p.report.Add(schemaError(node.ID,
					fmt.Sprintf("%s shares position [%g, %g] with node #%d", nodeLabel(index, node), point.X, point.Y, first+1)))
			} else {
				positions[point] = index
			}
		}
	}
}

func (p *pass) structErrors(nodeID, label string, err error) {
	if err == nil {
		return
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		p.report.Add(schemaError(nodeID, err.Error()))

		return
	}

	for _, fieldErr := range fieldErrors {
		p.report.Add(schemaError(nodeID, describeFieldError(label, fieldErr)))
	}
}

func describeFieldError(label string, fieldErr validator.FieldError) string {
	if label == "" {
		switch {
		case fieldErr.Field() == "name":
			return "workflow name is required"
		case fieldErr.Field() == "nodes":
			return "workflow must contain at least one node"
		default:
			return fmt.Sprintf("workflow field %q failed %q", fieldErr.Field(), fieldErr.Tag())
		}
	}

	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is missing required field %q", label, fieldErr.Field())
	case "len":
		return label + " position must be an [x, y] pair"
	case "finite":
		return label + " position coordinates must be finite numbers"
	default:
		return fmt.Sprintf("%s field %q failed %q", label, fieldErr.Field(), fieldErr.Tag())
	}
}

func nodeLabel(index int, node *models.WorkflowNode) string {
	if node.Name != "" {
		return fmt.Sprintf("node #%d (%s)", index+1, node.Name)
	}

	return fmt.Sprintf("node #%d", index+1)
}
