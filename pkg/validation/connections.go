package validation

import (
	"fmt"

	"github.com/dukex/flowmender/pkg/models"
)

// connections checks that every edge resolves and carries its metadata, flags isolated
// nodes, self-loops and multi-node cycles.
func (p *pass) connections() {
	ids := p.graph.NodeIDs()
	linked := make(map[string]struct{})
	adjacency := make(map[string][]string)

	for _, edge := range p.graph.Edges() {
		source, target := edge.Source, edge.Target.Node
		label := fmt.Sprintf("%s[%s] -> %s", source, edge.OutputPort, target)

		_, sourceOK := ids[source]
		if !sourceOK {
			p.report.Add(issue(models.CategoryConnection, models.SeverityError, source,
				fmt.Sprintf("connection %s starts at unknown node %q", label, source)))
		}

		_, targetOK := ids[target]
		if !targetOK {
			p.report.Add(issue(models.CategoryConnection, models.SeverityError, source,
				fmt.Sprintf("connection %s points to unknown node %q", label, target)))
		}

		switch {
		case edge.Target.Index == nil:
			p.report.Add(issue(models.CategoryConnection, models.SeverityError, source,
				fmt.Sprintf("connection %s is missing its input index", label)))
		case *edge.Target.Index < 0:
			p.report.Add(issue(models.CategoryConnection, models.SeverityError, source,
				fmt.Sprintf("connection %s has negative input index %d", label, *edge.Target.Index)))
		}

		if edge.Target.Type == "" {
			p.report.Add(issue(models.CategoryConnection, models.SeverityError, source,
				fmt.Sprintf("connection %s is missing its connection type", label)))
		}

		if sourceOK {
			linked[source] = struct{}{}
		}

		if targetOK {
			linked[target] = struct{}{}
		}

		if !sourceOK || !targetOK {
			continue
		}

		if source == target {
			p.report.Add(issue(models.CategoryConnection, models.SeverityWarning, source,
				fmt.Sprintf("connection %s connects the node to itself", label)))

			continue
		}

		adjacency[source] = append(adjacency[source], target)
	}

	p.isolated(linked)
	p.cycles(adjacency)
}

func (p *pass) isolated(linked map[string]struct{}) {
	for _, node := range p.nodes() {
		if node.ID == "" {
			continue
		}

		if _, ok := linked[node.ID]; ok {
			continue
		}

		if contract, ok := p.registry.Types.LookupContract(node.Type); ok && (contract.EntryPoint || contract.Detached) {
			continue
		}

		p.report.Add(issue(models.CategoryConnection, models.SeverityWarning, node.ID,
			"node has no incoming or outgoing connections"))
	}
}

// cycles reports each back edge found by a depth-first walk in declaration order. Cycles are
// only reported; auto-repair never breaks them.
func (p *pass) cycles(adjacency map[string][]string) {
	const (
		unvisited = iota
		active
		done
	)

	state := make(map[string]int)
	reported := make(map[[2]string]struct{})

	var visit func(id string)
	visit = func(id string) {
		state[id] = active

		for _, next := range adjacency[id] {
			switch state[next] {
			case unvisited:
				visit(next)
			case active:
				key := [2]string{id, next}
				if _, seen := reported[key]; seen {
					continue
				}

				reported[key] = struct{}{}
				p.report.Add(issue(models.CategoryConnection, models.SeverityWarning, id,
					fmt.Sprintf("connection %s -> %s closes a cycle", id, next)))
			}
		}

		state[id] = done
	}

	for _, node := range p.nodes() {
		if node.ID != "" && state[node.ID] == unvisited {
			visit(node.ID)
		}
	}
}
