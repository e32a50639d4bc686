// Package repair applies deterministic, idempotent corrections to workflow graphs.
package repair

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/registry"
)

// MigratedSuffix is appended to the name of a node whose type was remapped.
const MigratedSuffix = " (migrated)"

// Engine mutates graphs in place to reduce validation errors. Like the validator it keeps no
// per-graph state and only reads the registry.
type Engine struct {
	logger   *slog.Logger
	registry *registry.Registry
}

// NewEngine creates a repair engine bound to a registry.
func NewEngine(log *slog.Logger, reg *registry.Registry) *Engine {
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		logger:   log,
		registry: reg,
	}
}

// Repair runs every phase and returns the number of corrections made.
func (e *Engine) Repair(graph *models.WorkflowGraph) int {
	return len(e.Apply(graph))
}

// Apply runs the identity, type remap, connection and parameter phases in that order and
// returns the corrections made. Running it on its own output yields no corrections.
func (e *Engine) Apply(graph *models.WorkflowGraph) []models.Correction {
	if graph == nil || !e.registry.Ready() {
		return nil
	}

	run := &repairRun{
		logger:   e.logger,
		registry: e.registry,
		graph:    graph,
	}

	run.identities()
	run.layout()
	run.remapTypes()
	run.pruneSelfLoops()
	run.fillDefaults()

	if len(run.corrections) > 0 {
		e.logger.Info("Repaired workflow graph", "workflow", graph.Name, "corrections", len(run.corrections))
	}

	return run.corrections
}

type repairRun struct {
	logger      *slog.Logger
	registry    *registry.Registry
	graph       *models.WorkflowGraph
	corrections []models.Correction
}

func (r *repairRun) record(phase models.RepairPhase, nodeID, format string, args ...any) {
	correction := models.Correction{
		Phase:       phase,
		NodeID:      nodeID,
		Description: fmt.Sprintf(format, args...),
	}

	r.logger.Debug("Applied correction", "phase", phase, "node_id", nodeID, "description", correction.Description)
	r.corrections = append(r.corrections, correction)
}

// remapTypes replaces unregistered types that have a correction rule whose replacement is
// registered. A failing synthesis leaves the node untouched.
func (r *repairRun) remapTypes() {
	for _, node := range r.graph.Nodes {
		if node == nil || node.Type == "" || r.registry.Types.IsValid(node.Type) {
			continue
		}

		rule, ok := r.registry.Corrections.Lookup(node.Type)
		if !ok || !r.registry.Types.IsValid(rule.ReplacementType) {
			continue
		}

		params, err := rule.Apply(node.Parameters)
		if err != nil {
			r.logger.Warn("Skipped type remap", "node_id", node.ID, "type", node.Type, "error", err)

			continue
		}

		previous := node.Type
		node.Type = rule.ReplacementType
		node.Parameters = params
		node.Name = migratedName(node.Name, previous)

		r.record(models.PhaseTypeRemap, node.ID, "replaced type %s with %s", previous, rule.ReplacementType)
	}
}

func migratedName(name, previousType string) string {
	if strings.HasSuffix(name, MigratedSuffix) {
		return name
	}

	if name == "" {
		name = previousType[strings.LastIndex(previousType, ".")+1:]
	}

	return name + MigratedSuffix
}

// pruneSelfLoops removes connections whose target is their own source. Ports and sources
// emptied by the removal are dropped; other cycles are left alone.
func (r *repairRun) pruneSelfLoops() {
	for _, source := range models.SortedKeys(r.graph.Connections) {
		ports := r.graph.Connections[source]
		pruned := false

		for _, port := range models.SortedKeys(ports) {
			targets := ports[port]

			kept := slices.DeleteFunc(slices.Clone(targets), func(target models.ConnectionTarget) bool {
				return target.Node == source
			})

			removed := len(targets) - len(kept)
			if removed == 0 {
				continue
			}

			pruned = true

			if len(kept) == 0 {
				delete(ports, port)
			} else {
				ports[port] = kept
			}

			for range removed {
				r.record(models.PhaseConnection, source, "removed self-loop on %s[%s]", source, port)
			}
		}

		if pruned && len(ports) == 0 {
			delete(r.graph.Connections, source)
		}
	}
}
