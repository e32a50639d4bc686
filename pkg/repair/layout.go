package repair

import (
	"fmt"

	"github.com/dukex/flowmender/pkg/models"
)

// Grid used to place nodes whose position is missing, malformed or taken.
const (
	GridColumns  = 4
	GridSpacingX = 250
	GridSpacingY = 200
	GridOriginX  = 250
	GridOriginY  = 300
)

// GridSlot returns the canvas position of the given grid slot.
func GridSlot(slot int) models.Point {
	return models.Point{
		X: GridOriginX + float64(slot%GridColumns)*GridSpacingX,
		Y: GridOriginY + float64(slot/GridColumns)*GridSpacingY,
	}
}

// identities gives every node a unique id. The first node holding an id keeps it, so
// connections keep pointing where they did; later holders and id-less nodes get a name
// derived from their index that no node or connection uses yet.
func (r *repairRun) identities() {
	owner := make(map[string]int)

	for index, node := range r.graph.Nodes {
		if node == nil || node.ID == "" {
			continue
		}

		if _, taken := owner[node.ID]; !taken {
			owner[node.ID] = index
		}
	}

	// Ids named by connections stay reserved so a generated id never resolves a dangling edge.
	for _, source := range models.SortedKeys(r.graph.Connections) {
		reserve(owner, source)

		for _, targets := range r.graph.Connections[source] {
			for _, target := range targets {
				reserve(owner, target.Node)
			}
		}
	}

	for index, node := range r.graph.Nodes {
		if node == nil {
			continue
		}

		if node.ID != "" && owner[node.ID] == index {
			continue
		}

		base := fmt.Sprintf("node-%d", index+1)
		if node.ID != "" {
			base = fmt.Sprintf("%s-%d", node.ID, index+1)
		}

		id := base
		for k := 2; ; k++ {
			if _, taken := owner[id]; !taken {
				break
			}

			id = fmt.Sprintf("%s-%d", base, k)
		}

		owner[id] = index

		if node.ID == "" {
			r.record(models.PhaseIdentity, id, "assigned id %s to node #%d", id, index+1)
		} else {
			r.record(models.PhaseIdentity, id, "renamed duplicate id %s to %s", node.ID, id)
		}

		node.ID = id
	}
}

func reserve(owner map[string]int, id string) {
	if _, taken := owner[id]; !taken {
		owner[id] = -1
	}
}

// layout moves nodes with a malformed or repeated position onto the first free grid slot at
// or after their index.
func (r *repairRun) layout() {
	owner := make(map[models.Point]int)

	for index, node := range r.graph.Nodes {
		if node == nil {
			continue
		}

		if point, ok := node.Point(); ok {
			if _, taken := owner[point]; !taken {
				owner[point] = index
			}
		}
	}

	for index, node := range r.graph.Nodes {
		if node == nil {
			continue
		}

		point, ok := node.Point()
		if ok && owner[point] == index {
			continue
		}

		slot := index
		for {
			if _, taken := owner[GridSlot(slot)]; !taken {
				break
			}

			slot++
		}

		free := GridSlot(slot)
		owner[free] = index
		node.SetPoint(free)

		r.record(models.PhaseIdentity, node.ID, "moved node to [%g, %g]", free.X, free.Y)
	}
}
