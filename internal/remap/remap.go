/*
Package remap reconciles an incoming question set against stored state.

A save request may mix pre-existing nodes, edited nodes that lost their id,
brand-new nodes, and conditions that reference nodes which do not exist yet
via caller-supplied temporary ids. Build computes a pure reconciliation plan
(updates, inserts, deletes); the graph store executes it inside one
transaction, feeding newly assigned ids back through Assign so Rewrite can
replace every temporary goto target with its real id before conditions are
persisted.
*/
package remap

import (
	"strconv"

	"github.com/formroute/formroute/pkg/domain"
)

// Plan is the reconciliation outcome for one save call.
type Plan struct {
	// Updates are incoming nodes matched to an existing node; their ID
	// field carries the matched real id.
	Updates []domain.Question

	// Inserts are nodes with no match; ids are assigned by the store and
	// reported back via Assign.
	Inserts []domain.Question

	// Deletes lists existing node ids absent from the incoming set.
	// Ids outside the valid positive range are never scheduled here.
	Deletes []int

	mapping map[string]int
}

// Build matches incoming nodes to existing ones and computes the plan.
//
// Matching order per node: by real id when supplied and present, then by
// exact payload text (best-effort reconciliation for edits that dropped
// the id), else the node is new. Each existing node is claimed at most once.
func Build(existing, incoming []domain.Question) *Plan {
	plan := &Plan{mapping: make(map[string]int)}

	byID := make(map[int]domain.Question, len(existing))
	for _, q := range existing {
		byID[q.ID] = q
	}

	claimed := make(map[int]bool, len(existing))

	for _, in := range incoming {
		matchedID := 0

		if in.ID > 0 {
			if _, ok := byID[in.ID]; ok && !claimed[in.ID] {
				matchedID = in.ID
			}
		}
		if matchedID == 0 {
			for _, ex := range existing {
				if !claimed[ex.ID] && ex.Payload == in.Payload {
					matchedID = ex.ID
					break
				}
			}
		}

		if matchedID == 0 {
			plan.Inserts = append(plan.Inserts, in)
			continue
		}

		claimed[matchedID] = true
		in.ID = matchedID
		plan.Updates = append(plan.Updates, in)
		if in.TempID != "" {
			plan.mapping[in.TempID] = matchedID
		}
	}

	for _, ex := range existing {
		if claimed[ex.ID] {
			continue
		}
		if ex.ID <= 0 {
			// Out-of-range ids are never deleted; a corrupted row must
			// not take unrelated data with it.
			continue
		}
		plan.Deletes = append(plan.Deletes, ex.ID)
	}

	return plan
}

// Assign records the real id the store gave to an inserted node's
// temporary id. Nodes inserted without a TempID need no entry: nothing
// can reference them yet.
func (p *Plan) Assign(tempID string, realID int) {
	if tempID == "" {
		return
	}
	p.mapping[tempID] = realID
}

// Mapping exposes the accumulated tempId -> realId table.
func (p *Plan) Mapping() map[string]int {
	return p.mapping
}

// Rewrite returns a copy of conds with every goto_question target that
// names a known temporary id replaced by its real id. It must run after
// all inserts and before conditions are persisted, so no reference is
// ever stored dangling.
func (p *Plan) Rewrite(conds []domain.Condition) []domain.Condition {
	out := make([]domain.Condition, len(conds))
	copy(out, conds)
	for i, c := range out {
		if c.Action != domain.ActionGotoQuestion {
			continue
		}
		if real, ok := p.mapping[c.ActionValue]; ok {
			out[i].ActionValue = strconv.Itoa(real)
		}
	}
	return out
}
