// Package resolver implements the Relationship Resolver (C4): after all
// nodes of the current parse exist, resolve each deferred edge by
// (coreType == targetType) ∧ (name == targetName), searching the newly
// parsed set first, then externally-loaded stubs (§4.4).
package resolver

import (
	"sort"
	"time"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/identity"
	"github.com/tsgraph/tsgraph/internal/traversal"
)

// Resolve turns deferred edges into ParsedEdges. parsed and stubs are
// both keyed by node ID; parsed is searched first so a freshly-parsed
// definition wins over a stale stub of the same name. Unresolved
// deferred edges are silently dropped (§4.4, §7 "deferred edge unresolved").
func Resolve(deferred []traversal.DeferredEdge, parsed, stubs map[string]*gm.ParsedNode, now func() string) []*gm.ParsedEdge {
	if now == nil {
		now = func() string { return time.Now().UTC().Format(time.RFC3339) }
	}

	// Deterministic iteration order over parsed/stubs: sort node IDs so
	// ties (same name+type across files) resolve to the first encountered
	// in a stable, reproducible order (§4.4 tie-break note).
	parsedIDs := sortedIDs(parsed)
	stubIDs := sortedIDs(stubs)

	var edges []*gm.ParsedEdge
	for _, d := range deferred {
		target := findByNameAndType(parsedIDs, parsed, d.TargetCoreType, d.TargetName)
		if target == nil {
			target = findByNameAndType(stubIDs, stubs, d.TargetCoreType, d.TargetName)
		}
		if target == nil {
			continue // external/library type; silent drop
		}
		edges = append(edges, &gm.ParsedEdge{
			ID:                 identity.EdgeID(d.EdgeType, d.SourceNodeID, target.ID),
			RelationshipType:   d.EdgeType,
			SourceNodeID:       d.SourceNodeID,
			TargetNodeID:       target.ID,
			CoreType:           d.EdgeType,
			Source:             gm.SourceAST,
			Confidence:         1.0,
			RelationshipWeight: 1.0,
			FilePath:           d.FilePath,
			CreatedAt:          now(),
		})
	}
	return edges
}

func sortedIDs(m map[string]*gm.ParsedNode) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func findByNameAndType(order []string, m map[string]*gm.ParsedNode, coreType, name string) *gm.ParsedNode {
	for _, id := range order {
		n := m[id]
		if n.CoreType == coreType && n.Name() == name {
			return n
		}
	}
	return nil
}
