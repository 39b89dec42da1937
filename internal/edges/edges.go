// Package edges implements the Edge Enhancer (C7): pairwise detection of
// semantic edges (INJECTS, EXPOSES, USES_DAL, ROUTES_TO_HANDLER, …) over
// (parsed ∪ existing stubs) × (parsed ∪ existing stubs) (§4.7).
package edges

import (
	"sort"
	"time"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/identity"
	"github.com/tsgraph/tsgraph/internal/schema"
)

// Run evaluates every edge enhancement over all (source, target) pairs
// drawn from parsed ∪ stubs, requiring source != target and at least one
// endpoint in parsed (an edge with both endpoints being stale stubs would
// already exist in the store). shared is read-only here (§9 "Shared context").
func Run(reg *schema.Registry, parsed, stubs map[string]*gm.ParsedNode, shared map[string]interface{}, now func() string) []*gm.ParsedEdge {
	if now == nil {
		now = func() string { return time.Now().UTC().Format(time.RFC3339) }
	}

	all := make(map[string]*gm.ParsedNode, len(parsed)+len(stubs))
	for id, n := range parsed {
		all[id] = n
	}
	for id, n := range stubs {
		if _, exists := all[id]; !exists {
			all[id] = n
		}
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic enumeration order (§5 ordering guarantees)

	var out []*gm.ParsedEdge
	for _, fw := range reg.Frameworks {
		for _, ee := range fw.EdgeEnhancements {
			for _, srcID := range ids {
				src := all[srcID]
				_, srcParsed := parsed[srcID]
				for _, tgtID := range ids {
					if srcID == tgtID {
						continue
					}
					_, tgtParsed := parsed[tgtID]
					if !srcParsed && !tgtParsed {
						continue
					}
					tgt := all[tgtID]
					if !ee.Detect(src, tgt, all, shared) {
						continue
					}
					ctx := map[string]interface{}{}
					if ee.ExtractContext != nil {
						ctx = ee.ExtractContext(src, tgt, shared)
					}
					out = append(out, &gm.ParsedEdge{
						ID:                 identity.EdgeID(ee.SemanticType, srcID, tgtID),
						RelationshipType:   ee.RelationshipType,
						SourceNodeID:       srcID,
						TargetNodeID:       tgtID,
						SemanticType:       ee.SemanticType,
						Source:             gm.SourcePattern,
						Confidence:         0.8,
						RelationshipWeight: ee.RelationshipWeight,
						FilePath:           src.FilePath(),
						CreatedAt:          now(),
						Context:            ctx,
					})
				}
			}
		}
	}
	return out
}

// BuildVendorControllerIndex builds the shared.vendorControllers index
// INTERNAL_API_CALL needs: vendor name -> controller node ID, derived from
// every NestController node whose name ends in "Controller" (§9 "Shared context").
func BuildVendorControllerIndex(nodes map[string]*gm.ParsedNode) map[string]string {
	out := make(map[string]string)
	const suffix = "Controller"
	for _, n := range nodes {
		if n.SemanticType != "NestController" {
			continue
		}
		name := n.Name()
		if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
			vendor := name[:len(name)-len(suffix)]
			out[vendor] = n.ID
		}
	}
	return out
}
