// Package identity computes the deterministic node and edge IDs that let
// the incremental parse engine (C9) recognize the "same" construct across
// re-parses of a project (SPEC_FULL.md §4.2).
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

const hashLen = 16

// AnonymousClass and AnonymousFunction are the placeholder names used when
// an AST node's name getter yields nothing. Stability only holds for a
// single anonymous sibling under a given parent; a second anonymous
// sibling of the same kind collides (§9 "Anonymous-construct stability" —
// an accepted, documented imprecision of name-based identity, not fixed here).
const (
	AnonymousClass    = "AnonymousClass"
	AnonymousFunction = "AnonymousFunction"
)

func hash16(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte("::"))
		}
		h.Write([]byte(p))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)[:hashLen]
}

// NodeID computes nodeId(coreType, filePath, name, parentId?) per §4.2.
// parentID is the empty string when the node has no parent (SourceFile).
func NodeID(coreType, filePath, name, parentID string) string {
	parts := []string{coreType, filePath}
	if parentID != "" {
		parts = append(parts, parentID)
	}
	parts = append(parts, name)
	return coreType + ":" + hash16(parts...)
}

// EdgeID computes edgeId(type, src, tgt) per §4.2. type is the edge's
// semanticType when present, else its relationshipType (§3 invariant 2:
// "edge.id is a pure function of (relationshipType|semanticType, sourceNodeId, targetNodeId)").
func EdgeID(edgeType, srcNodeID, tgtNodeID string) string {
	return edgeType + ":" + hash16(edgeType, srcNodeID, tgtNodeID)
}

// ContentHash computes the SHA-256 digest of file contents, truncated to a
// stable prefix, for the SourceFile.contentHash property used by C8/C9 to
// decide whether a file actually changed.
func ContentHash(contents []byte) string {
	sum := sha256.Sum256(contents)
	return hex.EncodeToString(sum[:])[:32]
}
