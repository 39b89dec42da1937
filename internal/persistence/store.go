// Package persistence is the Persistence Adapter (C10): project-scoped
// upsert/clear/query operations over the property-graph store, plus
// cross-file-edge save/restore for incremental re-parse (§4.10). Store is
// the external property-graph-store contract of §6; Neo4jStore is the
// concrete, swappable realization grounded on the teacher's internal/graph
// package (backend.go's interface shape, neo4j_client.go's driver wiring,
// batch_operations.go's UNWIND+MERGE batching).
package persistence

import (
	"context"

	"github.com/tsgraph/tsgraph/internal/change"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// Store is every query C10 needs, scoped by projectId (§4.10).
type Store interface {
	UpsertProject(ctx context.Context, p gm.Project) error
	UpdateProjectStatus(ctx context.Context, projectID string, status gm.ProjectStatus, nodeCount, edgeCount int) error
	ClearProject(ctx context.Context, projectID string) error

	// GetIndexedFiles returns source-file tracking info for C8.
	GetIndexedFiles(ctx context.Context, projectID string) ([]change.IndexedFile, error)

	// GetExistingNodes returns node stubs for edge detection, excluding
	// any node whose filePath is in excludeFiles.
	GetExistingNodes(ctx context.Context, projectID string, excludeFiles []string) (map[string]*gm.ParsedNode, error)

	// GetCrossFileEdges returns edges where exactly one endpoint's
	// filePath is in files (a "save before delete" step, §4.9 step 3a).
	GetCrossFileEdges(ctx context.Context, projectID string, files []string) ([]gm.CrossFileEdge, error)

	// DeleteFileSubgraphs deletes every source-file node in filePaths
	// and its transitively-contained nodes/edges (§4.9 step 3b).
	DeleteFileSubgraphs(ctx context.Context, projectID string, filePaths []string) error

	// RecreateCrossFileEdges restores saved edges whose endpoints both
	// still exist (§4.9 step 7); returns how many were actually restored.
	RecreateCrossFileEdges(ctx context.Context, projectID string, edges []gm.CrossFileEdge) (restored int, err error)

	// CommitNodes and CommitEdges upsert in batches (MATCH-by-ID +
	// MERGE-by-type for edges), streaming above the chunk-size threshold.
	CommitNodes(ctx context.Context, projectID string, nodes []*gm.ParsedNode, chunkSize int) error
	CommitEdges(ctx context.Context, projectID string, edges []*gm.ParsedEdge, chunkSize int) error

	// LockNodes is the store's exclusive-lock primitive used for
	// task-claim atomicity elsewhere (§6); not required for parsing itself.
	LockNodes(ctx context.Context, nodeIDs []string) (func(), error)

	Close(ctx context.Context) error
}
