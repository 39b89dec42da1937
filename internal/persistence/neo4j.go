package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/tsgraph/tsgraph/internal/change"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// Neo4jStore implements Store against Neo4j, via neo4j-go-driver. The
// connection-pool tuning and ExecuteQuery usage follow the teacher's
// internal/graph/neo4j_client.go; batch node/edge creation follows
// internal/graph/batch_operations.go's UNWIND+MERGE pattern.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jStore connects to uri/user/password/database, verifying
// connectivity up front (fail fast, §7 configuration errors).
func NewNeo4jStore(ctx context.Context, uri, user, password, database string) (*Neo4jStore, error) {
	if uri == "" || user == "" {
		return nil, fmt.Errorf("persistence: neo4j uri/user required")
	}
	driver, err := neo4j.NewDriverWithContext(uri,
		neo4j.BasicAuth(user, password, ""),
		func(c *neo4j.Config) {
			c.MaxConnectionPoolSize = 50
			c.ConnectionAcquisitionTimeout = 60 * time.Second
			c.MaxConnectionLifetime = time.Hour
			c.SocketConnectTimeout = 5 * time.Second
		})
	if err != nil {
		return nil, fmt.Errorf("persistence: create driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("persistence: connect to %s: %w", uri, err)
	}
	return &Neo4jStore{driver: driver, database: database, logger: slog.Default().With("component", "neo4j-store")}, nil
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) exec(ctx context.Context, query string, params map[string]any) error {
	_, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database))
	return err
}

func (s *Neo4jStore) UpsertProject(ctx context.Context, p gm.Project) error {
	return s.exec(ctx, `
MERGE (p:Project {projectId: $projectId})
SET p.name = $name, p.path = $path, p.status = $status, p.nodeCount = $nodeCount, p.edgeCount = $edgeCount
`, map[string]any{
		"projectId": p.ProjectID, "name": p.Name, "path": p.Path,
		"status": string(p.Status), "nodeCount": p.NodeCount, "edgeCount": p.EdgeCount,
	})
}

func (s *Neo4jStore) UpdateProjectStatus(ctx context.Context, projectID string, status gm.ProjectStatus, nodeCount, edgeCount int) error {
	return s.exec(ctx, `
MATCH (p:Project {projectId: $projectId})
SET p.status = $status, p.nodeCount = $nodeCount, p.edgeCount = $edgeCount
`, map[string]any{"projectId": projectID, "status": string(status), "nodeCount": nodeCount, "edgeCount": edgeCount})
}

func (s *Neo4jStore) ClearProject(ctx context.Context, projectID string) error {
	return s.exec(ctx, `
MATCH (n {projectId: $projectId})
DETACH DELETE n
`, map[string]any{"projectId": projectID})
}

func (s *Neo4jStore) GetIndexedFiles(ctx context.Context, projectID string) ([]change.IndexedFile, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, `
MATCH (f:SourceFile {projectId: $projectId})
RETURN f.filePath AS filePath, f.mtime AS mtime, f.size AS size, f.contentHash AS contentHash
`, map[string]any{"projectId": projectID}, neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
	if err != nil {
		return nil, fmt.Errorf("persistence: get indexed files: %w", err)
	}
	out := make([]change.IndexedFile, 0, len(result.Records))
	for _, rec := range result.Records {
		fp, _ := rec.Get("filePath")
		mt, _ := rec.Get("mtime")
		sz, _ := rec.Get("size")
		ch, _ := rec.Get("contentHash")
		out = append(out, change.IndexedFile{
			FilePath: toString(fp), Mtime: toString(mt), Size: toInt64(sz), ContentHash: toString(ch),
		})
	}
	return out, nil
}

func (s *Neo4jStore) GetExistingNodes(ctx context.Context, projectID string, excludeFiles []string) (map[string]*gm.ParsedNode, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, `
MATCH (n {projectId: $projectId})
WHERE NOT n.filePath IN $exclude
RETURN n.id AS id, n.coreType AS coreType, n.semanticType AS semanticType, labels(n) AS labels, properties(n) AS props
`, map[string]any{"projectId": projectID, "exclude": excludeFiles}, neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
	if err != nil {
		return nil, fmt.Errorf("persistence: get existing nodes: %w", err)
	}
	out := make(map[string]*gm.ParsedNode, len(result.Records))
	for _, rec := range result.Records {
		id, _ := rec.Get("id")
		coreType, _ := rec.Get("coreType")
		semanticType, _ := rec.Get("semanticType")
		labelsAny, _ := rec.Get("labels")
		propsAny, _ := rec.Get("props")
		props, _ := propsAny.(map[string]any)
		n := &gm.ParsedNode{
			ID: toString(id), CoreType: toString(coreType), SemanticType: toString(semanticType),
			Labels: toStringSlice(labelsAny), Properties: props,
		}
		out[n.ID] = n
	}
	return out, nil
}

func (s *Neo4jStore) GetCrossFileEdges(ctx context.Context, projectID string, files []string) ([]gm.CrossFileEdge, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, `
MATCH (s)-[r]->(t)
WHERE s.projectId = $projectId AND t.projectId = $projectId
  AND (s.filePath IN $files) <> (t.filePath IN $files)
RETURN s.id AS startId, t.id AS endId, type(r) AS edgeType, properties(r) AS props
`, map[string]any{"projectId": projectID, "files": files}, neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
	if err != nil {
		return nil, fmt.Errorf("persistence: get cross-file edges: %w", err)
	}
	out := make([]gm.CrossFileEdge, 0, len(result.Records))
	for _, rec := range result.Records {
		sid, _ := rec.Get("startId")
		eid, _ := rec.Get("endId")
		et, _ := rec.Get("edgeType")
		props, _ := rec.Get("props")
		propsMap, _ := props.(map[string]any)
		out = append(out, gm.CrossFileEdge{
			StartNodeID: toString(sid), EndNodeID: toString(eid), EdgeType: toString(et), EdgeProperties: propsMap,
		})
	}
	return out, nil
}

func (s *Neo4jStore) DeleteFileSubgraphs(ctx context.Context, projectID string, filePaths []string) error {
	return s.exec(ctx, `
MATCH (f:SourceFile {projectId: $projectId})
WHERE f.filePath IN $files
OPTIONAL MATCH (f)-[:CONTAINS|HAS_MEMBER|HAS_PARAMETER|DECORATED_WITH*0..]->(descendant)
DETACH DELETE f, descendant
`, map[string]any{"projectId": projectID, "files": filePaths})
}

func (s *Neo4jStore) RecreateCrossFileEdges(ctx context.Context, projectID string, edgesToRestore []gm.CrossFileEdge) (int, error) {
	restored := 0
	for _, e := range edgesToRestore {
		query := fmt.Sprintf(`
MATCH (s {id: $startId, projectId: $projectId}), (t {id: $endId, projectId: $projectId})
MERGE (s)-[r:%s]->(t)
SET r += $props
`, e.EdgeType)
		if err := s.exec(ctx, query, map[string]any{
			"startId": e.StartNodeID, "endId": e.EndNodeID, "projectId": projectID, "props": e.EdgeProperties,
		}); err != nil {
			s.logger.Warn("cross-file edge restore failed", "edgeType", e.EdgeType, "error", err)
			continue
		}
		restored++
	}
	return restored, nil
}

func (s *Neo4jStore) CommitNodes(ctx context.Context, projectID string, nodes []*gm.ParsedNode, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	for start := 0; start < len(nodes); start += chunkSize {
		end := start + chunkSize
		if end > len(nodes) {
			end = len(nodes)
		}
		batch := make([]map[string]any, 0, end-start)
		for _, n := range nodes[start:end] {
			batch = append(batch, map[string]any{
				"id": n.ID, "labels": n.Labels, "props": n.Properties,
			})
		}
		if err := s.exec(ctx, `
UNWIND $batch AS row
MERGE (n {id: row.id})
SET n += row.props
WITH n, row
CALL apoc.create.addLabels(n, row.labels) YIELD node
RETURN count(node)
`, map[string]any{"batch": batch}); err != nil {
			return fmt.Errorf("persistence: commit nodes chunk [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

func (s *Neo4jStore) CommitEdges(ctx context.Context, projectID string, edgesToCommit []*gm.ParsedEdge, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 50
	}
	byType := make(map[string][]*gm.ParsedEdge)
	for _, e := range edgesToCommit {
		byType[e.RelationshipType] = append(byType[e.RelationshipType], e)
	}
	for relType, group := range byType {
		for start := 0; start < len(group); start += chunkSize {
			end := start + chunkSize
			if end > len(group) {
				end = len(group)
			}
			batch := make([]map[string]any, 0, end-start)
			for _, e := range group[start:end] {
				batch = append(batch, map[string]any{
					"src": e.SourceNodeID, "tgt": e.TargetNodeID,
					"props": edgeProps(e),
				})
			}
			query := fmt.Sprintf(`
UNWIND $batch AS row
MATCH (s {id: row.src}), (t {id: row.tgt})
MERGE (s)-[r:%s]->(t)
SET r += row.props
`, relType)
			if err := s.exec(ctx, query, map[string]any{"batch": batch}); err != nil {
				return fmt.Errorf("persistence: commit edges (%s) chunk [%d:%d]: %w", relType, start, end, err)
			}
		}
	}
	return nil
}

func edgeProps(e *gm.ParsedEdge) map[string]any {
	p := map[string]any{
		"coreType": e.CoreType, "source": string(e.Source), "confidence": e.Confidence,
		"relationshipWeight": e.RelationshipWeight, "filePath": e.FilePath, "createdAt": e.CreatedAt,
	}
	if e.SemanticType != "" {
		p["semanticType"] = e.SemanticType
	}
	for k, v := range e.Context {
		p["context_"+k] = v
	}
	return p
}

// LockNodes acquires the store's exclusive-lock primitive on a node set,
// used elsewhere for task-claim atomicity (§6); not exercised by parsing.
func (s *Neo4jStore) LockNodes(ctx context.Context, nodeIDs []string) (func(), error) {
	if err := s.exec(ctx, `
UNWIND $ids AS id
MATCH (n {id: id})
SET n._locked = true, n._lockedAt = timestamp()
`, map[string]any{"ids": nodeIDs}); err != nil {
		return nil, fmt.Errorf("persistence: lock nodes: %w", err)
	}
	release := func() {
		_ = s.exec(ctx, `
UNWIND $ids AS id
MATCH (n {id: id})
REMOVE n._locked, n._lockedAt
`, map[string]any{"ids": nodeIDs})
	}
	return release, nil
}

// Query runs an arbitrary read Cypher statement and returns each record as
// a plain map, for ad-hoc inspection tools (tsgraph-query) that sit outside
// the parse pipeline's fixed Store contract.
func (s *Neo4jStore) Query(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database),
		neo4j.ExecuteQueryWithReadersRouting())
	if err != nil {
		return nil, fmt.Errorf("persistence: query: %w", err)
	}
	out := make([]map[string]any, 0, len(result.Records))
	for _, rec := range result.Records {
		row := make(map[string]any, len(rec.Keys))
		for _, k := range rec.Keys {
			v, _ := rec.Get(k)
			row[k] = v
		}
		out = append(out, row)
	}
	return out, nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}

func toStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, toString(r))
	}
	return out
}
