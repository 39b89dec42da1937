package parseengine

import (
	"context"
	"os"
	"sync"

	"github.com/tsgraph/tsgraph/internal/change"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/identity"
)

// fakeStore is an in-memory persistence.Store used to drive the
// orchestrator end to end without a real graph database.
type fakeStore struct {
	mu       sync.Mutex
	project  gm.Project
	nodes    map[string]*gm.ParsedNode
	edges    map[string]*gm.ParsedEdge
	indexed  []change.IndexedFile
}

func newFakeStore() *fakeStore {
	return &fakeStore{nodes: map[string]*gm.ParsedNode{}, edges: map[string]*gm.ParsedEdge{}}
}

func (s *fakeStore) UpsertProject(ctx context.Context, p gm.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = p
	return nil
}

func (s *fakeStore) UpdateProjectStatus(ctx context.Context, projectID string, status gm.ProjectStatus, nodeCount, edgeCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project.Status = status
	s.project.NodeCount = nodeCount
	s.project.EdgeCount = edgeCount
	return nil
}

func (s *fakeStore) ClearProject(ctx context.Context, projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = map[string]*gm.ParsedNode{}
	s.edges = map[string]*gm.ParsedEdge{}
	s.indexed = nil
	return nil
}

func (s *fakeStore) GetIndexedFiles(ctx context.Context, projectID string) ([]change.IndexedFile, error) {
	return s.indexed, nil
}

func (s *fakeStore) GetExistingNodes(ctx context.Context, projectID string, excludeFiles []string) (map[string]*gm.ParsedNode, error) {
	excl := make(map[string]bool, len(excludeFiles))
	for _, f := range excludeFiles {
		excl[f] = true
	}
	out := make(map[string]*gm.ParsedNode)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.nodes {
		if !excl[n.FilePath()] {
			out[id] = &gm.ParsedNode{ID: n.ID, CoreType: n.CoreType, SemanticType: n.SemanticType, Labels: n.Labels, Properties: n.Properties}
		}
	}
	return out, nil
}

func (s *fakeStore) GetCrossFileEdges(ctx context.Context, projectID string, files []string) ([]gm.CrossFileEdge, error) {
	return nil, nil
}

func (s *fakeStore) DeleteFileSubgraphs(ctx context.Context, projectID string, filePaths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	del := make(map[string]bool, len(filePaths))
	for _, f := range filePaths {
		del[f] = true
	}
	for id, n := range s.nodes {
		if del[n.FilePath()] {
			delete(s.nodes, id)
		}
	}
	return nil
}

func (s *fakeStore) RecreateCrossFileEdges(ctx context.Context, projectID string, edgesToRestore []gm.CrossFileEdge) (int, error) {
	return len(edgesToRestore), nil
}

func (s *fakeStore) CommitNodes(ctx context.Context, projectID string, nodes []*gm.ParsedNode, chunkSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range nodes {
		s.nodes[n.ID] = n
		info, err := statWithHash(n.FilePath())
		if err == nil {
			s.indexed = upsertIndexed(s.indexed, info)
		}
	}
	return nil
}

func (s *fakeStore) CommitEdges(ctx context.Context, projectID string, edgesToCommit []*gm.ParsedEdge, chunkSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range edgesToCommit {
		s.edges[e.ID] = e
	}
	return nil
}

func (s *fakeStore) LockNodes(ctx context.Context, nodeIDs []string) (func(), error) {
	return func() {}, nil
}

func (s *fakeStore) Close(ctx context.Context) error { return nil }

func statWithHash(path string) (change.IndexedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return change.IndexedFile{}, err
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return change.IndexedFile{}, err
	}
	return change.IndexedFile{
		FilePath:    path,
		Mtime:       info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		Size:        info.Size(),
		ContentHash: identity.ContentHash(contents),
	}, nil
}

func upsertIndexed(list []change.IndexedFile, info change.IndexedFile) []change.IndexedFile {
	for i, e := range list {
		if e.FilePath == info.FilePath {
			list[i] = info
			return list
		}
	}
	return append(list, info)
}
