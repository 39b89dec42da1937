package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgraph/tsgraph/internal/change"
	"github.com/tsgraph/tsgraph/internal/config"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/parseengine"
	"github.com/tsgraph/tsgraph/internal/schema"
)

// stubStore is a no-op persistence.Store sufficient to drive Engine.Parse
// through success or a blocking hang, without a real graph database.
type stubStore struct {
	blockUntil chan struct{}
}

func (s *stubStore) UpsertProject(ctx context.Context, p gm.Project) error { return nil }
func (s *stubStore) UpdateProjectStatus(ctx context.Context, projectID string, status gm.ProjectStatus, nodeCount, edgeCount int) error {
	return nil
}
func (s *stubStore) ClearProject(ctx context.Context, projectID string) error { return nil }
func (s *stubStore) GetIndexedFiles(ctx context.Context, projectID string) ([]change.IndexedFile, error) {
	return nil, nil
}
func (s *stubStore) GetExistingNodes(ctx context.Context, projectID string, excludeFiles []string) (map[string]*gm.ParsedNode, error) {
	return map[string]*gm.ParsedNode{}, nil
}
func (s *stubStore) GetCrossFileEdges(ctx context.Context, projectID string, files []string) ([]gm.CrossFileEdge, error) {
	return nil, nil
}
func (s *stubStore) DeleteFileSubgraphs(ctx context.Context, projectID string, filePaths []string) error {
	return nil
}
func (s *stubStore) RecreateCrossFileEdges(ctx context.Context, projectID string, edges []gm.CrossFileEdge) (int, error) {
	return 0, nil
}
func (s *stubStore) CommitNodes(ctx context.Context, projectID string, nodes []*gm.ParsedNode, chunkSize int) error {
	if s.blockUntil != nil {
		<-s.blockUntil
	}
	return nil
}
func (s *stubStore) CommitEdges(ctx context.Context, projectID string, edges []*gm.ParsedEdge, chunkSize int) error {
	return nil
}
func (s *stubStore) LockNodes(ctx context.Context, nodeIDs []string) (func(), error) {
	return func() {}, nil
}
func (s *stubStore) Close(ctx context.Context) error { return nil }

func testRequest(t *testing.T) config.ParseRequest {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.ts"), []byte("export class A {}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "tsconfig.json"), []byte("{}"), 0644))

	req := config.DefaultParseRequest()
	req.ProjectPath = root
	req.TSConfigPath = filepath.Join(root, "tsconfig.json")
	return req
}

func TestRunReportsSuccessAndPersistsDoneStatus(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)
	engine := parseengine.New(&stubStore{}, reg)

	ledgerPath := filepath.Join(t.TempDir(), "jobs.db")
	ledger, err := OpenLedger(ledgerPath)
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	done := Run(context.Background(), "job-1", engine, testRequest(t), config.WorkerConfig{Timeout: 5 * time.Second}, ledger, nil)
	require.NoError(t, <-done)

	rec, found, err := ledger.Get("job-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, JobDone, rec.Status)
	assert.Empty(t, rec.Error)
}

func TestRunFailsJobOnTimeout(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)
	blocker := make(chan struct{})
	t.Cleanup(func() { close(blocker) })
	engine := parseengine.New(&stubStore{blockUntil: blocker}, reg)

	ledgerPath := filepath.Join(t.TempDir(), "jobs.db")
	ledger, err := OpenLedger(ledgerPath)
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	done := Run(context.Background(), "job-2", engine, testRequest(t), config.WorkerConfig{Timeout: 50 * time.Millisecond}, ledger, nil)
	err = <-done
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	rec, found, err := ledger.Get("job-2")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, JobFailed, rec.Status)
}

func TestLedgerGetReturnsFalseForUnknownJob(t *testing.T) {
	ledger, err := OpenLedger(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	_, found, err := ledger.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)
}
