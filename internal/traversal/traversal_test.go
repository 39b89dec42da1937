package traversal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgraph/tsgraph/internal/schema"
	"github.com/tsgraph/tsgraph/internal/tsast"
)

func fixedClock() func() string {
	return func() string { return "2026-01-01T00:00:00Z" }
}

func writeAndParse(t *testing.T, name, source string) (string, *tsast.FileNode) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	f, err := tsast.ParseFile(path)
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return path, f
}

func TestTraverseFileEmitsSourceFileAndClassWithContainsEdge(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	path, f := writeAndParse(t, "orders.service.ts", `
export class OrdersService {
  findOne(id: string): string {
    return id;
  }
}
`)

	tr := New(reg, "proj-1", nil, fixedClock())
	res, err := tr.TraverseFile(path, f.Root())
	require.NoError(t, err)

	var fileNode, classNode, methodNode int
	for _, n := range res.Nodes {
		switch n.CoreType {
		case schema.SourceFile:
			fileNode++
			assert.Equal(t, path, n.FilePath())
		case schema.Class:
			classNode++
			assert.Equal(t, "OrdersService", n.Name())
		case schema.Method:
			methodNode++
		}
	}
	assert.Equal(t, 1, fileNode)
	assert.Equal(t, 1, classNode)
	assert.Equal(t, 1, methodNode)

	var containsEdges, hasMemberEdges int
	for _, e := range res.Edges {
		switch e.RelationshipType {
		case schema.Contains:
			containsEdges++
		case schema.HasMember:
			hasMemberEdges++
		}
	}
	assert.Equal(t, 1, containsEdges)
	assert.Equal(t, 1, hasMemberEdges)
}

func TestTraverseFileSkeletonizesMethodSourceCode(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	path, f := writeAndParse(t, "orders.service.ts", `
export class OrdersService {
  findOne(id: string): string {
    return id;
  }
}
`)
	tr := New(reg, "proj-1", nil, fixedClock())
	res, err := tr.TraverseFile(path, f.Root())
	require.NoError(t, err)

	for _, n := range res.Nodes {
		if n.CoreType == schema.Method {
			src, _ := n.Properties["sourceCode"].(string)
			assert.Contains(t, src, "/* NodeID: "+n.ID+" */")
		}
		if n.CoreType == schema.Class {
			src, _ := n.Properties["sourceCode"].(string)
			assert.NotContains(t, src, "NodeID:")
		}
	}
}

func TestTraverseFileQueuesDeferredExtendsEdge(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	path, f := writeAndParse(t, "orders.service.ts", `
export class OrdersService extends BaseService {
}
`)
	tr := New(reg, "proj-1", nil, fixedClock())
	res, err := tr.TraverseFile(path, f.Root())
	require.NoError(t, err)

	require.Len(t, res.Deferred, 1)
	assert.Equal(t, schema.Extends, res.Deferred[0].EdgeType)
	assert.Equal(t, "BaseService", res.Deferred[0].TargetName)
	assert.Equal(t, schema.Class, res.Deferred[0].TargetCoreType)
}

func TestTraverseFileExcludesConfiguredNodeTypes(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	path, f := writeAndParse(t, "orders.service.ts", `
export class OrdersService {
  findOne(id: string): string {
    return id;
  }
}
`)
	tr := New(reg, "proj-1", []string{schema.Method}, fixedClock())
	res, err := tr.TraverseFile(path, f.Root())
	require.NoError(t, err)

	for _, n := range res.Nodes {
		assert.NotEqual(t, schema.Method, n.CoreType)
	}
}

func TestTraverseFileAssignsAnonymousNameToUnnamedFunction(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	path, f := writeAndParse(t, "handler.ts", `
export default function (req: Request) {
  return req;
}
`)
	tr := New(reg, "proj-1", nil, fixedClock())
	res, err := tr.TraverseFile(path, f.Root())
	require.NoError(t, err)

	var sawAnonymous bool
	for _, n := range res.Nodes {
		if n.CoreType == schema.Function && n.Name() == "AnonymousFunction" {
			sawAnonymous = true
		}
	}
	assert.True(t, sawAnonymous)
}
