// Package traversal implements the AST Traversal phase (C3): one walk per
// file that emits core nodes and structural edges per the schema registry,
// skeletonizes bodies, and queues deferred relationship edges for the
// resolver (C4).
package traversal

import (
	"fmt"
	"os"
	"time"

	"github.com/tsgraph/tsgraph/internal/ast"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/identity"
	"github.com/tsgraph/tsgraph/internal/schema"
)

// DeferredEdge is a relationship queued during traversal to be resolved
// by name after every file in the current parse has been walked (§4.3 step 4).
type DeferredEdge struct {
	EdgeType       string
	SourceNodeID   string
	TargetName     string
	TargetCoreType string
	FilePath       string
}

// Result is everything one file's traversal produced.
type Result struct {
	Nodes    map[string]*gm.ParsedNode
	Edges    []*gm.ParsedEdge
	Deferred []DeferredEdge
}

// Traverser walks one AST root per file against a loaded schema.
type Traverser struct {
	reg               *schema.Registry
	projectID         string
	excludedNodeTypes map[string]bool
	now               func() string
}

// New builds a Traverser. now lets callers (and tests) control the
// createdAt timestamp source; nil defaults to time.Now in UTC.
func New(reg *schema.Registry, projectID string, excludedNodeTypes []string, now func() string) *Traverser {
	excl := make(map[string]bool, len(excludedNodeTypes))
	for _, t := range excludedNodeTypes {
		excl[t] = true
	}
	if now == nil {
		now = func() string { return time.Now().UTC().Format(time.RFC3339) }
	}
	return &Traverser{reg: reg, projectID: projectID, excludedNodeTypes: excl, now: now}
}

// TraverseFile creates the SourceFile node for filePath and recurses per
// the schema's declared children, returning every node/edge produced plus
// deferred relationship edges still needing resolution.
func (t *Traverser) TraverseFile(filePath string, root ast.Node) (*Result, error) {
	res := &Result{Nodes: make(map[string]*gm.ParsedNode)}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("traversal: stat %s: %w", filePath, err)
	}
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("traversal: read %s: %w", filePath, err)
	}

	fileID := identity.NodeID(schema.SourceFile, filePath, filePath, "")
	fileNode := &gm.ParsedNode{
		ID: fileID, CoreType: schema.SourceFile,
		Labels:     []string{"SourceFile"},
		Properties: t.baseProperties(fileID, filePath, filePath, filePath, root),
		SourceNode: root,
	}
	fileNode.Properties["coreType"] = schema.SourceFile
	fileNode.Properties["size"] = info.Size()
	fileNode.Properties["mtime"] = info.ModTime().UTC().Format(time.RFC3339)
	fileNode.Properties["contentHash"] = identity.ContentHash(contents)
	res.Nodes[fileID] = fileNode

	t.recurse(fileNode, root, schema.SourceFile, res)
	t.skeletonize(res)
	return res, nil
}

func (t *Traverser) baseProperties(id, filePath, name, sourceCode string, node ast.Node) map[string]interface{} {
	return map[string]interface{}{
		"id": id, "name": name, "coreType": "", "filePath": filePath,
		"startLine": node.GetStartLineNumber(), "endLine": node.GetEndLineNumber(),
		"sourceCode": node.GetText(), "createdAt": t.now(), "projectId": t.projectID,
		"context": map[string]interface{}{},
	}
}

// recurse creates children of parentNode per coreSchema.nodeTypes[parentType].children,
// adding CONTAINS/HAS_MEMBER/... edges and recursing into each child's own children.
func (t *Traverser) recurse(parent *gm.ParsedNode, parentAST ast.Node, parentType string, res *Result) {
	kind, ok := t.reg.CoreNodeKinds[parentType]
	if !ok {
		return
	}
	for childType, edgeType := range kind.Children {
		if t.excludedNodeTypes[childType] {
			continue
		}
		getter, ok := t.reg.ASTGetters[childType]
		if !ok {
			continue
		}
		children := ast.NodeSliceValue(parentAST, getter)
		seen := map[string]int{}
		for _, childAST := range children {
			name := childAST.GetName()
			if name == "" {
				name = anonymousName(childType)
				seen[childType]++
			}
			childID := identity.NodeID(childType, parent.FilePath(), name, parent.ID)
			childNode := &gm.ParsedNode{
				ID: childID, CoreType: childType,
				Labels:     []string{t.reg.CoreNodeKinds[childType].PrimaryLabel},
				Properties: t.baseProperties(childID, parent.FilePath(), name, childAST.GetText(), childAST),
				SourceNode: childAST,
			}
			childNode.Properties["coreType"] = childType
			res.Nodes[childID] = childNode
			res.Edges = append(res.Edges, &gm.ParsedEdge{
				ID: identity.EdgeID(edgeType, parent.ID, childID), RelationshipType: edgeType,
				SourceNodeID: parent.ID, TargetNodeID: childID, CoreType: edgeType,
				Source: gm.SourceAST, Confidence: 1.0, RelationshipWeight: 1.0,
				FilePath: parent.FilePath(), CreatedAt: t.now(),
			})

			for _, rel := range t.reg.CoreNodeKinds[childType].Relationships {
				t.queueDeferred(childNode, childAST, rel, res)
			}

			t.recurse(childNode, childAST, childType, res)
		}
	}
}

func (t *Traverser) queueDeferred(node *gm.ParsedNode, nodeAST ast.Node, rel gm.RelationshipSpec, res *Result) {
	getter := ast.Getter(rel.Method)
	switch rel.Cardinality {
	case gm.CardinalityMulti:
		for _, name := range ast.StringSliceValue(nodeAST, getter) {
			if name == "" {
				continue
			}
			res.Deferred = append(res.Deferred, DeferredEdge{
				EdgeType: rel.EdgeType, SourceNodeID: node.ID, TargetName: trimName(name),
				TargetCoreType: rel.TargetNodeType, FilePath: node.FilePath(),
			})
		}
	default:
		var name string
		if s := ast.StringValue(nodeAST, getter); s != "" {
			name = s
		} else if target := singleNodeValue(nodeAST, getter); target != nil {
			name = target.GetText()
		}
		if name == "" {
			return
		}
		res.Deferred = append(res.Deferred, DeferredEdge{
			EdgeType: rel.EdgeType, SourceNodeID: node.ID, TargetName: trimName(name),
			TargetCoreType: rel.TargetNodeType, FilePath: node.FilePath(),
		})
	}
}

func singleNodeValue(n ast.Node, g ast.Getter) ast.Node {
	switch g {
	case ast.GetBaseClass:
		return n.GetBaseClass()
	case ast.GetTypeNode:
		return n.GetTypeNode()
	case ast.GetReturnTypeNode:
		return n.GetReturnTypeNode()
	default:
		return nil
	}
}

func trimName(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

func anonymousName(coreType string) string {
	if coreType == schema.Class {
		return "AnonymousClass"
	}
	return "AnonymousFunction"
}

// skeletonize replaces cached sourceCode for method/function/property
// nodes with a signature stub, per the skeletonize set (§4.3 step 3).
func (t *Traverser) skeletonize(res *Result) {
	for _, n := range res.Nodes {
		if schema.SkeletonizeSet[n.CoreType] {
			sig := n.Name()
			n.Properties["sourceCode"] = fmt.Sprintf("%s { /* NodeID: %s */ }", sig, n.ID)
		}
	}
}
