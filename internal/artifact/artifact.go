// Package artifact writes and reads the Graph JSON artifact (§6), the
// on-disk fallback written to <project>/code-graph.json that lets a
// caller retry a store import without re-parsing when the store write
// fails after a successful parse (§7 "partial-success message").
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// ArtifactNode and ArtifactEdge mirror §6's "Graph JSON artifact" wire shape.
type ArtifactNode struct {
	ID            string         `json:"id"`
	Labels        []string       `json:"labels"`
	Properties    map[string]any `json:"properties"`
	SkipEmbedding bool           `json:"skipEmbedding"`
}

type ArtifactEdge struct {
	ID           string         `json:"id"`
	Type         string         `json:"type"`
	StartNodeID  string         `json:"startNodeId"`
	EndNodeID    string         `json:"endNodeId"`
	Properties   map[string]any `json:"properties"`
}

type IncrementalMetadata struct {
	FilesReparsed int `json:"filesReparsed"`
	FilesDeleted  int `json:"filesDeleted"`
}

type Metadata struct {
	CoreSchema       string               `json:"coreSchema"`
	FrameworkSchemas []string             `json:"frameworkSchemas"`
	ProjectType      string               `json:"projectType"`
	ProjectID        string               `json:"projectId"`
	Generated        string               `json:"generated"`
	Incremental      *IncrementalMetadata `json:"incremental,omitempty"`
}

type Artifact struct {
	Nodes    []ArtifactNode `json:"nodes"`
	Edges    []ArtifactEdge `json:"edges"`
	Metadata Metadata       `json:"metadata"`
}

// FromGraph builds an Artifact from parsed nodes/edges. skeletonized
// marks which coreTypes should be excluded from downstream embedding
// (method/function/property bodies, already replaced with signature stubs
// by traversal — skipEmbedding spares the embedding service re-deriving
// meaning from a stub).
func FromGraph(nodes map[string]*gm.ParsedNode, edgesIn []*gm.ParsedEdge, meta Metadata, skeletonized map[string]bool) *Artifact {
	a := &Artifact{Metadata: meta}
	for _, n := range nodes {
		a.Nodes = append(a.Nodes, ArtifactNode{
			ID: n.ID, Labels: n.Labels, Properties: n.Properties,
			SkipEmbedding: skeletonized[n.CoreType],
		})
	}
	for _, e := range edgesIn {
		typ := e.RelationshipType
		props := map[string]any{
			"coreType": e.CoreType, "source": string(e.Source), "confidence": e.Confidence,
			"relationshipWeight": e.RelationshipWeight, "filePath": e.FilePath, "createdAt": e.CreatedAt,
		}
		if e.SemanticType != "" {
			props["semanticType"] = e.SemanticType
		}
		if e.Context != nil {
			props["context"] = e.Context
		}
		a.Edges = append(a.Edges, ArtifactEdge{ID: e.ID, Type: typ, StartNodeID: e.SourceNodeID, EndNodeID: e.TargetNodeID, Properties: props})
	}
	return a
}

// Path returns the artifact file path for a project root (§6: "<project>/code-graph.json").
func Path(projectRoot string) string {
	return filepath.Join(projectRoot, "code-graph.json")
}

// Write serializes a to its artifact path.
func Write(projectRoot string, a *Artifact) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: marshal: %w", err)
	}
	if err := os.WriteFile(Path(projectRoot), data, 0644); err != nil {
		return fmt.Errorf("artifact: write: %w", err)
	}
	return nil
}

// Read loads a previously written artifact, for retrying a store import
// without re-parsing.
func Read(projectRoot string) (*Artifact, error) {
	data, err := os.ReadFile(Path(projectRoot))
	if err != nil {
		return nil, fmt.Errorf("artifact: read: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("artifact: unmarshal: %w", err)
	}
	return &a, nil
}
