// Package parseengine is the Incremental Orchestrator (C9): it drives a
// full or incremental parse of one project through the Schema Registry,
// AST Traversal, Relationship Resolver, Context Extractors, Semantic
// Enhancer, Edge Enhancer, and Persistence Adapter, in the order and with
// the cross-file-edge save/restore dance described in §4.9.
package parseengine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsgraph/tsgraph/internal/change"
	"github.com/tsgraph/tsgraph/internal/config"
	"github.com/tsgraph/tsgraph/internal/edges"
	"github.com/tsgraph/tsgraph/internal/enhancer"
	tsgerrors "github.com/tsgraph/tsgraph/internal/errors"
	"github.com/tsgraph/tsgraph/internal/extract"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/identity"
	"github.com/tsgraph/tsgraph/internal/persistence"
	"github.com/tsgraph/tsgraph/internal/resolver"
	"github.com/tsgraph/tsgraph/internal/schema"
	"github.com/tsgraph/tsgraph/internal/traversal"
	"github.com/tsgraph/tsgraph/internal/tsast"
)

// fileParseConcurrency bounds the errgroup that fans per-file traversal
// out across goroutines; tree-sitter parsing is CGO and CPU-bound, so this
// is a fixed pool size rather than unbounded fan-out.
const fileParseConcurrency = 8

// Progress messages mirror §6's worker channel contract: {type, data|error}.
type Progress struct {
	Type string // "progress" | "complete" | "error"
	Data map[string]interface{}
	Err  error
}

// Engine drives parses for one store + schema registry.
type Engine struct {
	Store Store
	Reg   *schema.Registry
}

// Store is the subset of persistence.Store the engine needs; kept as its
// own narrow interface so tests can supply a fake without pulling in Neo4j.
type Store = persistence.Store

// New builds an Engine against store and reg.
func New(store Store, reg *schema.Registry) *Engine {
	return &Engine{Store: store, Reg: reg}
}

// Parse runs req, emitting Progress messages on progress. It always
// returns with the Project's status set to complete or failed in the
// store (§3 Lifecycle, §7 "Store write error").
func (e *Engine) Parse(ctx context.Context, req config.ParseRequest, progress chan<- Progress) (err error) {
	if err := req.Validate(); err != nil {
		return tsgerrors.ConfigErrorf("invalid parse request: %v", err)
	}

	projectID := req.ProjectID
	if projectID == "" {
		projectID = identity.NodeID("Project", req.ProjectPath, req.ProjectPath, "")
	}

	if err := e.Store.UpsertProject(ctx, gm.Project{ProjectID: projectID, Name: projectID, Path: req.ProjectPath, Status: gm.ProjectParsing}); err != nil {
		return tsgerrors.StoreErrorf(err, "upsert project")
	}

	defer func() {
		status := gm.ProjectComplete
		if err != nil {
			status = gm.ProjectFailed
		}
		if uerr := e.Store.UpdateProjectStatus(ctx, projectID, status, 0, 0); uerr != nil && err == nil {
			err = tsgerrors.StoreErrorf(uerr, "update project status")
		}
		if progress != nil {
			if err != nil {
				progress <- Progress{Type: "error", Err: err}
			} else {
				progress <- Progress{Type: "complete", Data: map[string]interface{}{"projectId": projectID}}
			}
		}
	}()

	if req.ClearExisting {
		err = e.fullParse(ctx, req, projectID, progress)
	} else {
		err = e.incrementalParse(ctx, req, projectID, progress)
	}
	return err
}

func (e *Engine) fullParse(ctx context.Context, req config.ParseRequest, projectID string, progress chan<- Progress) error {
	if err := e.Store.ClearProject(ctx, projectID); err != nil {
		return tsgerrors.StoreErrorf(err, "clear project before full parse")
	}
	plan := &change.Plan{}
	allFiles, err := discoverAll(req.ProjectPath)
	if err != nil {
		return tsgerrors.ConfigErrorf("enumerate project files: %v", err)
	}
	plan.FilesToReparse = allFiles
	return e.runOverFiles(ctx, req, projectID, plan, nil, progress)
}

func (e *Engine) incrementalParse(ctx context.Context, req config.ParseRequest, projectID string, progress chan<- Progress) error {
	indexed, err := e.Store.GetIndexedFiles(ctx, projectID)
	if err != nil {
		return tsgerrors.StoreErrorf(err, "get indexed files")
	}
	plan, err := change.Detect(req.ProjectPath, indexed)
	if err != nil {
		return tsgerrors.ConfigErrorf("change detection: %v", err)
	}

	touched := append(append([]string{}, plan.FilesToDelete...), plan.FilesToReparse...)
	savedEdges, err := e.Store.GetCrossFileEdges(ctx, projectID, touched)
	if err != nil {
		return tsgerrors.StoreErrorf(err, "save cross-file edges")
	}
	if err := e.Store.DeleteFileSubgraphs(ctx, projectID, touched); err != nil {
		return tsgerrors.StoreErrorf(err, "delete file subgraphs")
	}

	if err := e.runOverFiles(ctx, req, projectID, plan, touched, progress); err != nil {
		return err
	}

	restored, err := e.Store.RecreateCrossFileEdges(ctx, projectID, savedEdges)
	if err != nil {
		return tsgerrors.StoreErrorf(err, "restore cross-file edges")
	}
	if restored != len(savedEdges) && progress != nil {
		progress <- Progress{Type: "progress", Data: map[string]interface{}{
			"crossFileEdgesExpected": len(savedEdges), "crossFileEdgesRestored": restored,
		}}
	}
	return nil
}

// runOverFiles runs C3-C7 over plan.FilesToReparse, loading stubs from the
// store for files outside excludeFromStubs, then commits.
func (e *Engine) runOverFiles(ctx context.Context, req config.ParseRequest, projectID string, plan *change.Plan, excludeFromStubs []string, progress chan<- Progress) error {
	stubs, err := e.Store.GetExistingNodes(ctx, projectID, excludeFromStubs)
	if err != nil {
		return tsgerrors.StoreErrorf(err, "load existing node stubs")
	}

	nowFn := func() string { return time.Now().UTC().Format(time.RFC3339) }
	trav := traversal.New(e.Reg, projectID, req.ExcludedNodeTypes, nowFn)

	allParsed := make(map[string]*gm.ParsedNode)
	var allDeferred []traversal.DeferredEdge
	var structuralEdges []*gm.ParsedEdge
	imports := make(map[string][]string)
	var mu sync.Mutex

	// Each file's traversal is independent (§4.3 runs once per file); fan
	// the CGO tree-sitter parses out across a bounded worker group rather
	// than walking plan.FilesToReparse one file at a time.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fileParseConcurrency)
	for _, filePath := range plan.FilesToReparse {
		filePath := filePath
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			fileNode, parseErr := tsast.ParseFile(filePath)
			if parseErr != nil {
				if progress != nil {
					progress <- Progress{Type: "progress", Data: map[string]interface{}{"skipped": filePath, "error": parseErr.Error()}}
				}
				return nil // §7: per-file parse error, skip subtree, continue
			}
			root := fileNode.Root()
			result, travErr := trav.TraverseFile(filePath, root)
			fileNode.Close()
			if travErr != nil {
				if progress != nil {
					progress <- Progress{Type: "progress", Data: map[string]interface{}{"skipped": filePath, "error": travErr.Error()}}
				}
				return nil
			}

			var fileImports []string
			for _, n := range result.Nodes {
				if n.CoreType == schema.SourceFile {
					for _, imp := range n.SourceNode.GetImportDeclarations() {
						fileImports = append(fileImports, imp.GetModuleSpecifierValue())
					}
				}
			}

			mu.Lock()
			for id, n := range result.Nodes {
				allParsed[id] = n
			}
			structuralEdges = append(structuralEdges, result.Edges...)
			allDeferred = append(allDeferred, result.Deferred...)
			if fileImports != nil {
				imports[filePath] = fileImports
			}
			mu.Unlock()

			if progress != nil {
				progress <- Progress{Type: "progress", Data: map[string]interface{}{"parsed": filePath}}
			}
			return nil
		})
	}
	_ = g.Wait() // per-file errors are reported via progress, never fatal to the whole parse

	resolvedEdges := resolver.Resolve(allDeferred, allParsed, stubs, nowFn)

	extract.Run(allParsed, nil)
	enhancer.Run(e.Reg, allParsed, imports)

	shared := map[string]interface{}{
		"vendorControllers": edges.BuildVendorControllerIndex(mergeNodes(allParsed, stubs)),
	}
	semanticEdges := edges.Run(e.Reg, allParsed, stubs, shared, nowFn)

	allNodes := make([]*gm.ParsedNode, 0, len(allParsed))
	for _, n := range allParsed {
		allNodes = append(allNodes, n)
	}
	allEdges := append(append(structuralEdges, resolvedEdges...), semanticEdges...)

	chunkSize := req.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 50
	}
	if err := e.Store.CommitNodes(ctx, projectID, allNodes, chunkSize); err != nil {
		return tsgerrors.StoreErrorf(err, "commit nodes")
	}
	if err := e.Store.CommitEdges(ctx, projectID, allEdges, chunkSize); err != nil {
		return tsgerrors.StoreErrorf(err, "commit edges")
	}
	if err := e.Store.UpdateProjectStatus(ctx, projectID, gm.ProjectParsing, len(allNodes), len(allEdges)); err != nil {
		return tsgerrors.StoreErrorf(err, "update counts")
	}
	return nil
}

func mergeNodes(a, b map[string]*gm.ParsedNode) map[string]*gm.ParsedNode {
	out := make(map[string]*gm.ParsedNode, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func discoverAll(projectRoot string) ([]string, error) {
	plan, err := change.Detect(projectRoot, nil)
	if err != nil {
		return nil, fmt.Errorf("parseengine: discover files: %w", err)
	}
	return plan.FilesToReparse, nil
}
