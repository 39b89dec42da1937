// Package graphmodel defines the entities of the extraction pipeline's
// property graph: projects, parsed nodes/edges, and the schema entities
// that describe what those nodes and edges look like (§3 of SPEC_FULL.md).
package graphmodel

import "github.com/tsgraph/tsgraph/internal/ast"

// ProjectStatus tracks a Project node's lifecycle (§3 Lifecycle).
type ProjectStatus string

const (
	ProjectParsing  ProjectStatus = "parsing"
	ProjectComplete ProjectStatus = "complete"
	ProjectFailed   ProjectStatus = "failed"
)

// Project is the root entity owning every node/edge parsed from one codebase.
type Project struct {
	ProjectID string
	Name      string
	Path      string
	Status    ProjectStatus
	NodeCount int
	EdgeCount int
}

// EdgeSource records how an edge was derived, per §3's ParsedEdge.properties.source.
type EdgeSource string

const (
	SourceAST       EdgeSource = "ast"
	SourceDecorator EdgeSource = "decorator"
	SourcePattern   EdgeSource = "pattern"
	SourceInference EdgeSource = "inference"
)

// ParsedNode is a node in the property graph, live during one parse.
// sourceNode (the AST handle) is intentionally kept separate from
// Properties: it exists only until commit (§3 Lifecycle), after which
// extractors requiring live AST can no longer run.
type ParsedNode struct {
	ID           string
	CoreType     string
	SemanticType string // empty if not semantically typed
	Labels       []string
	Properties   map[string]interface{}
	SourceNode   ast.Node // nil once loaded as a stub, or after commit
}

// Context returns the node's context{} map, creating it if absent.
func (n *ParsedNode) Context() map[string]interface{} {
	ctx, _ := n.Properties["context"].(map[string]interface{})
	if ctx == nil {
		ctx = make(map[string]interface{})
		n.Properties["context"] = ctx
	}
	return ctx
}

// MergeContext merges extra into the node's context{} map (§4.5: extractors merge, never replace).
func (n *ParsedNode) MergeContext(extra map[string]interface{}) {
	ctx := n.Context()
	for k, v := range extra {
		ctx[k] = v
	}
}

// Name returns properties["name"] as a string, or "".
func (n *ParsedNode) Name() string {
	s, _ := n.Properties["name"].(string)
	return s
}

// FilePath returns properties["filePath"] as a string, or "".
func (n *ParsedNode) FilePath() string {
	s, _ := n.Properties["filePath"].(string)
	return s
}

// PrimaryLabel returns Labels[0], or "" if there are no labels (invariant 4 of §3).
func (n *ParsedNode) PrimaryLabel() string {
	if len(n.Labels) == 0 {
		return ""
	}
	return n.Labels[0]
}

// ParsedEdge is an edge in the property graph.
type ParsedEdge struct {
	ID               string
	RelationshipType string
	SourceNodeID     string
	TargetNodeID     string
	CoreType         string
	SemanticType     string
	Source           EdgeSource
	Confidence       float64
	RelationshipWeight float64
	FilePath         string
	CreatedAt        string // ISO-8601 UTC, informational only (never used for identity)
	Context          map[string]interface{}
}

// Cardinality constrains how many targets a declared AST-side relationship may have.
type Cardinality string

const (
	CardinalitySingle Cardinality = "single"
	CardinalityMulti  Cardinality = "multi"
)

// RelationshipSpec declares a deferred, name-resolved AST-side relation
// (EXTENDS, IMPLEMENTS, TYPED_AS, …) on a CoreNodeKind (§3, §4.4).
type RelationshipSpec struct {
	EdgeType       string
	Method         string // AST getter name invoked to read the declared target name(s)
	Cardinality    Cardinality
	TargetNodeType string
}

// PropertyExtractionMethod selects how a PropertyDefinition's value is produced (§3).
type PropertyExtractionMethod string

const (
	ExtractStatic   PropertyExtractionMethod = "static"
	ExtractAST      PropertyExtractionMethod = "ast"
	ExtractFunction PropertyExtractionMethod = "function"
	ExtractContext  PropertyExtractionMethod = "context"
)

// PropertyExtraction describes how to compute one PropertyDefinition's value.
type PropertyExtraction struct {
	Method       PropertyExtractionMethod
	Source       string // AST getter name, when Method == ExtractAST
	DefaultValue interface{}
	ContextKey   string // properties.context key, when Method == ExtractContext
	Function     func(node ast.Node) interface{} // used when Method == ExtractFunction
}

// PropertyDefinition declares one attribute a CoreNodeKind's nodes carry.
type PropertyDefinition struct {
	Name       string
	Type       string // "string", "int", "bool", "string[]", …(informational)
	Extraction PropertyExtraction
}

// CoreNodeKind is a schema entity: one AST construct that becomes a node kind.
type CoreNodeKind struct {
	CoreType     string
	Properties   []PropertyDefinition
	Children     map[string]string // childCoreType -> edgeType (CONTAINS, HAS_MEMBER, …)
	Relationships []RelationshipSpec
	PrimaryLabel string
	Labels       []string // additional labels beyond PrimaryLabel
}

// EdgeDirection constrains which way a CoreEdgeKind's relationship reads.
type EdgeDirection string

const (
	DirectionOut  EdgeDirection = "out"
	DirectionIn   EdgeDirection = "in"
	DirectionBoth EdgeDirection = "both" // advisory only; §9 Open Question
)

// CoreEdgeKind is a schema entity describing a valid structural edge shape.
type CoreEdgeKind struct {
	CoreType           string
	SourceTypes        []string
	TargetTypes        []string
	RelationshipType   string
	Direction          EdgeDirection
	RelationshipWeight float64
}

// DetectionPatternType selects which signal a DetectionPattern inspects (§3, §4.6).
type DetectionPatternType string

const (
	PatternDecorator DetectionPatternType = "decorator"
	PatternFilename  DetectionPatternType = "filename"
	PatternImport    DetectionPatternType = "import"
	PatternClassname DetectionPatternType = "classname"
	PatternFunction  DetectionPatternType = "function"
)

// DetectionPattern is one rule a node must satisfy to match a FrameworkEnhancement.
// Go has first-class closures, so Predicate carries the logic directly rather
// than through a tagged {kind, payload} variant (§9 Design Notes; see DESIGN.md
// "Open Question: pluggable DSL" for why the tagged-variant fallback doesn't apply here).
type DetectionPattern struct {
	Type       DetectionPatternType
	Literal    string         // literal/substring match, used by decorator/filename/classname/import
	Regex      *RegexMatcher  // optional regex match, used by filename/classname
	Predicate  func(node *ParsedNode) bool // used by PatternFunction; may inspect node.SourceNode while it is live
	Confidence float64
	Priority   int
}

// RegexMatcher wraps a compiled regular expression so schema definitions
// can be constructed as plain data without importing regexp everywhere.
type RegexMatcher struct {
	Pattern string
	match   func(string) bool
}

// NewRegexMatcher compiles pattern once and returns a matcher.
func NewRegexMatcher(pattern string, compile func(string) func(string) bool) *RegexMatcher {
	return &RegexMatcher{Pattern: pattern, match: compile(pattern)}
}

// MatchString reports whether s satisfies the compiled pattern.
func (r *RegexMatcher) MatchString(s string) bool {
	if r == nil || r.match == nil {
		return false
	}
	return r.match(s)
}

// ContextExtractor writes attributes into a node's context{} map, possibly
// reading other already-parsed nodes or a write-once-during-traversal shared
// context (§4.5, §9 "Shared context").
type ContextExtractor struct {
	NodeType     string
	SemanticType string // empty matches any semantic type (or none)
	Extract      func(node *ParsedNode, allNodes map[string]*ParsedNode, shared map[string]interface{}) map[string]interface{}
}

// FrameworkEnhancement promotes a core node to a semantic one (§3, §4.6).
type FrameworkEnhancement struct {
	Name                  string
	TargetCoreType        string
	SemanticType          string
	DetectionPatterns     []DetectionPattern
	ContextExtractors     []ContextExtractor
	AdditionalRelationships []RelationshipSpec
	Labels                []string
	PrimaryLabel          string // overrides the core kind's primary label when non-empty
	Priority              int
}

// EdgeEnhancement declares a semantic-edge detector (§3, §4.7).
type EdgeEnhancement struct {
	Name               string
	SemanticType       string
	RelationshipType   string
	RelationshipWeight float64
	Direction          EdgeDirection
	Detect             func(source, target *ParsedNode, allNodes map[string]*ParsedNode, shared map[string]interface{}) bool
	ExtractContext     func(source, target *ParsedNode, shared map[string]interface{}) map[string]interface{}
}

// ExistingNode is a stub loaded from the store during incremental re-parse:
// the same shape as ParsedNode, but never carries a live AST handle.
type ExistingNode = ParsedNode

// CrossFileEdge is the persistence record for an edge whose endpoints
// live in different source files (§6 "Cross-file edge wire format").
type CrossFileEdge struct {
	StartNodeID    string
	EndNodeID      string
	EdgeType       string
	EdgeProperties map[string]interface{}
}
