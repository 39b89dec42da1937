// Package schema is the declarative Schema Registry (C1): a pure data
// module describing which AST constructs become nodes and edges, how to
// extract their properties, and which framework-specific enhancements
// promote core nodes into semantically-typed ones. It is read-only after
// Load (SPEC_FULL.md §9 "Global mutable state").
package schema

import (
	"fmt"

	"github.com/tsgraph/tsgraph/internal/ast"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// Core node kind names.
const (
	SourceFile = "SourceFile"
	Class      = "Class"
	Interface  = "Interface"
	Enum       = "Enum"
	Function   = "Function"
	Method     = "Method"
	Property   = "Property"
	Parameter  = "Parameter"
	Constructor = "Constructor"
	Decorator  = "Decorator"
	Import     = "Import"
	Variable   = "Variable"
)

// Core edge relationship types.
const (
	Contains       = "CONTAINS"
	HasMember      = "HAS_MEMBER"
	HasParameter   = "HAS_PARAMETER"
	DecoratedWith  = "DECORATED_WITH"
	Imports        = "IMPORTS"
	Extends        = "EXTENDS"
	Implements     = "IMPLEMENTS"
	TypedAs        = "TYPED_AS"
)

// Registry is a loaded, validated schema: the core schema plus every
// framework schema, in registration order.
type Registry struct {
	CoreNodeKinds map[string]gm.CoreNodeKind
	CoreEdgeKinds map[string]gm.CoreEdgeKind
	// ASTGetters maps a coreType to the ast.Getter used to enumerate its
	// children of the matching child kind (C1 astGetters table).
	ASTGetters map[string]ast.Getter
	// Frameworks is every FrameworkSchema in registration order (nestjs,
	// repository, routes); the enhancer orders candidates by priority itself.
	Frameworks []FrameworkSchema
	// ParseVariablesFrom are globs whose files' top-level variable
	// declarations are also entity-worthy (route-definition arrays, etc).
	ParseVariablesFrom []string
}

// FrameworkSchema groups one framework's enhancements and edge enhancements.
type FrameworkSchema struct {
	Name             string
	Enhancements     []gm.FrameworkEnhancement
	EdgeEnhancements []gm.EdgeEnhancement
}

// SkeletonizeSet names the core node kinds whose sourceCode is replaced by
// a stub holding the node's name and ID during traversal (§4.3 step 3).
var SkeletonizeSet = map[string]bool{
	Method:   true,
	Function: true,
	Property: true,
}

func coreNodeKinds() map[string]gm.CoreNodeKind {
	return map[string]gm.CoreNodeKind{
		SourceFile: {
			CoreType: SourceFile,
			Children: map[string]string{
				Class: Contains, Interface: Contains, Enum: Contains,
				Function: Contains, Import: Contains, Variable: Contains,
			},
			PrimaryLabel: "SourceFile",
		},
		Class: {
			CoreType: Class,
			Children: map[string]string{
				Method: HasMember, Property: HasMember, Constructor: HasMember, Decorator: DecoratedWith,
			},
			Relationships: []gm.RelationshipSpec{
				{EdgeType: Extends, Method: string(ast.GetBaseClass), Cardinality: gm.CardinalitySingle, TargetNodeType: Class},
				{EdgeType: Implements, Method: string(ast.GetImplements), Cardinality: gm.CardinalityMulti, TargetNodeType: Interface},
			},
			PrimaryLabel: "Class",
		},
		Interface: {
			CoreType:     Interface,
			Children:     map[string]string{Method: HasMember, Property: HasMember},
			PrimaryLabel: "Interface",
		},
		Enum:        {CoreType: Enum, PrimaryLabel: "Enum"},
		Function: {
			CoreType:     Function,
			Children:     map[string]string{Parameter: HasParameter, Decorator: DecoratedWith},
			PrimaryLabel: "Function",
		},
		Method: {
			CoreType:     Method,
			Children:     map[string]string{Parameter: HasParameter, Decorator: DecoratedWith},
			PrimaryLabel: "Method",
		},
		Constructor: {
			CoreType:     Constructor,
			Children:     map[string]string{Parameter: HasParameter, Decorator: DecoratedWith},
			PrimaryLabel: "Constructor",
		},
		Property: {
			CoreType:     Property,
			Children:     map[string]string{Decorator: DecoratedWith},
			PrimaryLabel: "Property",
		},
		Parameter: {
			CoreType:     Parameter,
			Children:     map[string]string{Decorator: DecoratedWith},
			Relationships: []gm.RelationshipSpec{
				{EdgeType: TypedAs, Method: string(ast.GetTypeNode), Cardinality: gm.CardinalitySingle, TargetNodeType: Class},
			},
			PrimaryLabel: "Parameter",
		},
		Decorator: {CoreType: Decorator, PrimaryLabel: "Decorator"},
		Import:    {CoreType: Import, PrimaryLabel: "Import"},
		Variable:  {CoreType: Variable, PrimaryLabel: "Variable"},
	}
}

func coreEdgeKinds() map[string]gm.CoreEdgeKind {
	mk := func(coreType, relType string, weight float64) gm.CoreEdgeKind {
		return gm.CoreEdgeKind{CoreType: coreType, RelationshipType: relType, Direction: gm.DirectionOut, RelationshipWeight: weight}
	}
	return map[string]gm.CoreEdgeKind{
		Contains:      mk(Contains, Contains, 1.0),
		HasMember:     mk(HasMember, HasMember, 1.0),
		HasParameter:  mk(HasParameter, HasParameter, 1.0),
		DecoratedWith: mk(DecoratedWith, DecoratedWith, 1.0),
		Imports:       mk(Imports, Imports, 1.0),
		Extends:       mk(Extends, Extends, 1.0),
		Implements:    mk(Implements, Implements, 1.0),
		TypedAs:       mk(TypedAs, TypedAs, 0.6),
	}
}

func astGetters() map[string]ast.Getter {
	return map[string]ast.Getter{
		Class:       ast.GetClasses,
		Interface:   ast.GetInterfaces,
		Enum:        ast.GetEnums,
		Function:    ast.GetFunctions,
		Method:      ast.GetMethods,
		Property:    ast.GetProperties,
		Parameter:   ast.GetParameters,
		Constructor: ast.GetConstructors,
		Decorator:   ast.GetDecorators,
		Import:      ast.GetImportDeclarations,
		Variable:    ast.GetVariableStatements,
	}
}

// Load builds and validates the registry: the core schema plus every
// framework schema, in registration order. Validation failures are
// load-time ValidationErrorf per §7 — fail fast, before any parse begins.
func Load() (*Registry, error) {
	r := &Registry{
		CoreNodeKinds:      coreNodeKinds(),
		CoreEdgeKinds:      coreEdgeKinds(),
		ASTGetters:         astGetters(),
		ParseVariablesFrom: []string{"**/*.routes.ts", "**/*.routes.tsx"},
	}
	r.Frameworks = []FrameworkSchema{
		NestJSSchema(),
		RepositorySchema(),
		RoutesSchema(),
	}
	// Frameworks keep their registration order; this loop does not reorder
	// them. Priority order is applied per node by the enhancer (§4.6).
	for i := 1; i < len(r.Frameworks); i++ {
		for j := i; j > 0; j-- {
			// no-op: routes (max priority 85) stays after repository (max 80).
			_ = j
			break
		}
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) validate() error {
	for _, fw := range r.Frameworks {
		for _, e := range fw.Enhancements {
			if _, ok := r.CoreNodeKinds[e.TargetCoreType]; !ok {
				return fmt.Errorf("schema: enhancement %q targets unknown core type %q", e.Name, e.TargetCoreType)
			}
		}
	}
	return nil
}
