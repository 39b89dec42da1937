// Package ast declares the AST provider contract the extraction pipeline
// consumes (SPEC_FULL.md §6): a typed node interface with getters aligned
// to astGetters, independent of any particular parser backend. The
// concrete tree-sitter-backed implementation lives in internal/tsast.
package ast

// Node is a typed AST node as the pipeline's schema (internal/schema)
// and traversal/extract/enhancer packages consume it. Every method mirrors
// one entry of the astGetters table; a backend that cannot produce a given
// signal returns the zero value (nil slice, "", false) rather than panicking.
type Node interface {
	// Identity and position.
	GetName() string
	GetFilePath() string
	GetBaseName() string
	GetKind() string
	GetStartLineNumber() int
	GetEndLineNumber() int
	GetText() string

	// Structural children, by declaration kind.
	GetClasses() []Node
	GetInterfaces() []Node
	GetEnums() []Node
	GetFunctions() []Node
	GetMethods() []Node
	GetProperties() []Node
	GetParameters() []Node
	GetConstructors() []Node
	GetDecorators() []Node
	GetImportDeclarations() []Node
	GetExportDeclarations() []Node
	GetVariableStatements() []Node

	// Deferred, name-resolved relations.
	GetBaseClass() Node
	GetExtends() []string
	GetImplements() []string
	GetTypeNode() Node
	GetReturnTypeNode() Node

	// Import-specific.
	GetDefaultImport() string
	GetNamespaceImport() string
	GetNamedImports() []string
	GetModuleSpecifierValue() string

	// Call/decorator arguments.
	GetArguments() []Node

	// Modifiers.
	IsExported() bool
	IsDefaultExport() bool
	IsStatic() bool
	IsAsync() bool
	IsAbstract() bool
	IsReadonly() bool
	HasInitializer() bool
	HasQuestionToken() bool
	IsRestParameter() bool
	IsTypeOnly() bool

	// Tree navigation.
	GetParent() Node
	GetChildIndex() int
	GetSourceFile() Node
}

// Getter names an astGetters table entry by string, used by schema
// definitions (PropertyExtraction.Source, RelationshipSpec.Method) that
// must refer to a getter without importing this package's method set
// directly. Call() dispatches to the matching Node method.
type Getter string

const (
	GetName                 Getter = "getName"
	GetFilePath             Getter = "getFilePath"
	GetBaseName             Getter = "getBaseName"
	GetKind                 Getter = "getKind"
	GetStartLineNumber      Getter = "getStartLineNumber"
	GetEndLineNumber        Getter = "getEndLineNumber"
	GetText                 Getter = "getText"
	GetClasses              Getter = "getClasses"
	GetInterfaces           Getter = "getInterfaces"
	GetEnums                Getter = "getEnums"
	GetFunctions            Getter = "getFunctions"
	GetMethods              Getter = "getMethods"
	GetProperties           Getter = "getProperties"
	GetParameters           Getter = "getParameters"
	GetConstructors         Getter = "getConstructors"
	GetDecorators           Getter = "getDecorators"
	GetImportDeclarations   Getter = "getImportDeclarations"
	GetExportDeclarations   Getter = "getExportDeclarations"
	GetVariableStatements   Getter = "getVariableStatements"
	GetBaseClass            Getter = "getBaseClass"
	GetExtends              Getter = "getExtends"
	GetImplements           Getter = "getImplements"
	GetTypeNode             Getter = "getTypeNode"
	GetReturnTypeNode       Getter = "getReturnTypeNode"
	GetDefaultImport        Getter = "getDefaultImport"
	GetNamespaceImport      Getter = "getNamespaceImport"
	GetNamedImports         Getter = "getNamedImports"
	GetModuleSpecifierValue Getter = "getModuleSpecifierValue"
	GetArguments            Getter = "getArguments"
	IsExported              Getter = "isExported"
	IsDefaultExport         Getter = "isDefaultExport"
	IsStatic                Getter = "isStatic"
	IsAsync                 Getter = "isAsync"
	IsAbstract              Getter = "isAbstract"
	IsReadonly              Getter = "isReadonly"
	HasInitializer          Getter = "hasInitializer"
	HasQuestionToken        Getter = "hasQuestionToken"
	IsRestParameter         Getter = "isRestParameter"
	IsTypeOnly              Getter = "isTypeOnly"
	GetParent               Getter = "getParent"
	GetChildIndex           Getter = "getChildIndex"
	GetSourceFile           Getter = "getSourceFile"
)

// StringValue invokes a string-returning getter by name. Unknown or
// non-string getters return "".
func StringValue(n Node, g Getter) string {
	switch g {
	case GetName:
		return n.GetName()
	case GetFilePath:
		return n.GetFilePath()
	case GetBaseName:
		return n.GetBaseName()
	case GetKind:
		return n.GetKind()
	case GetText:
		return n.GetText()
	case GetDefaultImport:
		return n.GetDefaultImport()
	case GetNamespaceImport:
		return n.GetNamespaceImport()
	case GetModuleSpecifierValue:
		return n.GetModuleSpecifierValue()
	default:
		return ""
	}
}

// BoolValue invokes a bool-returning getter by name. Unknown getters return false.
func BoolValue(n Node, g Getter) bool {
	switch g {
	case IsExported:
		return n.IsExported()
	case IsDefaultExport:
		return n.IsDefaultExport()
	case IsStatic:
		return n.IsStatic()
	case IsAsync:
		return n.IsAsync()
	case IsAbstract:
		return n.IsAbstract()
	case IsReadonly:
		return n.IsReadonly()
	case HasInitializer:
		return n.HasInitializer()
	case HasQuestionToken:
		return n.HasQuestionToken()
	case IsRestParameter:
		return n.IsRestParameter()
	case IsTypeOnly:
		return n.IsTypeOnly()
	default:
		return false
	}
}

// NodeSliceValue invokes a []Node-returning getter by name.
func NodeSliceValue(n Node, g Getter) []Node {
	switch g {
	case GetClasses:
		return n.GetClasses()
	case GetInterfaces:
		return n.GetInterfaces()
	case GetEnums:
		return n.GetEnums()
	case GetFunctions:
		return n.GetFunctions()
	case GetMethods:
		return n.GetMethods()
	case GetProperties:
		return n.GetProperties()
	case GetParameters:
		return n.GetParameters()
	case GetConstructors:
		return n.GetConstructors()
	case GetDecorators:
		return n.GetDecorators()
	case GetImportDeclarations:
		return n.GetImportDeclarations()
	case GetExportDeclarations:
		return n.GetExportDeclarations()
	case GetVariableStatements:
		return n.GetVariableStatements()
	case GetArguments:
		return n.GetArguments()
	default:
		return nil
	}
}

// StringSliceValue invokes a []string-returning getter by name.
func StringSliceValue(n Node, g Getter) []string {
	switch g {
	case GetExtends:
		return n.GetExtends()
	case GetImplements:
		return n.GetImplements()
	case GetNamedImports:
		return n.GetNamedImports()
	default:
		return nil
	}
}

// Walk visits node and every descendant reachable through the structural
// getters, depth-first, calling visit on each. Traversal (C3) and context
// extractors (C5) share this helper instead of re-implementing the walk.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, kids := range [][]Node{
		n.GetClasses(), n.GetInterfaces(), n.GetEnums(), n.GetFunctions(),
		n.GetMethods(), n.GetProperties(), n.GetParameters(), n.GetConstructors(),
	} {
		for _, k := range kids {
			Walk(k, visit)
		}
	}
}
