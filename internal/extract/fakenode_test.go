package extract

import "github.com/tsgraph/tsgraph/internal/ast"

// fakeNode is a minimal ast.Node fixture for exercising extractors without
// a real tree-sitter parse; every field defaults to the interface's
// documented zero value when left unset.
type fakeNode struct {
	name, filePath, baseName, kind, text string
	startLine, endLine                   int

	classes, interfaces, enums, functions, methods, properties, parameters, constructors, decorators, imports, exports, variables, arguments []ast.Node

	baseClass  ast.Node
	extends    []string
	implements []string
	typeNode   ast.Node
	returnType ast.Node

	defaultImport, namespaceImport, moduleSpecifier string
	namedImports                                    []string

	exported, defaultExport, static, async, abstract, readonly, hasInit, hasQuestion, rest, typeOnly bool

	parent     ast.Node
	childIndex int
	sourceFile ast.Node
}

func (f *fakeNode) GetName() string                { return f.name }
func (f *fakeNode) GetFilePath() string             { return f.filePath }
func (f *fakeNode) GetBaseName() string             { return f.baseName }
func (f *fakeNode) GetKind() string                 { return f.kind }
func (f *fakeNode) GetStartLineNumber() int         { return f.startLine }
func (f *fakeNode) GetEndLineNumber() int           { return f.endLine }
func (f *fakeNode) GetText() string                 { return f.text }
func (f *fakeNode) GetClasses() []ast.Node          { return f.classes }
func (f *fakeNode) GetInterfaces() []ast.Node       { return f.interfaces }
func (f *fakeNode) GetEnums() []ast.Node            { return f.enums }
func (f *fakeNode) GetFunctions() []ast.Node        { return f.functions }
func (f *fakeNode) GetMethods() []ast.Node          { return f.methods }
func (f *fakeNode) GetProperties() []ast.Node       { return f.properties }
func (f *fakeNode) GetParameters() []ast.Node       { return f.parameters }
func (f *fakeNode) GetConstructors() []ast.Node     { return f.constructors }
func (f *fakeNode) GetDecorators() []ast.Node       { return f.decorators }
func (f *fakeNode) GetImportDeclarations() []ast.Node { return f.imports }
func (f *fakeNode) GetExportDeclarations() []ast.Node { return f.exports }
func (f *fakeNode) GetVariableStatements() []ast.Node { return f.variables }
func (f *fakeNode) GetBaseClass() ast.Node          { return f.baseClass }
func (f *fakeNode) GetExtends() []string            { return f.extends }
func (f *fakeNode) GetImplements() []string         { return f.implements }
func (f *fakeNode) GetTypeNode() ast.Node           { return f.typeNode }
func (f *fakeNode) GetReturnTypeNode() ast.Node     { return f.returnType }
func (f *fakeNode) GetDefaultImport() string        { return f.defaultImport }
func (f *fakeNode) GetNamespaceImport() string       { return f.namespaceImport }
func (f *fakeNode) GetNamedImports() []string        { return f.namedImports }
func (f *fakeNode) GetModuleSpecifierValue() string  { return f.moduleSpecifier }
func (f *fakeNode) GetArguments() []ast.Node        { return f.arguments }
func (f *fakeNode) IsExported() bool                { return f.exported }
func (f *fakeNode) IsDefaultExport() bool           { return f.defaultExport }
func (f *fakeNode) IsStatic() bool                  { return f.static }
func (f *fakeNode) IsAsync() bool                   { return f.async }
func (f *fakeNode) IsAbstract() bool                { return f.abstract }
func (f *fakeNode) IsReadonly() bool                { return f.readonly }
func (f *fakeNode) HasInitializer() bool            { return f.hasInit }
func (f *fakeNode) HasQuestionToken() bool          { return f.hasQuestion }
func (f *fakeNode) IsRestParameter() bool           { return f.rest }
func (f *fakeNode) IsTypeOnly() bool                { return f.typeOnly }
func (f *fakeNode) GetParent() ast.Node             { return f.parent }
func (f *fakeNode) GetChildIndex() int              { return f.childIndex }
func (f *fakeNode) GetSourceFile() ast.Node         { return f.sourceFile }

func textNode(text string) ast.Node { return &fakeNode{text: text} }
