package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeNode is a minimal Node fixture for exercising the Getter dispatch
// helpers and Walk without a real parser backend.
type fakeNode struct {
	name       string
	kind       string
	exported   bool
	async      bool
	extends    []string
	classes    []Node
	properties []Node
}

func (n *fakeNode) GetName() string                 { return n.name }
func (n *fakeNode) GetFilePath() string              { return "" }
func (n *fakeNode) GetBaseName() string              { return "" }
func (n *fakeNode) GetKind() string                  { return n.kind }
func (n *fakeNode) GetStartLineNumber() int           { return 0 }
func (n *fakeNode) GetEndLineNumber() int             { return 0 }
func (n *fakeNode) GetText() string                  { return "" }
func (n *fakeNode) GetClasses() []Node               { return n.classes }
func (n *fakeNode) GetInterfaces() []Node            { return nil }
func (n *fakeNode) GetEnums() []Node                 { return nil }
func (n *fakeNode) GetFunctions() []Node             { return nil }
func (n *fakeNode) GetMethods() []Node               { return nil }
func (n *fakeNode) GetProperties() []Node            { return n.properties }
func (n *fakeNode) GetParameters() []Node            { return nil }
func (n *fakeNode) GetConstructors() []Node          { return nil }
func (n *fakeNode) GetDecorators() []Node            { return nil }
func (n *fakeNode) GetImportDeclarations() []Node    { return nil }
func (n *fakeNode) GetExportDeclarations() []Node    { return nil }
func (n *fakeNode) GetVariableStatements() []Node    { return nil }
func (n *fakeNode) GetBaseClass() Node               { return nil }
func (n *fakeNode) GetExtends() []string             { return n.extends }
func (n *fakeNode) GetImplements() []string          { return nil }
func (n *fakeNode) GetTypeNode() Node                { return nil }
func (n *fakeNode) GetReturnTypeNode() Node          { return nil }
func (n *fakeNode) GetDefaultImport() string         { return "" }
func (n *fakeNode) GetNamespaceImport() string       { return "" }
func (n *fakeNode) GetNamedImports() []string        { return nil }
func (n *fakeNode) GetModuleSpecifierValue() string  { return "" }
func (n *fakeNode) GetArguments() []Node             { return nil }
func (n *fakeNode) IsExported() bool                 { return n.exported }
func (n *fakeNode) IsDefaultExport() bool            { return false }
func (n *fakeNode) IsStatic() bool                   { return false }
func (n *fakeNode) IsAsync() bool                    { return n.async }
func (n *fakeNode) IsAbstract() bool                 { return false }
func (n *fakeNode) IsReadonly() bool                 { return false }
func (n *fakeNode) HasInitializer() bool             { return false }
func (n *fakeNode) HasQuestionToken() bool           { return false }
func (n *fakeNode) IsRestParameter() bool            { return false }
func (n *fakeNode) IsTypeOnly() bool                 { return false }
func (n *fakeNode) GetParent() Node                  { return nil }
func (n *fakeNode) GetChildIndex() int               { return 0 }
func (n *fakeNode) GetSourceFile() Node              { return nil }

func TestStringValueDispatchesKnownGettersAndDefaultsOtherwise(t *testing.T) {
	n := &fakeNode{name: "OrdersController", kind: "class"}
	assert.Equal(t, "OrdersController", StringValue(n, GetName))
	assert.Equal(t, "class", StringValue(n, GetKind))
	assert.Equal(t, "", StringValue(n, IsExported))
}

func TestBoolValueDispatchesKnownGettersAndDefaultsOtherwise(t *testing.T) {
	n := &fakeNode{exported: true, async: true}
	assert.True(t, BoolValue(n, IsExported))
	assert.True(t, BoolValue(n, IsAsync))
	assert.False(t, BoolValue(n, IsStatic))
	assert.False(t, BoolValue(n, GetName))
}

func TestNodeSliceValueDispatchesKnownGettersAndDefaultsOtherwise(t *testing.T) {
	child := &fakeNode{name: "Orders"}
	n := &fakeNode{classes: []Node{child}}
	assert.Equal(t, []Node{child}, NodeSliceValue(n, GetClasses))
	assert.Nil(t, NodeSliceValue(n, GetInterfaces))
	assert.Nil(t, NodeSliceValue(n, GetName))
}

func TestStringSliceValueDispatchesKnownGettersAndDefaultsOtherwise(t *testing.T) {
	n := &fakeNode{extends: []string{"BaseController"}}
	assert.Equal(t, []string{"BaseController"}, StringSliceValue(n, GetExtends))
	assert.Nil(t, StringSliceValue(n, GetImplements))
	assert.Nil(t, StringSliceValue(n, GetName))
}

func TestWalkVisitsNodeAndStructuralDescendants(t *testing.T) {
	prop := &fakeNode{name: "id"}
	class := &fakeNode{name: "Orders", properties: []Node{prop}}
	root := &fakeNode{name: "orders.ts", classes: []Node{class}}

	var visited []string
	Walk(root, func(n Node) { visited = append(visited, n.GetName()) })

	assert.Equal(t, []string{"orders.ts", "Orders", "id"}, visited)
}

func TestWalkOnNilNodeIsNoop(t *testing.T) {
	var calls int
	Walk(nil, func(Node) { calls++ })
	assert.Equal(t, 0, calls)
}
