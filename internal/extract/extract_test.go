package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsgraph/tsgraph/internal/ast"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

func newParsedNode(name, filePath string, src ast.Node) *gm.ParsedNode {
	return &gm.ParsedNode{
		ID:         "Class:1",
		CoreType:   "Class",
		Labels:     []string{"Class"},
		Properties: map[string]interface{}{"name": name, "filePath": filePath},
		SourceNode: src,
	}
}

func TestDecoratorCallNameStripsAtAndArguments(t *testing.T) {
	assert.Equal(t, "Controller", decoratorCallName(textNode("@Controller('orders')")))
	assert.Equal(t, "Injectable", decoratorCallName(textNode("@Injectable")))
	assert.Equal(t, "Get", decoratorCallName(textNode("@Get(':id')")))
}

func TestDecoratorArgsKeyedByDecoratorName(t *testing.T) {
	decorators := []ast.Node{
		&fakeNode{text: "@Controller('orders')", arguments: []ast.Node{textNode("'orders'")}},
		&fakeNode{text: "@Injectable"},
	}
	args := decoratorArgs(decorators)
	assert.Equal(t, []string{"'orders'"}, args["Controller"])
	assert.Nil(t, args["Injectable"])
}

func TestConstructorDependencyInfoCollectsTypesAndInjectTokens(t *testing.T) {
	param := &fakeNode{
		typeNode:   textNode("OrdersService"),
		decorators: []ast.Node{&fakeNode{text: "@Inject('ORDERS_TOKEN')", arguments: []ast.Node{textNode("'ORDERS_TOKEN'")}}},
	}
	class := &fakeNode{
		constructors: []ast.Node{&fakeNode{parameters: []ast.Node{param}}},
	}

	types, tokens := constructorDependencyInfo(class)
	require.Len(t, types, 1)
	assert.Equal(t, "OrdersService", types[0])
	assert.Equal(t, "ORDERS_TOKEN", tokens["OrdersService"])
}

func TestClassContextCapturesDecoratorsAndDependencies(t *testing.T) {
	root := &fakeNode{
		decorators: []ast.Node{&fakeNode{text: "@Controller('orders')", arguments: []ast.Node{textNode("'orders'")}}},
		methods:    []ast.Node{&fakeNode{}},
		properties: []ast.Node{
			&fakeNode{typeNode: textNode("OrdersDal")},
			&fakeNode{typeNode: textNode("PaymentsPermissionManager")},
		},
	}
	n := newParsedNode("OrdersController", "src/orders/orders.controller.ts", root)

	ctx := classContext(n, map[string]*gm.ParsedNode{n.ID: n})

	assert.Equal(t, []string{"Controller"}, ctx["decoratorNames"])
	assert.Equal(t, "'orders'", ctx["controllerPrefix"])
	assert.Equal(t, []string{"OrdersDal"}, ctx["dals"])
	assert.Equal(t, "PaymentsPermissionManager", ctx["permissionManager"])
}

func TestMethodContextDetectsPrivateNamingConventions(t *testing.T) {
	root := &fakeNode{async: true, returnType: textNode("Promise<void>"), parent: &fakeNode{name: "OrdersService"}}
	n := newParsedNode("_internalHelper", "src/orders/orders.service.ts", root)

	ctx := methodContext(n)

	assert.True(t, ctx["isAsync"].(bool))
	assert.Equal(t, "Promise<void>", ctx["returnType"])
	assert.Equal(t, "OrdersService", ctx["declaringClass"])
	assert.False(t, ctx["isPublic"].(bool))
}

func TestMethodContextTreatsUnprefixedNameAsPublic(t *testing.T) {
	root := &fakeNode{}
	n := newParsedNode("findOne", "src/orders/orders.service.ts", root)

	ctx := methodContext(n)
	assert.True(t, ctx["isPublic"].(bool))
}

func TestSourceFileContextFlagsTestAndDeclarationFiles(t *testing.T) {
	root := &fakeNode{}
	n := newParsedNode("orders.service.spec", "src/orders/orders.service.spec.ts", root)

	ctx := sourceFileContext(n)
	assert.True(t, ctx["isTestFile"].(bool))
	assert.False(t, ctx["isDeclarationFile"].(bool))
}

func TestSplitObjectLiteralsFindsEachTopLevelBrace(t *testing.T) {
	src := `[{ path: '/a', method: 'GET' }, { path: '/b', nested: { x: 1 } }]`
	literals := splitObjectLiterals(src)
	require.Len(t, literals, 2)
	assert.Equal(t, "{ path: '/a', method: 'GET' }", literals[0])
	assert.Equal(t, "{ path: '/b', nested: { x: 1 } }", literals[1])
}

func TestRunSkipsStubNodesWithoutSourceNode(t *testing.T) {
	stub := &gm.ParsedNode{ID: "Class:stub", CoreType: "Class", Properties: map[string]interface{}{"name": "Stub"}}
	nodes := map[string]*gm.ParsedNode{stub.ID: stub}

	Run(nodes, map[string]interface{}{})

	assert.Nil(t, stub.Properties["context"])
}
