package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/schema"
)

func newNode(id, coreType, name string) *gm.ParsedNode {
	return &gm.ParsedNode{
		ID:       id,
		CoreType: coreType,
		Properties: map[string]interface{}{
			"name": name, "filePath": "src/users.controller.ts",
		},
	}
}

func TestRunPromotesControllerByDecorator(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	n := newNode("Class:1", schema.Class, "UsersController")
	n.MergeContext(map[string]interface{}{"decoratorNames": []string{"Controller"}})

	Run(reg, map[string]*gm.ParsedNode{n.ID: n}, nil)

	assert.Equal(t, "NestController", n.SemanticType)
	assert.Equal(t, "Controller", n.PrimaryLabel())
}

func TestRunNeverOverwritesAnExistingSemanticType(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	n := newNode("Class:1", schema.Class, "UsersController")
	n.SemanticType = "AlreadyTyped"
	n.MergeContext(map[string]interface{}{"decoratorNames": []string{"Controller"}})

	Run(reg, map[string]*gm.ParsedNode{n.ID: n}, nil)

	assert.Equal(t, "AlreadyTyped", n.SemanticType)
}

func TestRunHighestPriorityWinsOnMultipleMatches(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	// A method decorated with both @Get and @MessagePattern should resolve
	// to HttpEndpoint (priority 100) over MessageHandler (priority 95).
	n := newNode("Method:1", schema.Method, "findAll")
	n.MergeContext(map[string]interface{}{
		"decoratorNames": []string{"Get", "MessagePattern"},
		"decoratorArgs":  map[string][]string{"Get": {"'/users'"}},
	})

	Run(reg, map[string]*gm.ParsedNode{n.ID: n}, nil)

	assert.Equal(t, "HttpEndpoint", n.SemanticType)
}

func TestRunLeavesNonMatchingNodesUntyped(t *testing.T) {
	reg, err := schema.Load()
	require.NoError(t, err)

	n := newNode("Class:1", schema.Class, "PlainUtil")
	Run(reg, map[string]*gm.ParsedNode{n.ID: n}, nil)

	assert.Empty(t, n.SemanticType)
}
