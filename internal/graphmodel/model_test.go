package graphmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextCreatesMapOnFirstAccess(t *testing.T) {
	n := &ParsedNode{Properties: map[string]interface{}{}}
	ctx := n.Context()
	assert.NotNil(t, ctx)

	ctx["probe"] = true
	assert.Equal(t, true, n.Context()["probe"])
}

func TestMergeContextAddsWithoutReplacingExistingKeys(t *testing.T) {
	n := &ParsedNode{Properties: map[string]interface{}{
		"context": map[string]interface{}{"isAsync": true},
	}}
	n.MergeContext(map[string]interface{}{"returnType": "void"})

	assert.Equal(t, true, n.Context()["isAsync"])
	assert.Equal(t, "void", n.Context()["returnType"])
}

func TestNameAndFilePathReadFromProperties(t *testing.T) {
	n := &ParsedNode{Properties: map[string]interface{}{"name": "OrdersService", "filePath": "src/orders.service.ts"}}
	assert.Equal(t, "OrdersService", n.Name())
	assert.Equal(t, "src/orders.service.ts", n.FilePath())
}

func TestNameReturnsEmptyStringWhenAbsent(t *testing.T) {
	n := &ParsedNode{Properties: map[string]interface{}{}}
	assert.Equal(t, "", n.Name())
}

func TestPrimaryLabelReturnsFirstLabelOrEmpty(t *testing.T) {
	assert.Equal(t, "Class", (&ParsedNode{Labels: []string{"Class", "Controller"}}).PrimaryLabel())
	assert.Equal(t, "", (&ParsedNode{}).PrimaryLabel())
}
