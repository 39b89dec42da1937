package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeIDIsDeterministic(t *testing.T) {
	a := NodeID("Class", "src/app.ts", "AppController", "")
	b := NodeID("Class", "src/app.ts", "AppController", "")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "Class:"))
}

func TestNodeIDDiffersByParent(t *testing.T) {
	a := NodeID("Method", "src/app.ts", "handle", "Class:aaaa111122223333")
	b := NodeID("Method", "src/app.ts", "handle", "Class:bbbb111122223333")
	assert.NotEqual(t, a, b)
}

func TestNodeIDDiffersByAnyComponent(t *testing.T) {
	base := NodeID("Class", "src/app.ts", "AppController", "")
	assert.NotEqual(t, base, NodeID("Interface", "src/app.ts", "AppController", ""))
	assert.NotEqual(t, base, NodeID("Class", "src/other.ts", "AppController", ""))
	assert.NotEqual(t, base, NodeID("Class", "src/app.ts", "OtherController", ""))
}

func TestEdgeIDIsDeterministic(t *testing.T) {
	a := EdgeID("INJECTS", "Class:1111111111111111", "Class:2222222222222222")
	b := EdgeID("INJECTS", "Class:1111111111111111", "Class:2222222222222222")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "INJECTS:"))
}

func TestEdgeIDDiffersByDirection(t *testing.T) {
	forward := EdgeID("INJECTS", "Class:1111111111111111", "Class:2222222222222222")
	reverse := EdgeID("INJECTS", "Class:2222222222222222", "Class:1111111111111111")
	assert.NotEqual(t, forward, reverse)
}

func TestContentHashStableAndSensitive(t *testing.T) {
	h1 := ContentHash([]byte("export class Foo {}"))
	h2 := ContentHash([]byte("export class Foo {}"))
	h3 := ContentHash([]byte("export class Bar {}"))
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 32)
}
