package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

func TestLoadBuildsAValidRegistry(t *testing.T) {
	reg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, reg)

	assert.Contains(t, reg.CoreNodeKinds, Class)
	assert.Contains(t, reg.CoreNodeKinds, SourceFile)
	assert.Contains(t, reg.CoreEdgeKinds, Extends)
	assert.Equal(t, []string{"**/*.routes.ts", "**/*.routes.tsx"}, reg.ParseVariablesFrom)

	names := make([]string, 0, len(reg.Frameworks))
	for _, fw := range reg.Frameworks {
		names = append(names, fw.Name)
	}
	assert.Equal(t, []string{"nestjs", "repository", "routes"}, names)
}

func TestValidateRejectsUnknownTargetCoreType(t *testing.T) {
	reg := &Registry{
		CoreNodeKinds: coreNodeKinds(),
		Frameworks: []FrameworkSchema{
			{
				Name: "bogus",
				Enhancements: []gm.FrameworkEnhancement{
					{Name: "bad", TargetCoreType: "NotARealCoreType"},
				},
			},
		},
	}
	err := reg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NotARealCoreType")
}

func TestSkeletonizeSetCoversBodiedKinds(t *testing.T) {
	assert.True(t, SkeletonizeSet[Method])
	assert.True(t, SkeletonizeSet[Function])
	assert.True(t, SkeletonizeSet[Property])
	assert.False(t, SkeletonizeSet[Class])
	assert.False(t, SkeletonizeSet[SourceFile])
}
