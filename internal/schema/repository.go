package schema

import (
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// RepositorySchema detects the generic custom-repository/DAL pattern:
// classes named *Repository that hold a DAL (data-access-layer) class, and
// a permission-manager guard relationship on controllers. This plays the
// role spec.md's undefined "fairsquare" project type leaves unspecified —
// a framework-agnostic, name-convention-driven enhancement rather than a
// decorator-driven one (see DESIGN.md "Open Question: fairsquare").
func RepositorySchema() FrameworkSchema {
	return FrameworkSchema{
		Name: "repository",
		Enhancements: []gm.FrameworkEnhancement{
			{
				Name: "custom-repository", TargetCoreType: Class, SemanticType: "Repository",
				PrimaryLabel: "Repository", Labels: []string{"Repository"}, Priority: 80,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternClassname, Literal: "Repository", Confidence: 0.8, Priority: 80},
				},
			},
			{
				Name: "data-access-layer", TargetCoreType: Class, SemanticType: "DAL",
				PrimaryLabel: "DAL", Labels: []string{"DAL"}, Priority: 80,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternClassname, Literal: "Dal", Confidence: 0.75, Priority: 80},
					{Type: gm.PatternFilename, Literal: ".dal.ts", Confidence: 0.75, Priority: 80},
				},
			},
			{
				Name: "permission-manager", TargetCoreType: Class, SemanticType: "PermissionManager",
				PrimaryLabel: "PermissionManager", Labels: []string{"PermissionManager"}, Priority: 75,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternClassname, Literal: "PermissionManager", Confidence: 0.8, Priority: 75},
				},
			},
		},
		EdgeEnhancements: []gm.EdgeEnhancement{
			usesDALEdge(),
			protectedByEdge(),
		},
	}
}

func usesDALEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "uses-dal", SemanticType: "USES_DAL", RelationshipType: "USES_DAL",
		RelationshipWeight: 0.9, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.SemanticType != "Repository" || target.SemanticType != "DAL" {
				return false
			}
			dals, _ := source.Context()["dals"].([]string)
			targetName := trimNameLiteral(target.Name())
			for _, d := range dals {
				if trimNameLiteral(d) == targetName {
					return true
				}
			}
			return false
		},
	}
}

func protectedByEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "protected-by", SemanticType: "PROTECTED_BY", RelationshipType: "PROTECTED_BY",
		RelationshipWeight: 0.9, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.SemanticType != "NestController" || target.SemanticType != "PermissionManager" {
				return false
			}
			pm, _ := source.Context()["permissionManager"].(string)
			return trimNameLiteral(pm) == trimNameLiteral(target.Name())
		},
	}
}
