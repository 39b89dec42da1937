package schema

import (
	"strings"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

// Route is one entry of a route-definition array, extracted into a route
// node's context.routes[] by the routes extractor (§4.5, §8 S4).
type Route struct {
	Method        string
	Path          string
	Handler       string
	Controller    string
	Authenticated bool
}

// RoutesSchema detects the route-definition-array pattern: an exported
// top-level variable (collected via metadata.parseVariablesFrom) holding
// an array of route literals, routed to a controller class and method.
func RoutesSchema() FrameworkSchema {
	return FrameworkSchema{
		Name: "routes",
		Enhancements: []gm.FrameworkEnhancement{
			{
				Name: "route-definition", TargetCoreType: Variable, SemanticType: "RouteDefinition",
				PrimaryLabel: "RouteDefinition", Labels: []string{"RouteDefinition"}, Priority: 85,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternFilename, Literal: ".routes.ts", Confidence: 0.9, Priority: 85},
					{Type: gm.PatternFilename, Literal: ".routes.tsx", Confidence: 0.9, Priority: 85},
				},
			},
		},
		EdgeEnhancements: []gm.EdgeEnhancement{
			routesToEdge(),
			routesToHandlerEdge(),
			internalAPICallEdge(),
		},
	}
}

func routesToEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "routes-to", SemanticType: "ROUTES_TO", RelationshipType: "ROUTES_TO",
		RelationshipWeight: 0.85, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.SemanticType != "RouteDefinition" || target.CoreType != Class {
				return false
			}
			routes, _ := source.Context()["routes"].([]Route)
			targetName := trimNameLiteral(target.Name())
			for _, r := range routes {
				if trimNameLiteral(r.Controller) == targetName {
					return true
				}
			}
			return false
		},
	}
}

func routesToHandlerEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "routes-to-handler", SemanticType: "ROUTES_TO_HANDLER", RelationshipType: "ROUTES_TO_HANDLER",
		RelationshipWeight: 0.85, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.SemanticType != "RouteDefinition" || target.CoreType != Method {
				return false
			}
			decClass, _ := target.Context()["declaringClass"].(string)
			routes, _ := source.Context()["routes"].([]Route)
			targetName := trimNameLiteral(target.Name())
			for _, r := range routes {
				if trimNameLiteral(r.Handler) == targetName && trimNameLiteral(r.Controller) == trimNameLiteral(decClass) {
					// target method gains HttpEndpoint label iff visibility is public (§8 S4).
					isPublic, _ := target.Context()["isPublic"].(bool)
					if isPublic {
						addLabelIfAbsent(target, "HttpEndpoint")
					}
					return true
				}
			}
			return false
		},
	}
}

func addLabelIfAbsent(n *gm.ParsedNode, label string) {
	for _, l := range n.Labels {
		if l == label {
			return
		}
	}
	n.Labels = append(n.Labels, label)
}

// internalAPICallEdge grounds §4.7's INTERNAL_API_CALL contract: a service
// declares a property whose type (context.clientTypes) matches
// "${VendorName}Client", resolved against the shared vendorControllers index.
// Properties initialized with a new-expression are not inspected.
func internalAPICallEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "internal-api-call", SemanticType: "INTERNAL_API_CALL", RelationshipType: "INTERNAL_API_CALL",
		RelationshipWeight: 0.8, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.SemanticType != "NestService" || target.SemanticType != "NestController" {
				return false
			}
			vendorControllers, _ := shared["vendorControllers"].(map[string]string) // vendorName -> controllerNodeID
			clientTypes, _ := source.Context()["clientTypes"].([]string)
			for vendorName, controllerID := range vendorControllers {
				if controllerID != target.ID {
					continue
				}
				want := vendorName + "Client"
				for _, ct := range clientTypes {
					if trimNameLiteral(ct) == want {
						return true
					}
				}
			}
			return false
		},
	}
}

// ParseRoutesLiteral is a best-effort parser for a route-definition
// array's object literals, used by the routes extractor (internal/extract)
// to populate context.routes[] from source text when the AST doesn't
// expose a structured array-literal walk. Kept here since it is schema
// knowledge (what a "route" shape means), not generic AST traversal.
func ParseRoutesLiteral(objectLiteralText string) Route {
	get := func(key string) string {
		idx := strings.Index(objectLiteralText, key+":")
		if idx < 0 {
			return ""
		}
		rest := objectLiteralText[idx+len(key)+1:]
		rest = strings.TrimLeft(rest, " \t")
		end := strings.IndexAny(rest, ",}")
		if end < 0 {
			end = len(rest)
		}
		return trimNameLiteral(rest[:end])
	}
	return Route{
		Method:        strings.ToUpper(get("method")),
		Path:          get("path"),
		Handler:       get("handler"),
		Controller:    get("controller"),
		Authenticated: get("authenticated") == "true",
	}
}
