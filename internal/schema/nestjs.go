package schema

import (
	"strings"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
)

func hasDecorator(n *gm.ParsedNode, name string) bool {
	names, _ := n.Context()["decoratorNames"].([]string)
	for _, d := range names {
		if d == name {
			return true
		}
	}
	return false
}

// NestJSSchema detects the NestJS-style decorator/DI/HTTP surface:
// controllers, HTTP endpoints, injectable services, and constructor
// dependency injection (plain or token-based), matching S1-S3 of §8.
func NestJSSchema() FrameworkSchema {
	return FrameworkSchema{
		Name: "nestjs",
		Enhancements: []gm.FrameworkEnhancement{
			{
				Name: "nest-controller", TargetCoreType: Class, SemanticType: "NestController",
				PrimaryLabel: "Controller", Labels: []string{"Controller"}, Priority: 100,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternDecorator, Literal: "Controller", Confidence: 1.0, Priority: 100},
				},
			},
			{
				Name: "nest-injectable", TargetCoreType: Class, SemanticType: "NestService",
				PrimaryLabel: "Service", Labels: []string{"Service"}, Priority: 90,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternDecorator, Literal: "Injectable", Confidence: 1.0, Priority: 90},
				},
			},
			{
				Name: "nest-http-endpoint", TargetCoreType: Method, SemanticType: "HttpEndpoint",
				PrimaryLabel: "HttpEndpoint", Labels: []string{"HttpEndpoint"}, Priority: 100,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternDecorator, Literal: "Get", Confidence: 1.0, Priority: 100},
					{Type: gm.PatternDecorator, Literal: "Post", Confidence: 1.0, Priority: 100},
					{Type: gm.PatternDecorator, Literal: "Put", Confidence: 1.0, Priority: 100},
					{Type: gm.PatternDecorator, Literal: "Delete", Confidence: 1.0, Priority: 100},
					{Type: gm.PatternDecorator, Literal: "Patch", Confidence: 1.0, Priority: 100},
				},
				ContextExtractors: []gm.ContextExtractor{httpEndpointContext()},
			},
			{
				Name: "nest-message-handler", TargetCoreType: Method, SemanticType: "MessageHandler",
				PrimaryLabel: "MessageHandler", Labels: []string{"MessageHandler"}, Priority: 95,
				DetectionPatterns: []gm.DetectionPattern{
					{Type: gm.PatternDecorator, Literal: "MessagePattern", Confidence: 1.0, Priority: 95},
					{Type: gm.PatternDecorator, Literal: "EventPattern", Confidence: 1.0, Priority: 95},
				},
			},
		},
		EdgeEnhancements: []gm.EdgeEnhancement{
			injectsEdge(),
			exposesHTTPEdge(),
			exposesRPCEdge(),
		},
	}
}

func httpEndpointContext() gm.ContextExtractor {
	return gm.ContextExtractor{
		NodeType: Method, SemanticType: "HttpEndpoint",
		Extract: func(node *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) map[string]interface{} {
			httpMethod := ""
			path := ""
			decNames, _ := node.Context()["decoratorArgs"].(map[string][]string)
			for _, m := range []string{"Get", "Post", "Put", "Delete", "Patch"} {
				if args, ok := decNames[m]; ok {
					httpMethod = strings.ToUpper(m)
					if len(args) > 0 {
						path = trimNameLiteral(args[0])
					}
					break
				}
			}
			return map[string]interface{}{"httpMethod": httpMethod, "routePath": path}
		},
	}
}

// trimNameLiteral strips quotes and surrounding whitespace so name-based
// predicates compare identically regardless of quote style (§8 invariant 8).
func trimNameLiteral(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'`")
}

func injectsEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "injects", SemanticType: "INJECTS", RelationshipType: "INJECTS",
		RelationshipWeight: 0.9, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			if source.CoreType != Class || target.CoreType != Class {
				return false
			}
			targetName := trimNameLiteral(target.Name())
			paramTypes, _ := source.Context()["constructorParamTypes"].([]string)
			for _, t := range paramTypes {
				if trimNameLiteral(t) == targetName {
					return true
				}
			}
			tokens, _ := source.Context()["injectTokens"].(map[string]string)
			for _, tok := range tokens {
				if trimNameLiteral(tok) == targetName {
					return true
				}
			}
			return false
		},
		ExtractContext: func(source, target *gm.ParsedNode, shared map[string]interface{}) map[string]interface{} {
			paramTypes, _ := source.Context()["constructorParamTypes"].([]string)
			idx := -1
			targetName := trimNameLiteral(target.Name())
			for i, t := range paramTypes {
				if trimNameLiteral(t) == targetName {
					idx = i
					break
				}
			}
			var token interface{}
			tokens, _ := source.Context()["injectTokens"].(map[string]string)
			for typeName, tok := range tokens {
				if trimNameLiteral(typeName) == targetName {
					token = tok
					break
				}
			}
			return map[string]interface{}{"injectionType": "constructor", "parameterIndex": idx, "injectionToken": token}
		},
	}
}

func exposesHTTPEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "exposes-http", SemanticType: "EXPOSES", RelationshipType: "EXPOSES",
		RelationshipWeight: 1.0, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			return source.SemanticType == "NestController" && target.SemanticType == "HttpEndpoint" &&
				source.FilePath() == target.FilePath()
		},
		ExtractContext: func(source, target *gm.ParsedNode, shared map[string]interface{}) map[string]interface{} {
			base, _ := source.Context()["controllerPrefix"].(string)
			route, _ := target.Context()["routePath"].(string)
			return map[string]interface{}{
				"fullPath":   joinRoutePath(base, route),
				"httpMethod": target.Context()["httpMethod"],
			}
		},
	}
}

func exposesRPCEdge() gm.EdgeEnhancement {
	return gm.EdgeEnhancement{
		Name: "exposes-rpc", SemanticType: "EXPOSES", RelationshipType: "EXPOSES",
		RelationshipWeight: 1.0, Direction: gm.DirectionOut,
		Detect: func(source, target *gm.ParsedNode, all map[string]*gm.ParsedNode, shared map[string]interface{}) bool {
			return source.SemanticType == "NestController" && target.SemanticType == "MessageHandler" &&
				source.FilePath() == target.FilePath()
		},
	}
}

func joinRoutePath(base, route string) string {
	base = strings.Trim(trimNameLiteral(base), "/")
	route = strings.Trim(trimNameLiteral(route), "/")
	switch {
	case base == "" && route == "":
		return "/"
	case base == "":
		return "/" + route
	case route == "":
		return "/" + base
	default:
		return "/" + base + "/" + route
	}
}
