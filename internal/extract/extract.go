// Package extract implements the Context Extractors phase (C5): pluggable
// functions that enrich nodes with schema-dependent attributes, merged
// into node.properties.context. Extractors run before the AST is dropped
// (§9 "Live AST vs. post-commit context") so later phases (enhancer,
// edges) can run on context alone, including against stub targets.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/tsgraph/tsgraph/internal/ast"
	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/schema"
)

// Run applies every global and framework-agnostic extractor to every node
// in nodes, merging results into each node's context. shared is the
// write-once-during-traversal, read-only-during-edge-detection map (§9).
func Run(nodes map[string]*gm.ParsedNode, shared map[string]interface{}) {
	for _, n := range nodes {
		if n.SourceNode == nil {
			continue // stub; extractors are AST-tolerant-of-absence and simply skip
		}
		switch n.CoreType {
		case schema.SourceFile:
			n.MergeContext(sourceFileContext(n))
		case schema.Class:
			n.MergeContext(classContext(n, nodes))
		case schema.Method, schema.Function:
			n.MergeContext(methodContext(n))
		case schema.Variable:
			n.MergeContext(variableContext(n))
		}
	}
}

func sourceFileContext(n *gm.ParsedNode) map[string]interface{} {
	path := n.FilePath()
	ext := filepath.Ext(path)
	root := n.SourceNode

	imports := root.GetImportDeclarations()
	exports := root.GetExportDeclarations()
	decls := len(root.GetClasses()) + len(root.GetInterfaces()) + len(root.GetEnums()) + len(root.GetFunctions())

	return map[string]interface{}{
		"extension":          ext,
		"relativePath":       path,
		"isTestFile":         strings.Contains(path, ".test.") || strings.Contains(path, ".spec.") || strings.Contains(path, "__tests__"),
		"isDeclarationFile":  strings.HasSuffix(path, ".d.ts"),
		"importCount":        len(imports),
		"exportCount":        len(exports),
		"declarationCount":   decls,
	}
}

func decoratorNames(decorators []ast.Node) []string {
	names := make([]string, 0, len(decorators))
	for _, d := range decorators {
		name := decoratorCallName(d)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// decoratorCallName extracts the identifier of a decorator, stripping the
// leading "@" and any call arguments (e.g. "@Controller('orders')" -> "Controller").
func decoratorCallName(d ast.Node) string {
	text := strings.TrimPrefix(strings.TrimSpace(d.GetText()), "@")
	if idx := strings.IndexAny(text, "(. "); idx >= 0 {
		text = text[:idx]
	}
	return text
}

func decoratorArgs(decorators []ast.Node) map[string][]string {
	out := make(map[string][]string, len(decorators))
	for _, d := range decorators {
		name := decoratorCallName(d)
		if name == "" {
			continue
		}
		var args []string
		for _, a := range d.GetArguments() {
			args = append(args, a.GetText())
		}
		out[name] = args
	}
	return out
}

func classContext(n *gm.ParsedNode, all map[string]*gm.ParsedNode) map[string]interface{} {
	root := n.SourceNode
	decorators := root.GetDecorators()
	ctx := map[string]interface{}{
		"isAbstract":       root.IsAbstract(),
		"isDefaultExport":  root.IsDefaultExport(),
		"decoratorNames":   decoratorNames(decorators),
		"decoratorArgs":    decoratorArgs(decorators),
		"methodCount":      len(root.GetMethods()),
		"propertyCount":    len(root.GetProperties()),
	}

	ctorTypes, injectTokens := constructorDependencyInfo(root)
	ctx["constructorParamTypes"] = ctorTypes
	ctx["injectTokens"] = injectTokens

	for _, da := range decoratorArgs(decorators) {
		if len(da) > 0 {
			ctx["controllerPrefix"] = da[0]
			break
		}
	}

	ctx["dals"] = findPropertyTypeNames(root, "Dal")
	ctx["clientTypes"] = findPropertyTypeNames(root, "Client")
	if pm := findPermissionManagerProperty(root); pm != "" {
		ctx["permissionManager"] = pm
	}
	return ctx
}

// constructorDependencyInfo walks the class's constructor parameters,
// collecting ordered type-name strings and any @Inject(token) mapping, so
// DI edges (INJECTS) can be detected later from context alone (§4.5).
func constructorDependencyInfo(classNode ast.Node) ([]string, map[string]string) {
	var types []string
	tokens := make(map[string]string)
	for _, ctor := range classNode.GetConstructors() {
		for _, p := range ctor.GetParameters() {
			typeName := ""
			if t := p.GetTypeNode(); t != nil {
				typeName = strings.TrimSpace(t.GetText())
			}
			if typeName == "" {
				continue
			}
			types = append(types, typeName)
			for _, d := range p.GetDecorators() {
				if decoratorCallName(d) == "Inject" {
					if args := d.GetArguments(); len(args) > 0 {
						tokens[typeName] = strings.Trim(args[0].GetText(), "\"'`")
					}
				}
			}
		}
	}
	return types, tokens
}

func findPropertyTypeNames(classNode ast.Node, suffix string) []string {
	var out []string
	for _, p := range classNode.GetProperties() {
		if t := p.GetTypeNode(); t != nil {
			name := strings.TrimSpace(t.GetText())
			if strings.HasSuffix(name, suffix) {
				out = append(out, name)
			}
		}
	}
	return out
}

func findPermissionManagerProperty(classNode ast.Node) string {
	for _, p := range classNode.GetProperties() {
		if t := p.GetTypeNode(); t != nil {
			name := strings.TrimSpace(t.GetText())
			if strings.HasSuffix(name, "PermissionManager") {
				return name
			}
		}
	}
	return ""
}

func methodContext(n *gm.ParsedNode) map[string]interface{} {
	root := n.SourceNode
	returnType := ""
	if t := root.GetReturnTypeNode(); t != nil {
		returnType = strings.TrimSpace(t.GetText())
	}
	declaringClass := ""
	if parent := root.GetParent(); parent != nil {
		declaringClass = parent.GetName()
	}
	return map[string]interface{}{
		"isAsync":        root.IsAsync(),
		"isStatic":       root.IsStatic(),
		"returnType":     returnType,
		"decoratorNames": decoratorNames(root.GetDecorators()),
		"decoratorArgs":  decoratorArgs(root.GetDecorators()),
		"declaringClass": declaringClass,
		"isPublic":       !strings.HasPrefix(n.Name(), "_") && !strings.HasPrefix(n.Name(), "#"),
	}
}

func variableContext(n *gm.ParsedNode) map[string]interface{} {
	if !strings.Contains(n.FilePath(), ".routes.") {
		return nil
	}
	var routes []schema.Route
	text := n.SourceNode.GetText()
	for _, lit := range splitObjectLiterals(text) {
		routes = append(routes, schema.ParseRoutesLiteral(lit))
	}
	return map[string]interface{}{"routes": routes}
}

// splitObjectLiterals extracts each top-level `{ ... }` object literal from
// a route-array source text. A small brace-depth scanner suffices here: the
// routes extractor only needs the literal's own text, not a full AST.
func splitObjectLiterals(src string) []string {
	var out []string
	depth := 0
	start := -1
	for i, c := range src {
		switch c {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, src[start:i+1])
				start = -1
			}
		}
	}
	return out
}
