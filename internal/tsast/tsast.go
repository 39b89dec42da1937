// Package tsast implements the internal/ast.Node contract on top of
// tree-sitter, using the TypeScript and JavaScript grammars. It is the
// concrete, swappable realization of SPEC_FULL.md §6's external AST
// provider, grounded on the teacher's internal/treesitter package
// (parser.go, helpers.go, typescript_extractor.go): same parser wiring,
// same node-kind switch, same StartByte/EndByte text extraction — wired
// to the ast.Node interface instead of a flat CodeEntity slice.
package tsast

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/tsgraph/tsgraph/internal/ast"
)

// Language identifies which tree-sitter grammar parsed a file.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangJSX        Language = "jsx"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
)

var extToLang = map[string]Language{
	".js":  LangJavaScript,
	".jsx": LangJSX,
	".mjs": LangJavaScript,
	".cjs": LangJavaScript,
	".ts":  LangTypeScript,
	".tsx": LangTSX,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
}

// DetectLanguage returns the grammar to use for filePath's extension, or "" if unsupported.
func DetectLanguage(filePath string) Language {
	return extToLang[filepath.Ext(filePath)]
}

// Parser wraps a tree-sitter parser bound to one grammar. Close releases
// the underlying CGO resources and must always be called.
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
	lang     Language
}

// NewParser creates a parser for lang. Supported: javascript, jsx, typescript, tsx.
func NewParser(lang Language) (*Parser, error) {
	p := sitter.NewParser()
	if p == nil {
		return nil, fmt.Errorf("tsast: failed to create tree-sitter parser")
	}

	var language *sitter.Language
	switch lang {
	case LangJavaScript, LangJSX:
		language = sitter.NewLanguage(tree_sitter_javascript.Language())
	case LangTypeScript:
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case LangTSX:
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	default:
		p.Close()
		return nil, fmt.Errorf("tsast: unsupported language %q", lang)
	}

	if err := p.SetLanguage(language); err != nil {
		p.Close()
		return nil, fmt.Errorf("tsast: set language %s: %w", lang, err)
	}
	return &Parser{parser: p, language: language, lang: lang}, nil
}

// Close releases the parser's CGO resources.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParseFile reads filePath, parses it, and returns the root ast.Node
// (a sourceFile node). The returned tree must be released via Close on
// the returned *FileNode once the caller is finished with the AST
// (i.e. at or before commit, per §3's Lifecycle).
func ParseFile(filePath string) (*FileNode, error) {
	lang := DetectLanguage(filePath)
	if lang == "" {
		return nil, fmt.Errorf("tsast: unsupported file type: %s", filePath)
	}
	code, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("tsast: read %s: %w", filePath, err)
	}

	p, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	tree := p.parser.Parse(code, nil)
	if tree == nil {
		return nil, fmt.Errorf("tsast: parse failed for %s", filePath)
	}

	return &FileNode{
		tree:     tree,
		root:     tree.RootNode(),
		code:     code,
		filePath: filePath,
		lang:     lang,
	}, nil
}

// FileNode is the top-level node for one parsed source file. It owns the
// tree-sitter tree and must be closed when the pipeline no longer needs
// live AST access (after C5 context extraction, before commit).
type FileNode struct {
	tree     *sitter.Tree
	root     *sitter.Node
	code     []byte
	filePath string
	lang     Language
}

// Close releases the underlying tree-sitter tree.
func (f *FileNode) Close() {
	if f.tree != nil {
		f.tree.Close()
	}
}

// Root returns the file's root AST node, wrapped as ast.Node.
func (f *FileNode) Root() ast.Node {
	return &node{raw: f.root, code: f.code, filePath: f.filePath, self: nil}
}

// node adapts a single *sitter.Node to ast.Node. self points back to the
// wrapping value so GetParent/child constructors can share code/filePath.
type node struct {
	raw      *sitter.Node
	code     []byte
	filePath string
	parent   *node
	self     *node
}

func wrap(raw *sitter.Node, parent *node) *node {
	if raw == nil {
		return nil
	}
	return &node{raw: raw, code: parent.code, filePath: parent.filePath, parent: parent}
}

func wrapAll(raws []*sitter.Node, parent *node) []ast.Node {
	out := make([]ast.Node, 0, len(raws))
	for _, r := range raws {
		if r != nil {
			out = append(out, wrap(r, parent))
		}
	}
	return out
}

func text(n *sitter.Node, code []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(code) {
		end = uint(len(code))
	}
	return string(code[start:end])
}

// childrenByKind recursively collects descendants of n whose Kind matches
// any of kinds, not descending past a stopAt boundary kind (e.g. don't
// collect methods from a nested class). Mirrors the teacher's walk-switch
// in typescript_extractor.go, generalized to search by field.
func childrenByKind(n *sitter.Node, kinds []string, stopAt map[string]bool) []*sitter.Node {
	var out []*sitter.Node
	var walk func(*sitter.Node, bool)
	walk = func(cur *sitter.Node, isRoot bool) {
		if cur == nil {
			return
		}
		k := cur.Kind()
		for _, want := range kinds {
			if k == want {
				out = append(out, cur)
				break
			}
		}
		if !isRoot && stopAt[k] {
			return
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i), false)
		}
	}
	walk(n, true)
	return out
}

var containerStops = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"function_declaration":  true,
	"method_definition":     true,
	"arrow_function":        true,
}

func (n *node) GetName() string {
	if name := n.raw.ChildByFieldName("name"); name != nil {
		return text(name, n.code)
	}
	// variable_declarator / assignment targets for anonymous function expressions
	if p := n.raw.Parent(); p != nil {
		switch p.Kind() {
		case "variable_declarator":
			if id := p.ChildByFieldName("name"); id != nil {
				return text(id, n.code)
			}
		case "assignment_expression":
			if left := p.ChildByFieldName("left"); left != nil {
				return text(left, n.code)
			}
		}
	}
	return ""
}

func (n *node) GetFilePath() string { return n.filePath }
func (n *node) GetBaseName() string { return filepath.Base(n.filePath) }
func (n *node) GetKind() string     { return n.raw.Kind() }

func (n *node) GetStartLineNumber() int { return int(n.raw.StartPosition().Row) + 1 }
func (n *node) GetEndLineNumber() int   { return int(n.raw.EndPosition().Row) + 1 }
func (n *node) GetText() string         { return text(n.raw, n.code) }

func (n *node) GetClasses() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"class_declaration"}, containerStops), n)
}
func (n *node) GetInterfaces() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"interface_declaration"}, containerStops), n)
}
func (n *node) GetEnums() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"enum_declaration"}, containerStops), n)
}
func (n *node) GetFunctions() []ast.Node {
	raws := childrenByKind(n.raw, []string{"function_declaration", "arrow_function", "function_expression"}, containerStops)
	return wrapAll(raws, n)
}
func (n *node) GetMethods() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"method_definition", "method_signature"}, containerStops), n)
}
func (n *node) GetProperties() []ast.Node {
	raws := childrenByKind(n.raw, []string{"public_field_definition", "property_signature"}, containerStops)
	return wrapAll(raws, n)
}
func (n *node) GetParameters() []ast.Node {
	paramsNode := n.raw.ChildByFieldName("parameters")
	if paramsNode == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < paramsNode.ChildCount(); i++ {
		c := paramsNode.Child(i)
		switch c.Kind() {
		case "required_parameter", "optional_parameter", "rest_pattern", "identifier":
			out = append(out, c)
		}
	}
	return wrapAll(out, n)
}
func (n *node) GetConstructors() []ast.Node {
	var out []*sitter.Node
	for _, m := range childrenByKind(n.raw, []string{"method_definition"}, containerStops) {
		if name := m.ChildByFieldName("name"); name != nil && text(name, n.code) == "constructor" {
			out = append(out, m)
		}
	}
	return wrapAll(out, n)
}
func (n *node) GetDecorators() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"decorator"}, map[string]bool{}), n)
}
func (n *node) GetImportDeclarations() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"import_statement"}, containerStops), n)
}
func (n *node) GetExportDeclarations() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"export_statement"}, containerStops), n)
}
func (n *node) GetVariableStatements() []ast.Node {
	return wrapAll(childrenByKind(n.raw, []string{"lexical_declaration", "variable_declaration"}, containerStops), n)
}

func (n *node) GetBaseClass() ast.Node {
	heritage := n.raw.ChildByFieldName("heritage")
	if heritage == nil {
		for i := uint(0); i < n.raw.ChildCount(); i++ {
			if n.raw.Child(i).Kind() == "class_heritage" {
				heritage = n.raw.Child(i)
				break
			}
		}
	}
	if heritage == nil {
		return nil
	}
	for i := uint(0); i < heritage.ChildCount(); i++ {
		c := heritage.Child(i)
		if c.Kind() == "extends_clause" {
			if id := c.Child(1); id != nil {
				return wrap(id, n)
			}
		}
	}
	return nil
}

func (n *node) GetExtends() []string {
	var out []string
	if base := n.GetBaseClass(); base != nil {
		out = append(out, base.GetText())
	}
	return out
}

func (n *node) GetImplements() []string {
	heritage := n.raw.ChildByFieldName("heritage")
	if heritage == nil {
		for i := uint(0); i < n.raw.ChildCount(); i++ {
			if n.raw.Child(i).Kind() == "class_heritage" {
				heritage = n.raw.Child(i)
				break
			}
		}
	}
	if heritage == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < heritage.ChildCount(); i++ {
		c := heritage.Child(i)
		if c.Kind() == "implements_clause" {
			for j := uint(0); j < c.ChildCount(); j++ {
				t := c.Child(j)
				if t.Kind() == "type_identifier" {
					out = append(out, text(t, n.code))
				}
			}
		}
	}
	return out
}

func (n *node) GetTypeNode() ast.Node {
	if t := n.raw.ChildByFieldName("type"); t != nil {
		return wrap(t, n)
	}
	return nil
}

func (n *node) GetReturnTypeNode() ast.Node {
	if t := n.raw.ChildByFieldName("return_type"); t != nil {
		return wrap(t, n)
	}
	return nil
}

func (n *node) GetDefaultImport() string {
	clause := n.raw.ChildByFieldName("import_clause") // may be absent in older grammars; fall back to scan
	if clause == nil {
		for i := uint(0); i < n.raw.ChildCount(); i++ {
			if n.raw.Child(i).Kind() == "import_clause" {
				clause = n.raw.Child(i)
				break
			}
		}
	}
	if clause == nil {
		return ""
	}
	for i := uint(0); i < clause.ChildCount(); i++ {
		c := clause.Child(i)
		if c.Kind() == "identifier" {
			return text(c, n.code)
		}
	}
	return ""
}

func (n *node) GetNamespaceImport() string {
	for i := uint(0); i < n.raw.ChildCount(); i++ {
		if n.raw.Child(i).Kind() == "namespace_import" {
			return text(n.raw.Child(i), n.code)
		}
	}
	return ""
}

func (n *node) GetNamedImports() []string {
	var out []string
	var walk func(*sitter.Node)
	walk = func(cur *sitter.Node) {
		if cur == nil {
			return
		}
		if cur.Kind() == "import_specifier" {
			if name := cur.ChildByFieldName("name"); name != nil {
				out = append(out, text(name, n.code))
			}
		}
		for i := uint(0); i < cur.ChildCount(); i++ {
			walk(cur.Child(i))
		}
	}
	walk(n.raw)
	return out
}

func (n *node) GetModuleSpecifierValue() string {
	src := n.raw.ChildByFieldName("source")
	if src == nil {
		return ""
	}
	return strings.Trim(text(src, n.code), "\"'`")
}

func (n *node) GetArguments() []ast.Node {
	argsNode := n.raw.ChildByFieldName("arguments")
	if argsNode == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < argsNode.ChildCount(); i++ {
		c := argsNode.Child(i)
		if c.Kind() != "," && c.Kind() != "(" && c.Kind() != ")" {
			out = append(out, c)
		}
	}
	return wrapAll(out, n)
}

func hasModifier(n *sitter.Node, code []byte, kind string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == kind {
			return true
		}
	}
	return false
}

func (n *node) IsExported() bool {
	if n.parent != nil && n.parent.raw.Kind() == "export_statement" {
		return true
	}
	if p := n.raw.Parent(); p != nil && p.Kind() == "export_statement" {
		return true
	}
	return hasModifier(n.raw, n.code, "export")
}

func (n *node) IsDefaultExport() bool {
	if n.parent == nil || n.parent.raw.Kind() != "export_statement" {
		return false
	}
	for i := uint(0); i < n.parent.raw.ChildCount(); i++ {
		if n.parent.raw.Child(i).Kind() == "default" {
			return true
		}
	}
	return false
}

func (n *node) IsStatic() bool    { return hasModifier(n.raw, n.code, "static") }
func (n *node) IsAsync() bool     { return hasModifier(n.raw, n.code, "async") }
func (n *node) IsAbstract() bool  { return hasModifier(n.raw, n.code, "abstract") }
func (n *node) IsReadonly() bool  { return hasModifier(n.raw, n.code, "readonly") }

func (n *node) HasInitializer() bool {
	return n.raw.ChildByFieldName("value") != nil
}

func (n *node) HasQuestionToken() bool {
	return hasModifier(n.raw, n.code, "?")
}

func (n *node) IsRestParameter() bool {
	return n.raw.Kind() == "rest_pattern"
}

func (n *node) IsTypeOnly() bool {
	return hasModifier(n.raw, n.code, "type")
}

func (n *node) GetParent() ast.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) GetChildIndex() int {
	if n.parent == nil {
		return 0
	}
	for i := uint(0); i < n.parent.raw.ChildCount(); i++ {
		if n.parent.raw.Child(i) == n.raw {
			return int(i)
		}
	}
	return 0
}

func (n *node) GetSourceFile() ast.Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}
