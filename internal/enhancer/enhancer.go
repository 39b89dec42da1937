// Package enhancer implements the Semantic Enhancer (C6): for every parsed
// node, matches framework enhancements by descending priority and, on the
// first match, promotes the node to a semantic type (§4.6).
package enhancer

import (
	"regexp"
	"strings"

	gm "github.com/tsgraph/tsgraph/internal/graphmodel"
	"github.com/tsgraph/tsgraph/internal/schema"
)

// Run applies every framework enhancement to every node in nodes. Frameworks
// are visited in registration order (Registry.Frameworks); within one node's
// candidate set, enhancements are stable-sorted by priority so ties break by
// schema insertion order (§4.6 "Conflicts").
func Run(reg *schema.Registry, nodes map[string]*gm.ParsedNode, imports map[string][]string) {
	for _, n := range nodes {
		if n.SemanticType != "" {
			continue // invariant 7: never overwritten by a lower-priority enhancement
		}
		enhanceNode(reg, n, nodes, imports)
	}
}

func enhanceNode(reg *schema.Registry, n *gm.ParsedNode, nodes map[string]*gm.ParsedNode, imports map[string][]string) {
	var candidates []gm.FrameworkEnhancement
	for _, fw := range reg.Frameworks {
		for _, e := range fw.Enhancements {
			if e.TargetCoreType == n.CoreType {
				candidates = append(candidates, e)
			}
		}
	}
	// candidates is grouped by framework in registry order; stable-sort it
	// by enhancement priority so a
	// higher explicit priority always wins regardless of framework order.
	stableSortByPriority(candidates)

	for _, e := range candidates {
		if matchesAny(e.DetectionPatterns, n, imports) {
			applyEnhancement(n, e, nodes)
			return // first match wins at the highest priority tier
		}
	}
}

func stableSortByPriority(cs []gm.FrameworkEnhancement) {
	for i := 1; i < len(cs); i++ {
		j := i
		for j > 0 && cs[j].Priority > cs[j-1].Priority {
			cs[j], cs[j-1] = cs[j-1], cs[j]
			j--
		}
	}
}

func matchesAny(patterns []gm.DetectionPattern, n *gm.ParsedNode, imports map[string][]string) bool {
	for _, p := range patterns {
		if matches(p, n, imports) {
			return true
		}
	}
	return false
}

func matches(p gm.DetectionPattern, n *gm.ParsedNode, imports map[string][]string) bool {
	switch p.Type {
	case gm.PatternDecorator:
		names, _ := n.Context()["decoratorNames"].([]string)
		for _, d := range names {
			if d == p.Literal {
				return true
			}
		}
		return false
	case gm.PatternFilename:
		path := n.FilePath()
		if p.Regex != nil && p.Regex.MatchString(path) {
			return true
		}
		return p.Literal != "" && strings.Contains(path, p.Literal)
	case gm.PatternClassname:
		name := n.Name()
		if p.Regex != nil && p.Regex.MatchString(name) {
			return true
		}
		return p.Literal != "" && strings.Contains(name, p.Literal)
	case gm.PatternFunction:
		return p.Predicate != nil && p.Predicate(n)
	case gm.PatternImport:
		for _, imp := range imports[n.FilePath()] {
			if imp == p.Literal {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func applyEnhancement(n *gm.ParsedNode, e gm.FrameworkEnhancement, nodes map[string]*gm.ParsedNode) {
	n.SemanticType = e.SemanticType
	if e.PrimaryLabel != "" {
		n.Labels = append([]string{e.PrimaryLabel}, n.Labels...)
	} else if len(e.Labels) > 0 {
		n.Labels = append([]string{e.Labels[0]}, n.Labels...)
	}
	for _, l := range e.Labels {
		addLabelIfAbsent(n, l)
	}
	for _, ce := range e.ContextExtractors {
		n.MergeContext(ce.Extract(n, nodes, nil))
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

// CompileRegex adapts a Go regexp into a gm.RegexMatcher, for schema authors
// who want filename/classname patterns expressed as regexes rather than
// literal substrings.
func CompileRegex(pattern string) *gm.RegexMatcher {
	return gm.NewRegexMatcher(pattern, func(p string) func(string) bool {
		re := regexp.MustCompile(p)
		return re.MatchString
	})
}
