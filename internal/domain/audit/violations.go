package audit

import (
	"iter"
	"slices"
	"strings"

	"github.com/archguard/archguard/internal/domain"
)

// ViolationChecker applies the forbidden-import table of a RuleSet.
type ViolationChecker struct {
	forbidden map[string][]string
	marker    string
}

func NewViolationChecker(rules *domain.RuleSet) *ViolationChecker {
	c := &ViolationChecker{
		forbidden: make(map[string][]string),
		marker:    rules.SourceRootMarker(),
	}
	for _, name := range rules.LayerNames() {
		c.forbidden[name] = rules.Forbidden(name)
	}
	return c
}

// Check returns the violations of refs for a known layer. Callers gate on
// domain.UnknownLayer before calling.
func (c *ViolationChecker) Check(layer string, refs iter.Seq[domain.ImportRef]) []domain.Violation {
	return FindViolations(layer, c.forbidden[layer], c.marker, refs)
}

// FindViolations emits one violation per (reference, term) match, in
// reference order then term order. Nothing is deduplicated.
func FindViolations(layer string, forbidden []string, marker string, refs iter.Seq[domain.ImportRef]) []domain.Violation {
	if len(forbidden) == 0 {
		return nil
	}
	var out []domain.Violation
	for ref := range refs {
		for _, term := range forbidden {
			if MatchesForbidden(ref.Path, term, marker) {
				out = append(out, domain.Violation{
					Line:      ref.Line,
					Import:    ref.Path,
					Forbidden: term,
					Layer:     layer,
				})
			}
		}
	}
	return out
}

// MatchesForbidden reports whether importPath reaches the forbidden term:
// exact match, a "/" segment, a "." component, a "term/" or "@term/" prefix,
// or any occurrence of term in a path that also contains the source-root marker.
func MatchesForbidden(importPath, term, marker string) bool {
	switch {
	case term == "":
		return false
	case importPath == term:
		return true
	case slices.Contains(strings.Split(importPath, "/"), term):
		return true
	case slices.Contains(strings.Split(importPath, "."), term):
		return true
	case strings.HasPrefix(importPath, term+"/"), strings.HasPrefix(importPath, "@"+term+"/"):
		return true
	case marker != "" && strings.Contains(importPath, term) && strings.Contains(importPath, marker):
		return true
	}
	return false
}
