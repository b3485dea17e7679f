package audit

import (
	"strings"

	"github.com/archguard/archguard/internal/domain"
)

type layerMatcher struct {
	name        string
	identifiers map[string]bool
}

// Classifier maps file paths to layers. Layers are tried in declaration
// order, so a path matching two layers belongs to the one declared first.
type Classifier struct {
	layers []layerMatcher
}

func NewClassifier(rules *domain.RuleSet) *Classifier {
	c := &Classifier{}
	for _, l := range rules.Layers() {
		m := layerMatcher{name: l.Name, identifiers: make(map[string]bool, len(l.Identifiers))}
		for _, id := range l.Identifiers {
			m.identifiers[id] = true
		}
		c.layers = append(c.layers, m)
	}
	return c
}

// Classify returns the layer owning one of the path's segments, or
// domain.UnknownLayer. Identifiers only match whole segments.
func (c *Classifier) Classify(p string) string {
	segments := pathSegments(p)
	for _, l := range c.layers {
		for _, seg := range segments {
			if l.identifiers[seg] {
				return l.name
			}
		}
	}
	return domain.UnknownLayer
}

func pathSegments(p string) []string {
	p = strings.ReplaceAll(p, `\`, "/")
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			segments = append(segments, s)
		}
	}
	return segments
}
