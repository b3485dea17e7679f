package audit

import (
	"cmp"
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/archguard/archguard/internal/domain"
)

// Statement shapes recognized by ExtractImports. Only the line holding both
// the keyword and the quoted path is seen; multi-line imports are missed.
var importPatterns = []*regexp.Regexp{
	regexp.MustCompile(`from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
}

var importCommentMarkers = []string{"//", "#"}

type importMatch struct {
	col  int
	path string
}

// ExtractImports yields every import occurrence in content, in line then
// column order. Duplicates and matches inside string literals are kept.
// The sequence can be ranged over any number of times.
func ExtractImports(content string) iter.Seq[domain.ImportRef] {
	return func(yield func(domain.ImportRef) bool) {
		for i, line := range splitLines(content) {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || hasAnyPrefix(trimmed, importCommentMarkers) {
				continue
			}
			for _, m := range matchImports(trimmed) {
				if !yield(domain.ImportRef{Line: i + 1, Path: m.path}) {
					return
				}
			}
		}
	}
}

func matchImports(line string) []importMatch {
	var found []importMatch
	for _, re := range importPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(line, -1) {
			found = append(found, importMatch{col: loc[0], path: line[loc[2]:loc[3]]})
		}
	}
	slices.SortStableFunc(found, func(a, b importMatch) int { return cmp.Compare(a.col, b.col) })
	return found
}
