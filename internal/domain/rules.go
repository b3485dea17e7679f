package domain

import (
	"fmt"
	"path"
	"slices"
	"strings"
)

// UnknownLayer is the layer of a file whose path matches no configured layer.
const UnknownLayer = "unknown"

// Defaults applied when a rules document leaves a field empty.
const (
	DefaultMaxFileLines        = 300
	DefaultMaxIndentationLevel = 5
	DefaultSourceRootMarker    = "src/"
)

var (
	defaultSourceExtensions = []string{".ts", ".js", ".jsx", ".tsx", ".py"}
	defaultExcludeDirs      = []string{"node_modules", "dist", "build", "coverage", ".git", ".agent"}
	defaultTestDirs         = []string{"__tests__"}
)

// Layer is one architectural zone. Identifiers are path segments that place
// a file in the layer; Forbidden terms are imports the layer must not use.
type Layer struct {
	Name        string   `yaml:"name"                json:"name"`
	Identifiers []string `yaml:"identifiers"         json:"identifiers"`
	Forbidden   []string `yaml:"forbidden,omitempty" json:"forbidden,omitempty"`
}

// RulesConfig is the rule document as written on disk. It is mutable and only
// used to build a RuleSet; the audit engine never reads it directly.
// A zero limit means unset and takes the default; the file loader rejects
// an explicit zero before it gets here.
type RulesConfig struct {
	Layers              []Layer  `yaml:"layers"                       json:"layers"`
	MaxFileLines        int      `yaml:"max_file_lines"               json:"max_file_lines"`
	MaxIndentationLevel int      `yaml:"max_indentation_level"        json:"max_indentation_level"`
	TestSuffixes        []string `yaml:"test_suffixes"                json:"test_suffixes"`
	SourceExtensions    []string `yaml:"source_extensions,omitempty"  json:"source_extensions,omitempty"`
	ExcludeDirs         []string `yaml:"exclude_dirs,omitempty"       json:"exclude_dirs,omitempty"`
	TestDirs            []string `yaml:"test_dirs,omitempty"          json:"test_dirs,omitempty"`
	SourceRootMarker    string   `yaml:"source_root_marker,omitempty" json:"source_root_marker,omitempty"`
}

// DefaultRulesConfig returns the clean-architecture rules written by `archguard init`.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		Layers: []Layer{
			{Name: "domain", Identifiers: []string{"domain", "core", "entities"}, Forbidden: []string{"infrastructure", "interface", "firebase", "react"}},
			{Name: "application", Identifiers: []string{"application", "usecases", "services"}, Forbidden: []string{"interface", "react"}},
			{Name: "infrastructure", Identifiers: []string{"infrastructure", "adapters", "firebase"}, Forbidden: []string{"interface"}},
			{Name: "interface", Identifiers: []string{"interface", "components", "pages", "ui"}},
		},
		MaxFileLines:        DefaultMaxFileLines,
		MaxIndentationLevel: DefaultMaxIndentationLevel,
		TestSuffixes:        []string{".test.ts", ".test.tsx", ".test.js", ".test.jsx", ".spec.ts", ".spec.js", "_test.py"},
		SourceExtensions:    slices.Clone(defaultSourceExtensions),
		ExcludeDirs:         slices.Clone(defaultExcludeDirs),
		TestDirs:            slices.Clone(defaultTestDirs),
		SourceRootMarker:    DefaultSourceRootMarker,
	}
}

// WithDefaults fills empty optional fields. Layers and test suffixes are never defaulted.
func (c RulesConfig) WithDefaults() RulesConfig {
	if c.MaxFileLines == 0 {
		c.MaxFileLines = DefaultMaxFileLines
	}
	if c.MaxIndentationLevel == 0 {
		c.MaxIndentationLevel = DefaultMaxIndentationLevel
	}
	if len(c.SourceExtensions) == 0 {
		c.SourceExtensions = slices.Clone(defaultSourceExtensions)
	}
	if len(c.ExcludeDirs) == 0 {
		c.ExcludeDirs = slices.Clone(defaultExcludeDirs)
	}
	if len(c.TestDirs) == 0 {
		c.TestDirs = slices.Clone(defaultTestDirs)
	}
	if c.SourceRootMarker == "" {
		c.SourceRootMarker = DefaultSourceRootMarker
	}
	return c
}

// Validate checks the document for values the engine cannot work with.
func (c RulesConfig) Validate() error {
	if len(c.Layers) == 0 {
		return fmt.Errorf("%w: at least one layer is required", ErrInvalidRules)
	}

	seen := make(map[string]bool, len(c.Layers))
	for i, l := range c.Layers {
		name := strings.TrimSpace(l.Name)
		switch {
		case name == "":
			return fmt.Errorf("%w: layers[%d].name must not be empty", ErrInvalidRules, i)
		case name == UnknownLayer:
			return fmt.Errorf("%w: layer name %q is reserved", ErrInvalidRules, UnknownLayer)
		case seen[name]:
			return fmt.Errorf("%w: duplicate layer %q", ErrInvalidRules, name)
		}
		seen[name] = true

		if len(l.Identifiers) == 0 {
			return fmt.Errorf("%w: layer %q has no identifiers", ErrInvalidRules, name)
		}
		for _, id := range l.Identifiers {
			if id == "" || strings.ContainsAny(id, `/\`) {
				return fmt.Errorf("%w: layer %q identifier %q must be a single path segment", ErrInvalidRules, name, id)
			}
		}
		for _, f := range l.Forbidden {
			if strings.TrimSpace(f) == "" {
				return fmt.Errorf("%w: layer %q has an empty forbidden term", ErrInvalidRules, name)
			}
		}
	}

	if c.MaxFileLines < 0 {
		return fmt.Errorf("%w: max_file_lines must not be negative (got %d)", ErrInvalidRules, c.MaxFileLines)
	}
	if c.MaxIndentationLevel < 0 {
		return fmt.Errorf("%w: max_indentation_level must not be negative (got %d)", ErrInvalidRules, c.MaxIndentationLevel)
	}
	if len(c.TestSuffixes) == 0 {
		return fmt.Errorf("%w: test_suffixes must not be empty", ErrInvalidRules)
	}
	for _, s := range c.TestSuffixes {
		if s == "" {
			return fmt.Errorf("%w: test_suffixes contains an empty suffix", ErrInvalidRules)
		}
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: source extension %q must start with a dot", ErrInvalidRules, ext)
		}
	}
	return nil
}

// RuleSet is the validated, read-only rule configuration for one run.
// It is safe for concurrent use; every accessor returns a copy.
type RuleSet struct {
	layers           []Layer
	maxFileLines     int
	maxIndentation   int
	testSuffixes     []string
	sourceExtensions map[string]bool
	excludeDirs      map[string]bool
	testDirs         []string
	sourceRootMarker string
}

// NewRuleSet applies defaults, validates cfg and freezes it.
func NewRuleSet(cfg RulesConfig) (*RuleSet, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rs := &RuleSet{
		layers:           make([]Layer, len(cfg.Layers)),
		maxFileLines:     cfg.MaxFileLines,
		maxIndentation:   cfg.MaxIndentationLevel,
		testSuffixes:     slices.Clone(cfg.TestSuffixes),
		sourceExtensions: toSet(cfg.SourceExtensions),
		excludeDirs:      toSet(cfg.ExcludeDirs),
		testDirs:         slices.Clone(cfg.TestDirs),
		sourceRootMarker: cfg.SourceRootMarker,
	}
	for i, l := range cfg.Layers {
		rs.layers[i] = Layer{
			Name:        strings.TrimSpace(l.Name),
			Identifiers: slices.Clone(l.Identifiers),
			Forbidden:   slices.Clone(l.Forbidden),
		}
	}
	return rs, nil
}

// Layers returns the layers in declaration order, which is classification precedence.
func (r *RuleSet) Layers() []Layer {
	out := make([]Layer, len(r.layers))
	for i, l := range r.layers {
		out[i] = Layer{
			Name:        l.Name,
			Identifiers: slices.Clone(l.Identifiers),
			Forbidden:   slices.Clone(l.Forbidden),
		}
	}
	return out
}

func (r *RuleSet) LayerNames() []string {
	names := make([]string, len(r.layers))
	for i, l := range r.layers {
		names[i] = l.Name
	}
	return names
}

func (r *RuleSet) HasLayer(name string) bool {
	for _, l := range r.layers {
		if l.Name == name {
			return true
		}
	}
	return false
}

// Forbidden returns the forbidden terms of a layer, nil for unknown layers.
func (r *RuleSet) Forbidden(layer string) []string {
	for _, l := range r.layers {
		if l.Name == layer {
			return slices.Clone(l.Forbidden)
		}
	}
	return nil
}

func (r *RuleSet) MaxFileLines() int { return r.maxFileLines }
func (r *RuleSet) MaxIndentationLevel() int { return r.maxIndentation }
func (r *RuleSet) TestSuffixes() []string { return slices.Clone(r.testSuffixes) }
func (r *RuleSet) TestDirs() []string { return slices.Clone(r.testDirs) }
func (r *RuleSet) SourceRootMarker() string { return r.sourceRootMarker }

// IsTestFile reports whether a file name carries one of the test suffixes.
func (r *RuleSet) IsTestFile(name string) bool {
	for _, s := range r.testSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// IsSourceFile reports whether a file name has an audited extension.
func (r *RuleSet) IsSourceFile(name string) bool {
	return r.sourceExtensions[path.Ext(name)]
}

// IsExcludedDir reports whether a directory name is never audited.
func (r *RuleSet) IsExcludedDir(name string) bool {
	return r.excludeDirs[name]
}

// ExcludeDirs returns the excluded directory names, sorted.
func (r *RuleSet) ExcludeDirs() []string {
	return sortedKeys(r.excludeDirs)
}

// Config returns the effective document, defaults included.
func (r *RuleSet) Config() RulesConfig {
	return RulesConfig{
		Layers:              r.Layers(),
		MaxFileLines:        r.maxFileLines,
		MaxIndentationLevel: r.maxIndentation,
		TestSuffixes:        r.TestSuffixes(),
		SourceExtensions:    sortedKeys(r.sourceExtensions),
		ExcludeDirs:         sortedKeys(r.excludeDirs),
		TestDirs:            r.TestDirs(),
		SourceRootMarker:    r.sourceRootMarker,
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
