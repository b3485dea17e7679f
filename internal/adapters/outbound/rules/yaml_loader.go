package rules

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/archguard/archguard/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileNames are the rule files looked up in a project root, in order.
var FileNames = []string{".archguard.yaml", ".archguard.yml", ".archguard.json"}

// YAMLLoader implements domain.RulesLoader. yaml.v3 also reads JSON, so
// one loader serves every rule file name.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads rulesPath, or the first rule file found in projectRoot when
// rulesPath is empty. A missing file is an error: there are no implicit rules.
func (l *YAMLLoader) Load(projectRoot, rulesPath string) (*domain.RuleSet, error) {
	if rulesPath == "" {
		found, err := Find(projectRoot)
		if err != nil {
			return nil, err
		}
		rulesPath = found
	}

	data, err := os.ReadFile(rulesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRulesNotFound, rulesPath)
		}
		return nil, fmt.Errorf("reading %s: %w", rulesPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(rulesPath), err)
	}

	rs, err := domain.NewRuleSet(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(rulesPath), err)
	}
	return rs, nil
}

// Find returns the path of the rule file in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: none of %v in %s", domain.ErrRulesNotFound, FileNames, dir)
}

// Parse decodes a rule document. Three shapes are accepted:
//
//	layers: [{name, identifiers, forbidden}]          ordered list
//	layers: {name: {identifiers, forbidden}}          ordered mapping
//	layer_identifiers / forbidden_imports / required_test_suffix
//
// Mapping keys keep their document order, which is layer precedence.
func Parse(data []byte) (domain.RulesConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.RulesConfig{}, err
	}
	if len(doc.Content) == 0 {
		return domain.RulesConfig{}, fmt.Errorf("%w: empty document", domain.ErrInvalidRules)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return domain.RulesConfig{}, fmt.Errorf("%w: top level must be a mapping", domain.ErrInvalidRules)
	}

	if err := checkLimits(root); err != nil {
		return domain.RulesConfig{}, err
	}

	if lookup(root, "layer_identifiers") != nil {
		if err := checkKeys(root, "rules", legacyKeys...); err != nil {
			return domain.RulesConfig{}, err
		}
		return parseLegacy(root)
	}
	if layers := lookup(root, "layers"); layers != nil && layers.Kind == yaml.MappingNode {
		if err := checkKeys(root, "rules", append([]string{"layers"}, scalarKeys...)...); err != nil {
			return domain.RulesConfig{}, err
		}
		return parseLayerMap(root, layers)
	}

	var cfg domain.RulesConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return domain.RulesConfig{}, err
	}
	return cfg, nil
}

// scalarKeys are the top-level keys of scalars.
var scalarKeys = []string{
	"max_file_lines",
	"max_indentation_level",
	"test_suffixes",
	"required_test_suffix",
	"source_extensions",
	"exclude_dirs",
	"test_dirs",
	"source_root_marker",
}

var legacyKeys = append([]string{"layer_identifiers", "forbidden_imports"}, scalarKeys...)

// limitKeys must be positive when present. An absent key takes the default.
var limitKeys = []string{"max_file_lines", "max_indentation_level"}

// scalars holds the fields shared by every shape.
type scalars struct {
	MaxFileLines        int      `yaml:"max_file_lines"`
	MaxIndentationLevel int      `yaml:"max_indentation_level"`
	TestSuffixes        []string `yaml:"test_suffixes"`
	RequiredTestSuffix  []string `yaml:"required_test_suffix"`
	SourceExtensions    []string `yaml:"source_extensions"`
	ExcludeDirs         []string `yaml:"exclude_dirs"`
	TestDirs            []string `yaml:"test_dirs"`
	SourceRootMarker    string   `yaml:"source_root_marker"`
}

func (s scalars) apply(cfg *domain.RulesConfig) {
	cfg.MaxFileLines = s.MaxFileLines
	cfg.MaxIndentationLevel = s.MaxIndentationLevel
	cfg.TestSuffixes = s.TestSuffixes
	if len(cfg.TestSuffixes) == 0 {
		cfg.TestSuffixes = s.RequiredTestSuffix
	}
	cfg.SourceExtensions = s.SourceExtensions
	cfg.ExcludeDirs = s.ExcludeDirs
	cfg.TestDirs = s.TestDirs
	cfg.SourceRootMarker = s.SourceRootMarker
}

func parseLegacy(root *yaml.Node) (domain.RulesConfig, error) {
	var cfg domain.RulesConfig
	var s scalars
	if err := root.Decode(&s); err != nil {
		return cfg, err
	}
	s.apply(&cfg)

	ids := lookup(root, "layer_identifiers")
	if ids.Kind != yaml.MappingNode {
		return cfg, fmt.Errorf("%w: layer_identifiers must be a mapping", domain.ErrInvalidRules)
	}
	forbidden := map[string][]string{}
	if fb := lookup(root, "forbidden_imports"); fb != nil {
		if err := fb.Decode(&forbidden); err != nil {
			return cfg, fmt.Errorf("forbidden_imports: %w", err)
		}
	}

	declared := map[string]bool{}
	for i := 0; i+1 < len(ids.Content); i += 2 {
		name := ids.Content[i].Value
		var identifiers []string
		if err := ids.Content[i+1].Decode(&identifiers); err != nil {
			return cfg, fmt.Errorf("layer_identifiers.%s: %w", name, err)
		}
		declared[name] = true
		cfg.Layers = append(cfg.Layers, domain.Layer{Name: name, Identifiers: identifiers, Forbidden: forbidden[name]})
	}
	for name := range forbidden {
		if !declared[name] {
			return cfg, fmt.Errorf("%w: forbidden_imports names undeclared layer %q", domain.ErrInvalidRules, name)
		}
	}
	return cfg, nil
}

func parseLayerMap(root, layers *yaml.Node) (domain.RulesConfig, error) {
	var cfg domain.RulesConfig
	var s scalars
	if err := root.Decode(&s); err != nil {
		return cfg, err
	}
	s.apply(&cfg)

	for i := 0; i+1 < len(layers.Content); i += 2 {
		name := layers.Content[i].Value
		if layers.Content[i+1].Kind == yaml.MappingNode {
			if err := checkKeys(layers.Content[i+1], "layers."+name, "identifiers", "forbidden"); err != nil {
				return cfg, err
			}
		}
		var body struct {
			Identifiers []string `yaml:"identifiers"`
			Forbidden   []string `yaml:"forbidden"`
		}
		if err := layers.Content[i+1].Decode(&body); err != nil {
			return cfg, fmt.Errorf("layers.%s: %w", name, err)
		}
		if len(body.Identifiers) == 0 {
			body.Identifiers = []string{name}
		}
		cfg.Layers = append(cfg.Layers, domain.Layer{Name: name, Identifiers: body.Identifiers, Forbidden: body.Forbidden})
	}
	return cfg, nil
}

// checkKeys rejects any key of mapping m not in allowed.
func checkKeys(m *yaml.Node, where string, allowed ...string) error {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key := m.Content[i].Value
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: unknown key %q in %s", domain.ErrInvalidRules, key, where)
		}
	}
	return nil
}

// checkLimits rejects limits of zero or less. Only an absent key takes the default.
func checkLimits(root *yaml.Node) error {
	for _, key := range limitKeys {
		n := lookup(root, key)
		if n == nil {
			continue
		}
		var v int
		if err := n.Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if v <= 0 {
			return fmt.Errorf("%w: %s must be > 0 (got %d)", domain.ErrInvalidRules, key, v)
		}
	}
	return nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// Write stores cfg as YAML at path. Existing files are only replaced when
// overwrite is set.
func Write(path string, cfg domain.RulesConfig, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
