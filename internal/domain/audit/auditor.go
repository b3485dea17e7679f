package audit

import (
	"fmt"
	"io/fs"
	"path"
	"unicode/utf8"

	"github.com/archguard/archguard/internal/domain"
)

// Auditor runs every check against one file at a time. It holds no state
// between files and is safe for concurrent use.
type Auditor struct {
	rules       *domain.RuleSet
	fsys        fs.FS
	classifier  *Classifier
	violations  *ViolationChecker
	tests       *TestLocator
	forcedLayer string
}

type Option func(*Auditor)

// WithForcedLayer makes every file belong to layer, bypassing classification.
func WithForcedLayer(layer string) Option {
	return func(a *Auditor) { a.forcedLayer = layer }
}

// NewAuditor builds an Auditor reading files from fsys. Paths handed to
// Audit are slash-separated and relative to fsys.
func NewAuditor(rules *domain.RuleSet, fsys fs.FS, opts ...Option) (*Auditor, error) {
	a := &Auditor{
		rules:      rules,
		fsys:       fsys,
		classifier: NewClassifier(rules),
		violations: NewViolationChecker(rules),
		tests:      NewTestLocator(fsys, rules),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.forcedLayer != "" && !rules.HasLayer(a.forcedLayer) {
		return nil, fmt.Errorf("%w %q (known: %v)", domain.ErrUnknownLayer, a.forcedLayer, rules.LayerNames())
	}
	return a, nil
}

// Applicable reports whether p is a source file outside excluded directories.
func (a *Auditor) Applicable(p string) bool {
	if !a.rules.IsSourceFile(path.Base(p)) {
		return false
	}
	for _, seg := range pathSegments(p) {
		if a.rules.IsExcludedDir(seg) {
			return false
		}
	}
	return true
}

// Layer returns the layer p is audited as.
func (a *Auditor) Layer(p string) string {
	if a.forcedLayer != "" {
		return a.forcedLayer
	}
	return a.classifier.Classify(p)
}

// Audit checks one file. The boolean is false when the file is not
// applicable: wrong kind, excluded, unreadable or not UTF-8 text. A nil
// report with true means the file was audited and is clean.
func (a *Auditor) Audit(p string) (*domain.FileReport, bool) {
	if !a.Applicable(p) {
		return nil, false
	}
	data, err := fs.ReadFile(a.fsys, p)
	if err != nil || !utf8.Valid(data) {
		return nil, false
	}
	return a.AuditContent(p, string(data)), true
}

// AuditContent checks already-loaded content. It returns nil when the file
// has no findings.
func (a *Auditor) AuditContent(p, content string) *domain.FileReport {
	layer := a.Layer(p)
	report := domain.FileReport{
		File:  p,
		Layer: layer,
	}

	if layer != domain.UnknownLayer {
		report.Violations = a.violations.Check(layer, ExtractImports(content))
	}
	report.Health = CheckHealth(content, a.rules.MaxFileLines(), a.rules.MaxIndentationLevel())
	report.TDDMissing = !a.tests.HasTest(p)

	if !report.HasFindings() {
		return nil
	}
	if report.Violations == nil {
		report.Violations = []domain.Violation{}
	}
	if report.Health == nil {
		report.Health = []domain.HealthIssue{}
	}
	return &report
}
