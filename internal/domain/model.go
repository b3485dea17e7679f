package domain

import "fmt"

// ImportRef is one import statement occurrence as written in source.
type ImportRef struct {
	Line int    `json:"line"`
	Path string `json:"path"`
}

// Violation is one broken dependency rule.
type Violation struct {
	Line      int    `json:"line"`
	Import    string `json:"import"`
	Forbidden string `json:"forbidden"`
	Layer     string `json:"layer"`
}

func (v Violation) Message() string {
	return fmt.Sprintf("Layer '%s' cannot import '%s' (%s)", v.Layer, v.Forbidden, v.Import)
}

// HealthKind tags a HealthIssue.
type HealthKind string

const (
	HealthFileSize    HealthKind = "file_size"
	HealthIndentation HealthKind = "indentation"
)

// HealthIssue is a non-architectural finding. Line is set for indentation only.
type HealthIssue struct {
	Kind   HealthKind `json:"kind"`
	Actual int        `json:"actual"`
	Limit  int        `json:"limit"`
	Line   int        `json:"line,omitempty"`
}

func (h HealthIssue) Message() string {
	switch h.Kind {
	case HealthFileSize:
		return fmt.Sprintf("File length (%d) exceeds limit (%d)", h.Actual, h.Limit)
	case HealthIndentation:
		return fmt.Sprintf("Max indentation level (%d) at line %d exceeds limit (%d)", h.Actual, h.Line, h.Limit)
	default:
		return fmt.Sprintf("%s (%d) exceeds limit (%d)", h.Kind, h.Actual, h.Limit)
	}
}

// FileReport holds the findings for one file. Reports without findings are
// never produced.
type FileReport struct {
	File       string        `json:"file"`
	Layer      string        `json:"layer"`
	Violations []Violation   `json:"violations"`
	Health     []HealthIssue `json:"health"`
	TDDMissing bool          `json:"tdd_missing"`
}

// HasFindings reports whether the report carries anything worth emitting.
func (r FileReport) HasFindings() bool {
	return len(r.Violations) > 0 || len(r.Health) > 0 || r.TDDMissing
}

// Status is the overall verdict of a run.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusWarning Status = "WARNING"
	StatusFailed  Status = "FAILED"
)

// Summary holds counts derived from the reports of a run.
type Summary struct {
	FilesScanned      int `json:"files_scanned"`
	FilesAudited      int `json:"files_audited"`
	FilesSkipped      int `json:"files_skipped"`
	FilesWithFindings int `json:"files_with_findings"`
	Violations        int `json:"violations"`
	HealthIssues      int `json:"health_issues"`
	MissingTests      int `json:"missing_tests"`
}

// RunResult is the ordered outcome of one audit run. It carries no
// timestamps so that repeated runs over unchanged input are identical.
type RunResult struct {
	Target     string       `json:"target"`
	CommitHash string       `json:"commit_hash,omitempty"`
	Status     Status       `json:"status"`
	Summary    Summary      `json:"summary"`
	Reports    []FileReport `json:"reports"`
}

// NewRunResult builds a RunResult from reports in traversal order.
func NewRunResult(target string, reports []FileReport, scanned, audited int) *RunResult {
	if reports == nil {
		reports = []FileReport{}
	}
	summary := Summarize(reports)
	summary.FilesScanned = scanned
	summary.FilesAudited = audited
	summary.FilesSkipped = scanned - audited
	return &RunResult{
		Target:  target,
		Status:  VerdictFor(summary),
		Summary: summary,
		Reports: reports,
	}
}

// Summarize counts the findings across reports.
func Summarize(reports []FileReport) Summary {
	var s Summary
	for _, r := range reports {
		s.FilesWithFindings++
		s.Violations += len(r.Violations)
		s.HealthIssues += len(r.Health)
		if r.TDDMissing {
			s.MissingTests++
		}
	}
	return s
}

// VerdictFor fails on violations or missing tests, warns on health issues
// alone and passes otherwise.
func VerdictFor(s Summary) Status {
	switch {
	case s.Violations > 0 || s.MissingTests > 0:
		return StatusFailed
	case s.HealthIssues > 0:
		return StatusWarning
	default:
		return StatusPassed
	}
}

func (r *RunResult) Failed() bool { return r.Status == StatusFailed }
func (r *RunResult) Warned() bool { return r.Status == StatusWarning }

// RunEntry is one persisted line of run history.
type RunEntry struct {
	Timestamp         string `json:"timestamp"`
	CommitHash        string `json:"commit_hash,omitempty"`
	Target            string `json:"target"`
	Status            Status `json:"status"`
	FilesWithFindings int    `json:"files_with_findings"`
	Violations        int    `json:"violations"`
	HealthIssues      int    `json:"health_issues"`
	MissingTests      int    `json:"missing_tests"`
}

// EntryFor condenses a run into a history entry.
func EntryFor(r *RunResult, timestamp string) RunEntry {
	return RunEntry{
		Timestamp:         timestamp,
		CommitHash:        r.CommitHash,
		Target:            r.Target,
		Status:            r.Status,
		FilesWithFindings: r.Summary.FilesWithFindings,
		Violations:        r.Summary.Violations,
		HealthIssues:      r.Summary.HealthIssues,
		MissingTests:      r.Summary.MissingTests,
	}
}
