package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/archguard/archguard/internal/domain"
	"github.com/archguard/archguard/internal/domain/audit"
	"golang.org/x/sync/errgroup"
)

// AuditRequest describes one run.
type AuditRequest struct {
	Target      string // directory or file; defaults to "."
	RulesPath   string // explicit rule file; empty means discover
	ForceLayer  string // audit every file as this layer
	Workers     int    // 0 means runtime.NumCPU()
	ChangedOnly bool   // only files reported changed by git
}

// AuditService orchestrates a run:
// find root → load rules → enumerate files → audit in parallel → aggregate.
type AuditService struct {
	scanner domain.ProjectScanner
	loader  domain.RulesLoader
	git     domain.GitInfo
	logger  *slog.Logger
}

func NewAuditService(
	scanner domain.ProjectScanner,
	loader domain.RulesLoader,
	git domain.GitInfo,
	logger *slog.Logger,
) *AuditService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuditService{
		scanner: scanner,
		loader:  loader,
		git:     git,
		logger:  logger,
	}
}

// Project is a resolved target: its root, its rules and the target itself.
type Project struct {
	Root   string
	Target string // absolute
	Rules  *domain.RuleSet
}

// Resolve finds the project root of target and loads its rules.
func (s *AuditService) Resolve(target, rulesPath string) (*Project, error) {
	if target == "" {
		target = "."
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, target)
		}
		return nil, err
	}

	return s.project(abs, rulesPath)
}

func (s *AuditService) project(abs, rulesPath string) (*Project, error) {
	root, err := FindProjectRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	rules, err := s.loader.Load(root, rulesPath)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	s.logger.Debug("rules loaded", "root", root, "layers", rules.LayerNames())

	return &Project{Root: root, Target: abs, Rules: rules}, nil
}

// Run audits every applicable file under req.Target. Per-file problems are
// skips; only setup failures and cancellation return an error.
func (s *AuditService) Run(ctx context.Context, req AuditRequest) (*domain.RunResult, error) {
	proj, err := s.Resolve(req.Target, req.RulesPath)
	if err != nil {
		return nil, err
	}

	var opts []audit.Option
	if req.ForceLayer != "" {
		opts = append(opts, audit.WithForcedLayer(req.ForceLayer))
	}
	auditor, err := audit.NewAuditor(proj.Rules, os.DirFS(proj.Root), opts...)
	if err != nil {
		return nil, err
	}

	files, err := s.enumerate(proj, req.ChangedOnly)
	if err != nil {
		return nil, err
	}

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	reports, audited, err := s.auditAll(ctx, auditor, files, workers)
	if err != nil {
		return nil, err
	}

	result := domain.NewRunResult(relTarget(proj.Root, proj.Target), reports, len(files), audited)
	if s.git != nil && s.git.IsGitRepo(proj.Root) {
		if hash, err := s.git.CommitHash(proj.Root); err == nil {
			result.CommitHash = hash
		}
	}

	s.logger.Info("audit complete",
		"target", result.Target,
		"status", result.Status,
		"scanned", result.Summary.FilesScanned,
		"audited", result.Summary.FilesAudited,
		"violations", result.Summary.Violations,
		"health_issues", result.Summary.HealthIssues,
		"missing_tests", result.Summary.MissingTests,
	)
	return result, nil
}

// Classification is where a single file lands under its project's rules.
type Classification struct {
	File       string   `json:"file"`
	Layer      string   `json:"layer"`
	Forbidden  []string `json:"forbidden"`
	Applicable bool     `json:"applicable"`
}

// Classify reports the layer of file under its project's rules. The file is
// never read and need not exist yet.
func (s *AuditService) Classify(file, rulesPath string) (*Classification, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	proj, err := s.project(abs, rulesPath)
	if err != nil {
		return nil, err
	}
	auditor, err := audit.NewAuditor(proj.Rules, os.DirFS(proj.Root))
	if err != nil {
		return nil, err
	}

	rel := relTarget(proj.Root, proj.Target)
	layer := auditor.Layer(rel)
	forbidden := proj.Rules.Forbidden(layer)
	if forbidden == nil {
		forbidden = []string{}
	}
	return &Classification{
		File:       rel,
		Layer:      layer,
		Forbidden:  forbidden,
		Applicable: auditor.Applicable(rel),
	}, nil
}

func (s *AuditService) enumerate(proj *Project, changedOnly bool) ([]string, error) {
	if !changedOnly {
		scan, err := s.scanner.Scan(proj.Root, proj.Target, proj.Rules.ExcludeDirs()...)
		if err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		return scan.Files, nil
	}

	if s.git == nil || !s.git.IsGitRepo(proj.Root) {
		return nil, fmt.Errorf("--changed needs a git repository at %s", proj.Root)
	}
	changed, err := s.git.ChangedFiles(proj.Root)
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	var files []string
	for _, abs := range changed {
		if !within(proj.Target, abs) {
			continue
		}
		rel, err := filepath.Rel(proj.Root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	return files, nil
}

// auditAll fans files out to a bounded pool. Each worker writes only its own
// slot so the compacted result keeps traversal order.
func (s *AuditService) auditAll(ctx context.Context, auditor *audit.Auditor, files []string, workers int) ([]domain.FileReport, int, error) {
	slots := make([]*domain.FileReport, len(files))
	applicable := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, ok := auditor.Audit(f)
			if !ok {
				s.logger.Debug("skipped", "file", f)
				return nil
			}
			applicable[i] = true
			slots[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var reports []domain.FileReport
	audited := 0
	for i, r := range slots {
		if applicable[i] {
			audited++
		}
		if r != nil {
			reports = append(reports, *r)
		}
	}
	return reports, audited, nil
}

func within(dir, p string) bool {
	if dir == p {
		return true
	}
	return strings.HasPrefix(p, dir+string(filepath.Separator))
}

func relTarget(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
