package domain

// ProjectScanner enumerates candidate files under a target directory.
type ProjectScanner interface {
	Scan(rootPath, targetPath string, excludeDirs ...string) (*ScanResult, error)
}

// ScanResult holds the files found by a scan. Files are slash-separated,
// relative to RootPath and in traversal order.
type ScanResult struct {
	RootPath string   `json:"root_path"`
	Files    []string `json:"files"`
}

// RulesLoader reads and validates a rule document. An empty rulesPath means
// the loader looks for a rules file in projectRoot.
type RulesLoader interface {
	Load(projectRoot, rulesPath string) (*RuleSet, error)
}

// GitInfo exposes the repository state of a project.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
	ChangedFiles(projectPath string) ([]string, error)
}

// RunHistory persists condensed run results.
type RunHistory interface {
	Append(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}
