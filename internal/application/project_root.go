package application

import (
	"os"
	"path/filepath"
)

// RulesFileNames mark a directory that carries its own rule file.
var RulesFileNames = []string{".archguard.yaml", ".archguard.yml", ".archguard.json"}

// ProjectMarkers mark a directory as a project root when no rule file is found.
var ProjectMarkers = []string{"package.json", "requirements.txt", "go.mod", ".git"}

// FindProjectRoot walks upward from target. The nearest directory holding a
// rule file wins; failing that, the nearest one holding a project marker;
// failing that, the directory of target itself. A target that does not
// exist yet is searched from its nearest existing parent directory.
func FindProjectRoot(target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	start := abs
	info, err := os.Stat(abs)
	switch {
	case err != nil:
		start = existingParent(abs)
	case !info.IsDir():
		start = filepath.Dir(abs)
	}

	if dir, ok := searchUp(start, RulesFileNames); ok {
		return dir, nil
	}
	if dir, ok := searchUp(start, ProjectMarkers); ok {
		return dir, nil
	}
	return start, nil
}

func searchUp(dir string, markers []string) (string, bool) {
	for {
		for _, m := range markers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func existingParent(p string) string {
	dir := filepath.Dir(p)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
