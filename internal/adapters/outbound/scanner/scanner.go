package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/archguard/archguard/internal/domain"
)

// Directories never worth walking, whatever the rules say.
var skipDirs = map[string]bool{
	".git":       true,
	".archguard": true,
}

// FileScanner implements domain.ProjectScanner by walking the filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan lists the files under targetPath in lexical walk order. Paths are
// returned slash-separated and relative to rootPath. A file target yields
// just that file.
func (s *FileScanner) Scan(rootPath, targetPath string, excludeDirs ...string) (*domain.ScanResult, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}
	absTarget, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absTarget)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTargetNotFound, targetPath)
		}
		return nil, err
	}

	extraSkip := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		extraSkip[strings.TrimSuffix(d, "/")] = true
	}

	result := &domain.ScanResult{RootPath: absRoot}

	if !info.IsDir() {
		rel, err := Rel(absRoot, absTarget)
		if err != nil {
			return nil, err
		}
		result.Files = []string{rel}
		return result, nil
	}

	err = filepath.WalkDir(absTarget, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the root must be readable.
			if path == absTarget {
				return err
			}
			return nil
		}

		if d.IsDir() {
			if path != absTarget && (skipDirs[d.Name()] || extraSkip[d.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := Rel(absRoot, path)
		if err != nil {
			return err
		}
		result.Files = append(result.Files, rel)
		return nil
	})

	return result, err
}

// Rel returns p relative to root with forward slashes. Paths outside root
// are an error.
func Rel(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside project root %s", p, root)
	}
	return filepath.ToSlash(rel), nil
}
