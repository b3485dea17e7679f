package audit

import (
	"io/fs"
	"path"
	"strings"

	"github.com/archguard/archguard/internal/domain"
)

// TestLocator looks for a companion test file next to a source file. It
// checks for existence only and never opens the test file.
type TestLocator struct {
	fsys     fs.FS
	suffixes []string
	testDirs []string
}

func NewTestLocator(fsys fs.FS, rules *domain.RuleSet) *TestLocator {
	return &TestLocator{
		fsys:     fsys,
		suffixes: rules.TestSuffixes(),
		testDirs: rules.TestDirs(),
	}
}

// HasTest reports whether p is itself a test, has a sibling test sharing its
// stem, or has such a test in one of the adjoining test directories.
func (l *TestLocator) HasTest(p string) bool {
	name := path.Base(p)
	if l.isTest(name) {
		return true
	}

	dir := path.Dir(p)
	stem := strings.TrimSuffix(name, path.Ext(name))
	if stem == "" {
		stem = name
	}

	if l.findIn(dir, stem, name) {
		return true
	}
	for _, td := range l.testDirs {
		if l.findIn(path.Join(dir, td), stem, "") {
			return true
		}
	}
	return false
}

func (l *TestLocator) findIn(dir, stem, self string) bool {
	entries, err := fs.ReadDir(l.fsys, dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		n := e.Name()
		if n == self || !strings.HasPrefix(n, stem) {
			continue
		}
		if l.isTest(n) {
			return true
		}
	}
	return false
}

func (l *TestLocator) isTest(name string) bool {
	for _, s := range l.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
