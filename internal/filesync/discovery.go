package filesync

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreSet holds compiled glob patterns for everything a sync should skip:
// explicit configuration plus any .gitignore-style files discovered while
// walking the tree.
type ignoreSet struct {
	patterns []glob.Glob
}

// newIgnoreSet compiles the configured ignore patterns. Patterns discovered
// later from ignore files in the tree are added via addPatterns.
func newIgnoreSet(configured []string) (*ignoreSet, error) {
	is := &ignoreSet{}
	if err := is.addPatterns(configured); err != nil {
		return nil, err
	}
	return is, nil
}

func (is *ignoreSet) addPatterns(patterns []string) error {
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return err
		}
		is.patterns = append(is.patterns, g)
	}
	return nil
}

// shouldIgnore reports whether relPath (slash-separated, relative to the
// codebase root) matches any configured or discovered ignore pattern. The
// process-owned data directory is always ignored, mirroring the teacher's
// hardcoded ".cortex" exclusion.
func (is *ignoreSet) shouldIgnore(relPath string) bool {
	if relPath == dataDirName || strings.HasPrefix(relPath, dataDirName+"/") {
		return true
	}
	if is.matches(relPath) {
		return true
	}
	// A directory pattern like "node_modules/**" should also match the bare
	// directory name so it gets pruned before descending into it.
	return is.matches(relPath + "/**")
}

func (is *ignoreSet) matches(path string) bool {
	for _, g := range is.patterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// loadIgnoreFilesUnder scans dir and every descendant directory for
// .gitignore files, compiling their entries relative to the directory they
// were found in, then merges them into is. Lines are read with bufio.Scanner
// the way the rest of the codebase reads line-oriented config.
func (is *ignoreSet) loadIgnoreFilesUnder(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			relDir, relErr := filepath.Rel(root, path)
			if relErr == nil && relDir != "." && is.shouldIgnore(filepath.ToSlash(relDir)) {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != ".gitignore" {
			return nil
		}

		relDir, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		relDir = filepath.ToSlash(relDir)

		lines, err := readLines(path)
		if err != nil {
			return err
		}

		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			pattern := line
			if relDir != "." {
				pattern = relDir + "/" + strings.TrimPrefix(pattern, "/")
			}
			if !strings.Contains(pattern, "**") && strings.HasSuffix(line, "/") {
				pattern += "**"
			} else if !strings.ContainsAny(pattern, "*?[") {
				pattern += "/**"
			}
			if err := is.addPatterns([]string{pattern}); err != nil {
				continue // malformed gitignore lines are skipped, not fatal
			}
		}
		return nil
	})
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
