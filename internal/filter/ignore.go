package filter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/flarebyte/p4tag/internal/report"
)

// Ignore matches paths against P4IGNORE-style patterns, which share the
// gitignore syntax.
type Ignore struct {
	matcher  gitignore.Matcher
	patterns int
}

// ParseIgnore reads one pattern per line. Blank lines and # comments are
// skipped.
func ParseIgnore(r io.Reader) (*Ignore, error) {
	var patterns []gitignore.Pattern
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ignore patterns: %w", err)
	}
	return &Ignore{matcher: gitignore.NewMatcher(patterns), patterns: len(patterns)}, nil
}

// LoadIgnoreFile parses the ignore file at path.
func LoadIgnoreFile(path string) (*Ignore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	defer f.Close()
	return ParseIgnore(f)
}

// Len returns the number of patterns.
func (ig *Ignore) Len() int { return ig.patterns }

// Match reports whether p is ignored. Depot syntax (//depot/a), client
// syntax (//ws/a) and local paths are all split on slashes with the leading
// slashes dropped, so patterns apply from the depot or client root.
func (ig *Ignore) Match(p string, isDir bool) bool {
	if ig == nil || ig.patterns == 0 {
		return false
	}
	comps := pathComponents(p)
	if len(comps) == 0 {
		return false
	}
	return ig.matcher.Match(comps, isDir)
}

func pathComponents(p string) []string {
	p = strings.TrimLeft(filepath.ToSlash(p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// MatchRecord reports whether any path field of a data record is ignored.
func (ig *Ignore) MatchRecord(rec report.Record) bool {
	if rec.Kind != report.KindData {
		return false
	}
	if dir, ok := rec.Data["dir"].(string); ok && ig.Match(dir, true) {
		return true
	}
	for _, key := range []string{"depotFile", "clientFile", "path"} {
		if s, ok := rec.Data[key].(string); ok && ig.Match(s, false) {
			return true
		}
	}
	return false
}
