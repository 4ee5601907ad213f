// Package knownentity fuzzy-matches candidate names against a curated
// directory of known brands.
package knownentity

import (
	"bufio"
	"os"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/rotisserie/eris"
)

// Match is the best directory hit for a candidate.
type Match struct {
	// Name is the directory entry as curated, original casing.
	Name string
	// Score is Levenshtein similarity in [0,1]; 1 is an exact match.
	Score float64
}

// Directory holds the known-brand list. Immutable after construction.
type Directory struct {
	names []string
}

// New builds a directory from the given names. Blank entries are dropped.
func New(names []string) *Directory {
	clean := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			clean = append(clean, n)
		}
	}
	return &Directory{names: clean}
}

// Load reads a directory file: one brand name per line, blank lines and
// #-comments ignored.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "knownentity: open %s", path)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "knownentity: read %s", path)
	}
	return New(names), nil
}

// Len returns the number of directory entries.
func (d *Directory) Len() int { return len(d.names) }

// Best returns the closest directory entry to the candidate, or a zero
// Match when the directory is empty.
func (d *Directory) Best(candidate string) Match {
	candidate = strings.ToLower(strings.TrimSpace(candidate))
	if candidate == "" {
		return Match{}
	}

	var best Match
	for _, name := range d.names {
		score := levenshtein.Similarity(candidate, strings.ToLower(name), nil)
		if score > best.Score {
			best = Match{Name: name, Score: score}
		}
	}
	return best
}
