package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

// Merger discovers resource documents in a set of directories and merges
// them. File names must end with the configured suffix and pass the
// include/exclude filters. Each distinct file path is processed at most once
// even when its directory is supplied twice.
type Merger struct {
	suffix  string
	include []glob.Glob
	exclude []glob.Glob
	logger  zerolog.Logger
}

// NewMerger compiles the filter patterns and returns a Merger. An empty
// include list admits every file that matches the suffix.
func NewMerger(suffix string, include, exclude []string, logger zerolog.Logger) (*Merger, error) {
	m := &Merger{suffix: suffix, logger: logger}
	for _, pattern := range include {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid resource include pattern %q: %w", pattern, err)
		}
		m.include = append(m.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid resource exclude pattern %q: %w", pattern, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Merge processes dirs in the given order and, within each directory, files
// in sorted name order, so conflict blame is reproducible. The first parse
// failure or key conflict aborts the merge.
func (m *Merger) Merge(dirs []string) (*Merged, error) {
	merged := NewMerged()
	seen := make(map[string]struct{})

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list resource directory %v: %w", dir, err)
		}
		for _, entry := range entries { // ReadDir returns sorted names
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, m.suffix) || !m.admit(name) {
				continue
			}
			path := filepath.Join(dir, name)
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}

			doc, err := ParseFile(path)
			if err != nil {
				return nil, err
			}
			if err := merged.Add(doc); err != nil {
				return nil, err
			}
			m.logger.Debug().Str("path", path).Int("keys", len(doc.Keys)).
				Msg("merged resource document")
		}
	}
	return merged, nil
}

func (m *Merger) admit(name string) bool {
	if len(m.include) > 0 {
		ok := false
		for _, g := range m.include {
			if g.Match(name) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, g := range m.exclude {
		if g.Match(name) {
			return false
		}
	}
	return true
}
