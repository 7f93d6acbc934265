// Package walker performs the depth-first traversal that turns an entry file
// into a dependency-first build order.
package walker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tsbundle/tsbundle/internal/resolver"
	"github.com/tsbundle/tsbundle/internal/source"
)

// ErrEntryNotFound reports a missing entry file. This is the only fatal
// condition the walker produces on its own; unresolved imports are warnings.
var ErrEntryNotFound = errors.New("entry file not found")

// File is one source file in build order. Text is read exactly once, on
// first visit.
type File struct {
	Path string
	Text string
}

type visitState int

const (
	inProgress visitState = iota + 1
	recorded
)

// Walker owns the traversal state for a single build: the visited set and the
// build order. Construct a fresh Walker per build; it is not reusable.
type Walker struct {
	resolver *resolver.Resolver
	logger   zerolog.Logger
	state    map[string]visitState
	order    []File
}

// New returns a Walker that resolves imports with r.
func New(r *resolver.Resolver, logger zerolog.Logger) *Walker {
	return &Walker{
		resolver: r,
		logger:   logger,
		state:    make(map[string]visitState),
	}
}

// Walk traverses the import graph from entry and returns all reachable source
// files in strict post-order: a file is appended only after every resolved,
// non-declaration dependency has been appended. Each file appears exactly
// once. Cycles are broken by first-discovery order: the file that closes a
// cycle is recorded after the full non-cyclic subtree of the file it points
// back to, and a warning names the back-edge.
func (w *Walker) Walk(entry string) ([]File, error) {
	entry = filepath.Clean(entry)
	if fi, err := os.Stat(entry); err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %v", ErrEntryNotFound, entry)
	}
	if err := w.walk(entry); err != nil {
		return nil, err
	}
	return w.order, nil
}

func (w *Walker) walk(path string) error {
	// Marking before recursing is what terminates cycles.
	switch w.state[path] {
	case inProgress:
		w.logger.Warn().Str("path", path).Msg("import cycle detected, keeping first-discovery order")
		return nil
	case recorded:
		return nil
	}
	w.state[path] = inProgress

	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read source file %v: %w", path, err)
	}
	text := string(bs)
	dir := filepath.Dir(path)

	for _, st := range source.Scan(text) {
		res := w.resolver.Resolve(st.Specifier, dir)
		switch res.Kind {
		case resolver.File:
			if err := w.walk(res.Path); err != nil {
				return err
			}
		case resolver.Declaration:
			w.logger.Debug().Str("specifier", st.Specifier).Str("path", res.Path).
				Msg("declaration-only import, not walked")
		case resolver.Ignored:
			w.logger.Debug().Str("specifier", st.Specifier).
				Msg("ignored namespace, provided by the runtime")
		case resolver.Unresolved:
			w.logger.Warn().Str("specifier", st.Specifier).Str("dir", dir).
				Msg("unresolved import")
		}
	}

	w.state[path] = recorded
	w.order = append(w.order, File{Path: path, Text: text})
	return nil
}

// Dirs returns the distinct directories of the files in order, in
// first-appearance order. This is the deterministic processing order the
// resource merger uses.
func Dirs(order []File) []string {
	seen := make(map[string]struct{}, len(order))
	var dirs []string
	for _, f := range order {
		dir := filepath.Dir(f.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}
	return dirs
}
