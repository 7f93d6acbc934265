// Package resolver maps import specifiers to files on disk.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tsbundle/tsbundle/internal/config"
)

// Kind is the outcome of resolving one import specifier.
type Kind int

const (
	// File is a source file the walker recurses into.
	File Kind = iota
	// Declaration is a type-only `.d.ts` file; resolved but never walked.
	Declaration
	// Ignored is a runtime-provided namespace; no file access is attempted.
	Ignored
	// Unresolved means no candidate existed on disk.
	Unresolved
)

// Resolution is the result of Resolve. Path is set for File and Declaration.
type Resolution struct {
	Kind Kind
	Path string
}

// Resolver resolves import specifiers against a fixed project root. Relative
// specifiers resolve against the importing file's directory; package-style
// specifiers always resolve against <root>/node_modules — the consumer's
// dependencies, never the tool's own install location.
type Resolver struct {
	root    string
	ignored map[string]struct{}
}

// New returns a Resolver for the given project root and ignored namespaces.
func New(root string, ignored map[string]struct{}) *Resolver {
	return &Resolver{root: root, ignored: ignored}
}

// Resolve maps specifier to a file. Candidates are probed in order: the exact
// path, path + ".ts", path + "/index.ts", path + ".d.ts". The first existing
// regular file wins.
func (r *Resolver) Resolve(specifier, importingDir string) Resolution {
	if _, ok := r.ignored[specifier]; ok {
		return Resolution{Kind: Ignored}
	}

	var base string
	if strings.HasPrefix(specifier, ".") {
		base = filepath.Join(importingDir, specifier)
	} else {
		base = filepath.Join(r.root, config.NodeModulesDir, specifier)
	}

	candidates := []string{
		base,
		base + config.SourceExt,
		filepath.Join(base, config.IndexFile),
		base + config.DeclarationExt,
	}
	for _, candidate := range candidates {
		if !isFile(candidate) {
			continue
		}
		kind := File
		if strings.HasSuffix(candidate, config.DeclarationExt) {
			kind = Declaration
		}
		return Resolution{Kind: kind, Path: filepath.Clean(candidate)}
	}
	return Resolution{Kind: Unresolved}
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
