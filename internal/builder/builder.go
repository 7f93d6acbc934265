// Package builder assembles the two bundle artifacts: the concatenated
// source file and the merged resource document.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsbundle/tsbundle/internal/config"
	"github.com/tsbundle/tsbundle/internal/resolver"
	"github.com/tsbundle/tsbundle/internal/resource"
	"github.com/tsbundle/tsbundle/internal/source"
	"github.com/tsbundle/tsbundle/internal/walker"
)

// banner opens every bundle artifact.
const banner = "// Code generated by tsbundle. DO NOT EDIT.\n" +
	"// Module imports were resolved and flattened at build time.\n"

// Builder orchestrates one build: walk the import graph, strip each file in
// build order, merge the colocated resource documents, and write both
// artifacts. Both artifacts are assembled in memory first; a fatal error
// never leaves a partial artifact behind.
type Builder struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{logger: zerolog.Nop()}
}

// WithConfig sets the build configuration. The configuration must be
// finalized (absolute paths, defaults applied).
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithLogger sets the logger used for warnings and debug traces.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Result summarizes a successful build.
type Result struct {
	Files        int
	Keys         int
	BundlePath   string
	ResourcePath string
}

// Build runs the whole pipeline and writes both artifacts to the configured
// output directory, creating it if absent.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	w := walker.New(resolver.New(b.cfg.Root, b.cfg.IgnoredSet()), b.logger)
	order, err := w.Walk(b.cfg.Entry)
	if err != nil {
		return nil, err
	}

	merger, err := resource.NewMerger(b.cfg.ResourceSuffix, b.cfg.ResourceInclude, b.cfg.ResourceExclude, b.logger)
	if err != nil {
		return nil, err
	}
	merged, err := merger.Merge(walker.Dirs(order))
	if err != nil {
		return nil, err
	}

	bundle, err := b.assemble(order)
	if err != nil {
		return nil, err
	}
	resources, err := merged.MarshalIndent()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Files:        len(order),
		Keys:         merged.Len(),
		BundlePath:   filepath.Join(b.cfg.OutputDir, config.BundleFile),
		ResourcePath: filepath.Join(b.cfg.OutputDir, b.cfg.ResourceSuffix),
	}
	if err := os.MkdirAll(b.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %v: %w", b.cfg.OutputDir, err)
	}
	if err := os.WriteFile(result.BundlePath, []byte(bundle), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write bundle: %w", err)
	}
	if err := os.WriteFile(result.ResourcePath, resources, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write merged resources: %w", err)
	}
	return result, nil
}

// assemble concatenates the stripped file bodies in build order, each block
// opened by a source-origin annotation and closed by a blank line.
func (b *Builder) assemble(order []walker.File) (string, error) {
	ignored := b.cfg.IgnoredSet()

	var sb strings.Builder
	sb.WriteString(banner)
	sb.WriteString("\n")
	for _, f := range order {
		rel, err := filepath.Rel(b.cfg.Root, f.Path)
		if err != nil {
			return "", fmt.Errorf("source %v is outside the project root %v: %w", f.Path, b.cfg.Root, err)
		}
		fmt.Fprintf(&sb, "// --- SOURCE: %s ---\n", filepath.ToSlash(rel))

		body := source.Strip(f.Text, ignored)
		sb.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
