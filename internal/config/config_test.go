package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tsbundle/tsbundle/internal/config"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsbundle.yaml")
	content := `
entry: src/main.ts
output: dist
ignore:
  - office
  - runtime
resource_suffix: strings.json
resource_exclude:
  - "draft.*"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Entry != "src/main.ts" || cfg.OutputDir != "dist" {
		t.Fatalf("unexpected paths: %+v", cfg)
	}
	if diff := cmp.Diff([]string{"office", "runtime"}, cfg.IgnoredNamespaces); diff != "" {
		t.Fatalf("unexpected ignored namespaces (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"draft.*"}, cfg.ResourceExclude); diff != "" {
		t.Fatalf("unexpected exclude patterns (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsbundle.yaml")
	if err := os.WriteFile(path, []byte("entry: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestFinalize(t *testing.T) {
	cases := []struct {
		note   string
		cfg    config.Config
		expErr string
	}{
		{
			note:   "entry required",
			cfg:    config.Config{OutputDir: "dist"},
			expErr: "entry file is required",
		},
		{
			note:   "output required",
			cfg:    config.Config{Entry: "main.ts"},
			expErr: "output directory is required",
		},
		{
			note: "defaults applied",
			cfg:  config.Config{Entry: "main.ts", OutputDir: "dist"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			err := tc.cfg.Finalize()
			if tc.expErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.expErr) {
					t.Fatalf("expected error containing %q, got %v", tc.expErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if tc.cfg.ResourceSuffix != config.DefaultResourceSuffix {
				t.Fatalf("default resource suffix not applied: %q", tc.cfg.ResourceSuffix)
			}
			for _, p := range []string{tc.cfg.Entry, tc.cfg.OutputDir, tc.cfg.Root} {
				if !filepath.IsAbs(p) {
					t.Fatalf("expected absolute path, got %q", p)
				}
			}
		})
	}
}

func TestIgnoredSet(t *testing.T) {
	cfg := config.Config{IgnoredNamespaces: []string{"office", "office"}}
	set := cfg.IgnoredSet()
	if len(set) != 1 {
		t.Fatalf("expected deduplicated set, got %v", set)
	}
	if _, ok := set["office"]; !ok {
		t.Fatal("missing namespace in set")
	}
}
