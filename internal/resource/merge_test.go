package resource_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/tsbundle/tsbundle/internal/resource"
	"github.com/tsbundle/tsbundle/internal/test/tempfs"
)

func newMerger(t *testing.T, include, exclude []string) *resource.Merger {
	t.Helper()
	m, err := resource.NewMerger("strings.json", include, exclude, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMergeDisjoint(t *testing.T) {
	root := tempfs.WriteFiles(t, map[string]string{
		"src/strings.json":       `{"x": 1}`,
		"src/utils/strings.json": `{"y": 2}`,
	})

	merged, err := newMerger(t, nil, nil).Merge([]string{
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "utils"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if merged.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", merged.Len())
	}

	bs, err := merged.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	exp := "{\n    \"x\": 1,\n    \"y\": 2\n}\n"
	if diff := cmp.Diff(exp, string(bs)); diff != "" {
		t.Fatalf("unexpected merged document (-want +got):\n%s", diff)
	}
}

func TestMergeConflict(t *testing.T) {
	root := tempfs.WriteFiles(t, map[string]string{
		"a/strings.json": `{"shared": 1}`,
		"b/strings.json": `{"shared": 2}`,
	})

	_, err := newMerger(t, nil, nil).Merge([]string{
		filepath.Join(root, "a"),
		filepath.Join(root, "b"),
	})

	var conflict *resource.ConflictErr
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictErr, got %v", err)
	}
	if conflict.Key != "shared" {
		t.Fatalf("expected conflicting key %q, got %q", "shared", conflict.Key)
	}
	if exp := filepath.Join(root, "b", "strings.json"); conflict.Path != exp {
		t.Fatalf("expected blame on %v, got %v", exp, conflict.Path)
	}
	if exp := filepath.Join(root, "a", "strings.json"); conflict.Existing != exp {
		t.Fatalf("expected existing origin %v, got %v", exp, conflict.Existing)
	}
}

func TestMergeParseFailureIsFatal(t *testing.T) {
	root := tempfs.WriteFiles(t, map[string]string{
		"src/strings.json": `{"x": `,
	})
	if _, err := newMerger(t, nil, nil).Merge([]string{filepath.Join(root, "src")}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMergeDirectoryDeduplication(t *testing.T) {
	root := tempfs.WriteFiles(t, map[string]string{
		"src/strings.json": `{"x": 1}`,
	})
	dir := filepath.Join(root, "src")

	// The same directory reached twice must not re-process its documents,
	// otherwise the second pass would conflict with the first.
	merged, err := newMerger(t, nil, nil).Merge([]string{dir, dir})
	if err != nil {
		t.Fatal(err)
	}
	if merged.Len() != 1 {
		t.Fatalf("expected 1 key, got %d", merged.Len())
	}
}

func TestMergeSuffixAndFilters(t *testing.T) {
	root := tempfs.WriteFiles(t, map[string]string{
		"src/strings.json":       `{"a": 1}`,
		"src/de.strings.json":    `{"b": 2}`,
		"src/draft.strings.json": `{"a": 99}`,
		"src/other.json":         `{"c": 3}`,
		"src/notes.txt":          "not json",
	})

	merged, err := newMerger(t, nil, []string{"draft.*"}).Merge([]string{filepath.Join(root, "src")})
	if err != nil {
		t.Fatal(err)
	}
	if merged.Len() != 2 {
		t.Fatalf("expected keys a and b only, got %d keys", merged.Len())
	}
}

func TestParseKeyOrder(t *testing.T) {
	doc, err := resource.Parse("test.json", []byte(`{"z": 1, "a": {"nested": true}, "m": [1, 2]}`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, doc.Keys); diff != "" {
		t.Fatalf("unexpected key order (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		note string
		text string
	}{
		{"top level array", `[1, 2]`},
		{"top level scalar", `42`},
		{"truncated", `{"x": {`},
		{"duplicate key", `{"x": 1, "x": 2}`},
		{"trailing garbage", `{"x": 1} {"y": 2}`},
	}
	for _, tc := range cases {
		t.Run(tc.note, func(t *testing.T) {
			if _, err := resource.Parse("test.json", []byte(tc.text)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMarshalIndentNested(t *testing.T) {
	doc, err := resource.Parse("test.json", []byte(`{"a":{"b":[1,2]},"c":"text"}`))
	if err != nil {
		t.Fatal(err)
	}
	merged := resource.NewMerged()
	if err := merged.Add(doc); err != nil {
		t.Fatal(err)
	}

	bs, err := merged.MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	exp := `{
    "a": {
        "b": [
            1,
            2
        ]
    },
    "c": "text"
}
`
	if diff := cmp.Diff(exp, string(bs)); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}
}

func TestMarshalIndentEmpty(t *testing.T) {
	bs, err := resource.NewMerged().MarshalIndent()
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "{}\n" {
		t.Fatalf("unexpected output %q", bs)
	}
}
