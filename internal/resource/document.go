// Package resource discovers, parses and merges the string-table documents
// that sit next to source files.
package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is one parsed resource file. Keys preserves the top-level key
// order of the underlying document.
type Document struct {
	Path   string
	Keys   []string
	Values map[string]json.RawMessage
}

// ParseFile reads and parses one resource document.
func ParseFile(path string) (*Document, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource document %v: %w", path, err)
	}
	return Parse(path, bs)
}

// Parse decodes a resource document, keeping top-level keys in document
// order. The top level must be a JSON object; value subtrees are kept as raw
// bytes and never rewritten.
func Parse(path string, bs []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(bs))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse resource document %v: %w", path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("resource document %v: top level must be an object", path)
	}

	doc := &Document{Path: path, Values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to parse resource document %v: %w", path, err)
		}
		key := tok.(string) // inside an object the decoder guarantees a string key

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to parse resource document %v: key %q: %w", path, key, err)
		}
		if _, ok := doc.Values[key]; ok {
			return nil, fmt.Errorf("resource document %v: duplicate key %q", path, key)
		}
		doc.Keys = append(doc.Keys, key)
		doc.Values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse resource document %v: %w", path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("resource document %v: trailing content after top-level object", path)
	}
	return doc, nil
}

// Merged accumulates documents with disjoint top-level key sets. Key order is
// first-encountered order across the whole merge.
type Merged struct {
	keys   []string
	values map[string]json.RawMessage
	origin map[string]string
}

// NewMerged returns an empty accumulator.
func NewMerged() *Merged {
	return &Merged{
		values: make(map[string]json.RawMessage),
		origin: make(map[string]string),
	}
}

// Add inserts all top-level keys of doc. A key already contributed by an
// earlier document aborts with a ConflictErr; nothing is ever overwritten.
func (m *Merged) Add(doc *Document) error {
	for _, key := range doc.Keys {
		if existing, ok := m.origin[key]; ok {
			return &ConflictErr{Key: key, Path: doc.Path, Existing: existing}
		}
		m.keys = append(m.keys, key)
		m.values[key] = doc.Values[key]
		m.origin[key] = doc.Path
	}
	return nil
}

// Len returns the number of merged top-level keys.
func (m *Merged) Len() int {
	return len(m.keys)
}

// MarshalIndent renders the merged document with 4-space indentation and
// stable key order.
func (m *Merged) MarshalIndent() ([]byte, error) {
	if len(m.keys) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n    ")
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteString(": ")
		if err := json.Indent(&buf, m.values[key], "    ", "    "); err != nil {
			return nil, err
		}
	}
	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// ConflictErr reports two resource documents defining the same top-level key.
type ConflictErr struct {
	Key      string
	Path     string // document that introduced the conflict
	Existing string // document that already contributed the key
}

func (e *ConflictErr) Error() string {
	return fmt.Sprintf("duplicate resource key %q: already defined by %v, redefined by %v",
		e.Key, e.Existing, e.Path)
}
