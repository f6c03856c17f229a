// Package pkgjson loads, edits and writes package.json files while keeping
// the order of their top-level keys.
package pkgjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
)

// ErrNotObject is returned when a package.json document is not a JSON object.
var ErrNotObject = errors.New("package.json must contain a JSON object")

// Document is a package.json file with ordered top-level keys.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// Parse decodes data into a Document.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	doc := &Document{values: make(map[string]json.RawMessage)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing package.json: %w", err)
		}
		key := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parsing package.json key %q: %w", key, err)
		}

		if _, exists := doc.values[key]; !exists {
			doc.keys = append(doc.keys, key)
		}
		doc.values[key] = raw
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing package.json: unexpected data after object")
	}

	return doc, nil
}

// Load reads and parses the package.json at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Get decodes the value of key into v.
func (d *Document) Get(key string, v any) error {
	raw, ok := d.values[key]
	if !ok {
		return fmt.Errorf("package.json has no %q key", key)
	}
	return json.Unmarshal(raw, v)
}

// String returns the string value of key, or "" when it is missing or not a string.
func (d *Document) String(key string) string {
	var s string
	if err := d.Get(key, &s); err != nil {
		return ""
	}
	return s
}

// Set stores value under key. New keys are appended after existing ones.
func (d *Document) Set(key string, value any) error {
	raw, err := marshal(value)
	if err != nil {
		return fmt.Errorf("encoding package.json key %q: %w", key, err)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
	return nil
}

// Delete removes key if present.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Update applies updates. A nil value removes the key; any other value
// replaces it. Keys not yet present are added in sorted order.
func (d *Document) Update(updates map[string]any) error {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := updates[key]
		if value == nil {
			d.Delete(key)
			continue
		}
		if err := d.Set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Bytes encodes the document with two space indentation and a trailing newline.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if len(d.keys) == 0 {
		buf.WriteString("{}\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("{\n")
	for i, key := range d.keys {
		name, err := marshal(key)
		if err != nil {
			return nil, err
		}
		buf.WriteString("  ")
		buf.Write(name)
		buf.WriteString(": ")
		if err := json.Indent(&buf, d.values[key], "  ", "  "); err != nil {
			return nil, fmt.Errorf("encoding package.json key %q: %w", key, err)
		}
		if i < len(d.keys)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Write encodes doc to path.
func Write(path string, doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Change holds a package.json before and after an update.
type Change struct {
	Before []byte
	After  []byte
	Doc    *Document
}

// LoadAndUpdate loads path, applies updates, writes the result back and
// returns the change.
func LoadAndUpdate(path string, updates map[string]any) (*Change, error) {
	before, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := Parse(before)
	if err != nil {
		return nil, err
	}
	if err := doc.Update(updates); err != nil {
		return nil, err
	}

	after, err := doc.Bytes()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, after, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	return &Change{Before: before, After: after, Doc: doc}, nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
