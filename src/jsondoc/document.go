// Package jsondoc holds JSON objects whose top-level key order must survive
// a load/modify/save round trip. package.json files are edited by hand and
// reviewed in diffs, so rewriting one must not reshuffle unrelated keys.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// Document is a JSON object kept as its encoded bytes. Reads go through
// gjson and edits through sjson, which leave the position of untouched keys
// alone.
type Document struct {
	raw []byte
}

// New returns an empty document.
func New() *Document {
	return &Document{raw: []byte("{}")}
}

// Parse validates data as a single JSON object and wraps it. Repeated keys
// collapse to the first position with the last value.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("malformed JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return nil, errors.New("top-level value is not a JSON object")
	}

	doc := &Document{raw: pretty.Ugly(data)}

	seen := map[string]bool{}
	dup := false
	res.ForEach(func(k, _ gjson.Result) bool {
		if seen[k.String()] {
			dup = true
			return false
		}
		seen[k.String()] = true
		return true
	})
	if dup {
		return dedupe(res)
	}
	return doc, nil
}

func dedupe(res gjson.Result) (*Document, error) {
	doc := New()
	var err error
	res.ForEach(func(k, v gjson.Result) bool {
		doc.raw, err = sjson.SetRawBytes(doc.raw, escapeKey(k.String()), []byte(v.Raw))
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ReadFile loads a document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	var keys []string
	gjson.ParseBytes(d.raw).ForEach(func(k, _ gjson.Result) bool {
		keys = append(keys, k.String())
		return true
	})
	return keys
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	return d.get(key).Exists()
}

// Raw returns the raw JSON value for key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	r := d.get(key)
	if !r.Exists() {
		return nil, false
	}
	return json.RawMessage(r.Raw), true
}

// Decode unmarshals the value of key into dst. Returns false when the key
// is absent.
func (d *Document) Decode(key string, dst any) (bool, error) {
	raw, ok := d.Raw(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("key %q: %w", key, err)
	}
	return true, nil
}

// Set encodes v and stores it under key. Existing keys keep their position,
// new keys are appended.
func (d *Document) Set(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	return d.SetRaw(key, raw)
}

// SetRaw stores an already-encoded value.
func (d *Document) SetRaw(key string, raw json.RawMessage) error {
	out, err := sjson.SetRawBytes(d.raw, escapeKey(key), raw)
	if err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	d.raw = out
	return nil
}

// Delete removes key if present.
func (d *Document) Delete(key string) {
	if !d.Has(key) {
		return
	}
	if out, err := sjson.DeleteBytes(d.raw, escapeKey(key)); err == nil {
		d.raw = out
	}
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	return &Document{raw: append([]byte(nil), d.raw...)}
}

// MarshalJSON emits the object compactly in key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	return pretty.Ugly(d.raw), nil
}

// Format renders the document indented by indent spaces, or compact when
// indent <= 0. The result ends with a newline.
func (d *Document) Format(indent int) ([]byte, error) {
	var out []byte
	if indent <= 0 {
		out = pretty.Ugly(d.raw)
	} else {
		// Width 0 keeps every array element on its own line.
		out = pretty.PrettyOptions(d.raw, &pretty.Options{
			Indent: strings.Repeat(" ", indent),
		})
	}
	out = bytes.TrimRight(out, "\n")
	return append(out, '\n'), nil
}

// WriteFile saves the document with the given indent.
func (d *Document) WriteFile(path string, indent int) error {
	data, err := d.Format(indent)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (d *Document) get(key string) gjson.Result {
	return gjson.GetBytes(d.raw, escapeKey(key))
}

// escapeKey turns a literal key into a gjson/sjson path of one component.
// Package names like "lodash.merge" or "@scope/pkg" would otherwise be read
// as nested paths or modifiers.
func escapeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c < 0x80 && !isPlain(c) {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isPlain(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_' || c == '/'
}

// marshal encodes without HTML escaping so ranges like ">=1.0.0 <2" stay
// readable in the written file.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
