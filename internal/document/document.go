// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Document is a TOML table. Nested tables decode as map[string]any, arrays as
// []any, integers as int64 and floats as float64. Datetimes keep the go-toml
// representation (time.Time or one of the toml.Local* types).
type Document map[string]any

// Kind classifies a document value.
type Kind int

const (
	KindInvalid Kind = iota
	KindTable
	KindArray
	KindString
	KindInteger
	KindFloat
	KindBoolean
	KindDatetime
)

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindTable:    "table",
	KindArray:    "array",
	KindString:   "string",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindBoolean:  "boolean",
	KindDatetime: "datetime",
}

func (k Kind) String() string {
	return kindNames[k]
}

// KindOf returns the Kind of a value as produced by Parse.
func KindOf(v any) Kind {
	switch v.(type) {
	case Document, map[string]any:
		return KindTable
	case []any, []map[string]any:
		return KindArray
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindFloat
	case bool:
		return KindBoolean
	case time.Time, toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return KindDatetime
	default:
		return KindInvalid
	}
}

// ParseError reports malformed TOML. Line and Column are 1-based and zero when
// the underlying decoder did not report a position.
type ParseError struct {
	Source string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Source, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse decodes TOML text. source names the origin of data in error messages.
func Parse(source string, data []byte) (Document, error) {
	doc := Document{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		perr := &ParseError{Source: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return doc, nil
}

// ReadFile reads and parses the TOML file at path.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Marshal serializes the document as TOML. Keys are emitted in sorted order.
func (d Document) Marshal() ([]byte, error) {
	if len(d) == 0 {
		return []byte{}, nil
	}
	out, err := toml.Marshal(map[string]any(d))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}
	return out, nil
}

// JSON returns the document encoded as JSON. Datetimes are rendered as text,
// and so are the non-finite floats nan, inf and -inf, which JSON cannot carry.
func (d Document) JSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	out, err := json.Marshal(jsonValue(map[string]any(d)))
	if err != nil {
		return nil, fmt.Errorf("failed to encode document as JSON: %w", err)
	}
	return out, nil
}

// jsonValue copies v, replacing non-finite floats with their TOML spelling.
func jsonValue(v any) any {
	switch x := v.(type) {
	case Document:
		return jsonValue(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonValue(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonValue(e)
		}
		return out
	case float64:
		switch {
		case math.IsNaN(x):
			return "nan"
		case math.IsInf(x, 1):
			return "inf"
		case math.IsInf(x, -1):
			return "-inf"
		}
	}
	return v
}

// Keys returns the table's keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Table returns the value at key as a table.
func (d Document) Table(key string) (Document, bool) {
	return AsTable(d[key])
}

// Lookup walks nested tables along path. An empty path returns the document
// itself.
func (d Document) Lookup(path ...string) (any, bool) {
	var current any = d
	for _, key := range path {
		table, ok := AsTable(current)
		if !ok {
			return nil, false
		}
		current, ok = table[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneTable(d)
}

// AsTable reports whether v is a table and returns it as a Document. The
// returned Document shares storage with v.
func AsTable(v any) (Document, bool) {
	switch t := v.(type) {
	case Document:
		return t, true
	case map[string]any:
		return Document(t), true
	default:
		return nil, false
	}
}

// asArray reports whether v is an array and returns its elements.
func asArray(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case []map[string]any:
		out := make([]any, len(a))
		for i, m := range a {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneTable(t Document) Document {
	out := make(Document, len(t))
	for k, v := range t {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	if t, ok := AsTable(v); ok {
		return map[string]any(cloneTable(t))
	}
	if a, ok := asArray(v); ok {
		out := make([]any, len(a))
		for i, e := range a {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
