package formats

import (
	"bytes"
	"encoding/json"
)

// Field is one named value in a Table
type Field struct {
	Key   string
	Value Value
}

// Table maps tag names to decoded values, keeping the order in which
// names were first set.
type Table struct {
	fields []Field
	index  map[string]int
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Set stores v under key. A repeated key keeps its first position and
// takes the new value.
func (t *Table) Set(key string, v Value) {
	if i, ok := t.index[key]; ok {
		t.fields[i].Value = v
		return
	}
	t.index[key] = len(t.fields)
	t.fields = append(t.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key
func (t *Table) Get(key string) (Value, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.fields[i].Value, true
}

// Len returns the number of keys
func (t *Table) Len() int {
	return len(t.fields)
}

// Keys returns the keys in insertion order
func (t *Table) Keys() []string {
	keys := make([]string, len(t.fields))
	for i, f := range t.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the fields in insertion order
func (t *Table) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// MarshalJSON writes the table as a JSON object in insertion order
func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range t.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
