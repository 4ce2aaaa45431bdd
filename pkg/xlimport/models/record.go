package models

import (
	"bytes"
	"encoding/json"
)

// Record is one mapped data row.
type Record struct {
	// Sheet is the source sheet name.
	Sheet string
	// Row is the 1-based source row number.
	Row int
	// Keys are the column names in header order.
	Keys []string
	// Values holds one value per key.
	Values []Value
	// Valid is false when the row failed key validation.
	Valid bool
	// Warning describes why the record is invalid.
	Warning string
}

// NewRecord creates a valid record. keys and values must have equal length.
func NewRecord(sheet string, row int, keys []string, values []Value) Record {
	return Record{Sheet: sheet, Row: row, Keys: keys, Values: values, Valid: true}
}

// Get returns the value for a column name.
func (r Record) Get(key string) (Value, bool) {
	for i, k := range r.Keys {
		if k == key {
			if i < len(r.Values) {
				return r.Values[i], true
			}
			return Null(), true
		}
	}
	return Null(), false
}

// MarshalJSON encodes the record as an object whose keys follow header
// order, followed by _valid and, when set, _warning.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, k, r.valueAt(i)); err != nil {
			return nil, err
		}
	}
	if len(r.Keys) > 0 {
		buf.WriteByte(',')
	}
	if err := writeField(&buf, "_valid", r.Valid); err != nil {
		return nil, err
	}
	if r.Warning != "" {
		buf.WriteByte(',')
		if err := writeField(&buf, "_warning", r.Warning); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r Record) valueAt(i int) Value {
	if i < len(r.Values) {
		return r.Values[i]
	}
	return Null()
}

func writeField(buf *bytes.Buffer, key string, v any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}
