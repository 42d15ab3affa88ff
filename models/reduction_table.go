package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ReductionTable is the nested numeric table the reduction endpoints
// return: row identifier -> column identifier -> value. The service emits
// rows and columns in request order and that order is meaningful (category
// axes are never sorted), so the table keeps insertion order on both axes
// instead of using plain maps.
//
// Null samples (masked pixels, empty reductions) decode as NaN.
type ReductionTable struct {
	rowKeys []string
	rows    map[string]*ReductionRow
}

// ReductionRow is one row of a ReductionTable.
type ReductionRow struct {
	colKeys []string
	values  map[string]float64
}

// NewReductionTable returns an empty table.
func NewReductionTable() *ReductionTable {
	return &ReductionTable{rows: map[string]*ReductionRow{}}
}

// Add sets a cell, appending unseen row and column identifiers in call
// order. It returns the table so fixtures can chain calls.
func (t *ReductionTable) Add(row, col string, value float64) *ReductionTable {
	if t.rows == nil {
		t.rows = map[string]*ReductionRow{}
	}
	r, ok := t.rows[row]
	if !ok {
		r = &ReductionRow{values: map[string]float64{}}
		t.rows[row] = r
		t.rowKeys = append(t.rowKeys, row)
	}
	if _, seen := r.values[col]; !seen {
		r.colKeys = append(r.colKeys, col)
	}
	r.values[col] = value
	return t
}

// Len returns the number of rows.
func (t *ReductionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rowKeys)
}

// Rows returns the row identifiers in wire order.
func (t *ReductionTable) Rows() []string {
	return t.rowKeys
}

// Row returns the row for the given identifier.
func (t *ReductionTable) Row(id string) (*ReductionRow, bool) {
	r, ok := t.rows[id]
	return r, ok
}

// Value returns a single cell.
func (t *ReductionTable) Value(row, col string) (float64, bool) {
	r, ok := t.rows[row]
	if !ok {
		return 0, false
	}
	return r.Value(col)
}

// Transpose returns a new table with rows and columns swapped. The new row
// order is the first-seen column order, the new column order per row is
// the old row order.
func (t *ReductionTable) Transpose() *ReductionTable {
	out := NewReductionTable()
	for _, rowID := range t.rowKeys {
		row := t.rows[rowID]
		for _, col := range row.colKeys {
			out.Add(col, rowID, row.values[col])
		}
	}
	return out
}

// Columns returns the column identifiers in wire order.
func (r *ReductionRow) Columns() []string {
	return r.colKeys
}

// Len returns the number of columns.
func (r *ReductionRow) Len() int {
	if r == nil {
		return 0
	}
	return len(r.colKeys)
}

// Value returns the sample for one column.
func (r *ReductionRow) Value(col string) (float64, bool) {
	v, ok := r.values[col]
	return v, ok
}

// UnmarshalJSON decodes the wire object with a token walk instead of a map
// so key order survives. encoding/json would scramble it.
func (t *ReductionTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil { // bare null, leave the table empty
		t.rowKeys = nil
		t.rows = map[string]*ReductionRow{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("reduction table: expected object, got %v", tok)
	}

	t.rowKeys = nil
	t.rows = map[string]*ReductionRow{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		rowID := keyTok.(string)
		row := &ReductionRow{values: map[string]float64{}}
		if err := row.decode(dec); err != nil {
			return fmt.Errorf("reduction table: row %q: %w", rowID, err)
		}
		if _, seen := t.rows[rowID]; !seen {
			t.rowKeys = append(t.rowKeys, rowID)
		}
		t.rows[rowID] = row
	}
	_, err = dec.Token() // closing brace
	return err
}

func (r *ReductionRow) decode(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		col := keyTok.(string)
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var v float64
		switch val := valTok.(type) {
		case json.Number:
			f, err := val.Float64()
			if err != nil {
				return fmt.Errorf("column %q: %w", col, err)
			}
			v = f
		case nil:
			v = math.NaN()
		default:
			return fmt.Errorf("column %q: expected number, got %v", col, val)
		}
		if _, seen := r.values[col]; !seen {
			r.colKeys = append(r.colKeys, col)
		}
		r.values[col] = v
	}
	_, err = dec.Token() // closing brace
	return err
}

// MarshalJSON writes the table back in row and column order, with NaN
// cells as null, so a cached table round-trips byte-identically.
func (t *ReductionTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rowID := range t.rowKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rowID)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		row, err := t.rows[rowID].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(row)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON writes one row in column order.
func (r *ReductionRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.colKeys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := r.values[col]
		if math.IsNaN(v) {
			buf.WriteString("null")
		} else {
			num, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			buf.Write(num)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
