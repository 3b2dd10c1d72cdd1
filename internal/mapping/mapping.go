package mapping

import (
	"fmt"

	apperrors "trade-journal/internal/errors"
)

// Column is one source column and the field it is currently assigned to.
type Column struct {
	SourceIndex int    `json:"source_index"`
	Header      string `json:"header"`
	Sample      string `json:"sample"`
	Target      Field  `json:"target"`
	Rule        string `json:"rule,omitempty"`
}

// ColumnMapping is owned by the caller: Propose builds it, the user may edit
// it, and the importer only reads the final value.
type ColumnMapping struct {
	Columns []Column `json:"columns"`
}

// Propose assigns every header cell a target using Rules. Unmatched columns
// are IGNORE. firstRow may be shorter than header.
func Propose(header, firstRow []string) ColumnMapping {
	m := ColumnMapping{Columns: make([]Column, len(header))}
	for i, h := range header {
		target, rule := Classify(h)
		sample := ""
		if i < len(firstRow) {
			sample = firstRow[i]
		}
		m.Columns[i] = Column{
			SourceIndex: i,
			Header:      h,
			Sample:      sample,
			Target:      target,
			Rule:        rule,
		}
	}
	return m
}

// Set overrides the target of the column at index.
func (m *ColumnMapping) Set(index int, target Field) error {
	if index < 0 || index >= len(m.Columns) {
		return fmt.Errorf("column index %d out of range [0,%d)", index, len(m.Columns))
	}
	m.Columns[index].Target = target
	m.Columns[index].Rule = "manual"
	return nil
}

// Apply overrides targets positionally. Empty entries leave a column as is.
func (m *ColumnMapping) Apply(targets []string) error {
	for i, raw := range targets {
		if raw == "" {
			continue
		}
		f, err := ParseTarget(raw)
		if err != nil {
			return err
		}
		if err := m.Set(i, f); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the source index of the first column mapped to f.
func (m ColumnMapping) Lookup(f Field) (int, bool) {
	for _, c := range m.Columns {
		if c.Target == f {
			return c.SourceIndex, true
		}
	}
	return -1, false
}

// Missing lists required fields no column is mapped to, in canonical order.
func (m ColumnMapping) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields() {
		if _, ok := m.Lookup(f); !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate returns a MissingFieldsError when any required field is unmapped.
func (m ColumnMapping) Validate() error {
	missing := m.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = string(f)
	}
	return apperrors.NewMissingFieldsError(names)
}
