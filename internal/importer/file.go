package importer

import (
	"bytes"
	"context"
	"io"
	"time"

	apperrors "trade-journal/internal/errors"
	"trade-journal/internal/mapping"
	"trade-journal/internal/tabular"
)

// Preview is a decoded file with its proposed mapping, before any row is
// persisted.
type Preview struct {
	File    string                `json:"file"`
	Header  []string              `json:"header"`
	Mapping mapping.ColumnMapping `json:"mapping"`
	Rows    int                   `json:"rows"`
	Missing []mapping.Field       `json:"missing"`

	table *tabular.Table
}

// Table returns the decoded rows.
func (p *Preview) Table() *tabular.Table { return p.table }

// ReadFile decodes r, capped at maxBytes (0 means no cap), and proposes a
// mapping from the header and first data row.
func ReadFile(name string, r io.Reader, maxBytes int64) (*Preview, error) {
	if _, err := tabular.DecoderFor(name); err != nil {
		return nil, err
	}

	if maxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
		if err != nil {
			return nil, apperrors.NewFormatError(name, "read failed", err)
		}
		if int64(len(data)) > maxBytes {
			return nil, apperrors.NewFormatError(name, "file too large", apperrors.ErrFileTooLarge)
		}
		r = bytes.NewReader(data)
	}

	table, err := tabular.Decode(name, r)
	if err != nil {
		return nil, err
	}

	m := mapping.Propose(table.Header, table.FirstRow())
	return &Preview{
		File:    name,
		Header:  table.Header,
		Mapping: m,
		Rows:    len(table.Rows),
		Missing: m.Missing(),
		table:   table,
	}, nil
}

// ImportFile runs the whole pipeline for one file: decode, propose, apply
// the caller's positional overrides, validate and import. The final mapping
// is returned alongside the outcome so callers can show what was used.
func (im *Importer) ImportFile(ctx context.Context, ownerID, name string, r io.Reader, maxBytes int64, overrides []string) (*ImportOutcome, *Preview, error) {
	start := time.Now()

	preview, err := ReadFile(name, r, maxBytes)
	if err != nil {
		im.metrics.ObserveImport("rejected", time.Since(start))
		return nil, nil, err
	}
	if err := preview.Mapping.Apply(overrides); err != nil {
		im.metrics.ObserveImport("rejected", time.Since(start))
		return nil, preview, apperrors.NewValidationError("mapping", overrides, err.Error())
	}
	preview.Missing = preview.Mapping.Missing()

	outcome, err := im.Import(ctx, ownerID, preview.table.Rows, preview.Mapping)
	if err != nil {
		return nil, preview, err
	}
	return outcome, preview, nil
}
