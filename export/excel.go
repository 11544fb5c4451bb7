// Package export writes report rows as spreadsheets.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/viant/nfereport/mapping"
	"github.com/xuri/excelize/v2"
)

const (
	// ContentType is the xlsx MIME type.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// DefaultFileName is the attachment name used by the service.
	DefaultFileName = "relatorio.xlsx"
	// DefaultSheet is the worksheet name.
	DefaultSheet = "Relatório"

	defaultColWidth = 18
)

// ErrEmptyResult reports that no rows survived extraction and filtering.
var ErrEmptyResult = errors.New("export: no data matched after filtering")

// Option configures a Writer.
type Option func(*Writer)

// WithSheet sets the worksheet name.
func WithSheet(name string) Option {
	return func(w *Writer) {
		if name != "" {
			w.sheet = name
		}
	}
}

// Writer renders rows into an xlsx workbook.
type Writer struct {
	sheet string
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{sheet: DefaultSheet}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders a header of titles followed by one line per row.
// It returns ErrEmptyResult, writing nothing, when rows is empty.
func (w *Writer) Write(out io.Writer, titles []string, rows []mapping.Row) error {
	if len(rows) == 0 {
		return ErrEmptyResult
	}
	if len(titles) == 0 {
		return fmt.Errorf("export: no columns")
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), w.sheet); err != nil {
		return fmt.Errorf("export: sheet name: %w", err)
	}
	header := make([]interface{}, len(titles))
	for i, title := range titles {
		header[i] = title
	}
	if err := f.SetSheetRow(w.sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}
	for i, row := range rows {
		values := row.Values(titles)
		line := make([]interface{}, len(values))
		for j, v := range values {
			line[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(w.sheet, cell, &line); err != nil {
			return fmt.Errorf("export: row %d: %w", i+1, err)
		}
	}
	if err := w.decorate(f, len(titles)); err != nil {
		return err
	}
	return f.Write(out)
}

// Bytes renders the workbook into memory.
func (w *Writer) Bytes(titles []string, rows []mapping.Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, titles, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Writer) decorate(f *excelize.File, columns int) error {
	lastCol, err := excelize.ColumnNumberToName(columns)
	if err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	if err := f.SetRowStyle(w.sheet, 1, 1, style); err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetColWidth(w.sheet, "A", lastCol, defaultColWidth); err != nil {
		return fmt.Errorf("export: col width: %w", err)
	}
	if err := f.SetPanes(w.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("export: panes: %w", err)
	}
	if err := f.AutoFilter(w.sheet, "A1:"+lastCol+"1", nil); err != nil {
		return fmt.Errorf("export: autofilter: %w", err)
	}
	return nil
}
