// Package htmltable writes views as HTML tables.
//
// Cells are HTML-escaped unless a CellFormatter
// reports its result as raw HTML.
//
//	grid := regrid.NewGrid("People", []string{"Name", "Age"}, rows)
//	grid.MoveRows([]int{1}, 0)
//
//	err := htmltable.NewWriter().
//	    WithHeaderRow(true).
//	    WithTableClass("my-table").
//	    WriteView(ctx, os.Stdout, grid)
package htmltable

import (
	"context"
	"html/template"
	"io"
	"maps"

	"github.com/domonda/go-regrid"
)

// Writer writes views as HTML table elements.
// The With* methods return modified copies of the Writer.
type Writer struct {
	tableClass       string
	columnFormatters map[int]regrid.CellFormatter
	nilValue         template.HTML
	headerRow        bool
	headerTemplate   *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]regrid.CellFormatter),
		headerTemplate:   HeaderTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// WriteView writes view as HTML table to dest
// using the title of the view as caption.
//
// Every cell is formatted by the column formatter of its column
// if there is one that supports the cell, or else with fmt.Sprint.
// Non raw strings are HTML-escaped.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view regrid.View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var (
		columns   = view.Columns()
		numRows   = view.NumRows()
		templData = &RowTemplateContext{
			TemplateContext: TemplateContext{
				TableClass: w.tableClass,
				Caption:    view.Title(),
			},
			RawCells: make([]template.HTML, len(columns)),
		}
	)

	err := w.headerTemplate.Execute(dest, templData.TemplateContext)
	if err != nil {
		return err
	}

	if w.headerRow {
		templData.IsHeaderRow = true
		templData.RowIndex = -1
		for col, name := range columns {
			templData.RawCells[col] = template.HTML(template.HTMLEscapeString(name)) //#nosec G203
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
		templData.IsHeaderRow = false
	}

	for row := range numRows {
		for col := range columns {
			templData.RawCells[col], err = w.cellHTML(ctx, view, row, col)
			if err != nil {
				return err
			}
		}
		templData.RowIndex = row
		templData.IsFirstBodyRow = row == 0
		templData.IsLastBodyRow = row == numRows-1
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
	}

	return w.footerTemplate.Execute(dest, templData.TemplateContext)
}

func (w *Writer) cellHTML(ctx context.Context, view regrid.View, row, col int) (template.HTML, error) {
	if regrid.IsNullLike(view.Cell(row, col)) && w.columnFormatters[col] == nil {
		return w.nilValue, nil
	}
	str, raw, err := regrid.FormatCell(ctx, view, row, col, w.columnFormatters[col])
	if err != nil {
		return "", err
	}
	if !raw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str), nil //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithHeaderRow returns a new writer that renders
// the column names as th elements before the rows.
func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithTableClass returns a new writer with the CSS class
// of the table element.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithColumnFormatter returns a new writer with the formatter registered for the visual column.
// If nil is passed as formatter, any previously registered formatter for this column is removed.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter regrid.CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = maps.Clone(w.columnFormatters)
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

// WithRawColumn returns a new writer that does not escape the cells of the column.
// Only use it for trusted content.
func (w *Writer) WithRawColumn(columnIndex int) *Writer {
	return w.WithColumnFormatter(columnIndex, regrid.CellFormatterFunc(
		func(ctx context.Context, view regrid.View, row, col int) (string, bool, error) {
			str, _, err := regrid.SprintCellFormatter("").FormatCell(ctx, view, row, col)
			return str, true, err
		},
	))
}

// WithNilValue returns a new writer rendering nil cells as nilValue.
func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates.
// The header and footer templates are executed with a TemplateContext,
// the row template with a RowTemplateContext.
func (w *Writer) WithTemplate(headerTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = headerTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

func (w *Writer) TableClass() string      { return w.tableClass }
func (w *Writer) NilValue() template.HTML { return w.nilValue }
