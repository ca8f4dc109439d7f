package csvtable

import (
	"bytes"
	"context"
	"io"
	"maps"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"

	"github.com/domonda/go-regrid"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// CharsetEncoder returns an Encoder that encodes UTF-8
// to the named charset like "ISO 8859-1" or "Windows 1252".
func CharsetEncoder(name string) (Encoder, error) {
	enc, err := charset.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return EncoderFunc(enc.Encode), nil
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// Writer writes views as CSV.
// The With* methods return modified copies of the Writer.
type Writer struct {
	columnFormatters map[int]regrid.CellFormatter
	padding          Padding
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]regrid.CellFormatter),
		padding:          NoPadding,
		escapeQuotes:     `""`,
		delimiter:        ';',
		newLine:          "\r\n",
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteView writes the rows of view to dest in the order
// the view returns them.
func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view regrid.View) error {
	rows, err := w.ViewStrings(ctx, view)
	if err != nil {
		return err
	}

	var colWidths []int
	if w.padding != NoPadding {
		colWidths = columnWidths(rows)
	}

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, row := range rows {
		for col, str := range row {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if colWidths == nil {
				rowBuf.WriteString(str)
				continue
			}
			var (
				padTotal = colWidths[col] - utf8.RuneCountInString(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padRight))
		}
		rowBuf.WriteString(w.newLine)

		data := rowBuf.Bytes()
		if w.encoder != nil {
			data, err = w.encoder.Bytes(data)
			if err != nil {
				return err
			}
		}
		_, err = dest.Write(data)
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

// ViewStrings returns the escaped cell strings of view
// with the column names as first row if the writer has a header row.
func (w *Writer) ViewStrings(ctx context.Context, view regrid.View) ([][]string, error) {
	var (
		numRows = view.NumRows()
		rows    = make([][]string, 0, numRows+1)
	)
	if w.headerRow {
		rowStrs, err := w.rowStrings(ctx, regrid.NewHeaderViewFrom(view), 0)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrs)
	}
	for row := range numRows {
		rowStrs, err := w.rowStrings(ctx, view, row)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rowStrs)
	}
	return rows, nil
}

func (w *Writer) rowStrings(ctx context.Context, view regrid.View, row int) ([]string, error) {
	rowStrs := make([]string, len(view.Columns()))
	for col := range rowStrs {
		str, raw, err := regrid.FormatCell(ctx, view, row, col,
			w.columnFormatters[col],
			regrid.SprintCellFormatter(w.nilValue),
		)
		if err != nil {
			return nil, err
		}
		rowStrs[col] = w.escapeString(str, raw)
	}
	return rowStrs, nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return strings.ReplaceAll(str, `"`, w.escapeQuotes)
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, str := range row {
			if col >= len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], utf8.RuneCountInString(str))
		}
	}
	return widths
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	mod := w.clone()
	mod.headerRow = headerRow
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
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

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

// WithFormat returns a new writer using the separator,
// newline and encoding of format.
func (w *Writer) WithFormat(format *Format) (*Writer, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}
	mod := w.WithDelimiter(rune(format.Separator[0])).WithNewLine(format.Newline)
	if format.Encoding == "UTF-8" {
		return mod.WithEncoder(nil), nil
	}
	return mod.WithCharset(format.Encoding)
}

// WithCharset returns a new writer encoding its output
// to the named charset.
func (w *Writer) WithCharset(name string) (*Writer, error) {
	encoder, err := CharsetEncoder(name)
	if err != nil {
		return nil, err
	}
	return w.WithEncoder(encoder), nil
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) Delimiter() rune      { return w.delimiter }
func (w *Writer) NilValue() string     { return w.nilValue }
func (w *Writer) NewLine() string      { return w.newLine }
func (w *Writer) Encoder() Encoder     { return w.encoder }
func (w *Writer) EscapeQuotes() string { return w.escapeQuotes }
