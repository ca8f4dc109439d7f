package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/domonda/go-regrid"
)

var (
	HTMLPreCellFormatter regrid.CellFormatterFunc = func(ctx context.Context, view regrid.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(view.Cell(row, col)))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter regrid.CellFormatterFunc = func(ctx context.Context, view regrid.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(view.Cell(row, col)))
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter formats the cell value using fmt.Sprint,
	// escapes it for HTML and returns an HTML anchor element with the
	// value as id and inner text.
	ValueAsHTMLAnchorCellFormatter regrid.CellFormatterFunc = func(ctx context.Context, view regrid.View, row, col int) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(fmt.Sprint(view.Cell(row, col)))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	_ regrid.CellFormatter = JSONCellFormatter("")
	_ regrid.CellFormatter = HTMLSpanClassCellFormatter("")
)

// JSONCellFormatter formats cells as indented JSON within a pre element
// using the underlying string as indent.
// String and byte slice values are treated as JSON text,
// other values are marshalled.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, view regrid.View, row, col int) (str string, raw bool, err error) {
	var src []byte
	switch value := view.Cell(row, col).(type) {
	case nil:
		return "", false, nil
	case string:
		src = []byte(value)
	case []byte:
		src = value
	case json.RawMessage:
		src = value
	default:
		src, err = json.Marshal(value)
		if err != nil {
			return "", false, err
		}
	}
	if len(src) == 0 {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	err = json.Indent(buf, src, "", string(indent))
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell value within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, view regrid.View, row, col int) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(fmt.Sprint(view.Cell(row, col)))
	return fmt.Sprintf("<span class='%s'>%s</span>", class, text), true, nil
}
