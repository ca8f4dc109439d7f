package regrid

import (
	"context"
	"errors"
	"fmt"
	"reflect"
)

// CellFormatter is an interface for formatting view cells as strings.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the table format and can be
	// used as is or if it has to be sanitized in some way.
	FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, view View, row, col int) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return f(ctx, view, row, col)
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), view.Cell(row, col)), false, nil
}

// PrintfRawCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
// The result will be indicated to be a raw value.
type PrintfRawCellFormatter string

func (format PrintfRawCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return fmt.Sprintf(string(format), view.Cell(row, col)), true, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// SprintCellFormatter formats cells with fmt.Sprint
// after dereferencing pointers.
// Nil values are formatted as the underlying string.
type SprintCellFormatter string

func (nilValue SprintCellFormatter) FormatCell(ctx context.Context, view View, row, col int) (str string, raw bool, err error) {
	value := view.Cell(row, col)
	if IsNullLike(value) {
		return string(nilValue), false, nil
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		value = v.Elem().Interface()
	}
	return fmt.Sprint(value), false, nil
}

// FormatCell formats a cell with the first of the formatters
// that does not return errors.ErrUnsupported.
// Nil formatters are skipped.
func FormatCell(ctx context.Context, view View, row, col int, formatters ...CellFormatter) (str string, raw bool, err error) {
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	for _, formatter := range formatters {
		if formatter == nil {
			continue
		}
		str, raw, err = formatter.FormatCell(ctx, view, row, col)
		if !errors.Is(err, errors.ErrUnsupported) {
			return str, raw, err
		}
	}
	return SprintCellFormatter("").FormatCell(ctx, view, row, col)
}

// IsNullLike returns true if value is nil
// or a nil pointer, map, slice, func, chan or interface.
func IsNullLike(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
