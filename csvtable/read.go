package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/domonda/go-types/charset"

	"github.com/domonda/go-regrid"
)

// Read decodes data from format.Encoding and parses it
// into rows of fields separated by format.Separator.
// A leading "sep=X" line is removed if X equals format.Separator.
func Read(data []byte, format *Format) ([][]string, error) {
	err := format.Validate()
	if err != nil {
		return nil, err
	}

	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = sanitizeUTF8(data)

	data, headerSep := cutSepHeaderLine(data)
	if headerSep != "" && headerSep != format.Separator {
		return nil, fmt.Errorf("separator %q in header line is different from format separator %q", headerSep, format.Separator)
	}
	return parse(data, format.Separator)
}

// ReadDetectFormat detects the encoding, separator and line endings
// of data and parses it into rows.
// If config is nil, NewDefaultFormatDetectionConfig is used.
func ReadDetectFormat(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format, data, err = detectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, format, nil
	}
	rows, err = parse(data, format.Separator)
	return rows, format, err
}

// ReadView parses data with format, or detects the format if
// format is nil, and returns the non empty rows as StringsView
// using the first row as column names.
func ReadView(data []byte, format *Format, title string) (*regrid.StringsView, error) {
	var (
		rows [][]string
		err  error
	)
	if format != nil {
		rows, err = Read(data, format)
	} else {
		rows, _, err = ReadDetectFormat(data, nil)
	}
	if err != nil {
		return nil, err
	}
	return regrid.NewStringsView(title, RemoveEmptyRows(rows)), nil
}

// RemoveEmptyRows returns rows without the rows
// that have only empty fields.
func RemoveEmptyRows(rows [][]string) [][]string {
	nonEmpty := rows[:0]
	for _, row := range rows {
		for _, field := range row {
			if field != "" {
				nonEmpty = append(nonEmpty, row)
				break
			}
		}
	}
	return nonEmpty
}

func detectFormat(data []byte, config *FormatDetectionConfig) (format *Format, decoded []byte, err error) {
	if config == nil {
		return nil, nil, errors.New("FormatDetectionConfig must not be nil")
	}
	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = sanitizeUTF8(data)

	// Prefer the standard \r\n if the data has any
	if bytes.Contains(data, []byte{'\r', '\n'}) {
		format.Newline = "\r\n"
	} else {
		format.Newline = "\n"
	}

	data, format.Separator = cutSepHeaderLine(data)
	if format.Separator != "" {
		return format, data, nil
	}

	var (
		commas     = bytes.Count(data, []byte{','})
		semicolons = bytes.Count(data, []byte{';'})
		tabs       = bytes.Count(data, []byte{'\t'})
	)
	switch {
	case semicolons > commas && semicolons > tabs:
		format.Separator = ";"
	case tabs > commas && tabs > semicolons:
		format.Separator = "\t"
	default:
		format.Separator = ","
	}
	return format, data, nil
}

// cutSepHeaderLine removes a first line of the form "sep=X"
// or "SEP=X", possibly quoted, and returns X as sep.
func cutSepHeaderLine(data []byte) (rest []byte, sep string) {
	line, rest, found := bytes.Cut(data, []byte{'\n'})
	if !found {
		rest = nil
	}
	line = bytes.Trim(line, "\r")
	if len(line) >= 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 || !(bytes.HasPrefix(line, []byte("sep=")) || bytes.HasPrefix(line, []byte("SEP="))) {
		return data, ""
	}
	return bytes.TrimLeft(rest, "\r"), string(line[4:5])
}

func parse(data []byte, separator string) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = rune(separator[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't parse CSV: %w", err)
	}
	return rows, nil
}

func sanitizeUTF8(str []byte) []byte {
	return bytes.Map(
		func(r rune) rune {
			switch r {
			// \u00a0 is No-Break Space (NBSP)
			case '\uFFFD', '\u00a0':
				return ' '
			default:
				return r
			}
		},
		str,
	)
}
