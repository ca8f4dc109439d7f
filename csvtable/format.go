// Package csvtable reads CSV data into views and writes
// views, including the visual order of a regrid.Grid, as CSV.
//
// Reading handles the character encodings supported by
// github.com/domonda/go-types/charset, "sep=X" header lines
// and can detect the encoding and separator of the data.
package csvtable

import (
	"errors"
	"fmt"
	"strings"
)

// Format describes the encoding and structural format of CSV data.
//
//	format := &Format{
//	    Encoding:  "UTF-8",
//	    Separator: ",",
//	    Newline:   "\r\n",
//	}
type Format struct {
	// Encoding of the CSV data like "UTF-8", "UTF-16LE",
	// "ISO 8859-1", "Windows 1252" or "Macintosh".
	Encoding string `json:"encoding"`

	// Separator is the single character field delimiter.
	Separator string `json:"separator"`

	// Newline is one of "\n", "\r\n" or "\n\r".
	Newline string `json:"newline"`
}

// NewFormat returns a Format with the passed separator,
// UTF-8 encoding and "\r\n" line endings.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if the Format is not usable.
// It can be called on a nil receiver.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures ReadDetectFormat.
type FormatDetectionConfig struct {
	// Encodings to try in priority order.
	Encodings []string `json:"encodings"`

	// EncodingTests are strings with characters that are encoded
	// differently by the Encodings and are used to pick one of them.
	EncodingTests []string `json:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}

// EscapeQuotes doubles the double quotes in val.
func EscapeQuotes(val string) string {
	return strings.ReplaceAll(val, `"`, `""`)
}
