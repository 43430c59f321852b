package hr

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/matthewdavidson09/directory-reconciler/tools"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	ErrInputUnavailable = errors.New("HR input unavailable")
	ErrMissingColumn    = errors.New("HR input missing required column")
)

// ParseWarning is a non-fatal issue found while reading a row.
type ParseWarning struct {
	Row     int
	Message string
}

// ParseResult holds the records alongside any warnings.
type ParseResult struct {
	Records  []EmployeeRecord
	Warnings []ParseWarning
}

// LoadFile reads and parses the HR export at path.
func LoadFile(path string, loc *time.Location) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	tools.Log.WithFields(map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	}).Debug("Loaded HR export")

	return Parse(bytes.NewReader(data), loc)
}

// Parse reads an HR export. Rows with the wrong column count are padded or
// truncated and reported as warnings. Date problems stay on the record.
func Parse(r io.Reader, loc *time.Location) (*ParseResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInputUnavailable, err)
	}

	decoded, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding detection failed: %w", ErrInputUnavailable, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file, no header row found", ErrInputUnavailable)
		}
		return nil, fmt.Errorf("%w: failed to read header row: %w", ErrInputUnavailable, err)
	}

	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %w: %q", ErrInputUnavailable, ErrMissingColumn, col)
		}
	}

	headerCount := len(headers)
	result := &ParseResult{}
	rowNum := 0

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if isBlank(row) {
			continue
		}

		if len(row) != headerCount {
			result.Warnings = append(result.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d", len(row), headerCount),
			})
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		}

		raw := func(col string) string {
			if i, ok := index[col]; ok {
				return row[i]
			}
			return ""
		}

		// Names stay exactly as exported; they form the display-name join key.
		rec := EmployeeRecord{
			Row:        rowNum,
			FirstName:  raw(ColFirstName),
			LastName:   raw(ColLastName),
			StatusType: strings.TrimSpace(raw(ColStatusType)),
			EmployeeID: strings.TrimSpace(raw(ColEmployeeID)),
			DateRaw:    strings.TrimSpace(raw(ColStatusEffDate)),
		}
		rec.StatusEffDate, rec.DateErr = ParseStatusDate(rec.DateRaw, loc)

		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// decode converts the export to UTF-8. Valid UTF-8 only loses its BOM.
// Anything else is decoded by BOM (UTF-16 LE/BE), or as Windows-1252 when
// there is none, which is what Excel writes for "CSV" on Western locales.
func decode(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(charmap.Windows1252.NewDecoder()), data)
	return out, err
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
