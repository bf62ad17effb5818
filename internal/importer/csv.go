package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names of the import file header.
const (
	ColumnPatientCode         = "patient_code"
	ColumnAppointmentDateTime = "appointment_datetime"
	ColumnShowedUp            = "showed_up"
	ColumnAppointmentType     = "appointment_type"
)

var (
	// ErrMalformedCSV wraps errors from decoding the CSV stream itself.
	ErrMalformedCSV = errors.New("malformed csv")
	// ErrInvalidEncoding is returned for input that is not UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
)

// dateTimeLayouts are tried in order. The unpadded verbs accept both "03" and
// "3" for month, day, hour, minute and second.
var dateTimeLayouts = []string{
	"2006-1-2 15:4:5",
	"2006-1-2 15:4",
}

// truthyShowedUp is the closed set of values meaning the patient attended.
// Everything else, including an empty cell, counts as a no-show.
var truthyShowedUp = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
}

// Row is one data record of an import file, keyed by header name.
type Row struct {
	PatientCode         string
	AppointmentDateTime string
	ShowedUp            string
	AppointmentType     string // optional
}

// ReadRows decodes a CSV import file. The first record is the header; column
// order is free and header names are matched case-insensitively. A leading
// UTF-8 byte order mark is dropped. Input that is not valid UTF-8 is rejected
// with ErrInvalidEncoding before any row is decoded.
func ReadRows(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedCSV, err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := colIdx[key]; !dup {
			colIdx[key] = i
		}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		rows = append(rows, Row{
			PatientCode:         field(record, colIdx, ColumnPatientCode),
			AppointmentDateTime: field(record, colIdx, ColumnAppointmentDateTime),
			ShowedUp:            field(record, colIdx, ColumnShowedUp),
			AppointmentType:     field(record, colIdx, ColumnAppointmentType),
		})
	}
	return rows, nil
}

func field(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

// ParseDateTime parses an appointment time in one of the accepted layouts.
func ParseDateTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseShowedUp reports whether a showed_up cell means the patient attended.
func ParseShowedUp(raw string) bool {
	return truthyShowedUp[strings.ToLower(strings.TrimSpace(raw))]
}
