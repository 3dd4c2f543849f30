package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stemsi/presensi-backend/internal/model"
	"github.com/stemsi/presensi-backend/internal/validator"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedImport is returned for files that are neither CSV nor XLSX.
	ErrUnsupportedImport = errors.New("unsupported import file type")
	// ErrMalformedImport wraps failures to read the file as a sheet at all.
	ErrMalformedImport = errors.New("malformed import file")
)

// ImportRowError pins an import failure to a 1-based line of the file,
// counting the header as line 1.
type ImportRowError struct {
	Row    int
	Fields map[string]string
	Err    error
}

func (e *ImportRowError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, e.Fields[k])
		}
		return fmt.Sprintf("row %d: %s", e.Row, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *ImportRowError) Unwrap() error { return e.Err }

// ImportRow is one parsed data row and the file line it came from.
type ImportRow struct {
	Line    int
	Request model.CreateUserRequest
}

var requiredImportColumns = []string{"user_id", "name", "email", "password", "role", "batch_id", "department_id"}

// ParseUserImport reads a CSV or XLSX user sheet into validated create
// requests. The first row is a header; column order is free. section_id,
// batch_status and admission_date may be omitted.
func ParseUserImport(filename string, r io.Reader) ([]ImportRow, error) {
	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %w", ErrMalformedImport, err)
		}
		records = rows
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformedImport, err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedImport)
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("%w: read sheet %q: %w", ErrMalformedImport, sheets[0], err)
		}
		records = rows
	default:
		return nil, ErrUnsupportedImport
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrMalformedImport)
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range requiredImportColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedImport, name)
		}
	}

	rows := make([]ImportRow, 0, len(records)-1)
	seenIDs := make(map[string]int)
	seenEmails := make(map[string]int)
	for i, rec := range records[1:] {
		line := i + 2
		if blankRecord(rec) {
			continue
		}
		get := func(name string) string {
			idx, ok := cols[name]
			if !ok || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}

		req := model.CreateUserRequest{
			ID:            get("user_id"),
			Name:          get("name"),
			Email:         strings.ToLower(get("email")),
			Password:      get("password"),
			Role:          model.Role(strings.ToLower(get("role"))),
			BatchStatus:   model.BatchStatus(strings.ToLower(get("batch_status"))),
			AdmissionDate: get("admission_date"),
		}
		// batch_status is an optional column; students default to joining
		// with their batch.
		if req.Role == model.RoleStudent && req.BatchStatus == "" {
			req.BatchStatus = model.BatchStatusOld
		}
		var err error
		if req.BatchID, err = optionalInt(get("batch_id")); err != nil {
			return nil, &ImportRowError{Row: line, Err: fmt.Errorf("batch_id: %w", err)}
		}
		if req.DepartmentID, err = optionalInt(get("department_id")); err != nil {
			return nil, &ImportRowError{Row: line, Err: fmt.Errorf("department_id: %w", err)}
		}
		section, err := optionalInt(get("section_id"))
		if err != nil {
			return nil, &ImportRowError{Row: line, Err: fmt.Errorf("section_id: %w", err)}
		}
		if section > 0 {
			req.SectionID = &section
		}

		if fields := validator.Struct(req); fields != nil {
			return nil, &ImportRowError{Row: line, Fields: fields, Err: errors.New("invalid row")}
		}
		if prev, dup := seenIDs[req.ID]; dup {
			return nil, &ImportRowError{Row: line, Err: fmt.Errorf("user_id %q repeats row %d", req.ID, prev)}
		}
		if prev, dup := seenEmails[req.Email]; dup {
			return nil, &ImportRowError{Row: line, Err: fmt.Errorf("email %q repeats row %d", req.Email, prev)}
		}
		seenIDs[req.ID] = line
		seenEmails[req.Email] = line
		rows = append(rows, ImportRow{Line: line, Request: req})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedImport)
	}
	return rows, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
