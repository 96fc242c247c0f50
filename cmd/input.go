package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/compcalc/internal/estimate"
)

// parseSets turns repeated key=value flags into an input record.
func parseSets(sets []string) (estimate.Input, error) {
	in := estimate.Input{}
	for _, s := range sets {
		key, value, ok := strings.Cut(s, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, eris.Errorf("input: --set %q must be key=value", s)
		}
		in[key] = strings.TrimSpace(value)
	}
	return in, nil
}

// readInputFile loads one input record from a YAML or JSON object.
func readInputFile(path string) (estimate.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: read %s", path)
	}

	in := estimate.Input{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &in); err != nil {
			return nil, eris.Wrapf(err, "input: parse JSON %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, eris.Wrapf(err, "input: parse YAML %s", path)
		}
	default:
		return nil, eris.Errorf("input: unsupported file type %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	return in, nil
}

// collectInput merges a file's answers with --set answers; --set wins.
func collectInput(path string, sets []string) (estimate.Input, error) {
	in := estimate.Input{}
	if path != "" {
		fromFile, err := readInputFile(path)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			in[k] = v
		}
	}

	fromFlags, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		in[k] = v
	}
	return in, nil
}

// readRows reads a CSV or XLSX file into string rows. sheet selects an
// XLSX sheet by name; empty means the first sheet.
func readRows(path, sheet string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "input: open %s", path)
		}
		defer f.Close() //nolint:errcheck

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		rows, err := r.ReadAll()
		if err != nil {
			return nil, eris.Wrapf(err, "input: read CSV %s", path)
		}
		return rows, nil

	case ".xlsx":
		return readXLSX(path, sheet)

	default:
		return nil, eris.Errorf("input: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func readXLSX(path, sheetName string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("xlsx: file has no sheets")
		}
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// rowsToInputs treats the first row as factor keys and every following
// non-blank row as one input record.
func rowsToInputs(rows [][]string) ([]string, []estimate.Input, error) {
	if len(rows) == 0 {
		return nil, nil, eris.New("input: no header row")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	var inputs []estimate.Input
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		in := estimate.Input{}
		for i, key := range header {
			if key == "" || i >= len(row) {
				continue
			}
			in[key] = strings.TrimSpace(row[i])
		}
		inputs = append(inputs, in)
	}
	return header, inputs, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
