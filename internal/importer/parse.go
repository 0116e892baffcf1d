package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record is one parsed word-list entry, before it becomes a stored word.
type Record struct {
	Term        string
	Translation string
	Phonetic    string
	Example     string
	Tags        []string
}

// Accepted field names for JSON imports, canonical name first.
var fieldAliases = map[string][]string{
	"word":        {"word", "english"},
	"translation": {"translation", "chinese"},
	"phonetic":    {"phonetic", "ipa"},
	"example":     {"example"},
	"tags":        {"tags"},
}

// ParseCSV reads comma-separated records with the column layout
// word,translation,phonetic,example,tags. Tags are semicolon-separated
// within their field. A header row is detected and skipped. Malformed rows
// are reported individually and do not abort the parse.
func ParseCSV(r io.Reader) ([]Record, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []Record
	var rowErrs []string
	line := 0
	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if line == 1 && isHeaderRow(row) {
			continue
		}
		rec, err := recordFromRow(row)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// ParseXLSX reads the first sheet of an Excel workbook using the same
// column layout as ParseCSV.
func ParseXLSX(r io.Reader) ([]Record, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var records []Record
	var rowErrs []string
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		rec, err := recordFromRow(row)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

// ParseJSON reads an array of objects. Field names fall back through the
// alias table, so both {"word": ...} and {"english": ...} payload shapes
// are accepted. Tags may be an array of strings or a single
// semicolon-separated string.
func ParseJSON(r io.Reader) ([]Record, []string, error) {
	var raw []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("malformed JSON payload: %w", err)
	}

	var records []Record
	var rowErrs []string
	for i, obj := range raw {
		rec := Record{
			Term:        stringField(obj, "word"),
			Translation: stringField(obj, "translation"),
			Phonetic:    stringField(obj, "phonetic"),
			Example:     stringField(obj, "example"),
			Tags:        tagsField(obj),
		}
		if rec.Term == "" {
			rowErrs = append(rowErrs, fmt.Sprintf("record %d: missing word field", i+1))
			continue
		}
		records = append(records, rec)
	}
	return records, rowErrs, nil
}

func recordFromRow(row []string) (Record, error) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	rec := Record{
		Term:        get(0),
		Translation: get(1),
		Phonetic:    get(2),
		Example:     get(3),
	}
	if rec.Term == "" {
		return Record{}, fmt.Errorf("missing word field")
	}
	if tags := get(4); tags != "" {
		rec.Tags = strings.Split(tags, ";")
	}
	return rec, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	for _, alias := range fieldAliases["word"] {
		if first == alias {
			return true
		}
	}
	return false
}

func stringField(obj map[string]interface{}, canonical string) string {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := obj[alias].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func tagsField(obj map[string]interface{}) []string {
	for _, alias := range fieldAliases["tags"] {
		switch v := obj[alias].(type) {
		case []interface{}:
			var tags []string
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					tags = append(tags, s)
				}
			}
			return tags
		case string:
			if v == "" {
				return nil
			}
			return strings.Split(v, ";")
		}
	}
	return nil
}
