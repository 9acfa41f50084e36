package kpi

import (
	"strings"
	"unicode/utf8"
)

// Parse reads comma-separated text whose first non-blank line is the header.
// Double quotes toggle a quoted section in which commas do not split; the
// quote characters themselves are dropped. Escaped quotes and fields spanning
// lines are not supported.
func Parse(text string) (*Dataset, error) {
	lines := strings.Split(text, "\n")

	var header []string
	ds := &Dataset{}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !utf8.ValidString(line) {
			return nil, &ParseError{Line: i + 1, Msg: "line is not valid UTF-8"}
		}

		cells := splitLine(line)
		if header == nil {
			header = cells
			ds.Columns = cells
			continue
		}

		ds.Records = append(ds.Records, buildRecord(header, cells))
	}

	if header == nil {
		return nil, &ParseError{Msg: "input is empty"}
	}
	if len(ds.Records) == 0 {
		return nil, &ParseError{Msg: "input contains a header but no data rows"}
	}

	return ds, nil
}

func splitLine(line string) []string {
	var cells []string
	var current strings.Builder
	insideQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			insideQuotes = !insideQuotes
		case r == ',' && !insideQuotes:
			cells = append(cells, cleanCell(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	cells = append(cells, cleanCell(current.String()))

	return cells
}

func cleanCell(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), `"`, "")
}

// buildRecord zips cells with header names. Missing trailing cells become ""
// and extra cells are dropped. A repeated header name keeps the last value.
func buildRecord(header, cells []string) RawRecord {
	var rec RawRecord
	for i, name := range header {
		value := ""
		if i < len(cells) {
			value = cells[i]
		}
		if field := rec.field(name); field != nil {
			*field = value
		}
	}
	return rec
}

func (r *RawRecord) field(column string) *string {
	switch column {
	case ColumnDepartment:
		return &r.Department
	case ColumnMetricName:
		return &r.MetricName
	case ColumnVisibleInDashboard:
		return &r.VisibleInDashboard
	case ColumnUsedInDecisionMaking:
		return &r.UsedInDecisionMaking
	case ColumnExecutiveRequested:
		return &r.ExecutiveRequested
	case ColumnLastReviewed:
		return &r.LastReviewed
	case ColumnLastUsedForDecision:
		return &r.MetricLastUsedForDecision
	case ColumnInterpretationNotes:
		return &r.InterpretationNotes
	}
	return nil
}

// Values returns the record's fields in RequiredColumns order.
func (r RawRecord) Values() []string {
	return []string{
		r.Department,
		r.MetricName,
		r.VisibleInDashboard,
		r.UsedInDecisionMaking,
		r.ExecutiveRequested,
		r.LastReviewed,
		r.MetricLastUsedForDecision,
		r.InterpretationNotes,
	}
}

// EncodeRows renders rows in the dialect Parse reads, quoting every field.
func EncodeRows(header []string, rows [][]string) string {
	var b strings.Builder
	writeQuotedLine(&b, header)
	for _, row := range rows {
		writeQuotedLine(&b, row)
	}
	return b.String()
}

// EncodeRecords renders records under the required header.
func EncodeRecords(records []RawRecord) string {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Values()
	}
	return EncodeRows(RequiredColumns, rows)
}

func writeQuotedLine(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, ""))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
