package kpi

import (
	"fmt"
	"strings"
)

const validMessage = "CSV data is valid"

type ValidationResult struct {
	Valid          bool     `json:"valid"`
	Message        string   `json:"message"`
	MissingColumns []string `json:"missing_columns,omitempty"`
	IncompleteRows []int    `json:"incomplete_rows,omitempty"`
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{
		MissingColumns: r.MissingColumns,
		IncompleteRows: r.IncompleteRows,
		Msg:            r.Message,
	}
}

// Validate checks the whole dataset before processing. A missing column or
// any row lacking Department, Metric_Name or one of the three Yes/No fields
// fails the dataset; rows are never skipped individually.
// IncompleteRows holds 1-based data row numbers.
func Validate(ds *Dataset) ValidationResult {
	if ds == nil || len(ds.Records) == 0 {
		return ValidationResult{Message: "The CSV file is empty. Please upload a file with data."}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return ValidationResult{
			Message:        fmt.Sprintf("CSV is missing required columns: %s. Please check the file format.", strings.Join(missing, ", ")),
			MissingColumns: missing,
		}
	}

	var incomplete []int
	for i, rec := range ds.Records {
		if rec.Department == "" ||
			rec.MetricName == "" ||
			rec.VisibleInDashboard == "" ||
			rec.UsedInDecisionMaking == "" ||
			rec.ExecutiveRequested == "" {
			incomplete = append(incomplete, i+1)
		}
	}
	if len(incomplete) > 0 {
		return ValidationResult{
			Message: fmt.Sprintf("%d rows have missing required data (rows %s). Please check your CSV file.",
				len(incomplete), joinInts(incomplete)),
			IncompleteRows: incomplete,
		}
	}

	return ValidationResult{Valid: true, Message: validMessage}
}
