package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go-churn-pipeline/internal/model"
	"go-churn-pipeline/pkg/utils"
)

// ParseCustomerCSV decodes an uploaded CSV into a customer table,
// preserving row and column order. It does not validate the schema;
// see ValidateTable.
func ParseCustomerCSV(r io.Reader) (*model.CustomerTable, error) {
	csvReader := csv.NewReader(r)
	csvReader.LazyQuotes = true

	headers, err := csvReader.Read()
	if err == io.EOF {
		return nil, &model.ValidationError{Message: "uploaded file is empty"}
	} else if err != nil {
		return nil, &model.ValidationError{Message: fmt.Sprintf("failed to read CSV header: %v", err)}
	}

	columns := make([]string, len(headers))
	for i, h := range headers {
		// Clean header names: trim whitespace and strip stray quotes
		clean := strings.TrimSpace(h)
		clean = strings.ReplaceAll(clean, `"`, "")
		columns[i] = clean
	}

	table := &model.CustomerTable{Columns: columns}
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, &model.ValidationError{Message: fmt.Sprintf("CSV read error: %v", err)}
		}
		if len(row) != len(columns) {
			return nil, &model.ValidationError{
				Message: fmt.Sprintf("row %d has %d fields, expected %d", len(table.Records)+1, len(row), len(columns)),
			}
		}

		rec := make(model.GenericRecord, len(columns))
		for i, col := range columns {
			if col == model.ColumnCustomerID {
				// Identifiers stay strings even when they look numeric.
				rec[col] = strings.TrimSpace(row[i])
				continue
			}
			rec[col] = utils.ParseValue(row[i])
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// ValidateTable checks an uploaded table for the required structure: a
// customerID column, at least one row, and non-empty unique identifiers.
// Duplicate identifiers are rejected rather than deduplicated. Pure
// function; the table is not modified.
func ValidateTable(table *model.CustomerTable) error {
	if !table.HasColumn(model.ColumnCustomerID) {
		return &model.ValidationError{
			Message:        "required column is missing",
			MissingColumns: []string{model.ColumnCustomerID},
		}
	}
	if table.Len() == 0 {
		return &model.ValidationError{Message: "uploaded table has no rows"}
	}

	seen := make(map[string]bool, table.Len())
	var duplicates []string
	for i, rec := range table.Records {
		id, _ := rec[model.ColumnCustomerID].(string)
		if id == "" {
			return &model.ValidationError{
				Message: fmt.Sprintf("row %d has an empty %s", i+1, model.ColumnCustomerID),
			}
		}
		if seen[id] {
			duplicates = append(duplicates, id)
			continue
		}
		seen[id] = true
	}
	if len(duplicates) > 0 {
		return &model.ValidationError{
			Message:      "customer identifiers must be unique",
			DuplicateIDs: duplicates,
		}
	}
	return nil
}
