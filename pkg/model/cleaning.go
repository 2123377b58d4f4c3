// pkg/model/cleaning.go
package model

import (
	"sort"
	"time"
)

// Cleaning operations recorded by the missing-value handler and feature engineer
const (
	OpFillConstant = "fill_constant"
	OpFillMode     = "fill_mode"
	OpRowDrop      = "row_drop"
)

// Cleaning reasons
const (
	ReasonMissingValue         = "missing_value"
	ReasonMissingDateAdded     = "missing_date_added"
	ReasonUnparseableDateAdded = "unparseable_date_added"
)

// CleaningOperation represents a single data cleaning operation
type CleaningOperation struct {
	RunID             string      // Pipeline run that produced the operation (set by the orchestrator)
	Stage             string      // Stage that performed the operation
	ColumnName        string      // Column that was cleaned
	OriginalValue     interface{} // Original value (nil when absent)
	NewValue          string      // New value after cleaning, empty for row drops
	RowIdentifier     string      // show_id when present, otherwise the 1-based input row number
	CleaningOperation string      // Type of cleaning performed (e.g., "fill_mode")
	CleaningReason    string      // Reason for cleaning (e.g., "missing_value")
	CleanedAt         time.Time
}

// StampRun sets the run ID on every operation and returns the slice
func StampRun(ops []CleaningOperation, runID string) []CleaningOperation {
	for i := range ops {
		ops[i].RunID = runID
	}
	return ops
}

// OperationCount is the number of operations of one kind on one column
type OperationCount struct {
	Operation string
	Column    string
	Count     int
}

// CountOperations groups operations by (operation, column), sorted for stable output
func CountOperations(ops []CleaningOperation) []OperationCount {
	type key struct{ op, col string }
	counts := make(map[key]int)
	for _, op := range ops {
		counts[key{op.CleaningOperation, op.ColumnName}]++
	}

	out := make([]OperationCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, OperationCount{Operation: k.op, Column: k.col, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Operation != out[j].Operation {
			return out[i].Operation < out[j].Operation
		}
		return out[i].Column < out[j].Column
	})
	return out
}
