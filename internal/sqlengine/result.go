package sqlengine

// ResultMetadata describes presentation hints attached to a query result.
type ResultMetadata struct {
	Visualizable bool   `json:"is_visualizable"`
	SingleValue  bool   `json:"is_single_value"`
	ErrorMessage string `json:"error,omitempty"`
}

// QueryResult is the normalized form of an executed SQL statement.
type QueryResult struct {
	Columns  []string       `json:"columns"`
	Rows     [][]any        `json:"data"`
	Metadata ResultMetadata `json:"metadata"`
}

// NewQueryResult derives presentation metadata from the captured columns and rows.
//
// A result is visualizable when it spans more than one column or row, and a
// single value when it holds exactly one column and one row.
func NewQueryResult(columns []string, rows [][]any) QueryResult {
	return QueryResult{
		Columns: columns,
		Rows:    rows,
		Metadata: ResultMetadata{
			Visualizable: len(columns) > 1 || len(rows) > 1,
			SingleValue:  len(columns) == 1 && len(rows) == 1,
		},
	}
}

// NewErrorResult normalizes a failed execution into an empty result carrying the error message.
func NewErrorResult(executionError error) QueryResult {
	errorMessage := ""
	if executionError != nil {
		errorMessage = executionError.Error()
	}
	return QueryResult{
		Columns: []string{},
		Rows:    [][]any{},
		Metadata: ResultMetadata{
			Visualizable: false,
			SingleValue:  false,
			ErrorMessage: errorMessage,
		},
	}
}

// Failed reports whether the result captures an execution error.
func (result QueryResult) Failed() bool {
	return len(result.Metadata.ErrorMessage) > 0
}
