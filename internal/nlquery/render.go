package nlquery

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sqlynx/sqlynx/internal/sqlengine"
)

const (
	renderErrorTemplateConstant       = "query failed: %s\n"
	renderSingleValueTemplateConstant = "%v\n"
	renderEmptyResultMessageConstant  = "(no rows)\n"
	renderRowCountTemplateConstant    = "(%d rows)\n"
	renderColumnSeparatorConstant     = "\t"
	renderCellTemplateConstant        = "%v"
	tabwriterMinWidthConstant         = 2
	tabwriterPaddingConstant          = 2
)

// RenderResult writes the query result as a plain-text table.
func RenderResult(outputWriter io.Writer, result sqlengine.QueryResult) {
	if result.Failed() {
		fmt.Fprintf(outputWriter, renderErrorTemplateConstant, result.Metadata.ErrorMessage)
		return
	}

	if result.Metadata.SingleValue {
		fmt.Fprintf(outputWriter, renderSingleValueTemplateConstant, result.Rows[0][0])
		return
	}

	if len(result.Rows) == 0 {
		fmt.Fprint(outputWriter, renderEmptyResultMessageConstant)
		return
	}

	tableWriter := tabwriter.NewWriter(outputWriter, tabwriterMinWidthConstant, 0, tabwriterPaddingConstant, ' ', 0)
	fmt.Fprintln(tableWriter, strings.Join(result.Columns, renderColumnSeparatorConstant))
	for _, resultRow := range result.Rows {
		renderedCells := make([]string, len(resultRow))
		for cellIndex, cellValue := range resultRow {
			renderedCells[cellIndex] = fmt.Sprintf(renderCellTemplateConstant, cellValue)
		}
		fmt.Fprintln(tableWriter, strings.Join(renderedCells, renderColumnSeparatorConstant))
	}
	flushIgnoringError(tableWriter)
	fmt.Fprintf(outputWriter, renderRowCountTemplateConstant, len(result.Rows))
}

func flushIgnoringError(tableWriter *tabwriter.Writer) {
	_ = tableWriter.Flush()
}
