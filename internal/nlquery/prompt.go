package nlquery

import (
	"fmt"
	"strings"

	"github.com/sqlynx/sqlynx/internal/retrieval"
)

const (
	generationSystemPromptConstant = "You are an expert SQL assistant. " +
		"You answer with exactly one SQL statement and nothing else: no prose, no code fences, no explanations."
	generationPromptTemplateConstant = "Relevant table schemas:\n%s\n\nWrite a single SQL query answering the question.\nQuestion: %s"
	refinementPromptTemplateConstant = "Relevant table schemas:\n%s\n\n" +
		"The following SQL query failed.\nQuery: %s\nError: %s\n\n" +
		"Write a corrected SQL query answering the question.\nQuestion: %s"
	schemaLinePrefixConstant = "- "
	codeFenceMarkerConstant  = "```"
	sqlFenceLabelConstant    = "sql"
	statementPrefixConstant  = "SQL:"
)

func describeTables(scoredTables []retrieval.ScoredTable) string {
	descriptionLines := make([]string, 0, len(scoredTables))
	for _, scoredTable := range scoredTables {
		descriptionLines = append(descriptionLines, schemaLinePrefixConstant+scoredTable.Description)
	}
	return strings.Join(descriptionLines, "\n")
}

func buildGenerationPrompt(question string, scoredTables []retrieval.ScoredTable) string {
	return fmt.Sprintf(generationPromptTemplateConstant, describeTables(scoredTables), question)
}

func buildRefinementPrompt(question string, failedStatement string, errorMessage string, scoredTables []retrieval.ScoredTable) string {
	return fmt.Sprintf(refinementPromptTemplateConstant, describeTables(scoredTables), failedStatement, errorMessage, question)
}

// extractStatement normalizes a model response into a bare SQL statement.
//
// Models occasionally wrap statements in code fences or label them even when
// instructed otherwise.
func extractStatement(modelResponse string) string {
	trimmedResponse := strings.TrimSpace(modelResponse)

	if strings.HasPrefix(trimmedResponse, codeFenceMarkerConstant) {
		trimmedResponse = strings.TrimPrefix(trimmedResponse, codeFenceMarkerConstant)
		trimmedResponse = strings.TrimPrefix(trimmedResponse, sqlFenceLabelConstant)
		if fenceIndex := strings.Index(trimmedResponse, codeFenceMarkerConstant); fenceIndex >= 0 {
			trimmedResponse = trimmedResponse[:fenceIndex]
		}
		trimmedResponse = strings.TrimSpace(trimmedResponse)
	}

	trimmedResponse = strings.TrimSpace(strings.TrimPrefix(trimmedResponse, statementPrefixConstant))

	return trimmedResponse
}
