// Package retrieval ranks table schemas against natural-language questions.
//
// Table schema descriptions are embedded once, persisted as a JSON index on
// disk, and retrieved by cosine similarity when a question needs the most
// relevant tables for SQL generation.
package retrieval
