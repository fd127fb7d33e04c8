package app

import (
	"regexp"
	"strings"
)

const maxTracedStatementLen = 512

var (
	sqlLineComment  = regexp.MustCompile(`--[^\n]*`)
	sqlBlockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	sqlStringLit    = regexp.MustCompile(`'(?:[^']|'')*'`)
	sqlSpaces       = regexp.MustCompile(`\s+`)
)

// traceStatement prepares a SQL statement for the db.statement span attribute.
// Comments are dropped and string literals masked so inline values such as
// player names never reach the trace backend.
func traceStatement(query string) string {
	query = sqlBlockComment.ReplaceAllString(query, " ")
	query = sqlLineComment.ReplaceAllString(query, " ")
	query = sqlStringLit.ReplaceAllString(query, "'?'")
	query = strings.TrimSpace(sqlSpaces.ReplaceAllString(query, " "))

	if len(query) > maxTracedStatementLen {
		return query[:maxTracedStatementLen] + "..."
	}
	return query
}
