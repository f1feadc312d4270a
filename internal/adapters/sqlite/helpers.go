// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import "strings"

// inClause appends "col IN (?, ?, ...)" to clauses and the values to args.
// No-op for an empty value list.
func inClause(clauses *[]string, args *[]any, col string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.Repeat("?, ", len(values)-1) + "?"
	*clauses = append(*clauses, col+" IN ("+placeholders+")")
	for _, v := range values {
		*args = append(*args, v)
	}
}

// notInClause appends "col NOT IN (?, ?, ...)" to clauses and the values to args.
// No-op for an empty value list.
func notInClause(clauses *[]string, args *[]any, col string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.Repeat("?, ", len(values)-1) + "?"
	*clauses = append(*clauses, col+" NOT IN ("+placeholders+")")
	for _, v := range values {
		*args = append(*args, v)
	}
}
