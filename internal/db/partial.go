package db

import (
	"fmt"
	"sort"
	"strings"
)

// Column allow-lists for partial updates. Identifiers in the SET clause may
// only come from these closed sets; values are always bound parameters.
var (
	ProjectColumns = allowList(
		"name", "description", "color", "status", "favorite",
	)
	TaskColumns = allowList(
		"title", "description", "project_id", "status", "priority",
		"assignee", "due_date", "completed_at", "favorite",
	)
	TimeEntryColumns = allowList(
		"start_time", "end_time", "duration", "description",
	)
	TagColumns = allowList(
		"name", "color",
	)
)

func allowList(cols ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		m[c] = struct{}{}
	}
	return m
}

// BuildSetClause validates a field→value map against an allow-list and
// returns a "col = ?, col = ?" clause with matching positional args.
// Columns are emitted in sorted order so generated SQL is deterministic.
// A field outside the allow-list rejects the whole update before any SQL
// text is assembled.
func BuildSetClause(allowed map[string]struct{}, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("no fields to update")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := allowed[name]; !ok {
			return "", nil, fmt.Errorf("unknown field %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	args := make([]any, 0, len(names))
	for i, name := range names {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteString(" = ?")
		args = append(args, fields[name])
	}
	return sb.String(), args, nil
}
