package postgres

import (
	"fmt"
	"strings"

	"github.com/taskpulse/taskpulse-api/internal/store"
)

// predicateClauses translates a typed task predicate into SQL conditions and
// their positional arguments, numbering placeholders from firstArg. The
// translation is pure so it can be verified without a database.
func predicateClauses(pred store.TaskPredicate, firstArg int) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func() int { return firstArg + len(args) }

	if pred.CreatedWithin != nil {
		clauses = append(clauses,
			fmt.Sprintf("created_at >= $%d AND created_at < $%d", next(), next()+1))
		args = append(args, pred.CreatedWithin.Start, pred.CreatedWithin.End)
	}

	if pred.CreatedAtOrBefore != nil {
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", next()))
		args = append(args, *pred.CreatedAtOrBefore)
	}

	if pred.OpenOrCompletedSince != nil {
		clauses = append(clauses,
			fmt.Sprintf("(completed_at IS NULL OR completed_at >= $%d)", next()))
		args = append(args, *pred.OpenOrCompletedSince)
	}

	if pred.Status != nil {
		clauses = append(clauses, fmt.Sprintf("status = $%d", next()))
		args = append(args, string(*pred.Status))
	}

	if pred.ExcludeStatus != nil {
		clauses = append(clauses, fmt.Sprintf("status <> $%d", next()))
		args = append(args, string(*pred.ExcludeStatus))
	}

	if pred.CompletedOnly {
		clauses = append(clauses, "completed_at IS NOT NULL")
	}

	return clauses, args
}

// listClauses translates listing filters into SQL conditions and arguments,
// numbering placeholders from firstArg.
func listClauses(filters store.ListFilters, firstArg int) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)
	next := func() int { return firstArg + len(args) }

	if filters.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", next()))
		args = append(args, filters.Status)
	}

	if filters.Priority != "" {
		clauses = append(clauses, fmt.Sprintf("priority = $%d", next()))
		args = append(args, filters.Priority)
	}

	if filters.AssigneeID != "" {
		clauses = append(clauses, fmt.Sprintf("assignee_id = $%d", next()))
		args = append(args, filters.AssigneeID)
	}

	return clauses, args
}

// whereSQL joins the clauses into a WHERE fragment, or returns the empty
// string when there are no conditions.
func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}
