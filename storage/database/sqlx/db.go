// Package sqlxrepos implements the store interfaces on Postgres via sqlx.
// Every query embeds the caller's scope filter; records outside it are
// indistinguishable from absent ones.
package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/scope"
)

const pgUniqueViolation = "23505"

// uniqueViolation reports whether err is a unique violation on the named
// constraint.
func uniqueViolation(err error, constraint string) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pgUniqueViolation && pqErr.Constraint == constraint
}

// wrapNotFound converts sql.ErrNoRows so callers never see driver errors.
func wrapNotFound(err error) error {
	if err == sql.ErrNoRows {
		return core.ErrNotFound
	}
	return err
}

// scopeWhere renders the mandatory scope predicate for a query, appending
// to any caller conditions. Placeholders are "?"; rebind before executing.
func scopeWhere(f scope.Filter, conds []string, args []interface{}) (string, []interface{}) {
	sconds, sargs := f.Where()
	conds = append(sconds, conds...)
	args = append(sargs, args...)
	return joinAnd(conds), args
}

func joinAnd(conds []string) string {
	return strings.Join(conds, " AND ")
}
