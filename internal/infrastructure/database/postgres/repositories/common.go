package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"
)

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"
	pqInvalidRegex    = "2201B"
)

// pqCode returns the SQLSTATE and constraint name carried by err. Both are
// empty when err is not a *pq.Error.
func pqCode(err error) (string, string) {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

//Personal.AI order the ending
