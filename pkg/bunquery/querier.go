// Package bunquery runs session requests against a database through bun.
package bunquery

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-query-cache/session"
	"github.com/uptrace/bun"
)

const TextCodeQueryFailed = "QUERY_FAILED"

var (
	_ session.Querier    = (*Querier)(nil)
	_ session.Transactor = (*Querier)(nil)
)

// Querier executes raw SQL through a bun.IDB. Rows come back as
// map[string]any keyed by column name.
type Querier struct {
	db bun.IDB
}

// New returns a Querier over db, which may be a *bun.DB or a bun.Tx.
func New(db bun.IDB) *Querier {
	return &Querier{db: db}
}

// Query runs req.SQL with the request arguments and applies the request
// row window.
func (q *Querier) Query(ctx context.Context, req *session.Request) ([]any, error) {
	var rows []map[string]any
	err := q.db.NewRaw(req.SQL, req.Args()...).Scan(ctx, &rows)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, queryError(err, req, "query failed")
	}

	offset, limit := req.Bounds()
	return window(rows, offset, limit), nil
}

// Exec runs req.SQL and returns the number of affected rows.
func (q *Querier) Exec(ctx context.Context, req *session.Request) (int64, error) {
	res, err := q.db.ExecContext(ctx, req.SQL, req.Args()...)
	if err != nil {
		return 0, queryError(err, req, "exec failed")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, queryError(err, req, "rows affected unavailable")
	}
	return n, nil
}

// Commit commits the transaction when the Querier runs inside one. Over a
// plain *bun.DB every statement is already committed and Commit does nothing.
func (q *Querier) Commit(ctx context.Context) error {
	tx, ok := q.tx()
	if !ok {
		return nil
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "commit failed").
			WithTextCode(TextCodeQueryFailed)
	}
	return nil
}

// Rollback rolls back the transaction when the Querier runs inside one.
func (q *Querier) Rollback(ctx context.Context) error {
	tx, ok := q.tx()
	if !ok {
		return nil
	}
	if err := tx.Rollback(); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "rollback failed").
			WithTextCode(TextCodeQueryFailed)
	}
	return nil
}

func (q *Querier) tx() (bun.Tx, bool) {
	switch db := q.db.(type) {
	case bun.Tx:
		return db, true
	case *bun.Tx:
		if db != nil {
			return *db, true
		}
	}
	return bun.Tx{}, false
}

func window(rows []map[string]any, offset, limit int) []any {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []any{}
	}
	end := len(rows)
	if limit < end-offset {
		end = offset + limit
	}
	out := make([]any, 0, end-offset)
	for _, row := range rows[offset:end] {
		out = append(out, row)
	}
	return out
}

func queryError(err error, req *session.Request, msg string) error {
	return errors.Wrap(err, errors.CategoryOperation, msg).
		WithTextCode(TextCodeQueryFailed).
		WithMetadata(map[string]any{
			"statement": req.Statement.ID,
			"sql":       req.SQL,
		})
}
