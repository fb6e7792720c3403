package session

import (
	"context"
	"math"
)

// NoLimit is the row limit used when a request does not set one.
const NoLimit = math.MaxInt32

// StatementKind tells plain statements apart from stored procedure calls.
type StatementKind int

const (
	KindPrepared StatementKind = iota
	KindCallable
)

// ParamMode is the direction of a bound parameter.
type ParamMode int

const (
	ModeIn ParamMode = iota
	ModeOut
	ModeInOut
)

// Statement describes a mapped statement.
type Statement struct {
	ID   string
	Kind StatementKind
	// FlushCache clears the local cache before an outermost query and, for
	// a CachedQuerier, the namespace cache.
	FlushCache bool
	// UseCache opts the statement into the namespace cache.
	UseCache bool
}

// Param is a bound parameter value.
type Param struct {
	Name  string
	Value any
	Mode  ParamMode
}

// Request is a statement bound to its SQL, parameters and row window.
type Request struct {
	Statement Statement
	SQL       string
	Params    []Param
	// Offset and Limit select a window of the result. A zero Limit means NoLimit.
	Offset int
	Limit  int
	// Parameter is the caller's parameter object. Callable statements write
	// their OUT values to it.
	Parameter any
}

// Bounds returns the effective row window.
func (r *Request) Bounds() (offset, limit int) {
	limit = r.Limit
	if limit <= 0 {
		limit = NoLimit
	}
	return r.Offset, limit
}

// Args returns the values of every parameter the statement reads.
func (r *Request) Args() []any {
	args := make([]any, 0, len(r.Params))
	for _, p := range r.Params {
		if p.Mode != ModeOut {
			args = append(args, p.Value)
		}
	}
	return args
}

// Querier runs statements against the underlying data source.
type Querier interface {
	Query(ctx context.Context, req *Request) ([]any, error)
	Exec(ctx context.Context, req *Request) (int64, error)
}

// Transactor is implemented by queriers bound to a transaction. Sessions
// call it when a commit or rollback is required.
type Transactor interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
