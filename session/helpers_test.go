package session

import (
	"context"
	"sync"
)

type queryHandler func(ctx context.Context, req *Request) ([]any, error)

// scriptedQuerier answers each statement id with a handler and counts calls.
type scriptedQuerier struct {
	mu       sync.Mutex
	handlers map[string]queryHandler
	queries  map[string]int
	execs    int
}

func newScriptedQuerier() *scriptedQuerier {
	return &scriptedQuerier{
		handlers: make(map[string]queryHandler),
		queries:  make(map[string]int),
	}
}

func (q *scriptedQuerier) on(statementID string, h queryHandler) {
	q.handlers[statementID] = h
}

func (q *scriptedQuerier) Query(ctx context.Context, req *Request) ([]any, error) {
	q.mu.Lock()
	q.queries[req.Statement.ID]++
	h := q.handlers[req.Statement.ID]
	q.mu.Unlock()
	if h == nil {
		return []any{}, nil
	}
	return h(ctx, req)
}

func (q *scriptedQuerier) Exec(ctx context.Context, req *Request) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.execs++
	return 1, nil
}

func (q *scriptedQuerier) calls(statementID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.queries[statementID]
}

func selectByID(statementID string, id int) *Request {
	return &Request{
		Statement: Statement{ID: statementID},
		SQL:       "SELECT * FROM " + statementID + " WHERE id = ?",
		Params:    []Param{{Name: "id", Value: id}},
	}
}

// txQuerier is a scriptedQuerier that also counts transaction calls.
type txQuerier struct {
	*scriptedQuerier
	commits   int
	rollbacks int
}

func newTxQuerier() *txQuerier {
	return &txQuerier{scriptedQuerier: newScriptedQuerier()}
}

func (q *txQuerier) Commit(ctx context.Context) error {
	q.commits++
	return nil
}

func (q *txQuerier) Rollback(ctx context.Context) error {
	q.rollbacks++
	return nil
}
