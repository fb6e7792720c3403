package session

import (
	"context"
	"reflect"

	"github.com/go-logr/logr"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-query-cache/cache"
	"github.com/google/uuid"
)

type marker int

// inFlight marks a key whose query is still running in this session.
const inFlight marker = 0

// Session runs queries through a per-session local cache. Repeated queries
// within a session are answered from the cache, nested queries share it, and
// DeferLoad lets cyclic result graphs be completed once the outermost query
// returns.
//
// A Session is not safe for concurrent use.
type Session struct {
	id          string
	querier     Querier
	environment string
	scope       LocalCacheScope
	log         logr.Logger

	localCache  cache.Cache
	outputCache cache.Cache
	deferred    []*deferredLoad
	depth       int
	closed      bool

	autoCommit bool
	dirty      bool
}

// New opens a session over querier.
func New(querier Querier, opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		querier: querier,
		scope:   ScopeSession,
		log:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithValues("session", s.id)
	s.localCache = cache.NewPerpetual("LocalCache")
	s.outputCache = cache.NewPerpetual("LocalOutputParameterCache")
	return s
}

func (s *Session) ID() string {
	return s.id
}

// CreateKey fingerprints req with the session environment.
func (s *Session) CreateKey(req *Request) (*cache.Key, error) {
	if s.closed {
		return nil, errClosed(s.id)
	}
	return CreateKey(req, s.environment), nil
}

// Query returns the rows for req, from the local cache when possible.
func (s *Session) Query(ctx context.Context, req *Request) ([]any, error) {
	key, err := s.CreateKey(req)
	if err != nil {
		return nil, err
	}
	return s.QueryKey(ctx, req, key)
}

// QueryKey is Query with a precomputed key.
func (s *Session) QueryKey(ctx context.Context, req *Request, key *cache.Key) ([]any, error) {
	return s.query(ctx, req, key, true)
}

// QueryOne returns the single row for req, nil when there is none, and
// TOO_MANY_RESULTS when there are more.
func (s *Session) QueryOne(ctx context.Context, req *Request) (any, error) {
	rows, err := s.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, errTooManyResults(len(rows))
	}
}

// QueryMap indexes the rows for req by their mapKey property. A later row
// replaces an earlier one with the same key.
func (s *Session) QueryMap(ctx context.Context, req *Request, mapKey string) (map[any]any, error) {
	rows, err := s.Query(ctx, req)
	if err != nil {
		return nil, err
	}
	out := make(map[any]any, len(rows))
	for _, row := range rows {
		k, ok := getProperty(row, mapKey)
		if !ok {
			return nil, errProperty(mapKey, row, "no readable property")
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, errProperty(mapKey, row, "value cannot be a map key")
		}
		out[k] = row
	}
	return out, nil
}

// ResultHandler receives rows one at a time. Returning an error stops the
// iteration.
type ResultHandler func(row any) error

// QueryWithHandler always runs req against the querier, skipping the local
// cache read, and streams the rows to handler. The result is still cached
// for later queries and deferred loads.
func (s *Session) QueryWithHandler(ctx context.Context, req *Request, handler ResultHandler) error {
	key, err := s.CreateKey(req)
	if err != nil {
		return err
	}
	rows, err := s.query(ctx, req, key, false)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if err := handler(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) query(ctx context.Context, req *Request, key *cache.Key, useLocal bool) (rows []any, err error) {
	if s.closed {
		return nil, errClosed(s.id)
	}
	if s.depth == 0 && req.Statement.FlushCache {
		if err := s.ClearLocalCache(ctx); err != nil {
			return nil, err
		}
	}

	s.depth++
	func() {
		defer func() { s.depth-- }()
		if useLocal {
			rows, err = s.lookupOrFetch(ctx, req, key)
		} else {
			rows, err = s.fetch(ctx, req, key)
		}
	}()

	if s.depth > 0 {
		return rows, err
	}

	if err != nil {
		s.deferred = nil
		if s.scope == ScopeStatement {
			_ = s.ClearLocalCache(ctx)
		}
		return nil, err
	}

	loadErr := s.fireDeferred(ctx)
	if s.scope == ScopeStatement {
		if err := s.ClearLocalCache(ctx); err != nil {
			return rows, errors.Join(loadErr, err)
		}
	}
	return rows, loadErr
}

func (s *Session) lookupOrFetch(ctx context.Context, req *Request, key *cache.Key) ([]any, error) {
	value, found, err := s.localCache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return s.fetch(ctx, req, key)
	}
	if value == inFlight {
		return nil, errInFlight(req.Statement.ID)
	}

	s.log.V(1).Info("local cache hit", "statement", req.Statement.ID, "depth", s.depth)
	if req.Statement.Kind == KindCallable {
		s.restoreOutputParameters(ctx, req, key)
	}
	rows, _ := value.([]any)
	return rows, nil
}

func (s *Session) fetch(ctx context.Context, req *Request, key *cache.Key) ([]any, error) {
	if err := s.localCache.Put(ctx, key, inFlight); err != nil {
		return nil, err
	}

	rows, err := func() ([]any, error) {
		defer func() { _, _, _ = s.localCache.Remove(ctx, key) }()
		return s.querier.Query(ctx, req)
	}()
	if err != nil {
		return nil, err
	}

	if err := s.localCache.Put(ctx, key, rows); err != nil {
		return nil, err
	}
	if req.Statement.Kind == KindCallable {
		if err := s.outputCache.Put(ctx, key, req.Parameter); err != nil {
			return nil, err
		}
	}
	s.log.V(1).Info("query executed", "statement", req.Statement.ID, "rows", len(rows), "depth", s.depth)
	return rows, nil
}

// restoreOutputParameters copies cached OUT values onto the caller's
// parameter object.
func (s *Session) restoreOutputParameters(ctx context.Context, req *Request, key *cache.Key) {
	cached, found, err := s.outputCache.Get(ctx, key)
	if err != nil || !found || cached == nil || req.Parameter == nil {
		return
	}
	for _, p := range req.Params {
		if p.Mode == ModeIn {
			continue
		}
		value, ok := getProperty(cached, p.Name)
		if !ok {
			continue
		}
		if err := setProperty(req.Parameter, p.Name, value); err != nil {
			s.log.Error(err, "cannot restore output parameter", "statement", req.Statement.ID, "param", p.Name)
		}
	}
}

// DeferLoad assigns the result cached under key to the named property of
// target. It runs now when the result is ready, and otherwise when the
// outermost query returns. targetType shapes the result; a slice type takes
// every row, nil or any other type takes at most one row.
func (s *Session) DeferLoad(ctx context.Context, target any, property string, key *cache.Key, targetType reflect.Type) error {
	if s.closed {
		return errClosed(s.id)
	}
	load := &deferredLoad{
		target:     target,
		property:   property,
		key:        key,
		targetType: targetType,
		local:      s.localCache,
	}

	ready, err := load.canLoad(ctx)
	if err != nil {
		return err
	}
	if ready {
		return load.load(ctx)
	}
	s.deferred = append(s.deferred, load)
	return nil
}

// fireDeferred runs queued loads in order. Loads whose key never resolved
// report DEFERRED_LOAD_UNRESOLVED; the rest still run.
func (s *Session) fireDeferred(ctx context.Context) error {
	loads := s.deferred
	s.deferred = nil

	var errs []error
	for _, load := range loads {
		ready, err := load.canLoad(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ready {
			s.log.V(1).Info("deferred load unresolved", "property", load.property, "key", load.key.String())
			errs = append(errs, errUnresolved(load.property, load.key))
			continue
		}
		if err := load.load(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// IsCached reports whether key holds a result in the local cache, including
// one still in flight.
func (s *Session) IsCached(ctx context.Context, key *cache.Key) (bool, error) {
	if s.closed {
		return false, errClosed(s.id)
	}
	_, found, err := s.localCache.Get(ctx, key)
	return found, err
}

// ClearLocalCache drops every cached result and OUT parameter.
func (s *Session) ClearLocalCache(ctx context.Context) error {
	if s.closed {
		return nil
	}
	if err := s.localCache.Clear(ctx); err != nil {
		return err
	}
	return s.outputCache.Clear(ctx)
}

// Update runs a write statement after clearing the local cache. The
// session is dirty until the next commit or rollback.
func (s *Session) Update(ctx context.Context, req *Request) (int64, error) {
	if s.closed {
		return 0, errClosed(s.id)
	}
	s.dirty = true
	if err := s.ClearLocalCache(ctx); err != nil {
		return 0, err
	}
	return s.querier.Exec(ctx, req)
}

// Dirty reports whether an update ran since the last commit or rollback.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Commit clears the local cache and, when the session is dirty and not in
// auto-commit mode or when force is set, commits the querier's transaction.
func (s *Session) Commit(ctx context.Context, force bool) error {
	if s.closed {
		return errClosed(s.id)
	}
	if err := s.ClearLocalCache(ctx); err != nil {
		return err
	}
	if s.commitOrRollbackRequired(force) {
		if tx, ok := s.querier.(Transactor); ok {
			if err := tx.Commit(ctx); err != nil {
				return err
			}
		}
	}
	s.dirty = false
	return nil
}

// Rollback clears the local cache and rolls back under the same rule as
// Commit. It is a no-op on a closed session.
func (s *Session) Rollback(ctx context.Context, force bool) error {
	if s.closed {
		return nil
	}
	clearErr := s.ClearLocalCache(ctx)
	var txErr error
	if s.commitOrRollbackRequired(force) {
		if tx, ok := s.querier.(Transactor); ok {
			txErr = tx.Rollback(ctx)
		}
	}
	s.dirty = false
	return errors.Join(clearErr, txErr)
}

func (s *Session) commitOrRollbackRequired(force bool) bool {
	return (!s.autoCommit && s.dirty) || force
}

// Close rolls back uncommitted updates and releases the session. Later
// calls fail with SESSION_CLOSED.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	err := s.Rollback(ctx, false)
	s.closed = true
	s.deferred = nil
	s.querier = nil
	s.log.V(1).Info("session closed")
	return err
}

func (s *Session) Closed() bool {
	return s.closed
}
