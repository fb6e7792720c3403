package session

import "github.com/go-logr/logr"

// LocalCacheScope controls how long the local cache keeps results.
type LocalCacheScope int

const (
	// ScopeSession keeps results until an update, commit, rollback or close.
	ScopeSession LocalCacheScope = iota
	// ScopeStatement clears the local cache after every outermost query.
	ScopeStatement
)

func (s LocalCacheScope) String() string {
	if s == ScopeStatement {
		return "statement"
	}
	return "session"
}

// Option configures a Session.
type Option func(*Session)

func WithLocalCacheScope(scope LocalCacheScope) Option {
	return func(s *Session) {
		s.scope = scope
	}
}

// WithEnvironment sets the environment id folded into every key.
func WithEnvironment(id string) Option {
	return func(s *Session) {
		s.environment = id
	}
}

func WithLogger(log logr.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithAutoCommit marks the querier as committing every statement itself, so
// Commit and Rollback only reach a Transactor when forced.
func WithAutoCommit(autoCommit bool) Option {
	return func(s *Session) {
		s.autoCommit = autoCommit
	}
}
