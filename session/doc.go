// Package session implements the unit-of-work query cache.
//
// A Session owns a local cache that lives as long as the session. Queries
// are fingerprinted with CreateKey; a repeated query within the session is
// answered from the local cache without reaching the Querier.
//
// While a query runs its key holds an in-flight marker. Result
// materialization that needs another query's rows registers a DeferLoad
// instead of querying recursively; queued loads fire when the outermost
// query returns, which lets cyclic object graphs resolve without recursion:
//
//	rows, err := s.Query(ctx, &session.Request{
//		Statement: session.Statement{ID: "blogs.byID"},
//		SQL:       "SELECT * FROM blogs WHERE id = ?",
//		Params:    []session.Param{{Name: "id", Value: 1}},
//	})
//
// Updates, commits and rollbacks clear the local cache. A closed session
// rejects further work with an error that IsClosed recognises.
package session
