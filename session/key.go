package session

import "github.com/goliatone/go-query-cache/cache"

// CreateKey fingerprints a request: statement id, row window, SQL, the
// value of every non-OUT parameter in order, and the environment id when
// one is set.
func CreateKey(req *Request, environment string) *cache.Key {
	offset, limit := req.Bounds()
	key := cache.NewKey(req.Statement.ID, offset, limit, req.SQL)
	for _, p := range req.Params {
		if p.Mode != ModeOut {
			key.Update(p.Value)
		}
	}
	if environment != "" {
		key.Update(environment)
	}
	return key
}
