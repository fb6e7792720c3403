package session

import (
	"context"
	"reflect"

	"github.com/goliatone/go-query-cache/cache"
)

// deferredLoad assigns a cached result to a property once its key resolves.
type deferredLoad struct {
	target     any
	property   string
	key        *cache.Key
	targetType reflect.Type
	local      cache.Cache
}

// canLoad reports whether the key holds a finished result.
func (d *deferredLoad) canLoad(ctx context.Context) (bool, error) {
	value, found, err := d.local.Get(ctx, d.key)
	if err != nil || !found {
		return false, err
	}
	return value != inFlight, nil
}

func (d *deferredLoad) load(ctx context.Context) error {
	value, _, err := d.local.Get(ctx, d.key)
	if err != nil {
		return err
	}
	rows, _ := value.([]any)
	result, err := extractResult(rows, d.targetType)
	if err != nil {
		return err
	}
	return setProperty(d.target, d.property, result)
}
