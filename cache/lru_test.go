package cache

import (
	"context"
	"testing"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(NewPerpetual("lru"), 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	mustGet(ctx, c, "a")
	_ = c.Put(ctx, "c", 3)

	if _, found := mustGet(ctx, c, "b"); found {
		t.Error("expected b to be evicted as least recently used")
	}
	for _, k := range []string{"a", "c"} {
		if _, found := mustGet(ctx, c, k); !found {
			t.Errorf("expected %s to be present", k)
		}
	}
}

func TestLRU_RePutRefreshesRecency(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(NewPerpetual("lru"), 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	_ = c.Put(ctx, "a", 10)
	_ = c.Put(ctx, "c", 3)

	if v, _ := mustGet(ctx, c, "a"); v != 10 {
		t.Errorf("expected a=10, got %v", v)
	}
	if _, found := mustGet(ctx, c, "b"); found {
		t.Error("expected b to be evicted")
	}
}

func TestLRU_GetOfUntrackedKeyIsNotTracked(t *testing.T) {
	ctx := context.Background()
	store := newRecordingCache("lru")
	c := NewLRU(store, 1)

	mustGet(ctx, c, "ghost")
	_ = c.Put(ctx, "a", 1)

	if len(store.removedKeys()) != 0 {
		t.Errorf("a get miss must not occupy a slot, removed %v", store.removedKeys())
	}
	if c.Tracked() != 1 {
		t.Errorf("expected one tracked key, got %d", c.Tracked())
	}
}

func TestLRU_SizeOne(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(NewPerpetual("lru"), 1)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)

	if _, found := mustGet(ctx, c, "a"); found {
		t.Error("expected a to be evicted")
	}
	if c.Size() != 1 {
		t.Errorf("expected size 1, got %d", c.Size())
	}
}

func TestLRU_FingerprintKeys(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(NewPerpetual("lru"), 2)

	_ = c.Put(ctx, NewKey("q", 1), "one")
	_ = c.Put(ctx, NewKey("q", 2), "two")
	mustGet(ctx, c, NewKey("q", 1))
	_ = c.Put(ctx, NewKey("q", 3), "three")

	if _, found := mustGet(ctx, c, NewKey("q", 2)); found {
		t.Error("expected an equal but distinct key instance to address the evicted entry")
	}
	if v, _ := mustGet(ctx, c, NewKey("q", 1)); v != "one" {
		t.Errorf("expected one, got %v", v)
	}
}

func TestLRU_Clear(t *testing.T) {
	ctx := context.Background()
	c := NewLRU(NewPerpetual("lru"), 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	_ = c.Clear(ctx)

	if c.Size() != 0 || c.Tracked() != 0 {
		t.Errorf("expected everything cleared, size=%d tracked=%d", c.Size(), c.Tracked())
	}
}

func TestLRU_EvictsOnlyAfterSuccessfulPut(t *testing.T) {
	ctx := context.Background()
	store := newRecordingCache("lru")
	c := NewLRU(store, 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	_ = c.Put(ctx, "c", 3)

	removed := store.removedKeys()
	if len(removed) != 1 || removed[0] != "a" {
		t.Fatalf("expected a to be removed from the delegate, got %v", removed)
	}
	if c.Tracked() != 2 {
		t.Errorf("expected two tracked keys, got %d", c.Tracked())
	}
}
