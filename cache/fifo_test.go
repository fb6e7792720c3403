package cache

import (
	"context"
	"errors"
	"testing"
)

func TestFIFO_EvictsOldestInsertion(t *testing.T) {
	ctx := context.Background()
	store := newRecordingCache("fifo")
	c := NewFIFO(store, 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)
	mustGet(ctx, c, "a") // reads do not change FIFO order
	_ = c.Put(ctx, "c", 3)

	if _, found := mustGet(ctx, c, "a"); found {
		t.Error("expected a to be evicted as the oldest insertion")
	}
	for _, k := range []string{"b", "c"} {
		if _, found := mustGet(ctx, c, k); !found {
			t.Errorf("expected %s to be present", k)
		}
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
}

func TestFIFO_SizeOneKeepsLatest(t *testing.T) {
	ctx := context.Background()
	c := NewFIFO(NewPerpetual("fifo"), 1)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)

	if _, found := mustGet(ctx, c, "a"); found {
		t.Error("expected a to be evicted")
	}
	if v, _ := mustGet(ctx, c, "b"); v != 2 {
		t.Errorf("expected b=2, got %v", v)
	}
}

func TestFIFO_RepeatedKeyIsRecordedAgain(t *testing.T) {
	ctx := context.Background()
	store := newRecordingCache("fifo")
	c := NewFIFO(store, 2)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "a", 2)
	_ = c.Put(ctx, "b", 3)

	removed := store.removedKeys()
	if len(removed) != 1 || removed[0] != "a" {
		t.Fatalf("expected the first a record to be evicted, got %v", removed)
	}
	if _, found := mustGet(ctx, c, "a"); found {
		t.Error("evicting the oldest record removes the key from the delegate")
	}
}

func TestFIFO_RemoveAndClearDelegate(t *testing.T) {
	ctx := context.Background()
	c := NewFIFO(NewPerpetual("fifo"), 4)

	_ = c.Put(ctx, "a", 1)
	_ = c.Put(ctx, "b", 2)

	if v, found, _ := c.Remove(ctx, "a"); !found || v != 1 {
		t.Errorf("expected remove to return 1, got %v (found=%v)", v, found)
	}

	_ = c.Clear(ctx)
	if c.Size() != 0 {
		t.Errorf("expected empty cache after clear, got %d", c.Size())
	}

	for i := 0; i < 4; i++ {
		_ = c.Put(ctx, i, i)
	}
	if c.Size() != 4 {
		t.Errorf("clear must reset the queue, expected 4 entries, got %d", c.Size())
	}
}

func TestFIFO_DefaultSize(t *testing.T) {
	c := NewFIFO(NewPerpetual("fifo"), 0)
	if c.size != DefaultEvictionSize {
		t.Errorf("expected default size %d, got %d", DefaultEvictionSize, c.size)
	}
	if c.ID() != "fifo" {
		t.Errorf("expected delegate id, got %s", c.ID())
	}
}

func TestFIFO_FailedPutKeepsQueue(t *testing.T) {
	ctx := context.Background()
	store := newRecordingCache("fifo")
	c := NewFIFO(store, 1)

	if err := c.Put(ctx, "a", 1); err != nil {
		t.Fatalf("put a: %v", err)
	}

	store.failPuts(errors.New("store unavailable"))
	if err := c.Put(ctx, "b", 2); err == nil {
		t.Fatal("expected the delegate error")
	}
	if len(store.removedKeys()) != 0 {
		t.Fatalf("a failed put must not evict, removed %v", store.removedKeys())
	}

	store.failPuts(nil)
	if err := c.Put(ctx, "c", 3); err != nil {
		t.Fatalf("put c: %v", err)
	}
	if removed := store.removedKeys(); len(removed) != 1 || removed[0] != "a" {
		t.Errorf("expected a to be evicted once c was stored, got %v", removed)
	}
	if _, found := mustGet(ctx, c, "a"); found {
		t.Error("expected a to be gone")
	}
}
