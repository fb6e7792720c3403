package cache

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
)

type account struct {
	ID    int64
	Email string
	Tags  []string
}

func TestSerialized_ReadersGetCopies(t *testing.T) {
	ctx := context.Background()
	c := NewSerialized(NewPerpetual("accounts"))

	original := account{ID: 7, Email: "a@example.com", Tags: []string{"admin"}}
	if err := c.Put(ctx, "a", original); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	original.Tags[0] = "mutated"

	first, found, err := Lookup[account](ctx, c, "a")
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if first.Tags[0] != "admin" {
		t.Errorf("stored value must not see later mutations, got %v", first.Tags)
	}

	first.Tags[0] = "changed"
	second, _, _ := Lookup[account](ctx, c, "a")
	if second.Tags[0] != "admin" {
		t.Errorf("each reader must get its own copy, got %v", second.Tags)
	}
}

func TestSerialized_GetReturnsEncoded(t *testing.T) {
	ctx := context.Background()
	c := NewSerialized(NewPerpetual("accounts"))

	_ = c.Put(ctx, "n", 42)
	raw, _, _ := c.Get(ctx, "n")
	if _, ok := raw.(Encoded); !ok {
		t.Fatalf("expected Encoded, got %T", raw)
	}

	n, err := Decode[int](raw)
	if err != nil || n != 42 {
		t.Errorf("expected 42, got %v err=%v", n, err)
	}
}

func TestSerialized_UnsupportedValue(t *testing.T) {
	ctx := context.Background()
	c := NewSerialized(NewPerpetual("accounts"))

	err := c.Put(ctx, "ch", make(chan int))
	if err == nil {
		t.Fatal("expected serialization error")
	}
	if !errors.IsCategory(err, errors.CategoryBadInput) {
		t.Errorf("expected bad input category, got %v", err)
	}
}

func TestSerialized_RemoveReturnsEncoded(t *testing.T) {
	ctx := context.Background()
	c := NewSerialized(NewPerpetual("accounts"))

	_ = c.Put(ctx, "s", "value")
	raw, found, _ := c.Remove(ctx, "s")
	if !found {
		t.Fatal("expected remove to find the key")
	}
	s, err := Decode[string](raw)
	if err != nil || s != "value" {
		t.Errorf("expected value, got %q err=%v", s, err)
	}
}
