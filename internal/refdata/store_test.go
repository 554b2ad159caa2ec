package refdata

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	s.Put("w1", Context{Users: []Record{{ID: "u1"}}})

	got, err := s.Load(context.Background(), "w1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Users) != 1 || got.Users[0].ID != "u1" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}

	if _, err := s.Load(context.Background(), "unknown"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type countingStore struct {
	calls int
	ctx   Context
}

func (s *countingStore) Load(context.Context, string) (Context, error) {
	s.calls++
	return s.ctx, nil
}

func TestCachedStore_NoRedisDegradesToInner(t *testing.T) {
	inner := &countingStore{ctx: Context{Groups: []Record{{ID: "g1"}}}}
	s := NewCachedStore(inner, nil, 0)

	for i := 0; i < 2; i++ {
		got, err := s.Load(context.Background(), "w1")
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if len(got.Groups) != 1 {
			t.Fatalf("unexpected snapshot: %+v", got)
		}
	}
	if inner.calls != 2 {
		t.Fatalf("without redis every load hits the inner store, got %d calls", inner.calls)
	}
}

func TestCachedStore_RequiresInner(t *testing.T) {
	s := NewCachedStore(nil, nil, 0)
	if _, err := s.Load(context.Background(), "w1"); err == nil {
		t.Fatalf("expected error for missing inner store")
	}
}
