package cache

import (
	"context"
	"testing"
	"time"
)

type cachedRecord struct {
	ID   string
	Name string
}

func TestMemoryGetTypedValue(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	if err := mc.Set(ctx, "k", cachedRecord{ID: "1", Name: "a"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got cachedRecord
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "1" || got.Name != "a" {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestMemoryGetDereferencesStoredPointer(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	if err := mc.Set(ctx, "k", &cachedRecord{ID: "2"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got cachedRecord
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "2" {
		t.Fatalf("unexpected record %+v", got)
	}
}

func TestMemoryGetInterfaceDest(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	if err := mc.Set(ctx, "k", 42, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got interface{}
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if v, ok := got.(int); !ok || v != 42 {
		t.Fatalf("unexpected value %v", got)
	}
}

func TestMemoryGetTypeMismatch(t *testing.T) {
	mc := NewMemoryCache()
	ctx := context.Background()
	if err := mc.Set(ctx, "k", "text", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got cachedRecord
	if err := mc.Get(ctx, "k", &got); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestMemoryGetMiss(t *testing.T) {
	mc := NewMemoryCache()
	var got cachedRecord
	if err := mc.Get(context.Background(), "absent", &got); err != ErrCacheMiss {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}
