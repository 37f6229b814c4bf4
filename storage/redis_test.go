package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T, prefix string, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedis(rdb, prefix, ttl), mr
}

func TestRedisSetGetDelete(t *testing.T) {
	ctx := context.Background()
	r, _ := newRedisStore(t, "navgate", 0)

	if err := r.Set(ctx, "session", `{"id":"u1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got, err := r.Get(ctx, "session"); err != nil || got != `{"id":"u1"}` {
		t.Fatalf("Get = (%q, %v)", got, err)
	}
	if err := r.Delete(ctx, "session"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := r.Get(ctx, "session"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRedisMissingKeyIsNotFound(t *testing.T) {
	r, _ := newRedisStore(t, "navgate", 0)
	if _, err := r.Get(context.Background(), "absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisKeysArePrefixed(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedisStore(t, "tab7", 0)

	if err := r.Set(ctx, "session", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !mr.Exists("tab7:session") {
		t.Fatalf("expected key tab7:session, have %v", mr.Keys())
	}
}

func TestRedisTTLExpiresRecord(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedisStore(t, "navgate", time.Minute)

	if err := r.Set(ctx, "session", "v"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := r.Get(ctx, "session"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry to read as ErrNotFound, got %v", err)
	}
}

func TestRedisDownIsUnavailable(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedisStore(t, "navgate", 0)

	mr.Close()

	if _, err := r.Get(ctx, "session"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Set(ctx, "session", "v"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
