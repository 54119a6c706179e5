package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMemoryRegistry_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	session, err := registry.Create(ctx, "u1", time.Minute, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.ID == "" || session.UserID != "u1" {
		t.Fatalf("unexpected session: %+v", session)
	}

	got, err := registry.Lookup(ctx, session.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil || got.UserID != "u1" {
		t.Fatalf("unexpected lookup result: %+v", got)
	}
}

func TestMemoryRegistry_SessionIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		session, err := registry.Create(ctx, "u1", time.Minute, false)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[session.ID] {
			t.Fatalf("duplicate session id %q", session.ID)
		}
		seen[session.ID] = true
	}
}

func TestMemoryRegistry_ZeroTTLBornExpired(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	session, err := registry.Create(ctx, "u1", 0, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := registry.Lookup(ctx, session.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != nil {
		t.Fatalf("expected expired session to be invisible, got %+v", got)
	}
}

func TestMemoryRegistry_InvalidateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	session, err := registry.Create(ctx, "u1", time.Minute, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := registry.Invalidate(ctx, session.ID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := registry.Invalidate(ctx, session.ID); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
	if err := registry.Invalidate(ctx, "never-existed"); err != nil {
		t.Fatalf("invalidate unknown id: %v", err)
	}

	got, err := registry.Lookup(ctx, session.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != nil {
		t.Fatalf("expected revoked session to be invisible, got %+v", got)
	}
}

func TestMemoryRegistry_RefreshExtendsLiveSession(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	session, err := registry.Create(ctx, "u1", time.Minute, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	refreshed, err := registry.Refresh(ctx, session.ID, time.Hour)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !refreshed.ExpiresAt.After(session.ExpiresAt) {
		t.Fatalf("expected extended expiry, got %v <= %v", refreshed.ExpiresAt, session.ExpiresAt)
	}
}

func TestMemoryRegistry_RevocationBeatsRefresh(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	session, err := registry.Create(ctx, "u1", time.Minute, true)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := registry.Invalidate(ctx, session.ID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, err := registry.Refresh(ctx, session.ID, time.Hour); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}

	// El refresh rechazado no puede resucitar la sesión.
	got, err := registry.Lookup(ctx, session.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got != nil {
		t.Fatalf("revoked session came back: %+v", got)
	}
}

func TestMemoryRegistry_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry().(*memoryRegistry)

	if _, err := registry.Create(ctx, "u1", 0, false); err != nil {
		t.Fatalf("create: %v", err)
	}
	live, err := registry.Create(ctx, "u1", time.Minute, false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if purged := registry.PurgeExpired(time.Now().UTC()); purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}
	got, err := registry.Lookup(ctx, live.ID)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got == nil {
		t.Fatalf("live session was purged")
	}
}

func TestMemoryRegistry_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	registry := NewMemoryRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				session, err := registry.Create(ctx, "u1", time.Minute, false)
				if err != nil {
					t.Errorf("create: %v", err)
					return
				}
				got, err := registry.Lookup(ctx, session.ID)
				if err != nil || got == nil {
					t.Errorf("lookup after create: %v, %v", got, err)
					return
				}
				if err := registry.Invalidate(ctx, session.ID); err != nil {
					t.Errorf("invalidate: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}
