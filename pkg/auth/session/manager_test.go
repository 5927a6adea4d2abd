package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/glassworks-backend/pkg/config"
	redisclient "github.com/angelmondragon/glassworks-backend/pkg/redis"
)

type failingStore struct{}

func (failingStore) Set(context.Context, string, any, time.Duration) error { return errors.New("down") }
func (failingStore) Get(context.Context, string) (string, error) { return "", errors.New("down") }
func (failingStore) Del(context.Context, ...string) error { return errors.New("down") }

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager(redisclient.NewMemoryStore(), config.SessionConfig{TTLMinutes: 60})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return mgr
}

func TestCreateAndRevokeSession(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(t)

	accessID, err := mgr.Create(ctx, uuid.New())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	ok, err := mgr.HasSession(ctx, accessID)
	if err != nil || !ok {
		t.Fatalf("expected live session, ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	ok, err = mgr.HasSession(ctx, accessID)
	if err != nil || ok {
		t.Fatalf("expected revoked session, ok=%v err=%v", ok, err)
	}
}

func TestHasSessionUnknownID(t *testing.T) {
	mgr := newTestManager(t)
	ok, err := mgr.HasSession(context.Background(), NewAccessID())
	if err != nil || ok {
		t.Fatalf("expected no session, ok=%v err=%v", ok, err)
	}
	if _, err := mgr.HasSession(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank access id")
	}
}

func TestHasSessionPropagatesStoreErrors(t *testing.T) {
	mgr, err := NewManager(failingStore{}, config.SessionConfig{TTLMinutes: 5})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := mgr.HasSession(context.Background(), "abc"); err == nil {
		t.Fatal("expected store error")
	}
	if _, err := mgr.Create(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected store error on create")
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(nil, config.SessionConfig{TTLMinutes: 5}); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewManager(redisclient.NewMemoryStore(), config.SessionConfig{}); err == nil {
		t.Fatal("expected error for zero ttl")
	}
	if _, err := newTestManager(t).Create(context.Background(), uuid.Nil); err == nil {
		t.Fatal("expected error for nil user")
	}
}
