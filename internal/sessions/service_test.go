package sessions

import (
	"context"
	"testing"
	"time"
)

// fake repo for testing
type fakeRepo struct {
	store map[string]*Session
}

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	if f.store == nil {
		f.store = map[string]*Session{}
	}
	f.store[s.Token] = s
	return nil
}
func (f *fakeRepo) GetByToken(ctx context.Context, token string) (*Session, error) {
	if f.store == nil {
		return nil, nil
	}
	s, ok := f.store[token]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (f *fakeRepo) DeleteByToken(ctx context.Context, token string) error {
	if f.store == nil {
		return nil
	}
	delete(f.store, token)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	tok, err := svc.CreateSession(ctx, "admin-1", time.Hour)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected session token")
	}
	// validate
	sess, err := svc.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if sess == nil || sess.AdminID != "admin-1" {
		t.Fatalf("unexpected session: %v", sess)
	}
	// delete
	if err := svc.Delete(ctx, tok); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	sess2, _ := svc.Validate(ctx, tok)
	if sess2 != nil {
		t.Fatalf("expected session removed")
	}
}

func TestValidateExpiredSession(t *testing.T) {
	repo := &fakeRepo{store: map[string]*Session{
		"stale": {Token: "stale", AdminID: "admin-1", ExpiresAt: time.Now().UTC().Add(-time.Minute)},
	}}
	svc := NewService(repo)

	sess, err := svc.Validate(context.Background(), "stale")
	if err != nil {
		t.Fatalf("validate error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected expired session to be rejected")
	}
	if _, ok := repo.store["stale"]; ok {
		t.Fatalf("expected expired session to be cleaned up")
	}
}
