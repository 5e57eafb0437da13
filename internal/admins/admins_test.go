package admins

import (
	"context"
	"testing"
)

type fakeRepo struct {
	byName map[string]*Admin
}

func newFakeRepo() *fakeRepo { return &fakeRepo{byName: map[string]*Admin{}} }

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	if a, ok := f.byName[username]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}

func (f *fakeRepo) Insert(ctx context.Context, a *Admin) error {
	f.byName[a.Username] = a
	return nil
}

func TestBootstrapAndAuthenticate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Bootstrap(ctx, "admin", "hunter22"); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if _, ok := repo.byName["admin"]; !ok {
		t.Fatal("expected bootstrap to create the account")
	}

	a, err := svc.Authenticate(ctx, "admin", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil {
		t.Fatal("expected valid credentials to authenticate")
	}

	a, err = svc.Authenticate(ctx, "admin", "wrong")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Fatal("expected bad password to be rejected")
	}

	a, err = svc.Authenticate(ctx, "nobody", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Fatal("expected unknown username to be rejected")
	}
}

func TestBootstrapIsIdempotentAndOptional(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// empty credentials: nothing happens
	if err := svc.Bootstrap(ctx, "", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.byName) != 0 {
		t.Fatal("bootstrap with empty credentials must be a no-op")
	}

	if err := svc.Bootstrap(ctx, "admin", "hunter22"); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	first := repo.byName["admin"]

	// second bootstrap keeps the existing account
	if err := svc.Bootstrap(ctx, "admin", "different"); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if repo.byName["admin"] != first {
		t.Fatal("second bootstrap must not replace the existing account")
	}
}
