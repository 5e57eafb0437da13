package settings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu    sync.Mutex
	doc   *Settings
	err   error
	loads int
}

func (f *fakeRepo) Get(ctx context.Context) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.doc
	return &cp, nil
}

func (f *fakeRepo) Save(ctx context.Context, s *Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.doc = &cp
	return nil
}

func (f *fakeRepo) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func TestGetWithinWindowServesSameSnapshot(t *testing.T) {
	repo := &fakeRepo{doc: &Settings{Name: "Ada"}}
	c := NewCache(repo, time.Minute)
	ctx := context.Background()

	first := c.Get(ctx)
	second := c.Get(ctx)

	require.Same(t, first, second, "within the window Get must return the identical snapshot")
	require.Equal(t, 1, repo.loadCount())
}

func TestGetAfterWindowReloads(t *testing.T) {
	repo := &fakeRepo{doc: &Settings{Name: "Ada"}}
	c := NewCache(repo, 20*time.Millisecond)
	ctx := context.Background()

	c.Get(ctx)
	repo.doc.Name = "Grace"
	time.Sleep(30 * time.Millisecond)

	got := c.Get(ctx)
	require.Equal(t, "Grace", got.Name)
	require.Equal(t, 2, repo.loadCount())
}

func TestInvalidateForcesExactlyOneReload(t *testing.T) {
	repo := &fakeRepo{doc: &Settings{Name: "Ada"}}
	c := NewCache(repo, time.Minute)
	ctx := context.Background()

	c.Get(ctx)
	repo.doc.Name = "Grace"
	c.Invalidate()

	got := c.Get(ctx)
	require.Equal(t, "Grace", got.Name)
	require.Equal(t, 2, repo.loadCount())

	// and the fresh snapshot is cached again
	c.Get(ctx)
	require.Equal(t, 2, repo.loadCount())
}

func TestLoadFailureServesLastGoodSnapshot(t *testing.T) {
	repo := &fakeRepo{doc: &Settings{Name: "Ada"}}
	c := NewCache(repo, time.Minute)
	ctx := context.Background()

	good := c.Get(ctx)
	require.Equal(t, "Ada", good.Name)

	repo.mu.Lock()
	repo.err = errors.New("mongo unreachable")
	repo.mu.Unlock()
	c.Invalidate()

	got := c.Get(ctx)
	require.Equal(t, "Ada", got.Name, "stale data beats an error page")
}

func TestLoadFailureWithNoSnapshotServesDefaults(t *testing.T) {
	repo := &fakeRepo{doc: &Settings{}, err: errors.New("mongo unreachable")}
	c := NewCache(repo, time.Minute)

	got := c.Get(context.Background())
	require.NotNil(t, got)
	require.Equal(t, Defaults().Name, got.Name)
}
