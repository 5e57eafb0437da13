package projects

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is a map-backed Repository used by unit tests. It enforces
// the same slug uniqueness constraint the Mongo index provides.
type MemoryRepository struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]*Project

	// FailProbes makes SlugExists return ProbeErr, simulating an
	// unreachable persistence store during uniqueness probing.
	FailProbes bool
	ProbeErr   error

	probeCount int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[primitive.ObjectID]*Project)}
}

// ProbeCount reports how many uniqueness probes have been issued.
func (m *MemoryRepository) ProbeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.probeCount
}

func (m *MemoryRepository) Insert(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.slugTaken(p.Slug, p.ID) {
		return ErrDuplicateSlug
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[p.ID]; !ok {
		return ErrNotFound
	}
	if m.slugTaken(p.Slug, p.ID) {
		return ErrDuplicateSlug
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) List(ctx context.Context) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Project, 0, len(m.store))
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *MemoryRepository) ListFeatured(ctx context.Context, limit int64) ([]*Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Project{}
	for _, p := range m.store {
		if p.Featured {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.store)), nil
}

func (m *MemoryRepository) SlugExists(ctx context.Context, slug string, excludeID primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeCount++
	if m.FailProbes {
		return false, m.ProbeErr
	}
	return m.slugTaken(slug, excludeID), nil
}

// caller must hold the lock; empty slugs are exempt so pre-backfill records
// without slugs can coexist, matching a collection created before the index
func (m *MemoryRepository) slugTaken(slug string, excludeID primitive.ObjectID) bool {
	if slug == "" {
		return false
	}
	for id, p := range m.store {
		if id != excludeID && p.Slug == slug {
			return true
		}
	}
	return false
}

// Seed stores a project without uniqueness enforcement, mimicking legacy data
// written before the slug invariant existed.
func (m *MemoryRepository) Seed(p *Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	cp := *p
	m.store[p.ID] = &cp
}
