package projects

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/portfoliokit/portfolio/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxSlugRetries bounds the re-resolve loop when a commit loses the
// check-then-act race against a concurrent writer and trips the unique
// slug index.
const maxSlugRetries = 3

// Service wraps repository operations with the slug assignment policy:
// every create resolves a unique slug before the record is committed, and an
// update regenerates the slug only when the title changed or no slug exists.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

func (s *Service) Repo() Repository { return s.repo }

// Create assigns a unique slug derived from the title and inserts the
// project. On failure nothing is persisted and the error is surfaced to the
// caller.
func (s *Service) Create(ctx context.Context, p *Project) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	return s.commitWithSlug(ctx, p, Slugify(p.Title), s.repo.Insert)
}

// Update persists project edits. The slug is preserved when the title is
// unchanged and a slug is already present; otherwise it is regenerated from
// the new title before the commit.
func (s *Service) Update(ctx context.Context, p *Project) error {
	cur, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if cur.Title == p.Title && cur.Slug != "" {
		// title untouched: keep the slug, no uniqueness probe needed
		p.Slug = cur.Slug
		return s.repo.Update(ctx, p)
	}
	return s.commitWithSlug(ctx, p, Slugify(p.Title), s.repo.Update)
}

// commitWithSlug runs the resolve-then-commit sequence, re-resolving against
// the committed state when the storage-layer unique index reports a conflict.
func (s *Service) commitWithSlug(ctx context.Context, p *Project, base string, commit func(context.Context, *Project) error) error {
	for attempt := 1; attempt <= maxSlugRetries; attempt++ {
		slug, err := s.ensureUniqueSlug(ctx, base, p.ID)
		if err != nil {
			return err
		}
		p.Slug = slug
		err = commit(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrDuplicateSlug) {
			return err
		}
		logger.Warnf("slug %q taken by concurrent writer, re-resolving (attempt %d/%d)", slug, attempt, maxSlugRetries)
	}
	return fmt.Errorf("could not assign a unique slug for %q after %d attempts", p.Title, maxSlugRetries)
}

// ensureUniqueSlug returns the first slug variant of base that no other
// project holds. An empty base falls back to an identifier-derived token so
// blank or all-symbol titles still produce a usable slug.
func (s *Service) ensureUniqueSlug(ctx context.Context, base string, excludeID primitive.ObjectID) (string, error) {
	candidate := base
	if candidate == "" {
		candidate = fallbackSlug(excludeID)
	}
	unique := candidate
	for n := 1; ; n++ {
		exists, err := s.repo.SlugExists(ctx, unique, excludeID)
		if err != nil {
			return "", fmt.Errorf("slug uniqueness probe: %w", err)
		}
		if !exists {
			return unique, nil
		}
		unique = fmt.Sprintf("%s-%d", candidate, n)
	}
}

func fallbackSlug(id primitive.ObjectID) string {
	if id.IsZero() {
		// first save without an assigned identifier: random token
		return "project-" + uuid.NewString()[:8]
	}
	h := id.Hex()
	return "project-" + h[len(h)-6:]
}

// Delete removes the project. The caller is responsible for cleaning up any
// hosted image the record referenced.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Project, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListFeatured(ctx context.Context, limit int64) ([]*Project, error) {
	return s.repo.ListFeatured(ctx, limit)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
