package projects

import (
	"context"

	"github.com/portfoliokit/portfolio/pkg/logger"
)

// BackfillSlugs walks every project and repairs missing or colliding slugs
// using the same normalization and uniqueness algorithm as the save path.
// Records whose slug is already unique are left untouched, so a second run
// against a consistent collection performs zero writes. Returns the number of
// records rewritten.
func (s *Service) BackfillSlugs(ctx context.Context) (int, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(all) == 0 {
		logger.Info("no projects found, nothing to do")
		return 0, nil
	}

	touched := 0
	for _, p := range all {
		desired, err := s.desiredSlug(ctx, p)
		if err != nil {
			return touched, err
		}
		if p.Slug == desired {
			continue
		}
		p.Slug = desired
		if err := s.repo.Update(ctx, p); err != nil {
			return touched, err
		}
		touched++
		logger.Infof("updated %q -> %s", p.Title, desired)
	}
	return touched, nil
}

// desiredSlug keeps the stored slug when it is still unique, otherwise
// resolves a fresh one from the title.
func (s *Service) desiredSlug(ctx context.Context, p *Project) (string, error) {
	if p.Slug != "" {
		exists, err := s.repo.SlugExists(ctx, p.Slug, p.ID)
		if err != nil {
			return "", err
		}
		if !exists {
			return p.Slug, nil
		}
	}
	return s.ensureUniqueSlug(ctx, Slugify(p.Title), p.ID)
}
