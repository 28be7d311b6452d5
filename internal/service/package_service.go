package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/repo/postgres"
	"github.com/ceylontrails/ceylontrails-api/internal/validation"
	"github.com/ceylontrails/ceylontrails-api/pkg/events"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
	"github.com/google/uuid"
)

type PackageService interface {
	Create(ctx context.Context, in *domain.PackageInput) (*domain.TourPackage, error)
	GetByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.TourPackage, error)
	List(ctx context.Context, limit, offset int) ([]domain.TourPackage, error)
	Update(ctx context.Context, id string, in *domain.PackageInput) (*domain.TourPackage, error)
	Delete(ctx context.Context, id string) error
}

type packageService struct {
	repo      postgres.PackageRepository
	publisher events.Publisher
}

func NewPackageService(repo postgres.PackageRepository, publisher events.Publisher) PackageService {
	return &packageService{repo: repo, publisher: publisher}
}

func (s *packageService) Create(ctx context.Context, in *domain.PackageInput) (*domain.TourPackage, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Name, "")
	if err != nil {
		return nil, fmt.Errorf("failed to derive slug: %w", err)
	}

	pkg, err := s.repo.Create(ctx, in, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	s.publish(ctx, events.PackageCreated, pkg)
	return pkg, nil
}

func (s *packageService) GetByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.TourPackage, error) {
	pkg, err := s.repo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to look up package by slug: %w", err)
	}

	// Fall back to an id lookup only when the value is shaped like one.
	if pkg == nil {
		if _, perr := uuid.Parse(idOrSlug); perr == nil {
			pkg, err = s.repo.GetByID(ctx, idOrSlug)
			if err != nil {
				return nil, fmt.Errorf("failed to look up package by id: %w", err)
			}
		}
	}

	if pkg == nil {
		return nil, apperr.NotFound("Package not found")
	}
	return pkg, nil
}

func (s *packageService) List(ctx context.Context, limit, offset int) ([]domain.TourPackage, error) {
	packages, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	return packages, nil
}

func (s *packageService) Update(ctx context.Context, id string, in *domain.PackageInput) (*domain.TourPackage, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load package: %w", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("Package not found")
	}

	slug := existing.Slug
	if in.Name != existing.Name {
		slug, err = s.uniqueSlug(ctx, in.Name, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to derive slug: %w", err)
		}
	}

	pkg, err := s.repo.Update(ctx, id, in, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}
	if pkg == nil {
		return nil, apperr.NotFound("Package not found")
	}

	s.publish(ctx, events.PackageUpdated, pkg)
	return pkg, nil
}

func (s *packageService) Delete(ctx context.Context, id string) error {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load package: %w", err)
	}
	if pkg == nil {
		return apperr.NotFound("Package not found")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if !deleted {
		return apperr.NotFound("Package not found")
	}

	s.publish(ctx, events.PackageDeleted, pkg)
	return nil
}

// uniqueSlug derives the slug for name, appending a time-derived numeric
// suffix when the plain slug is already taken by another package.
func (s *packageService) uniqueSlug(ctx context.Context, name, excludeID string) (string, error) {
	slug := Slugify(name)

	taken, err := s.repo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", err
	}
	if !taken {
		return slug, nil
	}
	return slug + "-" + slugSuffix(time.Now()), nil
}

func (s *packageService) publish(ctx context.Context, subject string, pkg *domain.TourPackage) {
	err := s.publisher.Publish(ctx, subject, events.PackageEvent{
		PackageID:  pkg.ID,
		Slug:       pkg.Slug,
		Name:       pkg.Name,
		OccurredAt: time.Now(),
	})
	if err != nil {
		logger.WarnContext(ctx, "Failed to publish package event", "subject", subject, "error", err)
	}
}
