package postgres

import (
	"context"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PackageRepository interface {
	Create(ctx context.Context, in *domain.PackageInput, slug string) (*domain.TourPackage, error)
	GetByID(ctx context.Context, id string) (*domain.TourPackage, error)
	GetBySlug(ctx context.Context, slug string) (*domain.TourPackage, error)
	List(ctx context.Context, limit, offset int) ([]domain.TourPackage, error)
	Update(ctx context.Context, id string, in *domain.PackageInput, slug string) (*domain.TourPackage, error)
	Delete(ctx context.Context, id string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

type packageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) PackageRepository {
	return &packageRepository{pool: pool}
}

const packageCols = `id, name, description, duration, included, images, slug, created_at, updated_at`

func scanPackage(row pgx.Row) (*domain.TourPackage, error) {
	var p domain.TourPackage
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Duration,
		&p.Included, &p.Images, &p.Slug,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageRepository) Create(ctx context.Context, in *domain.PackageInput, slug string) (*domain.TourPackage, error) {
	const q = `
		INSERT INTO tour_packages (id, name, description, duration, included, images, slug)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + packageCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.NewString()
	return scanPackage(r.pool.QueryRow(ctx, q, id,
		in.Name, in.Description, in.Duration, in.Included, in.Images, slug,
	))
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.TourPackage, error) {
	const q = `SELECT ` + packageCols + ` FROM tour_packages WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPackage(r.pool.QueryRow(ctx, q, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *packageRepository) GetBySlug(ctx context.Context, slug string) (*domain.TourPackage, error) {
	const q = `SELECT ` + packageCols + ` FROM tour_packages WHERE slug = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPackage(r.pool.QueryRow(ctx, q, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *packageRepository) List(ctx context.Context, limit, offset int) ([]domain.TourPackage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const q = `SELECT ` + packageCols + ` FROM tour_packages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packages []domain.TourPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func (r *packageRepository) Update(ctx context.Context, id string, in *domain.PackageInput, slug string) (*domain.TourPackage, error) {
	const q = `
		UPDATE tour_packages
		SET name = $2, description = $3, duration = $4,
			included = $5, images = $6, slug = $7,
			updated_at = now()
		WHERE id = $1
		RETURNING ` + packageCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	p, err := scanPackage(r.pool.QueryRow(ctx, q, id,
		in.Name, in.Description, in.Duration, in.Included, in.Images, slug,
	))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *packageRepository) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM tour_packages WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *packageRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM tour_packages WHERE slug = $1 AND id <> $2)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var exists bool
	err := r.pool.QueryRow(ctx, q, slug, excludeID).Scan(&exists)
	return exists, err
}
