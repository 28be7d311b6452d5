package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InquiryRepository interface {
	Create(ctx context.Context, in *domain.InquiryInput) (*domain.Inquiry, error)
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error)
	Update(ctx context.Context, id string, in *domain.InquiryInput, status domain.InquiryStatus) (*domain.Inquiry, error)
	UpdateStatusBulk(ctx context.Context, ids []string, status domain.InquiryStatus) (int64, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquiryCols = `i.id, i.name, i.email, i.phone, i.package_id,
i.travel_date, i.number_of_people, i.special_requests, i.status,
i.created_at, i.updated_at`

func scanInquiry(row pgx.Row, withPackageName bool) (*domain.Inquiry, error) {
	var q domain.Inquiry
	dest := []any{
		&q.ID, &q.Name, &q.Email, &q.Phone, &q.PackageID,
		&q.TravelDate, &q.NumberOfPeople, &q.SpecialRequests, &q.Status,
		&q.CreatedAt, &q.UpdatedAt,
	}
	if withPackageName {
		dest = append(dest, &q.PackageName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *inquiryRepository) Create(ctx context.Context, in *domain.InquiryInput) (*domain.Inquiry, error) {
	const q = `
		INSERT INTO inquiries (id, name, email, phone, package_id,
			travel_date, number_of_people, special_requests, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new')
		RETURNING ` + bareInquiryCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	id := uuid.NewString()
	return scanInquiry(r.pool.QueryRow(ctx, q, id,
		in.Name, in.Email, in.Phone, in.PackageID,
		in.TravelDate, in.NumberOfPeople, in.SpecialRequests,
	), false)
}

// bareInquiryCols is inquiryCols without the table alias, for statements
// that touch only the inquiries table.
const bareInquiryCols = `id, name, email, phone, package_id,
travel_date, number_of_people, special_requests, status,
created_at, updated_at`

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	const q = `
		SELECT ` + inquiryCols + `, COALESCE(p.name, '')
		FROM inquiries i
		LEFT JOIN tour_packages p ON p.id = i.package_id
		WHERE i.id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	inq, err := scanInquiry(r.pool.QueryRow(ctx, q, id), true)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inq, err
}

// List applies the admin table filters and returns one page plus the
// total match count, newest first.
func (r *inquiryRepository) List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	where := ` WHERE 1=1`
	args := []any{}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (i.name ILIKE $%d OR i.email ILIKE $%d OR i.phone ILIKE $%d)`, n, n, n)
	}
	if filter.TravelDate != "" {
		args = append(args, filter.TravelDate)
		where += fmt.Sprintf(` AND i.travel_date = $%d`, len(args))
	}
	if len(filter.PackageIDs) > 0 {
		args = append(args, filter.PackageIDs)
		where += fmt.Sprintf(` AND i.package_id = ANY($%d)`, len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where += fmt.Sprintf(` AND i.status = ANY($%d)`, len(args))
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var total int
	countQ := `SELECT count(*) FROM inquiries i` + where
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
	listQ := `
		SELECT ` + inquiryCols + `, COALESCE(p.name, '')
		FROM inquiries i
		LEFT JOIN tour_packages p ON p.id = i.package_id` + where +
		fmt.Sprintf(` ORDER BY i.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, listQ, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []domain.Inquiry
	for rows.Next() {
		inq, err := scanInquiry(rows, true)
		if err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, *inq)
	}
	return inquiries, total, rows.Err()
}

func (r *inquiryRepository) Update(ctx context.Context, id string, in *domain.InquiryInput, status domain.InquiryStatus) (*domain.Inquiry, error) {
	const q = `
		UPDATE inquiries
		SET name = $2, email = $3, phone = $4, package_id = $5,
			travel_date = $6, number_of_people = $7, special_requests = $8,
			status = $9, updated_at = now()
		WHERE id = $1
		RETURNING ` + bareInquiryCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	inq, err := scanInquiry(r.pool.QueryRow(ctx, q, id,
		in.Name, in.Email, in.Phone, in.PackageID,
		in.TravelDate, in.NumberOfPeople, in.SpecialRequests, status,
	), false)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return inq, err
}

// UpdateStatusBulk sets the same status on every matched inquiry in one
// statement, which keeps the multi-record write race-free at the store.
func (r *inquiryRepository) UpdateStatusBulk(ctx context.Context, ids []string, status domain.InquiryStatus) (int64, error) {
	const q = `UPDATE inquiries SET status = $1, updated_at = now() WHERE id = ANY($2)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, status, ids)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *inquiryRepository) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM inquiries WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}
