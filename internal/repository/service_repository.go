package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booking-service/internal/domain"
	"github.com/spec-kit/booking-service/internal/query"
)

// ServiceRepository encapsulates service catalog persistence.
type ServiceRepository interface {
	Create(ctx context.Context, service *domain.Service) error
	Update(ctx context.Context, service *domain.Service) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, q query.ListQuery) ([]domain.Service, error)
}

type serviceRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRepository instantiates repository.
func NewServiceRepository(pool *pgxpool.Pool) ServiceRepository {
	return &serviceRepository{pool: pool}
}

func (r *serviceRepository) Create(ctx context.Context, service *domain.Service) error {
	const query = `
        INSERT INTO services (id, title, description, category, price, duration,
            availability_days, availability_start, availability_end, provider_id, image, rating)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		service.ID,
		service.Title,
		service.Description,
		service.Category,
		service.Price,
		service.Duration,
		service.Availability.Days,
		service.Availability.StartTime,
		service.Availability.EndTime,
		service.ProviderID,
		service.Image,
		service.Rating,
	).Scan(&service.CreatedAt, &service.UpdatedAt)
	return mapPgError(err)
}

func (r *serviceRepository) Update(ctx context.Context, service *domain.Service) error {
	const query = `
        UPDATE services SET title=$1, description=$2, category=$3, price=$4, duration=$5,
            availability_days=$6, availability_start=$7, availability_end=$8, image=$9, rating=$10,
            updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		service.Title,
		service.Description,
		service.Category,
		service.Price,
		service.Duration,
		service.Availability.Days,
		service.Availability.StartTime,
		service.Availability.EndTime,
		service.Image,
		service.Rating,
		service.ID,
	).Scan(&service.UpdatedAt)
	return mapPgError(err)
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	row := r.pool.QueryRow(ctx, serviceSelect+` WHERE s.id=$1`, id)
	service, err := scanService(row)
	if err != nil {
		return nil, mapPgError(err)
	}
	return service, nil
}

func (r *serviceRepository) List(ctx context.Context, q query.ListQuery) ([]domain.Service, error) {
	sql, args, err := buildServiceListSQL(q)
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *service)
	}
	return services, rows.Err()
}

func scanService(row pgx.Row) (*domain.Service, error) {
	var (
		service       domain.Service
		providerID    *string
		providerName  *string
		providerEmail *string
	)
	if err := row.Scan(
		&service.ID,
		&service.Title,
		&service.Description,
		&service.Category,
		&service.Price,
		&service.Duration,
		&service.Availability.Days,
		&service.Availability.StartTime,
		&service.Availability.EndTime,
		&service.ProviderID,
		&service.Image,
		&service.Rating,
		&service.CreatedAt,
		&service.UpdatedAt,
		&providerID,
		&providerName,
		&providerEmail,
	); err != nil {
		return nil, err
	}
	if providerID != nil {
		service.Provider = &domain.UserRef{ID: *providerID, Name: deref(providerName), Email: deref(providerEmail)}
	}
	return &service, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
