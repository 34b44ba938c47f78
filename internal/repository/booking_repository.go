package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/booking-service/internal/domain"
)

// BookingRepository encapsulates booking persistence. Reads return bookings with
// their service, user and provider populated when those records still exist.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, scope domain.BookingScope) ([]domain.Booking, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository instantiates repository.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingSelect = `SELECT b.id, b.service_id, b.user_id, b.provider_id, b.status, b.date, b.time,
           b.total_price, b.notes, b.created_at, b.updated_at,
           sv.id, sv.title, sv.description, sv.price,
           u.id, u.name, u.email,
           p.id, p.name, p.email
    FROM bookings b
    LEFT JOIN services sv ON sv.id = b.service_id
    LEFT JOIN users u ON u.id = b.user_id
    LEFT JOIN users p ON p.id = b.provider_id`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (id, service_id, user_id, provider_id, status, date, time, total_price, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		booking.ID,
		booking.ServiceID,
		booking.UserID,
		booking.ProviderID,
		booking.Status,
		booking.Date,
		booking.Time,
		booking.TotalPrice,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)
	return mapPgError(err)
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	const query = `
        UPDATE bookings SET status=$1, date=$2, time=$3, notes=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		booking.Status,
		booking.Date,
		booking.Time,
		booking.Notes,
		booking.ID,
	).Scan(&booking.UpdatedAt)
	return mapPgError(err)
}

func (r *bookingRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	booking, err := scanBooking(r.pool.QueryRow(ctx, bookingSelect+` WHERE b.id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return booking, nil
}

func (r *bookingRepository) List(ctx context.Context, scope domain.BookingScope) ([]domain.Booking, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if scope.UserID != "" {
		args = append(args, scope.UserID)
		clauses = append(clauses, fmt.Sprintf("b.user_id=$%d", len(args)))
	}
	if scope.ProviderID != "" {
		args = append(args, scope.ProviderID)
		clauses = append(clauses, fmt.Sprintf("b.provider_id=$%d", len(args)))
	}
	sql := bookingSelect + " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY b.created_at DESC, b.id ASC"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		booking                       domain.Booking
		serviceID, title, description *string
		price                         *float64
		userID, userName, userEmail   *string
		provID, provName, provEmail   *string
	)
	if err := row.Scan(
		&booking.ID,
		&booking.ServiceID,
		&booking.UserID,
		&booking.ProviderID,
		&booking.Status,
		&booking.Date,
		&booking.Time,
		&booking.TotalPrice,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&serviceID, &title, &description, &price,
		&userID, &userName, &userEmail,
		&provID, &provName, &provEmail,
	); err != nil {
		return nil, err
	}
	if serviceID != nil {
		ref := &domain.ServiceRef{ID: *serviceID, Title: deref(title), Description: deref(description)}
		if price != nil {
			ref.Price = *price
		}
		booking.Service = ref
	}
	if userID != nil {
		booking.User = &domain.UserRef{ID: *userID, Name: deref(userName), Email: deref(userEmail)}
	}
	if provID != nil {
		booking.Provider = &domain.UserRef{ID: *provID, Name: deref(provName), Email: deref(provEmail)}
	}
	return &booking, nil
}
