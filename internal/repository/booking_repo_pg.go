package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Gvirgo2/touropia/internal/domain"
)

type BookingRepository interface {
	CreatePending(ctx context.Context, booking *domain.Booking) error
	GetByToken(ctx context.Context, token string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, item_ref, kind, quantity, start_date, amount_cents, token, status, expires_at, email, created_at, updated_at`

func (r *PGBookingRepository) CreatePending(ctx context.Context, booking *domain.Booking) error {
	booking.Status = domain.BookingStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO bookings (user_id, item_ref, kind, quantity, start_date, amount_cents, token, status, expires_at, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		booking.UserID, booking.ItemRef, booking.Kind, booking.Quantity, booking.StartDate, booking.AmountCents, booking.Token, booking.Status, booking.ExpiresAt, booking.Email).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE token=$1`, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, token string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE token=$2 RETURNING `+bookingColumns, status, token)
	return scanBooking(row)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ItemRef, &b.Kind, &b.Quantity, &b.StartDate, &b.AmountCents, &b.Token, &b.Status, &b.ExpiresAt, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE user_id=$1`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PGBookingRepository) ExpirePendingBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND expires_at <= $3 RETURNING `+bookingColumns,
		domain.BookingStatusExpired, domain.BookingStatusPending, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ItemRef, &b.Kind, &b.Quantity, &b.StartDate, &b.AmountCents, &b.Token, &b.Status, &b.ExpiresAt, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.UserID, &b.ItemRef, &b.Kind, &b.Quantity, &b.StartDate, &b.AmountCents, &b.Token, &b.Status, &b.ExpiresAt, &b.Email, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
