package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/booking"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const bookingCols = `id, user_id, property_id, checkin_date, checkout_date, number_of_guests, total_price, booking_status`

var bookingPatchCols = map[string]string{
	"userId":         "user_id",
	"propertyId":     "property_id",
	"checkinDate":    "checkin_date",
	"checkoutDate":   "checkout_date",
	"numberOfGuests": "number_of_guests",
	"totalPrice":     "total_price",
	"bookingStatus":  "booking_status",
}

type BookingsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBookingsRepo(pool *pgxpool.Pool, prom *observability.Prom) *BookingsRepo {
	return &BookingsRepo{pool: pool, prom: prom}
}

func (r *BookingsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanBooking(row pgx.Row) (booking.Booking, error) {
	var b booking.Booking

	err := row.Scan(&b.ID, &b.UserID, &b.PropertyID, &b.CheckinDate, &b.CheckoutDate, &b.NumberOfGuests, &b.TotalPrice, &b.BookingStatus)

	return b, err
}

func (r *BookingsRepo) List(ctx context.Context, filter resource.Filter) ([]booking.Booking, error) {
	where, args, _ := whereClause(filter, 1)

	var out []booking.Booking

	err := r.observe("bookings.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+bookingCols+` FROM bookings`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]booking.Booking, 0)

		for rows.Next() {
			b, err := scanBooking(rows)

			if err != nil {
				return err
			}

			out = append(out, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *BookingsRepo) GetByID(ctx context.Context, id string) (booking.Booking, error) {
	var b booking.Booking

	err := r.observe("bookings.get_by_id", func() error {
		var scanErr error
		b, scanErr = scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, resource.ErrNotFound
		}

		return booking.Booking{}, err
	}

	return b, nil
}

func (r *BookingsRepo) Create(ctx context.Context, b booking.Booking) (booking.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	err := r.observe("bookings.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO bookings (`+bookingCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			b.ID, b.UserID, b.PropertyID, b.CheckinDate, b.CheckoutDate, b.NumberOfGuests, b.TotalPrice, b.BookingStatus,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return booking.Booking{}, resource.Conflict("booking with this id already exists.")
		}

		return booking.Booking{}, err
	}

	return b, nil
}

func (r *BookingsRepo) Update(ctx context.Context, id string, patch resource.Patch) (booking.Booking, error) {
	sets, args, pos := setClause(patch, bookingPatchCols, 1)

	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var b booking.Booking

	err := r.observe("bookings.update", func() error {
		var scanErr error
		b, scanErr = scanBooking(r.pool.QueryRow(
			ctx,
			`UPDATE bookings SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+bookingCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return booking.Booking{}, resource.ErrNotFound
		}

		return booking.Booking{}, err
	}

	return b, nil
}

func (r *BookingsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("bookings.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)

		if execErr != nil {
			return execErr
		}

		affected = res.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return resource.ErrNotFound
	}

	return nil
}

func (r *BookingsRepo) Upsert(ctx context.Context, b booking.Booking) error {
	return r.observe("bookings.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO bookings (`+bookingCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			 ON CONFLICT (id) DO NOTHING`,
			b.ID, b.UserID, b.PropertyID, b.CheckinDate, b.CheckoutDate, b.NumberOfGuests, b.TotalPrice, b.BookingStatus,
		)
		return err
	})
}
