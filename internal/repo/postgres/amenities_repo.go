package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/amenity"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const amenityCols = `id, name`

var amenityPatchCols = map[string]string{
	"name": "name",
}

type AmenitiesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAmenitiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *AmenitiesRepo {
	return &AmenitiesRepo{pool: pool, prom: prom}
}

func (r *AmenitiesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanAmenity(row pgx.Row) (amenity.Amenity, error) {
	var a amenity.Amenity

	err := row.Scan(&a.ID, &a.Name)

	return a, err
}

func (r *AmenitiesRepo) List(ctx context.Context, filter resource.Filter) ([]amenity.Amenity, error) {
	where, args, _ := whereClause(filter, 1)

	var out []amenity.Amenity

	err := r.observe("amenities.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+amenityCols+` FROM amenities`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]amenity.Amenity, 0)

		for rows.Next() {
			a, err := scanAmenity(rows)

			if err != nil {
				return err
			}

			out = append(out, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *AmenitiesRepo) GetByID(ctx context.Context, id string) (amenity.Amenity, error) {
	var a amenity.Amenity

	err := r.observe("amenities.get_by_id", func() error {
		var scanErr error
		a, scanErr = scanAmenity(r.pool.QueryRow(ctx, `SELECT `+amenityCols+` FROM amenities WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return amenity.Amenity{}, resource.ErrNotFound
		}

		return amenity.Amenity{}, err
	}

	return a, nil
}

func (r *AmenitiesRepo) Create(ctx context.Context, a amenity.Amenity) (amenity.Amenity, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	err := r.observe("amenities.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO amenities (`+amenityCols+`) VALUES ($1,$2)`,
			a.ID, a.Name,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return amenity.Amenity{}, resource.Conflict("amenity with this id already exists.")
		}

		return amenity.Amenity{}, err
	}

	return a, nil
}

func (r *AmenitiesRepo) Update(ctx context.Context, id string, patch resource.Patch) (amenity.Amenity, error) {
	sets, args, pos := setClause(patch, amenityPatchCols, 1)

	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var a amenity.Amenity

	err := r.observe("amenities.update", func() error {
		var scanErr error
		a, scanErr = scanAmenity(r.pool.QueryRow(
			ctx,
			`UPDATE amenities SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+amenityCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return amenity.Amenity{}, resource.ErrNotFound
		}

		return amenity.Amenity{}, err
	}

	return a, nil
}

func (r *AmenitiesRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("amenities.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM amenities WHERE id = $1`, id)

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

func (r *AmenitiesRepo) Upsert(ctx context.Context, a amenity.Amenity) error {
	return r.observe("amenities.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO amenities (`+amenityCols+`) VALUES ($1,$2)
			 ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Name,
		)
		return err
	})
}
