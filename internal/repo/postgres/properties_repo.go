package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/property"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const propertyCols = `id, title, description, location, price_per_night, bedroom_count, bath_room_count, max_guest_count, host_id, rating`

var propertyPatchCols = map[string]string{
	"title":         "title",
	"description":   "description",
	"location":      "location",
	"pricePerNight": "price_per_night",
	"bedroomCount":  "bedroom_count",
	"bathRoomCount": "bath_room_count",
	"maxGuestCount": "max_guest_count",
	"hostId":        "host_id",
	"rating":        "rating",
}

type PropertiesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPropertiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *PropertiesRepo {
	return &PropertiesRepo{pool: pool, prom: prom}
}

func (r *PropertiesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanProperty(row pgx.Row) (property.Property, error) {
	var p property.Property

	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &p.PricePerNight, &p.BedroomCount, &p.BathRoomCount, &p.MaxGuestCount, &p.HostID, &p.Rating)

	return p, err
}

func (r *PropertiesRepo) List(ctx context.Context, filter resource.Filter) ([]property.Property, error) {
	where, args, _ := whereClause(filter, 1)

	var out []property.Property

	err := r.observe("properties.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+propertyCols+` FROM properties`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]property.Property, 0)

		for rows.Next() {
			p, err := scanProperty(rows)

			if err != nil {
				return err
			}

			out = append(out, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PropertiesRepo) GetByID(ctx context.Context, id string) (property.Property, error) {
	var p property.Property

	err := r.observe("properties.get_by_id", func() error {
		var scanErr error
		p, scanErr = scanProperty(r.pool.QueryRow(ctx, `SELECT `+propertyCols+` FROM properties WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property.Property{}, resource.ErrNotFound
		}

		return property.Property{}, err
	}

	return p, nil
}

func (r *PropertiesRepo) Create(ctx context.Context, p property.Property) (property.Property, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.observe("properties.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO properties (`+propertyCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			p.ID, p.Title, p.Description, p.Location, p.PricePerNight, p.BedroomCount, p.BathRoomCount, p.MaxGuestCount, p.HostID, p.Rating,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return property.Property{}, resource.Conflict("property with this id already exists.")
		}

		return property.Property{}, err
	}

	return p, nil
}

func (r *PropertiesRepo) Update(ctx context.Context, id string, patch resource.Patch) (property.Property, error) {
	sets, args, pos := setClause(patch, propertyPatchCols, 1)

	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var p property.Property

	err := r.observe("properties.update", func() error {
		var scanErr error
		p, scanErr = scanProperty(r.pool.QueryRow(
			ctx,
			`UPDATE properties SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+propertyCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return property.Property{}, resource.ErrNotFound
		}

		return property.Property{}, err
	}

	return p, nil
}

func (r *PropertiesRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("properties.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)

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

func (r *PropertiesRepo) Upsert(ctx context.Context, p property.Property) error {
	return r.observe("properties.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO properties (`+propertyCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, p.Description, p.Location, p.PricePerNight, p.BedroomCount, p.BathRoomCount, p.MaxGuestCount, p.HostID, p.Rating,
		)
		return err
	})
}
