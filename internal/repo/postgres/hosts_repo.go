package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/host"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const hostCols = `id, username, password, name, email, phone_number, picture_url, about_me, role`

var hostPatchCols = map[string]string{
	"username":    "username",
	"password":    "password",
	"name":        "name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"pictureUrl":  "picture_url",
	"aboutMe":     "about_me",
	"role":        "role",
}

type HostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewHostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *HostsRepo {
	return &HostsRepo{pool: pool, prom: prom}
}

func (r *HostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanHost(row pgx.Row) (host.Host, error) {
	var h host.Host

	err := row.Scan(&h.ID, &h.Username, &h.Password, &h.Name, &h.Email, &h.PhoneNumber, &h.PictureURL, &h.AboutMe, &h.Role)

	return h, err
}

func (r *HostsRepo) List(ctx context.Context, filter resource.Filter) ([]host.Host, error) {
	where, args, _ := whereClause(filter, 1)

	var out []host.Host

	err := r.observe("hosts.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+hostCols+` FROM hosts`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]host.Host, 0)

		for rows.Next() {
			h, err := scanHost(rows)

			if err != nil {
				return err
			}

			out = append(out, h)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *HostsRepo) GetByID(ctx context.Context, id string) (host.Host, error) {
	var h host.Host

	err := r.observe("hosts.get_by_id", func() error {
		var scanErr error
		h, scanErr = scanHost(r.pool.QueryRow(ctx, `SELECT `+hostCols+` FROM hosts WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return host.Host{}, resource.ErrNotFound
		}

		return host.Host{}, err
	}

	return h, nil
}

func (r *HostsRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := r.observe("hosts.username_exists", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM hosts WHERE username = $1)`,
			username,
		).Scan(&exists)
	})

	return exists, err
}

func (r *HostsRepo) Create(ctx context.Context, h host.Host) (host.Host, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}

	if h.Role == "" {
		h.Role = host.DefaultRole
	}

	err := r.observe("hosts.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO hosts (`+hostCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			h.ID, h.Username, h.Password, h.Name, h.Email, h.PhoneNumber, h.PictureURL, h.AboutMe, h.Role,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return host.Host{}, resource.Conflict("host with this username already exists.")
		}

		return host.Host{}, err
	}

	return h, nil
}

func (r *HostsRepo) Update(ctx context.Context, id string, patch resource.Patch) (host.Host, error) {
	sets, args, pos := setClause(patch, hostPatchCols, 1)

	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var h host.Host

	err := r.observe("hosts.update", func() error {
		var scanErr error
		h, scanErr = scanHost(r.pool.QueryRow(
			ctx,
			`UPDATE hosts SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+hostCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return host.Host{}, resource.ErrNotFound
		}

		if isUniqueViolation(err) {
			return host.Host{}, resource.Conflict("host with this username already exists.")
		}

		return host.Host{}, err
	}

	return h, nil
}

func (r *HostsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("hosts.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM hosts WHERE id = $1`, id)

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

func (r *HostsRepo) Upsert(ctx context.Context, h host.Host) error {
	if h.Role == "" {
		h.Role = host.DefaultRole
	}

	return r.observe("hosts.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO hosts (`+hostCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			 ON CONFLICT (id) DO NOTHING`,
			h.ID, h.Username, h.Password, h.Name, h.Email, h.PhoneNumber, h.PictureURL, h.AboutMe, h.Role,
		)
		return err
	})
}
