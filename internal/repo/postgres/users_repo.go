package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/user"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const userCols = `id, username, password, name, email, phone_number, picture_url, role`

// userPatchCols whitelists the JSON fields a partial update may touch.
var userPatchCols = map[string]string{
	"username":    "username",
	"password":    "password",
	"name":        "name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"pictureUrl":  "picture_url",
	"role":        "role",
}

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Name, &u.Email, &u.PhoneNumber, &u.PictureURL, &u.Role)

	return u, err
}

func (r *UsersRepo) List(ctx context.Context, filter resource.Filter) ([]user.User, error) {
	where, args, _ := whereClause(filter, 1)

	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+userCols+` FROM users`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]user.User, 0)

		for rows.Next() {
			u, err := scanUser(rows)

			if err != nil {
				return err
			}

			out = append(out, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, resource.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// FindByIdentifier looks a user up by email or username at once; login does
// not care which one the caller supplied.
func (r *UsersRepo) FindByIdentifier(ctx context.Context, identifier string) (user.User, error) {
	var u user.User

	err := r.observe("users.find_by_identifier", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`SELECT `+userCols+` FROM users WHERE email = $1 OR username = $1`,
			identifier,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, resource.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool

	err := r.observe("users.username_exists", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
			username,
		).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool

	err := r.observe("users.exists_by_email_or_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
			email, username,
		).Scan(&exists)
	})

	return exists, err
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	if u.Role == "" {
		u.Role = user.DefaultRole
	}

	err := r.observe("users.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO users (`+userCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			u.ID, u.Username, u.Password, u.Name, u.Email, u.PhoneNumber, u.PictureURL, u.Role,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, resource.Conflict("user with this username already exists.")
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, patch resource.Patch) (user.User, error) {
	sets, args, pos := setClause(patch, userPatchCols, 1)

	// Nothing recognized in the payload: a no-op update returns the record.
	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var u user.User

	err := r.observe("users.update", func() error {
		var scanErr error
		u, scanErr = scanUser(r.pool.QueryRow(
			ctx,
			`UPDATE users SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+userCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, resource.ErrNotFound
		}

		if isUniqueViolation(err) {
			return user.User{}, resource.Conflict("user with this username already exists.")
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("users.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

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

// Upsert inserts a fixture record, leaving an existing row with the same id
// untouched. Only the seed loader uses this.
func (r *UsersRepo) Upsert(ctx context.Context, u user.User) error {
	if u.Role == "" {
		u.Role = user.DefaultRole
	}

	return r.observe("users.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users (`+userCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			 ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Username, u.Password, u.Name, u.Email, u.PhoneNumber, u.PictureURL, u.Role,
		)
		return err
	})
}
