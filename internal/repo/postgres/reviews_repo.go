package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/review"
	"github.com/wanderstay/bookings/internal/observability"
	"github.com/wanderstay/bookings/internal/resource"
)

const reviewCols = `id, user_id, property_id, rating, comment`

var reviewPatchCols = map[string]string{
	"userId":     "user_id",
	"propertyId": "property_id",
	"rating":     "rating",
	"comment":    "comment",
}

type ReviewsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReviewsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReviewsRepo {
	return &ReviewsRepo{pool: pool, prom: prom}
}

func (r *ReviewsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}

	return fn()
}

func scanReview(row pgx.Row) (review.Review, error) {
	var rv review.Review

	err := row.Scan(&rv.ID, &rv.UserID, &rv.PropertyID, &rv.Rating, &rv.Comment)

	return rv, err
}

func (r *ReviewsRepo) List(ctx context.Context, filter resource.Filter) ([]review.Review, error) {
	where, args, _ := whereClause(filter, 1)

	var out []review.Review

	err := r.observe("reviews.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+reviewCols+` FROM reviews`+where+` ORDER BY id`, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]review.Review, 0)

		for rows.Next() {
			rv, err := scanReview(rows)

			if err != nil {
				return err
			}

			out = append(out, rv)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ReviewsRepo) GetByID(ctx context.Context, id string) (review.Review, error) {
	var rv review.Review

	err := r.observe("reviews.get_by_id", func() error {
		var scanErr error
		rv, scanErr = scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewCols+` FROM reviews WHERE id = $1`, id))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Review{}, resource.ErrNotFound
		}

		return review.Review{}, err
	}

	return rv, nil
}

func (r *ReviewsRepo) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}

	err := r.observe("reviews.create", func() error {
		_, execErr := r.pool.Exec(ctx,
			`INSERT INTO reviews (`+reviewCols+`) VALUES ($1,$2,$3,$4,$5)`,
			rv.ID, rv.UserID, rv.PropertyID, rv.Rating, rv.Comment,
		)
		return execErr
	})

	if err != nil {
		if isUniqueViolation(err) {
			return review.Review{}, resource.Conflict("review with this id already exists.")
		}

		return review.Review{}, err
	}

	return rv, nil
}

func (r *ReviewsRepo) Update(ctx context.Context, id string, patch resource.Patch) (review.Review, error) {
	sets, args, pos := setClause(patch, reviewPatchCols, 1)

	if sets == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)

	var rv review.Review

	err := r.observe("reviews.update", func() error {
		var scanErr error
		rv, scanErr = scanReview(r.pool.QueryRow(
			ctx,
			`UPDATE reviews SET `+sets+` WHERE id = $`+itoa(pos)+` RETURNING `+reviewCols,
			args...,
		))
		return scanErr
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Review{}, resource.ErrNotFound
		}

		return review.Review{}, err
	}

	return rv, nil
}

func (r *ReviewsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("reviews.delete", func() error {
		res, execErr := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)

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

func (r *ReviewsRepo) Upsert(ctx context.Context, rv review.Review) error {
	return r.observe("reviews.upsert", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO reviews (`+reviewCols+`) VALUES ($1,$2,$3,$4,$5)
			 ON CONFLICT (id) DO NOTHING`,
			rv.ID, rv.UserID, rv.PropertyID, rv.Rating, rv.Comment,
		)
		return err
	})
}
