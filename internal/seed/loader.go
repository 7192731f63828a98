package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderstay/bookings/internal/domain/amenity"
	"github.com/wanderstay/bookings/internal/domain/booking"
	"github.com/wanderstay/bookings/internal/domain/host"
	"github.com/wanderstay/bookings/internal/domain/property"
	"github.com/wanderstay/bookings/internal/domain/review"
	"github.com/wanderstay/bookings/internal/domain/user"
	"github.com/wanderstay/bookings/internal/repo/postgres"
	"github.com/wanderstay/bookings/internal/resource"
	"github.com/wanderstay/bookings/internal/security"
)

// Fixture records removed in negative mode so not-found paths have known
// missing ids to probe.
var negativeFixtures = []struct {
	kind resource.Kind
	id   string
}{
	{resource.KindProperty, "h0123456-78f0-1234-5678-9abcdef01234"},
	{resource.KindBooking, "f0123456-78ab-cdef-0123-456789abcdef"},
	{resource.KindReview, "j0123456-78f0-1234-5678-9abcdef01234"},
}

// Loader ingests fixture JSON into the store. Each file holds one top-level
// array keyed by the entity-type name; records carry their own ids and are
// upserted, so reseeding leaves existing rows untouched.
type Loader struct {
	dir string
	log *slog.Logger

	users      *postgres.UsersRepo
	hosts      *postgres.HostsRepo
	properties *postgres.PropertiesRepo
	bookings   *postgres.BookingsRepo
	reviews    *postgres.ReviewsRepo
	amenities  *postgres.AmenitiesRepo
}

func NewLoader(dir string, log *slog.Logger, pool *pgxpool.Pool) *Loader {
	return &Loader{
		dir:        dir,
		log:        log,
		users:      postgres.NewUsersRepo(pool, nil),
		hosts:      postgres.NewHostsRepo(pool, nil),
		properties: postgres.NewPropertiesRepo(pool, nil),
		bookings:   postgres.NewBookingsRepo(pool, nil),
		reviews:    postgres.NewReviewsRepo(pool, nil),
		amenities:  postgres.NewAmenitiesRepo(pool, nil),
	}
}

func (l *Loader) Run(ctx context.Context, negative bool) error {
	if err := l.seedUsers(ctx); err != nil {
		return err
	}

	if err := l.seedHosts(ctx); err != nil {
		return err
	}

	if err := l.seedProperties(ctx); err != nil {
		return err
	}

	if err := l.seedBookings(ctx); err != nil {
		return err
	}

	if err := l.seedReviews(ctx); err != nil {
		return err
	}

	if err := l.seedAmenities(ctx); err != nil {
		return err
	}

	if negative {
		if err := l.removeNegativeFixtures(ctx); err != nil {
			return err
		}
	}

	l.log.Info("seeding completed")

	return nil
}

func (l *Loader) seedUsers(ctx context.Context) error {
	var file struct {
		Users []user.User `json:"users"`
	}

	if err := l.loadFile("users.json", &file); err != nil {
		return err
	}

	for _, u := range file.Users {
		// Fixtures carry plaintext passwords; only the hash is stored.
		hash, err := security.HashPassword(u.Password)

		if err != nil {
			return err
		}

		u.Password = hash

		if err := l.users.Upsert(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	l.log.Info("seeded users", "count", len(file.Users))

	return nil
}

func (l *Loader) seedHosts(ctx context.Context) error {
	var file struct {
		Hosts []host.Host `json:"hosts"`
	}

	if err := l.loadFile("hosts.json", &file); err != nil {
		return err
	}

	for _, h := range file.Hosts {
		hash, err := security.HashPassword(h.Password)

		if err != nil {
			return err
		}

		h.Password = hash

		if err := l.hosts.Upsert(ctx, h); err != nil {
			return fmt.Errorf("seed host %s: %w", h.ID, err)
		}
	}

	l.log.Info("seeded hosts", "count", len(file.Hosts))

	return nil
}

func (l *Loader) seedProperties(ctx context.Context) error {
	var file struct {
		Properties []property.Property `json:"properties"`
	}

	if err := l.loadFile("properties.json", &file); err != nil {
		return err
	}

	for _, p := range file.Properties {
		if err := l.properties.Upsert(ctx, p); err != nil {
			return fmt.Errorf("seed property %s: %w", p.ID, err)
		}
	}

	l.log.Info("seeded properties", "count", len(file.Properties))

	return nil
}

func (l *Loader) seedBookings(ctx context.Context) error {
	var file struct {
		Bookings []booking.Booking `json:"bookings"`
	}

	if err := l.loadFile("bookings.json", &file); err != nil {
		return err
	}

	for _, b := range file.Bookings {
		if err := l.bookings.Upsert(ctx, b); err != nil {
			return fmt.Errorf("seed booking %s: %w", b.ID, err)
		}
	}

	l.log.Info("seeded bookings", "count", len(file.Bookings))

	return nil
}

func (l *Loader) seedReviews(ctx context.Context) error {
	var file struct {
		Reviews []review.Review `json:"reviews"`
	}

	if err := l.loadFile("reviews.json", &file); err != nil {
		return err
	}

	for _, rv := range file.Reviews {
		if err := l.reviews.Upsert(ctx, rv); err != nil {
			return fmt.Errorf("seed review %s: %w", rv.ID, err)
		}
	}

	l.log.Info("seeded reviews", "count", len(file.Reviews))

	return nil
}

func (l *Loader) seedAmenities(ctx context.Context) error {
	var file struct {
		Amenities []amenity.Amenity `json:"amenities"`
	}

	if err := l.loadFile("amenities.json", &file); err != nil {
		return err
	}

	for _, a := range file.Amenities {
		if err := l.amenities.Upsert(ctx, a); err != nil {
			return fmt.Errorf("seed amenity %s: %w", a.ID, err)
		}
	}

	l.log.Info("seeded amenities", "count", len(file.Amenities))

	return nil
}

func (l *Loader) removeNegativeFixtures(ctx context.Context) error {
	for _, fixture := range negativeFixtures {
		var err error

		switch fixture.kind {
		case resource.KindProperty:
			err = l.properties.Delete(ctx, fixture.id)
		case resource.KindBooking:
			err = l.bookings.Delete(ctx, fixture.id)
		case resource.KindReview:
			err = l.reviews.Delete(ctx, fixture.id)
		}

		// Already absent is fine; negative mode only guarantees absence.
		if err != nil && !errors.Is(err, resource.ErrNotFound) {
			return fmt.Errorf("remove %s %s: %w", fixture.kind, fixture.id, err)
		}
	}

	l.log.Info("negative fixtures removed", "count", len(negativeFixtures))

	return nil
}

func (l *Loader) loadFile(name string, out any) error {
	b, err := os.ReadFile(filepath.Join(l.dir, name))

	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}

	return nil
}
