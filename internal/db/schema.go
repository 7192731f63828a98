package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Table bootstrap for the seed tool and local development. IDs are
// caller-supplied, so they are plain text primary keys rather than
// generated values. The username unique indexes back the signup/create
// uniqueness checks at insert time.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		picture_url TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER'
	)`,
	`CREATE TABLE IF NOT EXISTS hosts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		picture_url TEXT NOT NULL DEFAULT '',
		about_me TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'HOST'
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		price_per_night NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (price_per_night >= 0),
		bedroom_count INT NOT NULL DEFAULT 0,
		bath_room_count INT NOT NULL DEFAULT 0,
		max_guest_count INT NOT NULL DEFAULT 0,
		host_id TEXT NOT NULL DEFAULT '',
		rating INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		property_id TEXT NOT NULL DEFAULT '',
		checkin_date TIMESTAMPTZ NOT NULL,
		checkout_date TIMESTAMPTZ NOT NULL,
		number_of_guests INT NOT NULL DEFAULT 1,
		total_price NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (total_price >= 0),
		booking_status TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		property_id TEXT NOT NULL DEFAULT '',
		rating INT NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS amenities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT ''
	)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}
