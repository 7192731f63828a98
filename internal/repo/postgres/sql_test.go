package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wanderstay/bookings/internal/resource"
)

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   resource.Filter
		pos      int
		wantSQL  string
		wantArgs []any
		wantPos  int
	}{
		{
			name:    "empty",
			filter:  resource.Filter{},
			pos:     1,
			wantSQL: "",
			wantPos: 1,
		},
		{
			name: "single_contains",
			filter: resource.Filter{
				{Column: "username", Op: resource.OpContains, Value: "jdoe"},
			},
			pos:      1,
			wantSQL:  " WHERE username LIKE $1",
			wantArgs: []any{"%jdoe%"},
			wantPos:  2,
		},
		{
			name: "contains_and_equals",
			filter: resource.Filter{
				{Column: "location", Op: resource.OpContains, Value: "Amsterdam"},
				{Column: "price_per_night", Op: resource.OpEquals, Value: 120.5},
			},
			pos:      1,
			wantSQL:  " WHERE location LIKE $1 AND price_per_night = $2",
			wantArgs: []any{"%Amsterdam%", 120.5},
			wantPos:  3,
		},
		{
			// LIKE metacharacters in the value must match literally.
			name: "escapes_like_metacharacters",
			filter: resource.Filter{
				{Column: "username", Op: resource.OpContains, Value: "100%_sure"},
			},
			pos:      1,
			wantSQL:  " WHERE username LIKE $1",
			wantArgs: []any{`%100\%\_sure%`},
			wantPos:  2,
		},
		{
			name: "starts_at_offset",
			filter: resource.Filter{
				{Column: "user_id", Op: resource.OpEquals, Value: "abc"},
			},
			pos:      3,
			wantSQL:  " WHERE user_id = $3",
			wantArgs: []any{"abc"},
			wantPos:  4,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			sql, args, pos := whereClause(tt.filter, tt.pos)

			if sql != tt.wantSQL {
				t.Fatalf("got sql %q, want %q", sql, tt.wantSQL)
			}

			if pos != tt.wantPos {
				t.Fatalf("got next pos %d, want %d", pos, tt.wantPos)
			}

			if tt.wantArgs == nil {
				if len(args) != 0 {
					t.Fatalf("expected no args, got %v", args)
				}

				return
			}

			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("got args %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSetClause(t *testing.T) {
	cols := map[string]string{
		"name":        "name",
		"phoneNumber": "phone_number",
	}

	tests := []struct {
		name     string
		patch    resource.Patch
		pos      int
		wantSQL  string
		wantArgs []any
		wantPos  int
	}{
		{
			name:    "empty_patch",
			patch:   resource.Patch{},
			pos:     1,
			wantSQL: "",
			wantPos: 1,
		},
		{
			// Fields outside the whitelist are dropped, and if nothing
			// remains the clause is empty.
			name:    "only_unknown_fields",
			patch:   resource.Patch{"role": "ADMIN", "id": "hijack"},
			pos:     1,
			wantSQL: "",
			wantPos: 1,
		},
		{
			name:     "maps_json_names_to_columns",
			patch:    resource.Patch{"phoneNumber": "0612345678"},
			pos:      1,
			wantSQL:  "phone_number = $1",
			wantArgs: []any{"0612345678"},
			wantPos:  2,
		},
		{
			// Sorted keys keep the placeholder order stable.
			name:     "deterministic_order",
			patch:    resource.Patch{"phoneNumber": "0612345678", "name": "John"},
			pos:      1,
			wantSQL:  "name = $1, phone_number = $2",
			wantArgs: []any{"John", "0612345678"},
			wantPos:  3,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			sql, args, pos := setClause(tt.patch, cols, tt.pos)

			if sql != tt.wantSQL {
				t.Fatalf("got sql %q, want %q", sql, tt.wantSQL)
			}

			if pos != tt.wantPos {
				t.Fatalf("got next pos %d, want %d", pos, tt.wantPos)
			}

			if tt.wantArgs == nil {
				if len(args) != 0 {
					t.Fatalf("expected no args, got %v", args)
				}

				return
			}

			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("got args %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("23505 should be a unique violation")
	}

	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("23503 is not a unique violation")
	}

	if isUniqueViolation(nil) {
		t.Fatalf("nil is not a unique violation")
	}
}
