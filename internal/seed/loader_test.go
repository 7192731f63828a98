package seed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wanderstay/bookings/internal/domain/booking"
	"github.com/wanderstay/bookings/internal/domain/user"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestLoadUsersFixture(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "users.json", `{
		"users": [
			{
				"id": "a1b2c3d4-1234-5678-9abc-def012345678",
				"username": "jdoe",
				"password": "secret",
				"name": "John Doe",
				"email": "jdoe@example.com",
				"phoneNumber": "0612345678",
				"pictureUrl": "https://example.com/jdoe.jpg"
			}
		]
	}`)

	l := &Loader{dir: dir}

	var file struct {
		Users []user.User `json:"users"`
	}

	if err := l.loadFile("users.json", &file); err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	if len(file.Users) != 1 {
		t.Fatalf("got %d users, want 1", len(file.Users))
	}

	u := file.Users[0]

	if u.ID != "a1b2c3d4-1234-5678-9abc-def012345678" {
		t.Fatalf("got id %q", u.ID)
	}

	if u.Username != "jdoe" || u.PhoneNumber != "0612345678" {
		t.Fatalf("fixture fields not mapped: %+v", u)
	}
}

func TestLoadBookingsFixtureDates(t *testing.T) {
	dir := t.TempDir()

	writeFixture(t, dir, "bookings.json", `{
		"bookings": [
			{
				"id": "f0123456-78ab-cdef-0123-456789abcdef",
				"userId": "u-1",
				"propertyId": "p-1",
				"checkinDate": "2026-07-01T10:00:00.000Z",
				"checkoutDate": "2026-07-07T10:00:00.000Z",
				"numberOfGuests": 2,
				"totalPrice": 420,
				"bookingStatus": "confirmed"
			}
		]
	}`)

	l := &Loader{dir: dir}

	var file struct {
		Bookings []booking.Booking `json:"bookings"`
	}

	if err := l.loadFile("bookings.json", &file); err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	if len(file.Bookings) != 1 {
		t.Fatalf("got %d bookings, want 1", len(file.Bookings))
	}

	b := file.Bookings[0]

	wantCheckin := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)

	if !b.CheckinDate.Equal(wantCheckin) {
		t.Fatalf("got checkin %v, want %v", b.CheckinDate, wantCheckin)
	}

	if !b.CheckoutDate.After(b.CheckinDate) {
		t.Fatalf("checkout should be after checkin: %+v", b)
	}
}

func TestLoadFixtureErrors(t *testing.T) {
	dir := t.TempDir()

	l := &Loader{dir: dir}

	var out struct{}

	if err := l.loadFile("missing.json", &out); err == nil {
		t.Fatalf("expected an error for a missing fixture file")
	}

	writeFixture(t, dir, "broken.json", `{not json`)

	if err := l.loadFile("broken.json", &out); err == nil {
		t.Fatalf("expected an error for a malformed fixture file")
	}
}
