package resource

import "fmt"

// Kind tags one persisted entity type. Using a closed enum instead of a
// free-form model name means an unknown entity is a wiring-time error, not
// something a request can trip over.
type Kind int

const (
	KindUser Kind = iota
	KindHost
	KindProperty
	KindBooking
	KindReview
	KindAmenity
)

var kindNames = map[Kind]string{
	KindUser:     "user",
	KindHost:     "host",
	KindProperty: "property",
	KindBooking:  "booking",
	KindReview:   "review",
	KindAmenity:  "amenity",
}

var kindPlurals = map[Kind]string{
	KindUser:     "users",
	KindHost:     "hosts",
	KindProperty: "properties",
	KindBooking:  "bookings",
	KindReview:   "reviews",
	KindAmenity:  "amenities",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Plural is the URL path segment for the kind's collection.
func (k Kind) Plural() string {
	return kindPlurals[k]
}

func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Kinds lists every registered entity kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindUser, KindHost, KindProperty, KindBooking, KindReview, KindAmenity}
}
