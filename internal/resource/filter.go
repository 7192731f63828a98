package resource

import (
	"fmt"
	"net/url"
	"strconv"
)

// Op is the comparison a filter rule applies.
type Op int

const (
	OpContains Op = iota
	OpEquals
)

// Rule whitelists one query parameter and maps it onto a column. Query keys
// without a rule are silently ignored; that permissiveness is deliberate.
type Rule struct {
	Key     string // query parameter name
	Column  string
	Op      Op
	Numeric bool
}

// Cond is one resolved filter condition.
type Cond struct {
	Column string
	Op     Op
	Value  any
}

type Filter []Cond

// RulesFor returns the filter whitelist for a kind. Kinds without
// filterable fields get an empty whitelist, so every query parameter is
// ignored for them.
func RulesFor(kind Kind) []Rule {
	switch kind {
	case KindUser:
		return []Rule{
			{Key: "username", Column: "username", Op: OpContains},
			{Key: "email", Column: "email", Op: OpContains},
		}
	case KindHost:
		return []Rule{
			{Key: "name", Column: "name", Op: OpContains},
		}
	case KindProperty:
		return []Rule{
			{Key: "location", Column: "location", Op: OpContains},
			{Key: "pricePerNight", Column: "price_per_night", Op: OpEquals, Numeric: true},
		}
	case KindBooking:
		return []Rule{
			{Key: "userId", Column: "user_id", Op: OpEquals},
		}
	default:
		return nil
	}
}

// BuildFilter resolves the allow-listed subset of query into conditions.
// A rule whose value fails to parse is a caller error, not an ignorable key.
func BuildFilter(rules []Rule, query url.Values) (Filter, error) {
	var f Filter

	for _, rule := range rules {
		raw := query.Get(rule.Key)

		if raw == "" {
			continue
		}

		value := any(raw)

		if rule.Numeric {
			n, err := strconv.ParseFloat(raw, 64)

			if err != nil {
				return nil, fmt.Errorf("filter %q must be numeric", rule.Key)
			}

			value = n
		}

		f = append(f, Cond{Column: rule.Column, Op: rule.Op, Value: value})
	}

	return f, nil
}

// Patch is a partial update payload keyed by JSON field name. Stores map
// recognized fields onto columns and drop the rest.
type Patch map[string]any
