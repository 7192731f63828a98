package postgres

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wanderstay/bookings/internal/resource"
)

// whereClause renders an allow-listed filter into SQL, numbering
// placeholders from pos. Column names come from the resource rule tables,
// never from the request, so interpolating them is safe.
func whereClause(filter resource.Filter, pos int) (string, []any, int) {
	if len(filter) == 0 {
		return "", nil, pos
	}

	conds := make([]string, 0, len(filter))
	args := make([]any, 0, len(filter))

	for _, cond := range filter {
		switch cond.Op {
		case resource.OpContains:
			conds = append(conds, fmt.Sprintf("%s LIKE $%d", cond.Column, pos))
			args = append(args, "%"+escapeLike(fmt.Sprintf("%v", cond.Value))+"%")
		default:
			conds = append(conds, fmt.Sprintf("%s = $%d", cond.Column, pos))
			args = append(args, cond.Value)
		}

		pos++
	}

	return " WHERE " + strings.Join(conds, " AND "), args, pos
}

func escapeLike(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v)
}

// setClause renders the recognized fields of a partial update. cols maps
// JSON field names onto columns; unrecognized fields are dropped, matching
// the permissive filter contract. Keys are sorted so placeholder order is
// deterministic.
func setClause(patch resource.Patch, cols map[string]string, pos int) (string, []any, int) {
	keys := make([]string, 0, len(patch))

	for k := range patch {
		if _, ok := cols[k]; ok {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)

	if len(keys) == 0 {
		return "", nil, pos
	}

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))

	for _, k := range keys {
		sets = append(sets, fmt.Sprintf("%s = $%d", cols[k], pos))
		args = append(args, patch[k])
		pos++
	}

	return strings.Join(sets, ", "), args, pos
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
