package gateway

import "strconv"

// Query describes one table read. The zero value selects every column of
// every row in table order.
type Query struct {
	// Select is the PostgREST column projection. Empty means "*".
	Select string
	// Order is the sort expression, e.g. "created_at.desc".
	Order string
	// Limit caps the number of returned rows. Zero means no limit.
	Limit int
	// Offset skips rows for pagination.
	Offset int
	// Filters maps a column name to an operator.value expression,
	// e.g. {"equipment_id": "eq.abc", "timestamp": "gte.2024-01-01"}.
	Filters map[string]string
}

// params renders the query as request query parameters.
func (q Query) params() map[string]string {
	p := make(map[string]string, len(q.Filters)+4)

	sel := q.Select
	if sel == "" {
		sel = "*"
	}
	p["select"] = sel

	if q.Order != "" {
		p["order"] = q.Order
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Offset > 0 {
		p["offset"] = strconv.Itoa(q.Offset)
	}
	for column, expr := range q.Filters {
		p[column] = expr
	}

	return p
}

// Eq builds an equality filter expression for [Query.Filters].
func Eq(value string) string { return "eq." + value }
