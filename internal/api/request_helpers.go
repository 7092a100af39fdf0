package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// List defaults applied when a query value is missing, non-numeric or zero.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// listQuery holds the parsed query string of the list endpoint.
type listQuery struct {
	Page      int
	Limit     int
	Completed *bool
}

// getPathID extracts a task ID from the URL path parameters.
// The value must be a base-10 integer.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parseListQuery reads page, limit and completed. Negative page and limit
// values are kept as-is and produce an empty page.
func parseListQuery(r *http.Request) listQuery {
	values := r.URL.Query()

	q := listQuery{
		Page:  intOrDefault(values.Get("page"), DefaultPage),
		Limit: intOrDefault(values.Get("limit"), DefaultLimit),
	}
	if values.Has("completed") {
		completed := values.Get("completed") == "true"
		q.Completed = &completed
	}
	return q
}

func intOrDefault(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return fallback
	}
	return n
}

// filter converts the query into a store filter.
func (q listQuery) filter() store.TaskFilter {
	f := store.TaskFilter{
		Completed: q.Completed,
		Limit:     q.Limit,
	}
	switch {
	case q.Page < 1:
		f.Offset = -1
	case q.Limit > 0 && q.Page-1 > math.MaxInt/q.Limit:
		f.Offset = math.MaxInt
	default:
		f.Offset = (q.Page - 1) * q.Limit
	}
	return f
}

// pagination builds the response metadata for a filtered total.
func (q listQuery) pagination(total int) Pagination {
	p := Pagination{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
	}
	if q.Limit > 0 {
		p.TotalPages = (total + q.Limit - 1) / q.Limit
	}
	return p
}
