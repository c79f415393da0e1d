// Package listing filters, sorts and paginates record lists, both on the
// serving side (Apply) and on the consuming side (Controller).
package listing

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	dateLayout = "2006-01-02"
)

const (
	SortByDate   = "date"
	SortByAmount = "amount"
	SortByStatus = "status"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// QueryError names the query parameter that failed to parse.
type QueryError struct {
	Field   string
	Message string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Filters struct {
	Search    string            `json:"search,omitempty"`
	StartDate string            `json:"startDate,omitempty"`
	EndDate   string            `json:"endDate,omitempty"`
	Status    string            `json:"status,omitempty"`
	Currency  string            `json:"currency,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

func (f Filters) IsZero() bool {
	return f.Search == "" && f.StartDate == "" && f.EndDate == "" &&
		f.Status == "" && f.Currency == "" && len(f.Extra) == 0
}

// Values encodes non-empty filters as query parameters.
func (f Filters) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("search", f.Search)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
	set("status", f.Status)
	set("currency", f.Currency)
	for key, value := range f.Extra {
		set(key, value)
	}
	return values
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type Query struct {
	Filters
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

func DefaultQuery() Query {
	return Query{Page: DefaultPage, Limit: DefaultLimit}
}

func (q Query) Values() url.Values {
	values := q.Filters.Values()
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.Limit))
	if q.SortBy != "" {
		values.Set("sortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		values.Set("sortOrder", q.SortOrder)
	}
	return values
}

var reserved = map[string]struct{}{
	"search": {}, "startDate": {}, "endDate": {}, "status": {}, "currency": {},
	"page": {}, "limit": {}, "sortBy": {}, "sortOrder": {},
}

// ParseQuery reads filters and paging from a request query string. Keys it
// does not recognise land in Filters.Extra.
func ParseQuery(values url.Values) (Query, error) {
	q := DefaultQuery()
	q.Search = strings.TrimSpace(values.Get("search"))
	q.Status = strings.TrimSpace(values.Get("status"))
	q.Currency = strings.TrimSpace(values.Get("currency"))

	var err error
	if q.Page, err = positiveInt(values, "page", DefaultPage); err != nil {
		return Query{}, err
	}
	if q.Limit, err = positiveInt(values, "limit", DefaultLimit); err != nil {
		return Query{}, err
	}
	if q.Limit > MaxLimit {
		return Query{}, &QueryError{Field: "limit", Message: fmt.Sprintf("must be at most %d", MaxLimit)}
	}
	if q.StartDate, err = dateParam(values, "startDate"); err != nil {
		return Query{}, err
	}
	if q.EndDate, err = dateParam(values, "endDate"); err != nil {
		return Query{}, err
	}
	if q.StartDate != "" && q.EndDate != "" && q.StartDate > q.EndDate {
		return Query{}, &QueryError{Field: "endDate", Message: "must not be before startDate"}
	}

	switch sortBy := values.Get("sortBy"); sortBy {
	case "", SortByDate, SortByAmount, SortByStatus:
		q.SortBy = sortBy
	default:
		return Query{}, &QueryError{Field: "sortBy", Message: "must be one of date, amount, status"}
	}
	switch order := strings.ToLower(values.Get("sortOrder")); order {
	case "", SortAsc, SortDesc:
		q.SortOrder = order
	default:
		return Query{}, &QueryError{Field: "sortOrder", Message: "must be asc or desc"}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := reserved[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := strings.TrimSpace(values.Get(key))
		if value == "" {
			continue
		}
		if q.Extra == nil {
			q.Extra = make(map[string]string)
		}
		q.Extra[key] = value
	}
	return q, nil
}

func positiveInt(values url.Values, key string, fallback int) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return 0, &QueryError{Field: key, Message: "must be a positive integer"}
	}
	return parsed, nil
}

func dateParam(values url.Values, key string) (string, error) {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", &QueryError{Field: key, Message: "must be a date in YYYY-MM-DD format"}
	}
	return raw, nil
}
