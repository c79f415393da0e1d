package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Accessor exposes the fields of T that filtering and sorting look at.
// A nil function disables the filter or sort key that depends on it.
type Accessor[T any] struct {
	Search   func(T) []string
	Date     func(T) time.Time
	Status   func(T) string
	Currency func(T) string
	Amount   func(T) decimal.Decimal
	Field    func(item T, key string) (string, bool)
}

type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Apply filters, sorts and paginates items. The input slice is not modified.
// A page past the end yields empty data with the real totals.
func Apply[T any](items []T, q Query, acc Accessor[T]) Page[T] {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}

	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if matches(item, q.Filters, acc) {
			filtered = append(filtered, item)
		}
	}
	sortItems(filtered, q.SortBy, q.SortOrder, acc)

	total := len(filtered)
	page := Page[T]{
		Data: []T{},
		Pagination: Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: (total + q.Limit - 1) / q.Limit,
		},
	}
	start := (q.Page - 1) * q.Limit
	if start >= total {
		return page
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	page.Data = filtered[start:end]
	return page
}

func matches[T any](item T, f Filters, acc Accessor[T]) bool {
	if f.Search != "" && acc.Search != nil {
		needle := strings.ToLower(f.Search)
		found := false
		for _, field := range acc.Search(item) {
			if strings.Contains(strings.ToLower(field), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if acc.Date != nil && (f.StartDate != "" || f.EndDate != "") {
		day := acc.Date(item).Format(dateLayout)
		if f.StartDate != "" && day < f.StartDate {
			return false
		}
		if f.EndDate != "" && day > f.EndDate {
			return false
		}
	}
	if f.Status != "" && acc.Status != nil && !strings.EqualFold(acc.Status(item), f.Status) {
		return false
	}
	if f.Currency != "" && acc.Currency != nil && !strings.EqualFold(acc.Currency(item), f.Currency) {
		return false
	}
	if acc.Field != nil {
		for key, want := range f.Extra {
			got, known := acc.Field(item, key)
			if known && got != want {
				return false
			}
		}
	}
	return true
}

func sortItems[T any](items []T, sortBy, order string, acc Accessor[T]) {
	if sortBy == "" {
		sortBy = SortByDate
	}
	if order == "" {
		order = SortDesc
	}
	var less func(a, b T) bool
	switch sortBy {
	case SortByDate:
		if acc.Date == nil {
			return
		}
		less = func(a, b T) bool { return acc.Date(a).Before(acc.Date(b)) }
	case SortByAmount:
		if acc.Amount == nil {
			return
		}
		less = func(a, b T) bool { return acc.Amount(a).LessThan(acc.Amount(b)) }
	case SortByStatus:
		if acc.Status == nil {
			return
		}
		less = func(a, b T) bool { return acc.Status(a) < acc.Status(b) }
	default:
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order == SortDesc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
