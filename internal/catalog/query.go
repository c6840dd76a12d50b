package catalog

import (
	"sort"
	"strings"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	defaultPage  = 1
	defaultLimit = 10
)

type QueryParams struct {
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

// Page is the pagination envelope. PrevPage/NextPage are nil (JSON null)
// when there is no such page; link strings are the HTTP layer's business.
type Page struct {
	Payload     []Product `json:"payload"`
	TotalPages  int       `json:"totalPages"`
	Page        int       `json:"page"`
	HasPrevPage bool      `json:"hasPrevPage"`
	HasNextPage bool      `json:"hasNextPage"`
	PrevPage    *int      `json:"prevPage"`
	NextPage    *int      `json:"nextPage"`
}

// Evaluate is a pure function from a collection snapshot and query params to
// a page envelope: search filter, then price bounds, then a stable price
// sort, then pagination. A page past the end yields an empty payload.
func Evaluate(products []Product, params QueryParams) Page {
	page := params.Page
	if page < 1 {
		page = defaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesSearch(p, params.Search) {
			continue
		}
		if params.MinPrice != nil && p.Price < *params.MinPrice {
			continue
		}
		if params.MaxPrice != nil && p.Price > *params.MaxPrice {
			continue
		}
		filtered = append(filtered, p)
	}

	switch params.Sort {
	case SortAsc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price < filtered[j].Price })
	case SortDesc:
		sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Price > filtered[j].Price })
	}

	totalPages := (len(filtered) + limit - 1) / limit

	payload := []Product{}
	if start := (page - 1) * limit; start < len(filtered) {
		end := start + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		payload = filtered[start:end]
	}

	res := Page{
		Payload:     payload,
		TotalPages:  totalPages,
		Page:        page,
		HasPrevPage: page > 1,
		HasNextPage: page < totalPages,
	}
	if res.HasPrevPage {
		prev := page - 1
		res.PrevPage = &prev
	}
	if res.HasNextPage {
		next := page + 1
		res.NextPage = &next
	}
	return res
}

func matchesSearch(p Product, search string) bool {
	if search == "" {
		return true
	}

	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, k := range p.Keywords {
		if strings.EqualFold(k, search) {
			return true
		}
	}
	return false
}
