package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []Product {
	return []Product{
		{ID: 1, Title: "Running shoe", Description: "mesh runner", Price: 60, Keywords: []string{"shoe", "running"}},
		{ID: 2, Title: "Trail SHOE", Description: "grippy outsole", Price: 80, Keywords: []string{"trail"}},
		{ID: 3, Title: "Wool socks", Description: "merino three pack", Price: 15, Keywords: []string{"socks"}},
		{ID: 4, Title: "Sandals", Description: "a summer shoe", Price: 25, Keywords: []string{"summer"}},
		{ID: 5, Title: "Boots", Description: "leather", Price: 120, Keywords: []string{"Shoe", "winter"}},
	}
}

func fptr(v float64) *float64 { return &v }

func ids(ps []Product) []int64 {
	out := make([]int64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestEvaluateSearch(t *testing.T) {
	cases := []struct {
		name   string
		search string
		want   []int64
	}{
		{"title substring", "shoe", []int64{1, 2, 4, 5}},
		{"case insensitive", "SHOE", []int64{1, 2, 4, 5}},
		{"description substring", "merino", []int64{3}},
		{"keyword membership", "winter", []int64{5}},
		{"keyword is exact membership not substring", "win", nil},
		{"no match", "kayak", nil},
		{"empty search keeps all", "", []int64{1, 2, 3, 4, 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Evaluate(fixture(), QueryParams{Search: tc.search, Limit: 100})
			if tc.want == nil {
				assert.Empty(t, page.Payload)
				return
			}
			assert.Equal(t, tc.want, ids(page.Payload))
		})
	}
}

func TestEvaluatePriceBoundsInclusive(t *testing.T) {
	page := Evaluate(fixture(), QueryParams{MinPrice: fptr(25), MaxPrice: fptr(80), Limit: 100})
	assert.Equal(t, []int64{1, 2, 4}, ids(page.Payload))
}

func TestEvaluateSort(t *testing.T) {
	asc := Evaluate(fixture(), QueryParams{Sort: SortAsc, Limit: 100})
	assert.Equal(t, []int64{3, 4, 1, 2, 5}, ids(asc.Payload))

	desc := Evaluate(fixture(), QueryParams{Sort: SortDesc, Limit: 100})
	assert.Equal(t, []int64{5, 2, 1, 4, 3}, ids(desc.Payload))

	unrecognized := Evaluate(fixture(), QueryParams{Sort: "price", Limit: 100})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(unrecognized.Payload), "unknown sort keeps input order")
}

func TestEvaluateSortStable(t *testing.T) {
	products := []Product{
		{ID: 1, Price: 10},
		{ID: 2, Price: 10},
		{ID: 3, Price: 10},
	}
	page := Evaluate(products, QueryParams{Sort: SortAsc})
	assert.Equal(t, []int64{1, 2, 3}, ids(page.Payload))
}

func TestEvaluatePagination(t *testing.T) {
	products := make([]Product, 23)
	for i := range products {
		products[i] = Product{ID: int64(i + 1), Title: "p", Price: float64(i)}
	}

	t.Run("totalPages is ceil(n/limit)", func(t *testing.T) {
		page := Evaluate(products, QueryParams{Limit: 10})
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("last page holds the remainder", func(t *testing.T) {
		page := Evaluate(products, QueryParams{Page: 3, Limit: 10})
		require.Len(t, page.Payload, 3)
		assert.Equal(t, int64(21), page.Payload[0].ID)
		assert.True(t, page.HasPrevPage)
		assert.False(t, page.HasNextPage)
		require.NotNil(t, page.PrevPage)
		assert.Equal(t, 2, *page.PrevPage)
		assert.Nil(t, page.NextPage)
	})

	t.Run("exact multiple fills the last page", func(t *testing.T) {
		page := Evaluate(products[:20], QueryParams{Page: 2, Limit: 10})
		assert.Len(t, page.Payload, 10)
		assert.Equal(t, 2, page.TotalPages)
	})

	t.Run("middle page links both ways", func(t *testing.T) {
		page := Evaluate(products, QueryParams{Page: 2, Limit: 10})
		require.NotNil(t, page.PrevPage)
		require.NotNil(t, page.NextPage)
		assert.Equal(t, 1, *page.PrevPage)
		assert.Equal(t, 3, *page.NextPage)
	})

	t.Run("page beyond the end is empty, not an error", func(t *testing.T) {
		page := Evaluate(products, QueryParams{Page: 9, Limit: 10})
		assert.Empty(t, page.Payload)
		assert.Equal(t, 9, page.Page)
		assert.Equal(t, 3, page.TotalPages)
		assert.False(t, page.HasNextPage)
	})

	t.Run("defaults are page 1 limit 10", func(t *testing.T) {
		page := Evaluate(products, QueryParams{})
		assert.Len(t, page.Payload, 10)
		assert.Equal(t, 1, page.Page)
		assert.False(t, page.HasPrevPage)
		assert.True(t, page.HasNextPage)
	})
}

func TestEvaluateEmptyCollection(t *testing.T) {
	page := Evaluate(nil, QueryParams{})

	assert.NotNil(t, page.Payload)
	assert.Empty(t, page.Payload)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.False(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.PrevPage)
	assert.Nil(t, page.NextPage)
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	products := fixture()
	_ = Evaluate(products, QueryParams{Sort: SortDesc, Limit: 2})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(products))
}
