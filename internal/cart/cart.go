package cart

// Line is one (product, quantity) entry. A product id appears at most once
// per cart; repeat adds bump the quantity instead.
type Line struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"quantity"`
}

type Cart struct {
	ID       int64  `json:"id"`
	Products []Line `json:"products"`
}
