package models

import "github.com/shopspring/decimal"

func init() {
	// The backend reads prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CartLine is one product entry in a user's cart.
// LineID is the stable identity of the line and equals ProductID.
type CartLine struct {
	LineID         string          `json:"id"`
	ProductID      string          `json:"productId"`
	RestaurantID   string          `json:"restaurantId"`
	RestaurantName string          `json:"restaurantName"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"price"`
	ImageRef       string          `json:"image,omitempty"`
	Quantity       int             `json:"quantity"`
}

// LineTotal is UnitPrice × Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is a point-in-time copy of the cart held by the synchronizer.
type Cart struct {
	Lines         []CartLine `json:"items"`
	TotalQuantity int        `json:"totalQuantity"`
}

// RestaurantGroup is the slice of a cart belonging to one restaurant.
// Orders are always placed per restaurant.
type RestaurantGroup struct {
	RestaurantID   string
	RestaurantName string
	Lines          []CartLine
	Quantity       int
	Subtotal       decimal.Decimal
}

// Subtotal sums the line totals of the whole cart.
func (c Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.Lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// Groups splits the cart by restaurant, keeping the order in which each
// restaurant first appears.
func (c Cart) Groups() []RestaurantGroup {
	idx := map[string]int{}
	var out []RestaurantGroup
	for _, l := range c.Lines {
		i, ok := idx[l.RestaurantID]
		if !ok {
			i = len(out)
			idx[l.RestaurantID] = i
			out = append(out, RestaurantGroup{RestaurantID: l.RestaurantID, RestaurantName: l.RestaurantName, Subtotal: decimal.Zero})
		}
		g := &out[i]
		g.Lines = append(g.Lines, l)
		g.Quantity += l.Quantity
		g.Subtotal = g.Subtotal.Add(l.LineTotal())
	}
	return out
}

// Group returns the lines of a single restaurant, if any.
func (c Cart) Group(restaurantID string) (RestaurantGroup, bool) {
	for _, g := range c.Groups() {
		if g.RestaurantID == restaurantID {
			return g, true
		}
	}
	return RestaurantGroup{}, false
}
