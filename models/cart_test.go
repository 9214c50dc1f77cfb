package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCart_GroupsByRestaurant(t *testing.T) {
	c := Cart{Lines: []CartLine{
		{LineID: "p1", RestaurantID: "r1", RestaurantName: "Pho", UnitPrice: decimal.NewFromInt(30), Quantity: 2},
		{LineID: "p2", RestaurantID: "r2", RestaurantName: "Banh Mi", UnitPrice: decimal.NewFromInt(15), Quantity: 1},
		{LineID: "p3", RestaurantID: "r1", RestaurantName: "Pho", UnitPrice: decimal.RequireFromString("2.5"), Quantity: 4},
	}, TotalQuantity: 7}

	groups := c.Groups()
	if len(groups) != 2 || groups[0].RestaurantID != "r1" || groups[1].RestaurantID != "r2" {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if groups[0].Quantity != 6 || !groups[0].Subtotal.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("r1 group: qty=%d subtotal=%s", groups[0].Quantity, groups[0].Subtotal)
	}
	if !c.Subtotal().Equal(decimal.NewFromInt(85)) {
		t.Fatalf("subtotal: %s", c.Subtotal())
	}
	if _, ok := c.Group("r9"); ok {
		t.Fatalf("unexpected group r9")
	}
}

func TestCartLine_PriceEncodesAsNumber(t *testing.T) {
	b, err := json.Marshal(CartLine{LineID: "p1", UnitPrice: decimal.RequireFromString("12.5"), Quantity: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"price":12.5`) {
		t.Fatalf("price not a number: %s", b)
	}
}
