package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestOrderStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusDelivering, true},
		{OrderStatusDelivering, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusDelivering, false},
		{OrderStatusDelivering, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Fatalf("%s -> %s = %v, want %v", c.from, c.to, got, c.want)
		}
	}
	if OrderStatusCancelled.Step() != -1 || OrderStatusDelivering.Step() != 2 {
		t.Fatalf("unexpected steps")
	}
	if !OrderStatusCancelled.Valid() || OrderStatus("lost").Valid() {
		t.Fatalf("Valid mismatch")
	}
}

func TestOrder_DecodesBothTimestampShapes(t *testing.T) {
	raw := `[
		{"id":"a","status":"pending","createdAt":"2025-01-02T03:04:05Z","totalPrice":12.5,
		 "recipientName":"An","recipientPhone":"090","shipping_address":"1 Le Loi","lat":10.7,"lng":106.6},
		{"id":"b","status":"delivering","createdAt":{"_seconds":1735787045,"_nanoseconds":0},"totalPrice":"3"}
	]`
	var orders []Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if !orders[0].CreatedAt.Equal(want) || !orders[1].CreatedAt.Equal(want) {
		t.Fatalf("timestamps: %v / %v", orders[0].CreatedAt, orders[1].CreatedAt)
	}
	if !orders[0].TotalPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("total: %s", orders[0].TotalPrice)
	}
	dst, ok := orders[0].Destination()
	if !ok || dst.Lat != 10.7 || dst.Lng != 106.6 || orders[0].Recipient.Name != "An" {
		t.Fatalf("recipient not decoded: %+v", orders[0].Recipient)
	}
	if _, ok := orders[1].Destination(); ok {
		t.Fatalf("expected no destination on second order")
	}
}

func TestTimestamp_EncodesRFC3339(t *testing.T) {
	ts := Timestamp{time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-05-06T07:08:09Z"` {
		t.Fatalf("got %s", b)
	}
}
