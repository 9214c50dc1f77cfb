package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droneFoodOrdering/internal/testutil"
	"droneFoodOrdering/models"
)

func newTestClient(t *testing.T, fb *testutil.FakeBackend, token string) *Client {
	t.Helper()
	srv := fb.Start(t)
	c, err := New(srv.URL, WithTokenSource(func(context.Context) (string, error) { return token, nil }))
	require.NoError(t, err)
	return c
}

var burger = models.MenuItem{ID: "p1", Name: "Burger", Price: decimal.RequireFromString("4.50")}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("localhost:3000")
	assert.Error(t, err)
	_, err = New("://nope")
	assert.Error(t, err)
}

func TestCartEndpoints(t *testing.T) {
	fb := testutil.NewFakeBackend()
	c := newTestClient(t, fb, "tok")
	ctx := context.Background()

	require.NoError(t, c.AddToCart(ctx, "u1", burger, "r1", "Grill"))
	require.NoError(t, c.AddToCart(ctx, "u1", burger, "r1", "Grill"))

	lines, err := c.GetCart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "p1", lines[0].LineID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.True(t, lines[0].UnitPrice.Equal(burger.Price), "price %s", lines[0].UnitPrice)

	require.NoError(t, c.UpdateCartQuantity(ctx, "u1", "p1", -1))
	assert.Equal(t, 1, fb.CartOf("u1")[0].Quantity)

	require.NoError(t, c.RemoveCartItem(ctx, "u1", "p1"))
	assert.Empty(t, fb.CartOf("u1"))

	require.NoError(t, c.AddToCart(ctx, "u1", burger, "r1", "Grill"))
	require.NoError(t, c.ClearCart(ctx, "u1"))
	lines, err = c.GetCart(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRequestHeaders(t *testing.T) {
	fb := testutil.NewFakeBackend()
	c := newTestClient(t, fb, "tok")
	_, err := c.GetCart(context.Background(), "u1")
	require.NoError(t, err)

	reqs := fb.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "GET /cart/{uid}", reqs[0].Route)
	assert.Equal(t, "Bearer tok", reqs[0].Authorization)
	assert.NotEmpty(t, reqs[0].RequestID)
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	fb := testutil.NewFakeBackend()
	c := newTestClient(t, fb, "")
	_, err := c.CreateOrder(context.Background(), models.Order{UserID: "u1"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "unauthorized", UserMessage(err))
	assert.Empty(t, fb.Requests()[0].Authorization)
}

func TestApplicationFailure(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.FailOn("POST /cart/add")
	c := newTestClient(t, fb, "tok")

	err := c.AddToCart(context.Background(), "u1", burger, "r1", "Grill")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.False(t, errors.Is(err, ErrTransport))
	assert.Equal(t, "forced failure on POST /cart/add", UserMessage(err))
}

func TestTransportFailure(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.BreakOn("POST /cart/update")
	c := newTestClient(t, fb, "tok")

	err := c.UpdateCartQuantity(context.Background(), "u1", "p1", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Network error", UserMessage(err))
}

func TestOrderEndpoints(t *testing.T) {
	fb := testutil.NewFakeBackend()
	c := newTestClient(t, fb, "tok")
	ctx := context.Background()

	id, err := c.CreateOrder(ctx, models.Order{
		UserID:     "u1",
		Items:      []models.OrderItem{{ProductID: "p1", Name: "Burger", UnitPrice: burger.Price, Quantity: 2}},
		TotalPrice: decimal.RequireFromString("9"),
		Status:     models.OrderStatusPending,
		CreatedAt:  models.Timestamp{Time: time.Now()},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	orders, err := c.ListUserOrders(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, id, orders[0].ID)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(9)))

	require.NoError(t, c.UpdateOrderStatus(ctx, id, models.OrderStatusCancelled))
	assert.Equal(t, models.OrderStatusCancelled, fb.Orders[id].Status)

	require.NoError(t, c.DeleteOrder(ctx, id))
	assert.Error(t, c.DeleteOrder(ctx, id))
}

func TestTrackingEndpoints(t *testing.T) {
	fb := testutil.NewFakeBackend()
	lat, lng := 10.7626, 106.6602
	fb.Drones["o1"] = []models.DroneSighting{{DroneID: "d1", Lat: &lat, Lng: &lng, Status: models.DroneStatusDelivering}}
	fb.Geocodes["227 Nguyen Van Cu"] = models.Coordinates{Lat: 10.76, Lng: 106.68}
	c := newTestClient(t, fb, "tok")
	ctx := context.Background()

	drones, err := c.DronesForOrder(ctx, "o1")
	require.NoError(t, err)
	require.Len(t, drones, 1)
	pos, ok := drones[0].Position()
	require.True(t, ok)
	assert.Equal(t, models.Coordinates{Lat: lat, Lng: lng}, pos)

	none, err := c.DronesForOrder(ctx, "o2")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, c.CompleteDroneFlight(ctx, "d1"))
	assert.Equal(t, models.DroneStatusCompleted, fb.Drones["o1"][0].Status)

	coords, err := c.Geocode(ctx, "227 Nguyen Van Cu")
	require.NoError(t, err)
	assert.Equal(t, models.Coordinates{Lat: 10.76, Lng: 106.68}, coords)

	_, err = c.Geocode(ctx, "nowhere")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestCatalogEndpoints(t *testing.T) {
	fb := testutil.NewFakeBackend()
	fb.Restaurants = []models.Restaurant{{ID: "r1", Name: "Grill", Active: true, Rating: decimal.RequireFromString("4.5")}}
	fb.Menus["r1"] = []models.MenuItem{burger}
	c := newTestClient(t, fb, "")
	ctx := context.Background()

	rs, err := c.ListRestaurants(ctx)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "Grill", rs[0].Name)

	r, err := c.GetRestaurant(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)

	_, err = c.GetRestaurant(ctx, "missing")
	assert.ErrorIs(t, err, ErrRejected)

	menu, err := c.Menu(ctx, "r1")
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, "Burger", menu[0].Name)
}

func TestAccountEndpoints(t *testing.T) {
	fb := testutil.NewFakeBackend()
	c := newTestClient(t, fb, "")
	ctx := context.Background()

	u, err := c.Register(ctx, models.Registration{Name: "An", Email: "an@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, u.UID)

	got, tok, err := c.Login(ctx, "an@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)
	assert.NotEmpty(t, tok)

	_, _, err = c.Login(ctx, "an@example.com", "wrong")
	assert.Equal(t, "invalid credentials", UserMessage(err))

	require.NoError(t, c.ChangeUserInfo(ctx, u.UID, models.ProfileUpdate{Name: "An B", Phone: "0900", Address: "HCMC"}))
	fetched, err := c.GetUser(ctx, u.UID)
	require.NoError(t, err)
	assert.Equal(t, "An B", fetched.Name)
	assert.Equal(t, "HCMC", fetched.Address)

	require.NoError(t, c.ChangeUserPassword(ctx, u.UID, "secret2"))
	_, _, err = c.Login(ctx, "an@example.com", "secret2")
	assert.NoError(t, err)
}
