package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"droneFoodOrdering/internal/auth"
	"droneFoodOrdering/models"
)

// RecordedRequest is one call observed by FakeBackend.
type RecordedRequest struct {
	Route         string // mux pattern, e.g. "POST /cart/add"
	Authorization string
	RequestID     string
}

type fakeAccount struct {
	user     models.User
	password string
}

// FakeBackend is an in-memory stand-in for the food-ordering REST backend.
// Routes can be forced to answer {success:false} (FailOn) or to drop the
// connection (BreakOn).
type FakeBackend struct {
	mu          sync.Mutex
	Carts       map[string][]models.CartLine
	Orders      map[string]*models.Order
	Drones      map[string][]models.DroneSighting // by order id
	Restaurants []models.Restaurant
	Menus       map[string][]models.MenuItem
	Geocodes    map[string]models.Coordinates
	accounts    map[string]*fakeAccount // by email
	fail        map[string]bool
	broken      map[string]bool
	requests    []RecordedRequest
	nextID      int
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Carts:    map[string][]models.CartLine{},
		Orders:   map[string]*models.Order{},
		Drones:   map[string][]models.DroneSighting{},
		Menus:    map[string][]models.MenuItem{},
		Geocodes: map[string]models.Coordinates{},
		accounts: map[string]*fakeAccount{},
		fail:     map[string]bool{},
		broken:   map[string]bool{},
	}
}

// Start serves the backend on an httptest server closed via t.Cleanup.
func (f *FakeBackend) Start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// FailOn makes route answer a well-formed {success:false}.
func (f *FakeBackend) FailOn(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[route] = true
}

// BreakOn makes route drop the connection without a response.
func (f *FakeBackend) BreakOn(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broken[route] = true
}

// Heal clears FailOn/BreakOn for route.
func (f *FakeBackend) Heal(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fail, route)
	delete(f.broken, route)
}

// AddAccount registers a user that can log in.
func (f *FakeBackend) AddAccount(u models.User, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[u.Email] = &fakeAccount{user: u, password: password}
}

// Requests returns every call seen so far.
func (f *FakeBackend) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// Count returns how many times route was called.
func (f *FakeBackend) Count(route string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Route == route {
			n++
		}
	}
	return n
}

// CartOf returns a copy of the server-side cart for uid.
func (f *FakeBackend) CartOf(uid string) []models.CartLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartLine(nil), f.Carts[uid]...)
}

// Handler routes requests the way the real backend does.
func (f *FakeBackend) Handler() http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, h func(w http.ResponseWriter, r *http.Request)) {
		mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			f.requests = append(f.requests, RecordedRequest{
				Route:         route,
				Authorization: r.Header.Get("Authorization"),
				RequestID:     r.Header.Get("X-Request-Id"),
			})
			failing, broken := f.fail[route], f.broken[route]
			f.mu.Unlock()

			if broken {
				hj, ok := w.(http.Hijacker)
				if ok {
					if conn, _, err := hj.Hijack(); err == nil {
						_ = conn.Close()
						return
					}
				}
			}
			if failing {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "forced failure on " + route})
				return
			}
			f.mu.Lock()
			defer f.mu.Unlock()
			h(w, r)
		})
	}

	handle("POST /auth/login", f.login)
	handle("POST /auth/register", f.register)
	handle("GET /restaurants", f.listRestaurants)
	handle("GET /restaurants/{id}", f.getRestaurant)
	handle("GET /menu/{restaurantId}", f.menu)
	handle("GET /cart/{uid}", f.getCart)
	handle("POST /cart/add", f.addToCart)
	handle("POST /cart/update", f.updateCart)
	handle("DELETE /cart/item", f.removeCartItem)
	handle("DELETE /cart/clear/{uid}", f.clearCart)
	handle("POST /orders", f.createOrder)
	handle("GET /orders/user/{uid}", f.listOrders)
	handle("POST /orders/{id}/status", f.updateOrderStatus)
	handle("DELETE /orders/{id}", f.deleteOrder)
	handle("POST /ors/geocode", f.geocode)
	handle("GET /drones/order/{orderId}", f.dronesForOrder)
	handle("POST /drones/{droneId}/complete", f.completeDrone)
	handle("GET /user/{uid}", f.getUser)
	handle("PUT /user/{uid}/changeinfo", f.changeInfo)
	handle("PUT /user/{uid}/changepassword", f.changePassword)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["success"] = true
	writeJSON(w, http.StatusOK, payload)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

func (f *FakeBackend) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *FakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req struct{ Email, Password string }
	if !decode(w, r, &req) {
		return
	}
	acc, found := f.accounts[req.Email]
	if !found || acc.password != req.Password {
		fail(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	tok, err := SignIDToken(acc.user.UID, acc.user.Email, time.Now().Add(time.Hour))
	if err != nil {
		fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	ok(w, map[string]any{"user": acc.user, "idToken": tok})
}

func (f *FakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req models.Registration
	if !decode(w, r, &req) {
		return
	}
	if _, exists := f.accounts[req.Email]; exists {
		fail(w, http.StatusConflict, "email already registered")
		return
	}
	u := models.User{UID: f.newID("u"), Email: req.Email, Name: req.Name, Phone: req.Phone, Address: req.Address}
	f.accounts[req.Email] = &fakeAccount{user: u, password: req.Password}
	ok(w, map[string]any{"user": u})
}

func (f *FakeBackend) listRestaurants(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": f.Restaurants})
}

func (f *FakeBackend) getRestaurant(w http.ResponseWriter, r *http.Request) {
	for _, rest := range f.Restaurants {
		if rest.ID == r.PathValue("id") {
			ok(w, map[string]any{"data": rest})
			return
		}
	}
	fail(w, http.StatusNotFound, "restaurant not found")
}

func (f *FakeBackend) menu(w http.ResponseWriter, r *http.Request) {
	items, found := f.Menus[r.PathValue("restaurantId")]
	if !found {
		fail(w, http.StatusNotFound, "menu not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (f *FakeBackend) authorized(r *http.Request) bool {
	_, err := auth.ParseBearer(r.Header.Get("Authorization"))
	return err == nil
}

func (f *FakeBackend) getCart(w http.ResponseWriter, r *http.Request) {
	lines := f.Carts[r.PathValue("uid")]
	if lines == nil {
		lines = []models.CartLine{}
	}
	ok(w, map[string]any{"items": lines})
}

func (f *FakeBackend) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID            string          `json:"uid"`
		Product        models.MenuItem `json:"product"`
		RestaurantID   string          `json:"restaurantId"`
		RestaurantName string          `json:"restaurantName"`
	}
	if !decode(w, r, &req) {
		return
	}
	lines := f.Carts[req.UID]
	for i := range lines {
		if lines[i].LineID == req.Product.ID {
			lines[i].Quantity++
			ok(w, nil)
			return
		}
	}
	f.Carts[req.UID] = append(lines, models.CartLine{
		LineID:         req.Product.ID,
		ProductID:      req.Product.ID,
		RestaurantID:   req.RestaurantID,
		RestaurantName: req.RestaurantName,
		Name:           req.Product.Name,
		UnitPrice:      req.Product.Price,
		ImageRef:       req.Product.Image,
		Quantity:       1,
	})
	ok(w, nil)
}

func (f *FakeBackend) updateCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID       string `json:"uid"`
		ProductID string `json:"productId"`
		Delta     int    `json:"delta"`
	}
	if !decode(w, r, &req) {
		return
	}
	lines := f.Carts[req.UID]
	out := lines[:0]
	for _, l := range lines {
		if l.LineID == req.ProductID {
			l.Quantity += req.Delta
		}
		if l.Quantity > 0 {
			out = append(out, l)
		}
	}
	f.Carts[req.UID] = out
	ok(w, nil)
}

func (f *FakeBackend) removeCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID       string `json:"uid"`
		ProductID string `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	lines := f.Carts[req.UID]
	out := lines[:0]
	for _, l := range lines {
		if l.LineID != req.ProductID {
			out = append(out, l)
		}
	}
	f.Carts[req.UID] = out
	ok(w, nil)
}

func (f *FakeBackend) clearCart(w http.ResponseWriter, r *http.Request) {
	delete(f.Carts, r.PathValue("uid"))
	ok(w, nil)
}

func (f *FakeBackend) createOrder(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		fail(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var o models.Order
	if !decode(w, r, &o) {
		return
	}
	o.ID = f.newID("o")
	f.Orders[o.ID] = &o
	ok(w, map[string]any{"id": o.ID})
}

func (f *FakeBackend) listOrders(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	out := []models.Order{}
	for _, o := range f.Orders {
		if o.UserID == uid {
			out = append(out, *o)
		}
	}
	ok(w, map[string]any{"orders": out})
}

func (f *FakeBackend) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	o, found := f.Orders[r.PathValue("id")]
	if !found {
		fail(w, http.StatusNotFound, "order not found")
		return
	}
	o.Status = req.Status
	ok(w, nil)
}

func (f *FakeBackend) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, found := f.Orders[id]; !found {
		fail(w, http.StatusNotFound, "order not found")
		return
	}
	delete(f.Orders, id)
	ok(w, nil)
}

func (f *FakeBackend) geocode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, found := f.Geocodes[req.Text]
	if !found {
		fail(w, http.StatusOK, "address not found")
		return
	}
	ok(w, map[string]any{"text": req.Text, "lat": c.Lat, "lng": c.Lng})
}

func (f *FakeBackend) dronesForOrder(w http.ResponseWriter, r *http.Request) {
	drones := f.Drones[r.PathValue("orderId")]
	if drones == nil {
		drones = []models.DroneSighting{}
	}
	ok(w, map[string]any{"drones": drones})
}

func (f *FakeBackend) completeDrone(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("droneId")
	for orderID, drones := range f.Drones {
		for i := range drones {
			if drones[i].DroneID == id {
				drones[i].Status = models.DroneStatusCompleted
				f.Drones[orderID] = drones
				ok(w, nil)
				return
			}
		}
	}
	fail(w, http.StatusNotFound, "drone not found")
}

func (f *FakeBackend) accountByUID(uid string) *fakeAccount {
	for _, acc := range f.accounts {
		if acc.user.UID == uid {
			return acc
		}
	}
	return nil
}

func (f *FakeBackend) getUser(w http.ResponseWriter, r *http.Request) {
	acc := f.accountByUID(r.PathValue("uid"))
	if acc == nil {
		fail(w, http.StatusNotFound, "user not found")
		return
	}
	ok(w, map[string]any{"data": acc.user})
}

func (f *FakeBackend) changeInfo(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdate
	if !decode(w, r, &req) {
		return
	}
	acc := f.accountByUID(r.PathValue("uid"))
	if acc == nil {
		fail(w, http.StatusNotFound, "user not found")
		return
	}
	acc.user.Name, acc.user.Phone, acc.user.Address = req.Name, req.Phone, req.Address
	ok(w, map[string]any{"message": "updated"})
}

func (f *FakeBackend) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	acc := f.accountByUID(r.PathValue("uid"))
	if acc == nil {
		fail(w, http.StatusNotFound, "user not found")
		return
	}
	acc.password = req.NewPassword
	ok(w, map[string]any{"message": "password changed"})
}
