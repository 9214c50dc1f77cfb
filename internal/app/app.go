// Package app wires the client together for one signed-in user: local
// session storage, the backend client, the cart and the order service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"droneFoodOrdering/internal/cart"
	"droneFoodOrdering/internal/config"
	"droneFoodOrdering/internal/db"
	"droneFoodOrdering/internal/delivery"
	"droneFoodOrdering/internal/geocode"
	"droneFoodOrdering/internal/ordering"
	"droneFoodOrdering/internal/remote"
	"droneFoodOrdering/internal/session"
	"droneFoodOrdering/models"
	"droneFoodOrdering/repository"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrWrongPassword = errors.New("current password is incorrect")
)

type App struct {
	Config   *config.Config
	Sessions *session.Manager
	Client   *remote.Client
	Cart     *cart.Synchronizer
	Orders   *ordering.Service

	db       *sql.DB
	logger   *slog.Logger
	validate *validator.Validate
}

// Open builds an App from cfg. Close releases it.
func Open(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := db.Open(cfg.Session.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	a := &App{
		Config:   cfg,
		db:       d,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	a.Sessions = session.NewManager(repository.NewSessionRepository(d), logger.With("component", "session"))

	opts := []remote.Option{remote.WithTokenSource(a.token), remote.WithLogger(logger.With("component", "remote"))}
	if cfg.Backend.Timeout > 0 {
		opts = append(opts, remote.WithTimeout(cfg.Backend.Timeout))
	}
	a.Client, err = remote.New(cfg.Backend.BaseURL, opts...)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	a.Cart = cart.NewSynchronizer(a.Client, a.Sessions, logger.With("component", "cart"))
	fallback := models.Coordinates{Lat: cfg.Ordering.DefaultLat, Lng: cfg.Ordering.DefaultLng}
	a.Orders = ordering.NewService(a.Client, a.Sessions, a.Cart, fallback, logger.With("component", "ordering"))
	return a, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

func (a *App) token(ctx context.Context) (string, error) {
	s, err := a.Sessions.Current(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.Token, nil
}

// Login signs in and loads the user's cart. A cart that fails to load is
// logged; the session still stands.
func (a *App) Login(ctx context.Context, email, password string) (*models.Session, error) {
	if err := a.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%w: email: %v", ErrInvalidInput, err)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	user, tok, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s, err := a.Sessions.Start(ctx, user, tok)
	if err != nil {
		return nil, err
	}
	if err := a.Cart.Refresh(ctx); err != nil {
		a.logger.Warn("cart not loaded after login", "uid", user.UID, "error", err)
	}
	return s, nil
}

// Logout ends the session and drops the local cart.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Sessions.End(ctx); err != nil {
		return err
	}
	a.Cart.Reset()
	return nil
}

func (a *App) Register(ctx context.Context, r models.Registration) (models.User, error) {
	if err := a.validate.Struct(r); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return a.Client.Register(ctx, r)
}

// Restaurants lists restaurants whose name contains query, ignoring case.
func (a *App) Restaurants(ctx context.Context, query string) ([]models.Restaurant, error) {
	all, err := a.Client.ListRestaurants(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}
	var out []models.Restaurant
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Name), query) {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpdateProfile saves the editable profile fields and refreshes the cached
// session profile.
func (a *App) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (models.User, error) {
	s, err := session.Require(ctx, a.Sessions)
	if err != nil {
		return models.User{}, err
	}
	if err := a.validate.Struct(p); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := a.Client.ChangeUserInfo(ctx, s.User.UID, p); err != nil {
		return models.User{}, err
	}
	u := s.User
	u.Name, u.Phone, u.Address = p.Name, p.Phone, p.Address
	if err := a.Sessions.UpdateUser(ctx, u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// ChangePassword checks the current password by signing in with it before
// setting the new one.
func (a *App) ChangePassword(ctx context.Context, pc models.PasswordChange) error {
	s, err := session.Require(ctx, a.Sessions)
	if err != nil {
		return err
	}
	if err := a.validate.Struct(pc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, _, err := a.Client.Login(ctx, s.User.Email, pc.Old); err != nil {
		var apiErr *remote.APIError
		if errors.As(err, &apiErr) {
			return ErrWrongPassword
		}
		return err
	}
	return a.Client.ChangeUserPassword(ctx, s.User.UID, pc.New)
}

// Tracker follows order with the configured confirmation radius.
func (a *App) Tracker(order models.Order) *delivery.Tracker {
	return delivery.NewTracker(a.Client, order,
		delivery.WithRadius(a.Config.Delivery.ConfirmRadiusMeters),
		delivery.WithLogger(a.logger.With("component", "delivery")))
}

// Geocoder returns a debounced address lookup using the configured timing.
func (a *App) Geocoder(onResult func(geocode.Result)) *geocode.Debouncer {
	d := geocode.NewDebouncer(a.Client, a.Config.Geocode.Debounce, a.Config.Geocode.MinLength, onResult)
	d.SetLogger(a.logger.With("component", "geocode"))
	return d
}
