package remote

import (
	"context"
	"net/http"

	"droneFoodOrdering/models"
)

// Login exchanges credentials for the user's profile and an ID token.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		User    models.User `json:"user"`
		IDToken string      `json:"idToken"`
		Token   string      `json:"token"`
	}
	if err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/auth/login", in: in, out: &out}); err != nil {
		return models.User{}, "", err
	}
	tok := out.IDToken
	if tok == "" {
		tok = out.Token
	}
	if tok == "" || out.User.UID == "" {
		return models.User{}, "", &APIError{Op: "login", StatusCode: http.StatusOK, Message: "login response missing user or token"}
	}
	return out.User, tok, nil
}

func (c *Client) Register(ctx context.Context, r models.Registration) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "/auth/register", in: r, out: &out}); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

func (c *Client) GetUser(ctx context.Context, uid string) (models.User, error) {
	var out struct {
		Data models.User `json:"data"`
	}
	if err := c.do(ctx, call{op: "get user", method: http.MethodGet, path: "/user/" + segment(uid), out: &out}); err != nil {
		return models.User{}, err
	}
	return out.Data, nil
}

func (c *Client) ChangeUserInfo(ctx context.Context, uid string, p models.ProfileUpdate) error {
	return c.do(ctx, call{op: "change user info", method: http.MethodPut, path: "/user/" + segment(uid) + "/changeinfo", in: p})
}

func (c *Client) ChangeUserPassword(ctx context.Context, uid, newPassword string) error {
	in := struct {
		NewPassword string `json:"newPassword"`
	}{newPassword}
	return c.do(ctx, call{op: "change user password", method: http.MethodPut, path: "/user/" + segment(uid) + "/changepassword", in: in})
}
