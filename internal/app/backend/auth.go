package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// Login authenticates against the backend and returns the user together
// with the Cookie header value the portal must forward on later calls.
func (c *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.send(ctx, http.MethodPost, loginPath, nil, body)
	if err != nil {
		return models.User{}, "", err
	}
	defer resp.Body.Close()

	pairs := make([]string, 0, len(resp.Cookies()))
	for _, ck := range resp.Cookies() {
		if ck.Value == "" || ck.MaxAge < 0 {
			continue
		}
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	cookie := strings.Join(pairs, "; ")

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return models.User{}, "", fmt.Errorf("decode login: %w", err)
	}
	user, err := decodeUser(env.Data)
	if err != nil {
		return models.User{}, "", err
	}
	if cookie == "" {
		return models.User{}, "", fmt.Errorf("login: backend set no session cookie")
	}
	return user, cookie, nil
}

// Me returns the user the forwarded cookie belongs to.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, mePath, nil, nil, &raw); err != nil {
		return models.User{}, err
	}
	return decodeUser(raw)
}

// Logout ends the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, logoutPath, nil, nil, nil)
}

// decodeUser accepts {user:{...}} or the bare user object.
func decodeUser(raw json.RawMessage) (models.User, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return models.User{}, ErrEmptyData
	}
	var wrapped struct {
		User *models.User `json:"user"`
	}
	if json.Unmarshal(raw, &wrapped) == nil && wrapped.User != nil {
		return *wrapped.User, nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}
	if u.ID == "" {
		return models.User{}, ErrEmptyData
	}
	return u, nil
}
