// internal/api/auth.go
package api

import (
	"context"

	"estate-client/internal/common/validation"
	"estate-client/internal/models"
	"estate-client/internal/session"
	"estate-client/pkg/registry"
)

// Signup registers an account. The backend signs the user in on success.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (session.State, error) {
	if err := validation.Check(validation.FormSignup, req, "Please fill in all fields"); err != nil {
		return session.State{}, err
	}
	if err := validation.CheckEmail("email", req.Email); err != nil {
		return session.State{}, err
	}
	var resp models.AuthResponse
	if err := c.mutate(ctx, call{name: registry.AuthSignup, body: req}, &resp); err != nil {
		return session.State{}, err
	}
	return c.startSession(ctx, resp), nil
}

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (session.State, error) {
	if err := validation.Check(validation.FormLogin, req, "Please enter your email and password"); err != nil {
		return session.State{}, err
	}
	var resp models.AuthResponse
	if err := c.mutate(ctx, call{name: registry.AuthLogin, body: req}, &resp); err != nil {
		return session.State{}, err
	}
	return c.startSession(ctx, resp), nil
}

// DemoLogin signs in the shared restricted reviewer account.
func (c *Client) DemoLogin(ctx context.Context) (session.State, error) {
	var resp models.AuthResponse
	if err := c.mutate(ctx, call{name: registry.AuthDemoLogin}, &resp); err != nil {
		return session.State{}, err
	}
	resp.IsDemo = true
	return c.startSession(ctx, resp), nil
}

// Logout ends the session on the backend and always clears local state,
// even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.mutate(ctx, call{name: registry.AuthLogout}, nil)
	c.endSession(ctx)
	return err
}

// DeleteAccount removes the signed-in user's account and clears the session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if err := c.mutate(ctx, call{name: registry.AuthDeleteAccount}, nil); err != nil {
		return err
	}
	c.endSession(ctx)
	return nil
}

func (c *Client) startSession(ctx context.Context, resp models.AuthResponse) session.State {
	// cached results belong to the previous identity
	c.clearCache(ctx)
	return c.session.Login(resp)
}

func (c *Client) endSession(ctx context.Context) {
	c.session.Logout()
	c.http.ResetCookies()
	c.clearCache(ctx)
}

func (c *Client) clearCache(ctx context.Context) {
	if err := c.cache.Clear(ctx); err != nil {
		c.logger.Warn("Cache clear failed", map[string]interface{}{"error": err.Error()})
	}
}
