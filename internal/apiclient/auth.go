package apiclient

import (
	"context"
	"net/http"
)

// LoginResponse carries the body-level status and the session token.
type LoginResponse struct {
	Status  int    `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// RegisterRequest is the signup body.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type statusResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (LoginResponse, error) {
	body := map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return LoginResponse{}, err
	}
	if err := checkStatus("login", out.Status); err != nil {
		return out, err
	}
	return out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return err
	}
	// Signup replies 201 on success.
	return checkStatus("register", out.Status)
}

// VerifyPasswordReset starts a reset flow for the given email.
func (c *Client) VerifyPasswordReset(ctx context.Context, email string) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password/verify", map[string]string{"email": email}, &out); err != nil {
		return err
	}
	return checkStatus("verify password reset", out.Status)
}

// ConfirmPasswordReset completes a reset flow with the emailed code.
func (c *Client) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	}
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password/confirm", body, &out); err != nil {
		return err
	}
	return checkStatus("confirm password reset", out.Status)
}
