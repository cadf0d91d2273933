package apiclient

import (
	"context"
	"net/http"

	"assistant-client/internal/store"
)

type apiKeyResponse struct {
	Status int    `json:"status"`
	APIKey string `json:"api_key"`
}

// SetAPIKey stores the user's model API key server-side.
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/settings/set-api-key", map[string]string{"api_key": key}, &out); err != nil {
		return err
	}
	return checkStatus("set api key", out.Status)
}

// GetAPIKey fetches the stored model API key.
func (c *Client) GetAPIKey(ctx context.Context) (string, error) {
	var out apiKeyResponse
	if err := c.get(ctx, "/settings/get-api-key", &out); err != nil {
		return "", err
	}
	if err := checkStatus("get api key", out.Status); err != nil {
		return "", err
	}
	return out.APIKey, nil
}

// UpdateProfile pushes edited profile fields.
func (c *Client) UpdateProfile(ctx context.Context, p store.Profile) error {
	body := map[string]string{
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"email":     p.Email,
		"username":  p.Username,
		"image":     p.Image,
	}
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/settings/update-profile", body, &out); err != nil {
		return err
	}
	return checkStatus("update profile", out.Status)
}

// DeleteAccount removes the account entirely.
func (c *Client) DeleteAccount(ctx context.Context) error {
	var out statusResponse
	if err := c.do(ctx, http.MethodPost, "/settings/delete-account", nil, &out); err != nil {
		return err
	}
	return checkStatus("delete account", out.Status)
}
