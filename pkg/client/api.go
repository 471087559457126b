package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/snapcart/storefront/internal/api/dto"
	"github.com/snapcart/storefront/internal/domain"
)

// APIClient speaks the storefront's auth endpoints over HTTP.
type APIClient struct {
	baseURL string
	http    *http.Client
}

// NewAPIClient builds a client against baseURL. A nil httpClient gets a
// sensible default timeout.
func NewAPIClient(baseURL string, httpClient *http.Client) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &APIClient{baseURL: baseURL, http: httpClient}
}

// LoginResult is the decoded success payload of POST /auth/login.
type LoginResult struct {
	Token   string
	User    domain.Profile
	Message string
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login exchanges username/password for a credential.
func (c *APIClient) Login(ctx context.Context, username, password, roleHint string) (*LoginResult, error) {
	body := dto.LoginRequest{Username: username, Password: password, Role: roleHint}
	env, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return nil, err
	}

	var data struct {
		User domain.Profile `json:"user"`
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, &RequestError{Message: fallbackMessage}
	}
	return &LoginResult{Token: data.Auth.Token, User: data.User, Message: env.Message}, nil
}

// Profile fetches the identity record for the token's subject.
func (c *APIClient) Profile(ctx context.Context, token string) (*domain.Profile, error) {
	env, err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil)
	if err != nil {
		return nil, err
	}

	var profile domain.Profile
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		return nil, &RequestError{Message: fallbackMessage}
	}
	return &profile, nil
}

// UpdatePassword rotates the password under the current credential.
func (c *APIClient) UpdatePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	body := dto.UpdatePasswordRequest{CurrentPassword: currentPassword, NewPassword: newPassword}
	_, err := c.do(ctx, http.MethodPut, "/auth/update-password", token, body)
	return err
}

// DeleteAccount removes the token's account.
func (c *APIClient) DeleteAccount(ctx context.Context, token string) (message string, err error) {
	env, err := c.do(ctx, http.MethodDelete, "/auth/delete-account", token, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *APIClient) do(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Message: fmt.Sprintf("cannot reach server: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Message: fallbackMessage}
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		reqErr := &RequestError{Message: fallbackMessage}
		if env.Error != nil {
			reqErr.Code = env.Error.Code
			if env.Error.Message != "" {
				reqErr.Message = env.Error.Message
			}
		}
		return nil, reqErr
	}
	return &env, nil
}
