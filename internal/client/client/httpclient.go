package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/wealflow/wealflow/internal/client/models"
)

const (
	pathAuth         = "/api/auth"
	pathLogin        = "/api/auth/login"
	pathRegister     = "/api/auth/register"
	pathLogout       = "/api/auth/logout"
	pathRefresh      = "/api/auth/refresh"
	pathGoogle       = "/api/auth/google"
	pathUpdate       = "/api/auth/update"
	pathPassword     = "/api/auth/password"
	pathTransactions = "/api/transactions"
	pathExport       = "/api/transactions/export"
	pathHealth       = "/api/health"
)

// Paths that must not trigger the refresh-and-retry cycle.
var noRefresh = map[string]bool{
	pathLogin:    true,
	pathRegister: true,
	pathGoogle:   true,
	pathRefresh:  true,
	pathLogout:   true,
}

// sessionJar is a cookie jar the client can wipe on logout.
type sessionJar interface {
	http.CookieJar
	Clear(ctx context.Context) error
}

type HTTPClient struct {
	base *url.URL
	http *http.Client
	jar  http.CookieJar
}

// NewHTTPClient builds a client for the API at baseURL. A nil jar gets an
// in-memory cookie jar.
func NewHTTPClient(baseURL string, jar http.CookieJar, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}
	if jar == nil {
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
	}
	return &HTTPClient{
		base: u,
		http: &http.Client{Jar: jar, Timeout: timeout},
		jar:  jar,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, pathHealth, nil, nil, "health check failed")
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, pathAuth, nil, &u, "failed to load user"); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, pathLogin, body, nil, "login failed")
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, pathRegister, body, nil, "registration failed")
}

func (c *HTTPClient) ExchangeIdentityToken(ctx context.Context, idToken string) error {
	body := map[string]string{"token": idToken}
	return c.do(ctx, http.MethodPost, pathGoogle, body, nil, "google sign-in failed")
}

// Logout asks the server to revoke the session and then forgets the local
// cookies whatever the outcome.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, pathLogout, nil, nil, "logout failed")
	if j, ok := c.jar.(sessionJar); ok {
		err = errors.Join(err, j.Clear(ctx))
	}
	return err
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, name, email string) error {
	body := map[string]string{"name": name, "email": email}
	return c.do(ctx, http.MethodPatch, pathUpdate, body, nil, "profile update failed")
}

func (c *HTTPClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{"password": currentPassword, "newPassword": newPassword}
	return c.do(ctx, http.MethodPatch, pathPassword, body, nil, "password change failed")
}

func (c *HTTPClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := c.do(ctx, http.MethodGet, pathTransactions, nil, &out, "failed to load transactions"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Transaction{}
	}
	return out, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error) {
	var created models.Transaction
	if err := c.do(ctx, http.MethodPost, pathTransactions, tx, &created, "failed to create transaction"); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction sends the full editable field set; the server answers
// with an acknowledgement only.
func (c *HTTPClient) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	return c.do(ctx, http.MethodPatch, transactionPath(tx.ID), tx.Fields(), nil, "failed to update transaction")
}

func (c *HTTPClient) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, transactionPath(id), nil, nil, "failed to delete transaction")
}

// ExportTransactions returns a time-limited download URL for a CSV export.
func (c *HTTPClient) ExportTransactions(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, pathExport, nil, &out, "export failed"); err != nil {
		return "", err
	}
	return out.URL, nil
}

func transactionPath(id string) string {
	return pathTransactions + "/" + url.PathEscape(id)
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && !noRefresh[path] && c.refresh(ctx) == nil {
		drain(resp)
		if resp, err = c.send(ctx, method, path, payload); err != nil {
			return err
		}
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, fallback)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, fallback)
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodPost, pathRefresh, nil)
	if err != nil {
		return err
	}
	defer drain(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, "session refresh failed")
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response, fallback string) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
	var b errorBody
	if err := json.NewDecoder(resp.Body).Decode(&b); err == nil {
		switch {
		case b.Message != "":
			apiErr.Message = b.Message
		case b.Error != "":
			apiErr.Message = b.Error
		}
	}
	return apiErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
