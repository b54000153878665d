package embedded

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.powerembedded.com.br/api"

// requestTimeout bounds every remote call; a timed-out call is reported as a
// connection failure, never retried.
const requestTimeout = 10 * time.Second

// Client abstracts the embedded-analytics user-management API for dependency
// injection and testing.
type Client interface {
	CreateUser(ctx context.Context, user User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user User) error
	DeleteUserByEmail(ctx context.Context, email string) error
	SetPassword(ctx context.Context, email, password string) error
}

// APIError is an HTTP-level failure reported by the remote API. Connection
// failures (timeout, DNS, refused) are plain wrapped errors, not APIErrors.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("user API error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an HTTP 404 from the remote API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an HTTP 401 from the remote API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is an HTTP 403 from the remote API.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsBadRequest reports whether err is an HTTP 400 from the remote API.
func IsBadRequest(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

// HTTPClient is the real API client. Authentication is a static API key
// header; all payloads are JSON.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// doRequest performs one authenticated call and returns the response body.
// Non-2xx responses become *APIError with the body's message extracted.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connection to user API failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    extractErrorMessage(respBody),
		}
	}

	return respBody, nil
}

// extractErrorMessage digs a human-readable detail out of an error body,
// falling back to the raw text.
func extractErrorMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Message != "" {
			return errResp.Message
		}
		if errResp.Errors != nil {
			if detail, err := json.Marshal(errResp.Errors); err == nil {
				return string(detail)
			}
		}
	}
	return string(body)
}

func (c *HTTPClient) CreateUser(ctx context.Context, user User) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/user", user)
	return err
}

// FindUserByEmail looks a user up through the filtered list endpoint. The
// create endpoint does not reliably echo the new account's id, so creation is
// always followed by this call. Returns (nil, nil) when no account matches.
func (c *HTTPClient) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	respBody, err := c.doRequest(ctx, http.MethodGet, "/user?email="+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}

	var listResp userListResponse
	if err := json.Unmarshal(respBody, &listResp); err != nil {
		return nil, fmt.Errorf("failed to parse user list response: %w", err)
	}

	if len(listResp.Data) == 0 {
		return nil, nil
	}
	return &listResp.Data[0], nil
}

// UpdateUser updates an existing account. The payload must carry the remote id.
func (c *HTTPClient) UpdateUser(ctx context.Context, user User) error {
	_, err := c.doRequest(ctx, http.MethodPut, "/user", user)
	return err
}

// DeleteUserByEmail removes an account. The deletion endpoint is keyed by
// email, not by id. A 404 means the desired end state already holds and is
// treated as success.
func (c *HTTPClient) DeleteUserByEmail(ctx context.Context, email string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/user/"+url.PathEscape(email), nil)
	if IsNotFound(err) {
		return nil
	}
	return err
}

func (c *HTTPClient) SetPassword(ctx context.Context, email, password string) error {
	path := "/user/" + url.PathEscape(email) + "/password"
	_, err := c.doRequest(ctx, http.MethodPost, path, setPasswordRequest{Password: password})
	return err
}
