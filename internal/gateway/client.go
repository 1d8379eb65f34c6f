// Package gateway is the HTTP client for the remote user store. It is the
// only system boundary: list, get-by-id, create, update, delete, JSON both
// ways, one base URL. Calls carry the session cookie the store hands out, so
// cross-origin deployments keep session continuity.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aura-directory/console/internal/models"
)

// Client performs the five remote operations against one base URL.
// No timeout or retry wraps the calls; a failed attempt surfaces immediately.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a gateway client. The cookie jar keeps the store's
// session cookie across calls.
func NewClient(baseURL string, logger *zap.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		logger:  logger,
	}, nil
}

// List fetches the user collection. The response shape varies across
// deployments, so the raw body is returned for the normalizer to interpret.
func (c *Client) List(ctx context.Context, params map[string]string) ([]byte, error) {
	endpoint := c.baseURL + "/users"
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		endpoint += "?" + q.Encode()
	}
	return c.do(ctx, "list", http.MethodGet, endpoint, nil)
}

// GetByID fetches a single record. The body may be a bare record or a
// single-record envelope; the caller unwraps it.
func (c *Client) GetByID(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, "get", http.MethodGet, c.baseURL+"/users/"+url.PathEscape(id), nil)
}

// Create stores a new user from a draft carrying no identity and returns the
// created record.
func (c *Client) Create(ctx context.Context, draft models.User) (models.User, error) {
	draft.ID = ""
	body, err := c.do(ctx, "create", http.MethodPost, c.baseURL+"/users", draft)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser("create", body)
}

// Update replaces the full record identified by user.ID and returns the
// updated record.
func (c *Client) Update(ctx context.Context, user models.User) (models.User, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(user.ID)
	body, err := c.do(ctx, "update", http.MethodPut, endpoint, user)
	if err != nil {
		return models.User{}, err
	}
	return decodeUser("update", body)
}

// Delete removes the record. The confirmation body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, c.baseURL+"/users/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: encode payload: %w", op, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("gateway call failed",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, &Fault{Op: op, Message: genericFaultMessage}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Fault{Op: op, Message: genericFaultMessage}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f := newFault(op, resp.StatusCode, body)
		c.logger.Warn("gateway fault",
			zap.String("op", op),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", f.Message))
		return nil, f
	}

	c.logger.Debug("gateway call",
		zap.String("op", op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode))
	return body, nil
}

// decodeUser parses a single record, tolerating a data/user envelope around it.
func decodeUser(op string, body []byte) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(body, &u); err == nil && (u.ID != "" || u.Username != "") {
		return u, nil
	}
	var env struct {
		Data *models.User `json:"data"`
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Data != nil {
			return *env.Data, nil
		}
		if env.User != nil {
			return *env.User, nil
		}
	}
	return models.User{}, fmt.Errorf("%s: decode response: unrecognized record shape", op)
}
