// Package loadtest drives the HTTP API from the benchmark tools.
package loadtest

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"example.com/golfbuddy/internal/models"
)

const benchPassword = "bench-password"

// Session is a logged-in benchmark user.
type Session struct {
	UserID int64
	Email  string
	Token  string
}

type Client struct {
	Base string
	HTTP *http.Client
}

// NewClient returns a client for base. When certFile and keyFile are set the
// client presents them for mutual TLS.
func NewClient(base, certFile, keyFile string) (*Client, error) {
	transport := &http.Transport{MaxIdleConnsPerHost: 256}
	if certFile != "" && keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load cert/key: %w", err)
		}
		transport.TLSClientConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}
	return &Client{
		Base: base,
		HTTP: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}, nil
}

// Do sends body as JSON and returns the status code and the raw response.
func (c *Client) Do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, err
}

func (c *Client) expectOK(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	code, raw, err := c.Do(ctx, method, path, token, body)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, code, bytes.TrimSpace(raw))
	}
	return raw, nil
}

// Signup registers a fresh user and logs it in.
func (c *Client) Signup(ctx context.Context, name string) (Session, error) {
	email := name + "@bench.local"
	user := map[string]any{
		"name":      name,
		"email":     email,
		"gender":    "Not certain",
		"birthdate": "1990-01-01",
		"hcp":       "18.0",
		"password":  benchPassword,
	}
	if _, err := c.expectOK(ctx, http.MethodPost, "/user", "", user); err != nil {
		return Session{}, err
	}

	raw, err := c.expectOK(ctx, http.MethodPost, "/user/login", "",
		map[string]string{"email": email, "password": benchPassword})
	if err != nil {
		return Session{}, err
	}
	var res struct {
		Token string `json:"token"`
		ID    int64  `json:"id"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return Session{}, fmt.Errorf("failed to decode login response: %w", err)
	}
	return Session{UserID: res.ID, Email: email, Token: res.Token}, nil
}

func userPath(id int64) string {
	return "/user/" + strconv.FormatInt(id, 10)
}

// Post publishes text as s and returns the status code.
func (c *Client) Post(ctx context.Context, s Session, text string) (int, error) {
	code, _, err := c.Do(ctx, http.MethodPost, userPath(s.UserID)+"/post", s.Token,
		map[string]string{"text": text})
	return code, err
}

func (c *Client) Follow(ctx context.Context, s Session, target int64) error {
	_, err := c.expectOK(ctx, http.MethodPost, userPath(s.UserID)+"/following", s.Token,
		map[string]int64{"user_id": target})
	return err
}

// Notifications returns the newest notifications of s.
func (c *Client) Notifications(ctx context.Context, s Session, limit int) ([]models.Notification, error) {
	raw, err := c.expectOK(ctx, http.MethodGet,
		userPath(s.UserID)+"/notifications?limit="+strconv.Itoa(limit), s.Token, nil)
	if err != nil {
		return nil, err
	}
	var out []models.Notification
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return out, nil
}
