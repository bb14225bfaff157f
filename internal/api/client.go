// Package api is the single request path between the client and the REST
// backend. Do never fails on an HTTP status; the typed helpers in
// endpoints.go turn non-2xx responses into *StatusError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const Root = "/api"

const (
	LoginPath          = Root + "/auth/login/"
	LogoutPath         = Root + "/auth/logout/"
	ProfilePath        = Root + "/profiles/me/"
	EventsPath         = Root + "/events/"
	RSVPsPath          = Root + "/rsvps/"
	FriendsPath        = Root + "/friends/"
	FriendRequestsPath = Root + "/friend-requests/"
	ConversationsPath  = Root + "/conversations/"
	MessagesPath       = Root + "/messages/"
	SignupPath         = Root + "/signup/"
	AnnouncementsPath  = Root + "/announcements/"
)

const RequestIDHeader = "X-Request-ID"

type Client struct {
	// BaseURL is prepended to root-relative paths. Empty in the browser,
	// where fetch resolves paths against the page origin.
	BaseURL string
	HTTP    *http.Client
	Log     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTP = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.Log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
		Log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do sends one request. Structured bodies are sent as JSON; strings, byte
// slices, readers and *Form pass through untouched. HTTP error statuses are
// returned as a normal response; only transport failures are errors.
func (c *Client) Do(ctx context.Context, method, path string, body any, header http.Header) (*http.Response, error) {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	applyCredentials(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug("request failed", "method", method, "path", path, "request_id", req.Header.Get(RequestIDHeader), "error", err)
		return nil, err
	}
	c.Log.Debug("request done", "method", method, "path", path, "status", resp.StatusCode, "request_id", req.Header.Get(RequestIDHeader))
	return resp, nil
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case *Form:
		return b.encode()
	case io.Reader:
		return b, "", nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

// Ok reports whether status is 2xx.
func Ok(status int) bool {
	return status >= 200 && status < 300
}
