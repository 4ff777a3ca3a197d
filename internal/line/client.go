// Package line is a client for the LINE Messaging API surface this service
// uses: webhook payload parsing, signature validation, content download,
// profile lookup, and reply/push delivery.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultAPIBaseURL  = "https://api.line.me"
	defaultDataBaseURL = "https://api-data.line.me"

	errorBodyLimit = 4 << 10
)

// Profile is the subset of a user profile the pipeline consumes.
type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// APIError is a non-2xx response from the Messaging API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("line api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("line api: status %d: %s", e.StatusCode, e.Message)
}

// Client calls the Messaging API. Message content lives on a separate data
// host, hence the second base URL.
type Client struct {
	baseURL     string
	dataBaseURL string
	accessToken string
	httpClient  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithDataBaseURL overrides the content-download host.
func WithDataBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.dataBaseURL = u
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Messaging API client authenticated by the channel
// access token.
func NewClient(accessToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultAPIBaseURL,
		dataBaseURL: defaultDataBaseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMessageContent streams the raw bytes of a message attachment. The caller
// owns the returned body and must close it.
func (c *Client) GetMessageContent(ctx context.Context, messageID string) (io.ReadCloser, error) {
	u := c.dataBaseURL + "/v2/bot/message/" + url.PathEscape(messageID) + "/content"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build content request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get message content: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, c.apiError(resp)
	}
	return resp.Body, nil
}

// GetProfile fetches a user's profile; its display name seeds participant
// resolution.
func (c *Client) GetProfile(ctx context.Context, userID string) (Profile, error) {
	u := c.baseURL + "/v2/bot/profile/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("build profile request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Profile{}, c.apiError(resp)
	}
	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}

type replyRequest struct {
	ReplyToken string    `json:"replyToken"`
	Messages   []Message `json:"messages"`
}

type pushRequest struct {
	To       string    `json:"to"`
	Messages []Message `json:"messages"`
}

// Reply answers an event through its single-use reply token. Valid only for
// a short window after the event arrives.
func (c *Client) Reply(ctx context.Context, replyToken string, messages ...Message) error {
	return c.post(ctx, "/v2/bot/message/reply", replyRequest{ReplyToken: replyToken, Messages: messages})
}

// Push sends messages addressed by user ID. Usable any time, any number of
// times.
func (c *Client) Push(ctx context.Context, to string, messages ...Message) error {
	return c.post(ctx, "/v2/bot/message/push", pushRequest{To: to, Messages: messages})
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return c.apiError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
}

func (c *Client) apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Message != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: parsed.Message}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(data))}
}
