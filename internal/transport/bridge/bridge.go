// Package bridge implements transport.Chat over a websocket link to the
// browser-automation bridge that drives the actual chat surface. The
// bridge owns selectors, typing, and uploads; this client only speaks a
// small JSON command protocol.
package bridge

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/hack2infi/mindmate/backend/internal/model/feed"
	"github.com/hack2infi/mindmate/backend/internal/transport"
)

// Error codes the bridge reports for failed operations.
const (
	codeElementNotFound = "element_not_found"
)

// DefaultFetchWindow is how many trailing messages a fetch requests when
// the caller does not override it.
const DefaultFetchWindow = 5

// Config tunes the bridge connection.
type Config struct {
	URL            string
	FetchWindow    int           // how many trailing messages to request
	RequestTimeout time.Duration // bounded wait per operation
	DialAttempts   int
	DialRetryDelay time.Duration
}

// DefaultConfig mirrors the production bridge settings: a window of the
// last 5 messages and a 20 s bounded wait per operation.
func DefaultConfig(url string) Config {
	return Config{
		URL:            url,
		FetchWindow:    DefaultFetchWindow,
		RequestTimeout: 20 * time.Second,
		DialAttempts:   3,
		DialRetryDelay: 2 * time.Second,
	}
}

type request struct {
	ID        string `json:"id"`
	Op        string `json:"op"`
	Text      string `json:"text,omitempty"`
	MediaPath string `json:"mediaPath,omitempty"`
	Window    int    `json:"window,omitempty"`
}

type wireMessage struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type response struct {
	ID       string        `json:"id"`
	OK       bool          `json:"ok"`
	Code     string        `json:"code,omitempty"`
	Error    string        `json:"error,omitempty"`
	Marker   string        `json:"marker,omitempty"`
	Messages []wireMessage `json:"messages,omitempty"`
}

// Client is a single-connection bridge client. One request is in flight at
// a time; the mutex serializes callers.
type Client struct {
	cfg Config

	mu   sync.Mutex
	conn *websocket.Conn
}

// New creates a client. The connection is established lazily on first use.
func New(cfg Config) *Client {
	if cfg.FetchWindow <= 0 {
		cfg.FetchWindow = DefaultFetchWindow
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 20 * time.Second
	}
	if cfg.DialAttempts <= 0 {
		cfg.DialAttempts = 3
	}
	return &Client{cfg: cfg}
}

// FetchRecentMessages implements transport.Chat.
func (c *Client) FetchRecentMessages(ctx context.Context) ([]feed.Message, error) {
	resp, err := c.roundTrip(ctx, request{Op: "fetch", Window: c.cfg.FetchWindow})
	if err != nil {
		return nil, err
	}

	msgs := make([]feed.Message, 0, len(resp.Messages))
	for _, wm := range resp.Messages {
		speaker := feed.Other
		if wm.Speaker == string(feed.Self) {
			speaker = feed.Self
		}
		msgs = append(msgs, feed.New(uuid.NewString(), speaker, wm.Text))
	}
	return msgs, nil
}

// SendMessage implements transport.Chat.
func (c *Client) SendMessage(ctx context.Context, text, mediaPath string) error {
	_, err := c.roundTrip(ctx, request{Op: "send", Text: text, MediaPath: mediaPath})
	return err
}

// LastActivityMarker implements transport.Chat.
func (c *Client) LastActivityMarker(ctx context.Context) (string, error) {
	resp, err := c.roundTrip(ctx, request{Op: "marker"})
	if err != nil {
		return "", err
	}
	return resp.Marker, nil
}

// Close tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) roundTrip(ctx context.Context, req request) (*response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	req.ID = uuid.NewString()
	deadline := time.Now().Add(c.cfg.RequestTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(req); err != nil {
		c.drop()
		return nil, fmt.Errorf("%w: write: %v", transport.ErrBridgeClosed, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	var resp response
	if err := c.conn.ReadJSON(&resp); err != nil {
		c.drop()
		return nil, fmt.Errorf("%w: read: %v", transport.ErrBridgeClosed, err)
	}

	if !resp.OK {
		if resp.Code == codeElementNotFound {
			return nil, fmt.Errorf("%w: %s", transport.ErrSurfaceUnavailable, resp.Error)
		}
		return nil, fmt.Errorf("bridge %s failed: %s", req.Op, resp.Error)
	}
	return &resp, nil
}

// ensureConnected dials with bounded retries. Callers hold the mutex.
func (c *Client) ensureConnected(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.DialAttempts; attempt++ {
		dialCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
		conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.cfg.URL, nil)
		cancel()
		if err == nil {
			c.conn = conn
			return nil
		}
		lastErr = err
		log.Printf("[bridge] dial attempt %d/%d failed: %v", attempt, c.cfg.DialAttempts, err)
		if attempt < c.cfg.DialAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.cfg.DialRetryDelay):
			}
		}
	}
	return fmt.Errorf("%w: dial: %v", transport.ErrBridgeClosed, lastErr)
}

func (c *Client) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}
