// Package transport defines the chat-surface collaborator contract. The
// monitor never touches UI selectors or automation details itself; it only
// speaks this interface, and the bridge implementation owns the rest.
package transport

import (
	"context"
	"errors"

	"github.com/hack2infi/mindmate/backend/internal/model/feed"
)

var (
	// ErrSurfaceUnavailable means the bridge could not locate the chat
	// input surface within its bounded wait.
	ErrSurfaceUnavailable = errors.New("chat input surface unavailable")
	// ErrBridgeClosed means the bridge connection is gone.
	ErrBridgeClosed = errors.New("bridge connection closed")
)

// Chat is the chat-surface collaborator.
type Chat interface {
	// FetchRecentMessages returns the most recent window of messages in
	// arrival order.
	FetchRecentMessages(ctx context.Context) ([]feed.Message, error)

	// SendMessage types text into the chat and submits it. A non-empty
	// mediaPath additionally attaches the resource before submitting.
	SendMessage(ctx context.Context, text, mediaPath string) error

	// LastActivityMarker returns an opaque marker that changes whenever new
	// activity appears in the feed. Equality means nothing new happened.
	LastActivityMarker(ctx context.Context) (string, error)
}
