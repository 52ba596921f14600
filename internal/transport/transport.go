// Package transport abstracts the chat platform the bot mirrors cases
// and delivers notifications to.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a channel, thread, or message does not
// exist on the platform (or was deleted out from under us).
var ErrNotFound = errors.New("transport: not found")

// ThreadRef identifies a created forum thread and its starter message.
type ThreadRef struct {
	ThreadID  string
	MessageID string
}

// Transport is the narrow messaging capability the core depends on.
// Implementations are expected to map platform-level "missing" responses
// to ErrNotFound so callers can treat disappearance as a normal case.
type Transport interface {
	// ResolveChannel checks that a channel or thread exists and is
	// reachable. Returns ErrNotFound when it is not.
	ResolveChannel(ctx context.Context, channelID string) error

	// CreateThread starts a forum thread under parentID with the given
	// title and starter content, returning both new ids.
	CreateThread(ctx context.Context, parentID, title, content string) (ThreadRef, error)

	// FetchMessage verifies a message still exists inside a thread.
	FetchMessage(ctx context.Context, threadID, messageID string) error

	// EditMessage replaces the content of an existing message.
	EditMessage(ctx context.Context, threadID, messageID, content string) error

	// Send posts a new message to a channel or thread.
	Send(ctx context.Context, channelID, content string) error
}

// Mention renders a platform user reference that the transport turns
// into a pinging mention on delivery.
func Mention(userID string) string {
	return fmt.Sprintf("<@%s>", userID)
}
