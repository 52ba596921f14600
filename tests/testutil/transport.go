package testutil

import (
	"context"
	"fmt"

	"github.com/nhle/casebot/internal/transport"
)

// SentMessage records one Send call observed by the fake transport.
type SentMessage struct {
	ChannelID string
	Content   string
}

// Edit records one EditMessage call observed by the fake transport.
type Edit struct {
	ThreadID  string
	MessageID string
	Content   string
}

// FakeTransport is an in-memory Transport for tests. Channels and
// messages must be registered up front; everything else resolves to
// transport.ErrNotFound. The zero value is unusable; use NewFakeTransport.
type FakeTransport struct {
	channels map[string]bool
	messages map[string]bool

	Sent      []SentMessage
	Edits     []Edit
	Created   []transport.ThreadRef
	nextID    int
	EditErr   error
	CallCount int
}

// NewFakeTransport creates a fake with the given channels registered.
func NewFakeTransport(channelIDs ...string) *FakeTransport {
	f := &FakeTransport{
		channels: make(map[string]bool),
		messages: make(map[string]bool),
	}
	for _, id := range channelIDs {
		f.channels[id] = true
	}
	return f
}

// AddMessage registers a message as existing inside a thread.
func (f *FakeTransport) AddMessage(threadID, messageID string) {
	f.messages[threadID+"/"+messageID] = true
}

// RemoveChannel unregisters a channel, simulating external deletion.
func (f *FakeTransport) RemoveChannel(id string) {
	delete(f.channels, id)
}

func (f *FakeTransport) ResolveChannel(ctx context.Context, channelID string) error {
	f.CallCount++
	if !f.channels[channelID] {
		return fmt.Errorf("channel %s: %w", channelID, transport.ErrNotFound)
	}
	return nil
}

func (f *FakeTransport) CreateThread(
	ctx context.Context,
	parentID, title, content string,
) (transport.ThreadRef, error) {
	f.CallCount++
	if !f.channels[parentID] {
		return transport.ThreadRef{}, fmt.Errorf("channel %s: %w", parentID, transport.ErrNotFound)
	}

	f.nextID++
	ref := transport.ThreadRef{
		ThreadID:  fmt.Sprintf("thread-%d", f.nextID),
		MessageID: fmt.Sprintf("msg-%d", f.nextID),
	}
	f.channels[ref.ThreadID] = true
	f.AddMessage(ref.ThreadID, ref.MessageID)
	f.Created = append(f.Created, ref)
	return ref, nil
}

func (f *FakeTransport) FetchMessage(ctx context.Context, threadID, messageID string) error {
	f.CallCount++
	if !f.messages[threadID+"/"+messageID] {
		return fmt.Errorf("message %s/%s: %w", threadID, messageID, transport.ErrNotFound)
	}
	return nil
}

func (f *FakeTransport) EditMessage(ctx context.Context, threadID, messageID, content string) error {
	f.CallCount++
	if f.EditErr != nil {
		return f.EditErr
	}
	if !f.messages[threadID+"/"+messageID] {
		return fmt.Errorf("message %s/%s: %w", threadID, messageID, transport.ErrNotFound)
	}
	f.Edits = append(f.Edits, Edit{ThreadID: threadID, MessageID: messageID, Content: content})
	return nil
}

func (f *FakeTransport) Send(ctx context.Context, channelID, content string) error {
	f.CallCount++
	if !f.channels[channelID] {
		return fmt.Errorf("channel %s: %w", channelID, transport.ErrNotFound)
	}
	f.Sent = append(f.Sent, SentMessage{ChannelID: channelID, Content: content})
	return nil
}
