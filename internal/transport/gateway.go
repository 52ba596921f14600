package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Gateway talks to a chat-gateway REST service that fronts the actual
// chat platform. The gateway owns rate limiting and platform sessions;
// this client only shuttles JSON.
type Gateway struct {
	client *resty.Client
}

// NewGateway creates a Gateway client for the given base URL. The token
// is sent as a bearer credential on every request.
func NewGateway(baseURL, token string) *Gateway {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(token).
		SetTimeout(30 * time.Second)

	return &Gateway{client: c}
}

type createThreadRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createThreadResponse struct {
	ThreadID  string `json:"thread_id"`
	MessageID string `json:"message_id"`
}

type messageRequest struct {
	Content string `json:"content"`
}

// ResolveChannel checks that the channel exists and the bot can post to it.
func (g *Gateway) ResolveChannel(ctx context.Context, channelID string) error {
	resp, err := g.request(ctx).Get(fmt.Sprintf("/channels/%s", channelID))
	if err != nil {
		return fmt.Errorf("resolving channel %s: %w", channelID, err)
	}
	return g.checkStatus(resp, fmt.Sprintf("channel %s", channelID))
}

// CreateThread starts a forum thread under parentID.
func (g *Gateway) CreateThread(
	ctx context.Context,
	parentID, title, content string,
) (ThreadRef, error) {
	var out createThreadResponse
	resp, err := g.request(ctx).
		SetBody(createThreadRequest{Title: title, Content: content}).
		SetResult(&out).
		Post(fmt.Sprintf("/channels/%s/threads", parentID))
	if err != nil {
		return ThreadRef{}, fmt.Errorf("creating thread under %s: %w", parentID, err)
	}
	if err := g.checkStatus(resp, fmt.Sprintf("channel %s", parentID)); err != nil {
		return ThreadRef{}, err
	}
	return ThreadRef{ThreadID: out.ThreadID, MessageID: out.MessageID}, nil
}

// FetchMessage verifies a message still exists inside a thread.
func (g *Gateway) FetchMessage(ctx context.Context, threadID, messageID string) error {
	resp, err := g.request(ctx).
		Get(fmt.Sprintf("/channels/%s/messages/%s", threadID, messageID))
	if err != nil {
		return fmt.Errorf("fetching message %s/%s: %w", threadID, messageID, err)
	}
	return g.checkStatus(resp, fmt.Sprintf("message %s/%s", threadID, messageID))
}

// EditMessage replaces the content of an existing message.
func (g *Gateway) EditMessage(ctx context.Context, threadID, messageID, content string) error {
	resp, err := g.request(ctx).
		SetBody(messageRequest{Content: content}).
		Patch(fmt.Sprintf("/channels/%s/messages/%s", threadID, messageID))
	if err != nil {
		return fmt.Errorf("editing message %s/%s: %w", threadID, messageID, err)
	}
	return g.checkStatus(resp, fmt.Sprintf("message %s/%s", threadID, messageID))
}

// Send posts a new message to a channel or thread.
func (g *Gateway) Send(ctx context.Context, channelID, content string) error {
	resp, err := g.request(ctx).
		SetBody(messageRequest{Content: content}).
		Post(fmt.Sprintf("/channels/%s/messages", channelID))
	if err != nil {
		return fmt.Errorf("sending to %s: %w", channelID, err)
	}
	return g.checkStatus(resp, fmt.Sprintf("channel %s", channelID))
}

// request starts a request carrying the context and a correlation id the
// gateway echoes into its logs.
func (g *Gateway) request(ctx context.Context) *resty.Request {
	return g.client.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", uuid.New().String())
}

// checkStatus maps gateway response codes onto the transport error model.
func (g *Gateway) checkStatus(resp *resty.Response, what string) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case resp.IsError():
		return fmt.Errorf("%s: gateway status %d: %s", what, resp.StatusCode(), resp.String())
	}
	return nil
}
