package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/supra/core/response"
	"github.com/tailored-agentic-units/supra/engine"
)

// Client calls a remote session service.
type Client struct {
	start *connect.Client[StartRequest, StartResponse]
	chat  *connect.Client[ChatRequest, response.Response]
	state *connect.Client[SessionRequest, engine.Snapshot]
	close *connect.Client[SessionRequest, CloseResponse]
}

// NewClient creates a Client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &Client{
		start: connect.NewClient[StartRequest, StartResponse](httpClient, baseURL+StartProcedure, opts...),
		chat:  connect.NewClient[ChatRequest, response.Response](httpClient, baseURL+ChatProcedure, opts...),
		state: connect.NewClient[SessionRequest, engine.Snapshot](httpClient, baseURL+StateProcedure, opts...),
		close: connect.NewClient[SessionRequest, CloseResponse](httpClient, baseURL+CloseProcedure, opts...),
	}
}

func (c *Client) Start(ctx context.Context, preferences string) (*StartResponse, error) {
	res, err := c.start.CallUnary(ctx, connect.NewRequest(&StartRequest{Preferences: preferences}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*response.Response, error) {
	res, err := c.chat.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) State(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	res, err := c.state.CallUnary(ctx, connect.NewRequest(&SessionRequest{SessionID: sessionID}))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func (c *Client) Close(ctx context.Context, sessionID string) error {
	_, err := c.close.CallUnary(ctx, connect.NewRequest(&SessionRequest{SessionID: sessionID}))
	return err
}
