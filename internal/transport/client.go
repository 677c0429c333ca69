package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/RajeshRk18/stealthsnark/internal/wire"
)

// Client is the trusted-client side of the protocol's HTTP transport: it
// sends a setup call once per session, then any number of prove calls.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a Client pointed at baseURL (e.g. "http://localhost:3000").
func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// SendSetup registers a session's generator bases with the server.
func (c *Client) SendSetup(ctx context.Context, sessionID string, req *wire.SetupRequest) error {
	payload, err := wire.EncodeSetupRequest(req)
	if err != nil {
		return fmt.Errorf("transport: encoding setup request: %w", err)
	}
	_, err = c.post(ctx, "/setup", sessionID, payload)
	return err
}

// SendProve submits a masked-vector prove request and returns the decoded response.
func (c *Client) SendProve(ctx context.Context, sessionID string, req *wire.ProveRequest) (*wire.ProveResponse, error) {
	payload, err := wire.EncodeProveRequest(req)
	if err != nil {
		return nil, fmt.Errorf("transport: encoding prove request: %w", err)
	}

	body, err := c.post(ctx, "/prove", sessionID, payload)
	if err != nil {
		return nil, err
	}

	var resp wire.ProveResponse
	if err := wire.DecodeProveResponse(body, &resp); err != nil {
		return nil, fmt.Errorf("transport: decoding prove response: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path, sessionID string, requestPayload []byte) ([]byte, error) {
	env := &wire.Envelope{SessionID: sessionID, Request: requestPayload}
	envelope, err := wire.EncodeEnvelope(env)
	if err != nil {
		return nil, fmt.Errorf("transport: encoding envelope: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("transport: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transport: sending request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transport: %s returned %d: %s", path, resp.StatusCode, string(body))
	}
	return body, nil
}
