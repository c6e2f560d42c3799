package rbm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

var ErrBreakerOpen = fmt.Errorf("rbm api circuit open")

// Client sends messages through the Business Messages API on behalf of one
// agent, authenticating with an OAuth bearer token.
type Client struct {
	endpoint string // e.g. https://businessmessages.googleapis.com/v1
	agentID  string
	http     *http.Client
	tokens   oauth2.TokenSource
	br       *MicroBreaker
}

func NewClient(endpoint, agentID string, tokens oauth2.TokenSource, timeoutMs, failThreshold, openForMs int) *Client {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		agentID:  agentID,
		http:     &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond},
		tokens:   tokens,
		br:       NewMicroBreaker(failThreshold, time.Duration(openForMs)*time.Millisecond),
	}
}

type sendRequest struct {
	MessageID      string         `json:"messageId"`
	ContentMessage contentMessage `json:"contentMessage"`
	PhoneNumber    string         `json:"phoneNumber"`
}

type contentMessage struct {
	Text textContent `json:"text"`
}

type textContent struct {
	Text string `json:"text"`
}

// SendText delivers a text message to recipient, tagged with transactionID
// so later receipts can be correlated. It returns the decoded API response
// and a short human-readable outcome.
func (c *Client) SendText(ctx context.Context, recipient, text, transactionID string) (map[string]any, string, error) {
	if !c.br.TryAcquire() {
		return nil, "send API temporarily unavailable (circuit open)", ErrBreakerOpen
	}

	resp, human, err := c.send(ctx, recipient, text, transactionID)
	if err != nil {
		c.br.OnFailure()
		return resp, human, err
	}
	c.br.OnSuccess()
	return resp, human, nil
}

func (c *Client) send(ctx context.Context, recipient, text, transactionID string) (map[string]any, string, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, "could not obtain access token", fmt.Errorf("token source: %w", err)
	}

	body, err := json.Marshal(sendRequest{
		MessageID:      transactionID,
		ContentMessage: contentMessage{Text: textContent{Text: text}},
		PhoneNumber:    recipient,
	})
	if err != nil {
		return nil, "could not encode request", err
	}

	url := fmt.Sprintf("%s/agents/%s/messages:send", c.endpoint, c.agentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, "could not build request", err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, "connection error", err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)

	if res.StatusCode/100 != 2 {
		return decoded, fmt.Sprintf("API error: %d", res.StatusCode),
			fmt.Errorf("rbm send status=%d body=%s", res.StatusCode, raw)
	}
	return decoded, "message sent", nil
}
