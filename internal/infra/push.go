package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushMessage is a notification fanned out to a set of device tokens.
type PushMessage struct {
	Tokens []string          `json:"registration_ids"`
	Title  string            `json:"-"`
	Body   string            `json:"-"`
	Data   map[string]string `json:"data,omitempty"`
}

// PushResult summarizes one multicast send. InvalidTokens lists device
// registrations the push service no longer recognizes; the caller
// deactivates them so we stop sending into the void.
type PushResult struct {
	Sent          int
	Failed        int
	InvalidTokens []string
}

// fcmRequest / fcmResponse mirror the FCM legacy HTTP wire format.
type fcmRequest struct {
	RegistrationIDs []string          `json:"registration_ids"`
	Notification    fcmNotification   `json:"notification"`
	Data            map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

// PushClient talks to the FCM HTTP endpoint. Push delivery is best-effort
// infrastructure: callers log failures and move on, nothing upstream blocks
// on it.
type PushClient struct {
	endpoint   string
	serverKey  string
	httpClient *http.Client
}

func NewPushClient(endpoint, serverKey string) *PushClient {
	return &PushClient{
		endpoint:   endpoint,
		serverKey:  serverKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send multicasts msg to all tokens in one request.
func (c *PushClient) Send(ctx context.Context, msg PushMessage) (*PushResult, error) {
	if len(msg.Tokens) == 0 {
		return &PushResult{}, nil
	}

	body, err := json.Marshal(fcmRequest{
		RegistrationIDs: msg.Tokens,
		Notification:    fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:            msg.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("push: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("push: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("push: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("push: endpoint returned %d", resp.StatusCode)
	}

	var fr fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("push: decode response: %w", err)
	}

	result := &PushResult{Sent: fr.Success, Failed: fr.Failure}
	for i, r := range fr.Results {
		if i >= len(msg.Tokens) {
			break
		}
		// These two mean the token is permanently dead, not a transient fault.
		if r.Error == "NotRegistered" || r.Error == "InvalidRegistration" {
			result.InvalidTokens = append(result.InvalidTokens, msg.Tokens[i])
		}
	}
	return result, nil
}
