package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/drcreatives/my-ecoflow-sub000/pkg/common"
)

const DefaultBaseURL = "https://api.resend.com"

type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type Message struct {
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Sender is what the backup job depends on; the concrete Client talks to
// the hosted mail provider.
type Sender interface {
	Send(msg Message) (messageID string, err error)
}

type Client struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

func NewClient(apiKey, baseURL, from string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendPayload struct {
	From string `json:"from"`
	Message
}

type sendResponse struct {
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send posts the message and returns the provider's message id. A
// provider-level error object counts as a failure even on HTTP 200.
func (c *Client) Send(msg Message) (string, error) {
	logger := common.GetLogger().Named(common.LoggerNameMailClient)

	payload, err := json.Marshal(sendPayload{From: c.From, Message: msg})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("mail response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("mail http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("mail response decode failed: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("mail provider error: %s", out.Error.Message)
	}
	if out.Data == nil || out.Data.ID == "" {
		return "", fmt.Errorf("mail provider returned no message id")
	}

	logger.Info("Mail dispatched", zap.String("message_id", out.Data.ID), zap.String("subject", msg.Subject))
	return out.Data.ID, nil
}
