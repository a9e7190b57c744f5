// Package mailer delivers login codes to the admin through an HTTP mail
// gateway. With Skip set the client logs the code to the operator instead of
// sending anything, which is the development stand-in for real delivery.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client posts messages to the mail gateway.
type Client struct {
	BaseURL string
	From    string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client.
func New(baseURL, from string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		From:    from,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendLoginCode mails the one-time code to the admin address.
func (c *Client) SendLoginCode(ctx context.Context, email, code string) error {
	if c.Skip {
		log.Printf("mail skipped: login code %s for %s", code, email)
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"from":    c.From,
		"to":      email,
		"subject": "Your result portal login code",
		"text":    fmt.Sprintf("Your one-time login code is %s. It expires in 5 minutes.", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/send", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail gateway returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
