package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to a remote store over the contract. The game treats it as
// opaque: save ships the local payload, load returns the remote one, and
// nothing is applied without explicit player intent.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Save uploads a payload and returns the new version stamp.
func (c *Client) Save(ctx context.Context, payload string) (version int, updatedAt time.Time, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/cloud/save", bytes.NewBufferString(payload))
	if err != nil {
		return 0, time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, time.Time{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, time.Time{}, fmt.Errorf("cloud save: status %d", resp.StatusCode)
	}

	var body struct {
		Version   int       `json:"version"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, time.Time{}, err
	}
	return body.Version, body.UpdatedAt, nil
}

// Load fetches the stored payload; ErrNoSave when none exists.
func (c *Client) Load(ctx context.Context) (Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/cloud/load", nil)
	if err != nil {
		return Record{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Record{}, ErrNoSave
	default:
		return Record{}, fmt.Errorf("cloud load: status %d", resp.StatusCode)
	}

	var rec Record
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}
