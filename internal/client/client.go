package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the bearer token for each request, so a caller can
// plug in whatever refresh logic it has.
type TokenSource func() (string, error)

// StaticToken wraps a fixed token, mostly for tests and one-shot scripts.
func StaticToken(token string) TokenSource {
	return func() (string, error) { return token, nil }
}

// BookingInput is the payload for a new appointment request.
type BookingInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	DoctorName string `json:"doctorName"`
	Specialist string `json:"specialist"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Symptom    string `json:"symptom"`
}

// Client talks to the appointment API over its legacy /apoint routes.
type Client struct {
	baseURL string
	token   TokenSource
	httpc   *http.Client
}

func New(baseURL string, token TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// successEnvelope is the 200 response body on the /apoint routes.
type successEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// failureEnvelope is the bare legacy error body.
type failureEnvelope struct {
	Error string `json:"error"`
}

// CreateAppointment books an appointment and returns the server's record,
// normalized.
func (c *Client) CreateAppointment(ctx context.Context, in BookingInput) (Record, error) {
	body, err := json.Marshal(in)

	if err != nil {
		return Record{}, err
	}

	data, err := c.do(ctx, http.MethodPost, "/apoint/create", bytes.NewReader(body))

	if err != nil {
		return Record{}, err
	}

	var raw RawRecord

	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("decode appointment: %w", err)
	}

	return Normalize(raw), nil
}

// FetchMine retrieves the caller's appointments, normalized.
func (c *Client) FetchMine(ctx context.Context) ([]Record, error) {
	data, err := c.do(ctx, http.MethodGet, "/apoint/my", nil)

	if err != nil {
		return nil, err
	}

	var raws []RawRecord

	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]Record, 0, len(raws))

	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)

	if err != nil {
		return nil, err
	}

	token, err := c.token()

	if err != nil {
		return nil, fmt.Errorf("token source: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)

	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var fail failureEnvelope

		if err := json.Unmarshal(raw, &fail); err == nil && fail.Error != "" {
			return nil, fmt.Errorf("%s", fail.Error)
		}

		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env successEnvelope

	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		return nil, fmt.Errorf("request did not succeed")
	}

	return env.Data, nil
}
