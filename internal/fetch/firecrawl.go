package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to a Firecrawl-style scrape API: one POST per page,
// returning best-effort rendered markdown for the main content.
// Every failure comes back as an ordinary error; the orchestrator
// records it and moves on to the next platform.
type Client struct {
	BaseURL string
	APIKey  string
	Country string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey, country string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Country: country,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type scrapeRequest struct {
	URL             string         `json:"url"`
	Formats         []string       `json:"formats"`
	OnlyMainContent bool           `json:"onlyMainContent"`
	WaitFor         int            `json:"waitFor"`
	Location        scrapeLocation `json:"location"`
}

type scrapeLocation struct {
	Country   string   `json:"country"`
	Languages []string `json:"languages"`
}

// RemoteError is a failure the fetch service itself reported
// (ok:false or an empty body). Transport and decode problems come
// back as ordinary errors, so the audit trail can tell them apart.
type RemoteError struct{ Msg string }

func (e *RemoteError) Error() string { return "fetch failed: " + e.Msg }

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

// Fetch returns the rendered page text for url, localized to the
// configured country so pricing and availability match the region.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	body, err := json.Marshal(scrapeRequest{
		URL:             pageURL,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
		WaitFor:         3000,
		Location:        scrapeLocation{Country: c.Country, Languages: []string{"en"}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch service unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("fetch service read: %w", err)
	}

	var out scrapeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("fetch service bad response (status %d)", resp.StatusCode)
	}
	if !out.Success || out.Data.Markdown == "" {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("empty content (status %d)", resp.StatusCode)
		}
		return "", &RemoteError{Msg: msg}
	}
	return out.Data.Markdown, nil
}
