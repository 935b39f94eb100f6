// Package rates fetches foreign-exchange reference rates from the
// Frankfurter API (ECB data). Failures are soft: the converter flow shows a
// retry message and never takes the dialog down with it.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// Result is one completed conversion.
type Result struct {
	Amount    float64
	From      string
	To        string
	Converted float64
	Rate      float64
	Date      string
}

// Client talks to a Frankfurter-compatible endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client for baseURL, e.g. "https://api.frankfurter.app".
// The timeout lives on the injected http.Client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// Convert converts amount from one currency to another at the latest
// reference rate. Codes are upper-cased before the call.
func (c *Client) Convert(ctx context.Context, amount float64, from, to string) (*Result, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	q := url.Values{}
	q.Set("amount", fmt.Sprintf("%g", amount))
	q.Set("from", from)
	q.Set("to", to)
	endpoint := c.baseURL + "/latest?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("rates: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("from", from).Str("to", to).Msg("rates request failed")
		return nil, fmt.Errorf("rates: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("from", from).Str("to", to).Msg("rates request rejected")
		return nil, fmt.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("rates: decode response: %w", err)
	}

	converted, ok := body.Rates[to]
	if !ok {
		return nil, fmt.Errorf("rates: no rate for %s in response", to)
	}

	r := &Result{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: converted,
		Date:      body.Date,
	}
	if amount > 0 {
		r.Rate = converted / amount
	}
	return r, nil
}
