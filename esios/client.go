package esios

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/rs/zerolog"
)

// ErrMissingValues reports a response without an indicator.values array.
var ErrMissingValues = errors.New("esios: response has no indicator.values")

// Query holds the indicator request parameters.
type Query struct {
	Locale    string    `default:"es"`
	Start     time.Time // beginning of the date range
	End       time.Time // end of the date range
	TimeAgg   string    `default:"sum"`         // sum or average
	TimeTrunc string    `default:"ten_minutes"` // ten_minutes, fifteen_minutes, hour, day, month, year
}

// Values encodes q as URL query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("locale", q.Locale)
	v.Set("start_date", q.Start.Format("2006-01-02T15:04:05"))
	v.Set("end_date", q.End.Format("2006-01-02T15:04:05"))
	v.Set("time_agg", q.TimeAgg)
	v.Set("time_trunc", q.TimeTrunc)
	return v
}

// Response is a decoded indicator response. Raw keeps the body verbatim.
type Response struct {
	Raw       json.RawMessage
	Indicator Indicator
}

// Indicator is the part of the response the dashboard consumes.
type Indicator struct {
	ID     int              `json:"id"`
	Name   string           `json:"name"`
	Values []map[string]any `json:"values"`
}

// Client issues indicator requests.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient validates cfg and returns a client for it.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// FetchIndicator requests GET {BaseURL}/indicators/{id}. Unset query fields
// take their defaults.
func (c *Client) FetchIndicator(ctx context.Context, id string, q Query) (*Response, error) {
	if err := defaults.Set(&q); err != nil {
		return nil, fmt.Errorf("esios: query defaults: %w", err)
	}
	if q.Start.IsZero() || q.End.IsZero() {
		return nil, errors.New("esios: query start and end are required")
	}

	u, err := url.Parse(c.cfg.BaseURL + "/indicators/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("esios: invalid url: %w", err)
	}
	u.RawQuery = q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("esios: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json; application/vnd.esios-api-v1+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Token token=%s", c.cfg.Token))

	c.log.Info().Str("url", u.String()).Msg("requesting indicator")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("esios: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("esios: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("esios: API status: %d, Content-Type: %s, body: %s",
			resp.StatusCode, resp.Header.Get("Content-Type"), truncate(body, 512))
	}

	var envelope struct {
		Indicator *struct {
			Indicator
			Values *[]map[string]any `json:"values"`
		} `json:"indicator"`
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("esios: failed to decode response: %w", err)
	}
	if envelope.Indicator == nil || envelope.Indicator.Values == nil {
		return nil, ErrMissingValues
	}

	ind := envelope.Indicator.Indicator
	ind.Values = *envelope.Indicator.Values

	c.log.Info().
		Int("indicator", ind.ID).
		Str("name", ind.Name).
		Int("values", len(ind.Values)).
		Msg("indicator received")

	return &Response{Raw: json.RawMessage(body), Indicator: ind}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
