// Package rates looks up the official exchange rate and keeps the last
// known quote as a fallback.
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// Quote is a buy and sell rate, in local units per foreign unit.
type Quote struct {
	Buy       decimal.Decimal `json:"compra"`
	Sell      decimal.Decimal `json:"venta"`
	UpdatedAt time.Time       `json:"fechaActualizacion"`
}

// Fetcher retrieves the current quote.
type Fetcher interface {
	Fetch(ctx context.Context) (Quote, error)
}

// Paths are the JSONPath expressions locating each field of a quote in the
// provider's response.
type Paths struct {
	Buy     string
	Sell    string
	Updated string
}

// DefaultURL is the official rate of dolarapi.com.
const DefaultURL = "https://dolarapi.com/v1/dolares/oficial"

var DefaultPaths = Paths{
	Buy:     "$.compra",
	Sell:    "$.venta",
	Updated: "$.fechaActualizacion",
}

// ErrInvalidQuote is returned when the response does not hold usable rates.
var ErrInvalidQuote = errors.New("invalid quote")

const maxBody = 1 << 20

// Client reads quotes over HTTP.
type Client struct {
	url   string
	http  *http.Client
	paths Paths
}

// NewClient returns a client for url. Each request is bounded by timeout.
func NewClient(url string, timeout time.Duration, paths Paths) *Client {
	return &Client{
		url:   url,
		http:  &http.Client{Timeout: timeout},
		paths: paths,
	}
}

// Fetch implements Fetcher.
func (c *Client) Fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Quote{}, fmt.Errorf("GET %s/%s: %s", resp.Request.URL.Host, strings.TrimPrefix(resp.Request.URL.Path, "/"), resp.Status)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxBody))
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return Quote{}, fmt.Errorf("decode response: %w", err)
	}
	return c.parse(jobj)
}

func (c *Client) parse(jobj any) (Quote, error) {
	buy, err := decimalAt(c.paths.Buy, jobj)
	if err != nil {
		return Quote{}, err
	}
	sell, err := decimalAt(c.paths.Sell, jobj)
	if err != nil {
		return Quote{}, err
	}
	if !buy.IsPositive() || !sell.IsPositive() {
		return Quote{}, fmt.Errorf("%w: buy %s, sell %s", ErrInvalidQuote, buy, sell)
	}

	q := Quote{Buy: buy, Sell: sell}
	// the update time is informative, a provider may not send it
	if t, err := timeAt(c.paths.Updated, jobj); err == nil {
		q.UpdatedAt = t
	}
	return q, nil
}

// valueAt evaluates path and keeps the first answer when jsonpath returns a
// list.
func valueAt(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidQuote, path, err)
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("%w: %s: no match", ErrInvalidQuote, path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

func decimalAt(path string, jobj any) (decimal.Decimal, error) {
	jval, err := valueAt(path, jobj)
	if err != nil {
		return decimal.Zero, err
	}
	var s string
	switch v := jval.(type) {
	case json.Number:
		s = v.String()
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		// some providers send "1.234,50"
		s = strings.ReplaceAll(strings.TrimSpace(v), " ", "")
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	default:
		return decimal.Zero, fmt.Errorf("%w: %s: not a number: %v", ErrInvalidQuote, path, jval)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrInvalidQuote, path, err)
	}
	return d, nil
}

func timeAt(path string, jobj any) (time.Time, error) {
	jval, err := valueAt(path, jobj)
	if err != nil {
		return time.Time{}, err
	}
	s, ok := jval.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s: not a timestamp: %v", ErrInvalidQuote, path, jval)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidQuote, path, err)
	}
	return t.UTC(), nil
}
