package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultHost = "https://query1.finance.yahoo.com"

// Client fetches quotes from a Yahoo-Finance-compatible endpoint.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = defaultHost
	}
	host = strings.TrimRight(host, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

type quoteEnvelope struct {
	QuoteResponse struct {
		Result []quotePayload `json:"result"`
		Error  any            `json:"error"`
	} `json:"quoteResponse"`
}

type quotePayload struct {
	Symbol                     string   `json:"symbol"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        float64  `json:"regularMarketChange"`
	RegularMarketChangePercent float64  `json:"regularMarketChangePercent"`
	Currency                   string   `json:"currency"`
	LongName                   string   `json:"longName"`
	ShortName                  string   `json:"shortName"`
}

// Quote implements Source. Any failure is reported as ErrUnavailable so the
// caller does not have to distinguish transport faults from missing data.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", ErrUnavailable)
	}

	query := url.Values{}
	query.Set("symbols", symbol)
	fullURL := c.host + "/v7/finance/quote?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %v: %w", symbol, err, ErrUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %v: %w", symbol, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %v: %w", symbol, err, ErrUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote %s: status %d: %w", symbol, resp.StatusCode, ErrUnavailable)
	}

	return parseQuote(symbol, body)
}

func parseQuote(symbol string, body []byte) (*Quote, error) {
	var env quoteEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("quote %s: %v: %w", symbol, err, ErrUnavailable)
	}
	if len(env.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("quote %s: no result: %w", symbol, ErrUnavailable)
	}

	p := env.QuoteResponse.Result[0]
	if p.RegularMarketPrice == nil || *p.RegularMarketPrice <= 0 {
		return nil, fmt.Errorf("quote %s: no market price: %w", symbol, ErrUnavailable)
	}

	name := p.LongName
	if name == "" {
		name = p.ShortName
	}
	if name == "" {
		name = symbol
	}
	currency := p.Currency
	if currency == "" {
		currency = "INR"
	}

	return &Quote{
		Symbol:        symbol,
		Price:         decimal.NewFromFloat(*p.RegularMarketPrice),
		Currency:      currency,
		Name:          name,
		Change:        decimal.NewFromFloat(p.RegularMarketChange),
		ChangePercent: decimal.NewFromFloat(p.RegularMarketChangePercent),
		Timestamp:     time.Now().UTC(),
	}, nil
}
