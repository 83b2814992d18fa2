package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client ходит в котировочный сервис по HTTP:
// GET {base}/quote?symbol=BTCUSD → {"symbol":"BTCUSD","price":64123.5}
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type quoteResponse struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func (c *Client) Quote(ctx context.Context, symbol string) (float64, error) {
	u := c.baseURL + "/quote?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("quote %s: http %d: %s", symbol, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var q quoteResponse
	if err := json.Unmarshal(body, &q); err != nil {
		return 0, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if q.Price <= 0 {
		return 0, fmt.Errorf("quote %s: некорректная цена %v", symbol, q.Price)
	}
	return q.Price, nil
}
