package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// JupiterClient is the price fallback. It serves only a derived price, so the
// chain consults it when the primary left gaps.
type JupiterClient struct {
	host       string
	httpClient *http.Client
}

func NewJupiterClient(httpClient *http.Client, host string) *JupiterClient {
	if host == "" {
		host = "https://api.jup.ag"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &JupiterClient{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

func (c *JupiterClient) Name() string { return "jupiter" }

func (c *JupiterClient) TokenMetrics(ctx context.Context, address string) (Metrics, error) {
	if address == "" {
		return Metrics{}, fmt.Errorf("address is required")
	}
	query := url.Values{}
	query.Set("ids", address)
	body, err := doRequest(ctx, c.httpClient, c.host, "/price/v2", query)
	if err != nil {
		return Metrics{}, err
	}
	return parseJupiterPrice(body, address)
}

func parseJupiterPrice(body []byte, address string) (Metrics, error) {
	var resp struct {
		Data map[string]*struct {
			Price *jsonDecimal `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Metrics{}, fmt.Errorf("invalid jupiter response: %w", err)
	}
	entry, ok := resp.Data[address]
	if !ok || entry == nil || entry.Price == nil {
		return Metrics{}, ErrNoData
	}
	price := decimalPtr(entry.Price)
	if !price.IsPositive() {
		return Metrics{}, ErrNoData
	}
	return Metrics{Price: price}, nil
}
