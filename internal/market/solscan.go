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

// SolscanClient serves holder counts. Holder data is strictly best-effort;
// no signal fails because Solscan is down.
type SolscanClient struct {
	host       string
	httpClient *http.Client
}

func NewSolscanClient(httpClient *http.Client, host string) *SolscanClient {
	if host == "" {
		host = "https://public-api.solscan.io"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SolscanClient{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

func (c *SolscanClient) Name() string { return "solscan" }

func (c *SolscanClient) HolderCount(ctx context.Context, address string) (int64, error) {
	if address == "" {
		return 0, fmt.Errorf("address is required")
	}
	query := url.Values{}
	query.Set("tokenAddress", address)
	body, err := doRequest(ctx, c.httpClient, c.host, "/token/meta", query)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Holder *int64 `json:"holder"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("invalid solscan response: %w", err)
	}
	if resp.Holder == nil {
		return 0, ErrNoData
	}
	return *resp.Holder, nil
}
