package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DexScreenerClient is the primary metrics source. One token can trade in
// many pairs; the pair with the deepest liquidity is taken as canonical.
type DexScreenerClient struct {
	host       string
	httpClient *http.Client
}

func NewDexScreenerClient(httpClient *http.Client, host string) *DexScreenerClient {
	if host == "" {
		host = "https://api.dexscreener.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &DexScreenerClient{
		host:       strings.TrimRight(host, "/"),
		httpClient: httpClient,
	}
}

func (c *DexScreenerClient) Name() string { return "dexscreener" }

func (c *DexScreenerClient) TokenMetrics(ctx context.Context, address string) (Metrics, error) {
	if address == "" {
		return Metrics{}, fmt.Errorf("address is required")
	}
	body, err := doRequest(ctx, c.httpClient, c.host, "/latest/dex/tokens/"+address, nil)
	if err != nil {
		return Metrics{}, err
	}
	return parseDexPairs(body)
}

type dexPair struct {
	PriceUsd *jsonDecimal `json:"priceUsd"`
	Volume   struct {
		H24 *jsonDecimal `json:"h24"`
	} `json:"volume"`
	Liquidity struct {
		USD *jsonDecimal `json:"usd"`
	} `json:"liquidity"`
	MarketCap *jsonDecimal `json:"marketCap"`
	FDV       *jsonDecimal `json:"fdv"`
}

func parseDexPairs(body []byte) (Metrics, error) {
	var resp struct {
		Pairs []dexPair `json:"pairs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return Metrics{}, fmt.Errorf("invalid dexscreener response: %w", err)
	}
	if len(resp.Pairs) == 0 {
		return Metrics{}, ErrNoData
	}

	best := resp.Pairs[0]
	for _, p := range resp.Pairs[1:] {
		if liquidityOf(p).GreaterThan(liquidityOf(best).Decimal) {
			best = p
		}
	}

	m := Metrics{
		Volume24h: decimalPtr(best.Volume.H24),
		Liquidity: decimalPtr(best.Liquidity.USD),
		MarketCap: decimalPtr(best.MarketCap),
	}
	// Dead pairs report a zero price string; treat that as no price.
	if p := decimalPtr(best.PriceUsd); p != nil && p.IsPositive() {
		m.Price = p
	}
	// Newly launched tokens often carry FDV before a market cap.
	if m.MarketCap == nil {
		m.MarketCap = decimalPtr(best.FDV)
	}
	return m, nil
}

func liquidityOf(p dexPair) jsonDecimal {
	if p.Liquidity.USD == nil {
		return jsonDecimal{}
	}
	return *p.Liquidity.USD
}
