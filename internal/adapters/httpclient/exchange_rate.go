package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fxconvert/internal/assetcache"
	"fxconvert/internal/domain"
)

type ExchangeRateClient struct {
	http    *http.Client
	baseURL string
}

type apiResponse struct {
	Rates map[string]float64 `json:"rates"`
	Base  string             `json:"base"`
	Date  string             `json:"date"`
}

// GetLatestRates calls GET {baseURL}/{base}. Every failure is a *domain.FetchError.
func (c *ExchangeRateClient) GetLatestRates(ctx context.Context, base string) (domain.RateTable, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("failed to parse base URL: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + url.PathEscape(base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.RateTable{}, fmt.Errorf("failed to create request for currency %q: %w", base, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.RateTable{}, &domain.FetchError{Kind: domain.ErrNetworkUnavailable, Base: base, Err: err}
	}
	defer resp.Body.Close()

	if resp.Header.Get(assetcache.HeaderName) == assetcache.StatusOffline {
		return domain.RateTable{}, &domain.FetchError{Kind: domain.ErrNetworkUnavailable, Base: base}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.RateTable{}, &domain.FetchError{Kind: domain.ErrBadStatus, Base: base, StatusCode: resp.StatusCode}
	}

	var body apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.RateTable{}, &domain.FetchError{
			Kind: domain.ErrEmptyPayload,
			Base: base,
			Err:  fmt.Errorf("failed to decode response: %w", err),
		}
	}

	if len(body.Rates) == 0 {
		return domain.RateTable{}, &domain.FetchError{Kind: domain.ErrEmptyPayload, Base: base}
	}

	tableBase := strings.ToUpper(body.Base)
	if tableBase == "" {
		tableBase = base
	}
	return domain.RateTable{Base: tableBase, Rates: body.Rates}, nil
}

func NewExchangeRateClient(httpClient *http.Client, baseURL string) *ExchangeRateClient {
	return &ExchangeRateClient{http: httpClient, baseURL: baseURL}
}
