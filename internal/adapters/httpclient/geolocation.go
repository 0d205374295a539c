package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var errNoCurrency = errors.New("geolocation response has no currency")

type GeolocationClient struct {
	http *http.Client
	url  string
}

type geolocationResponse struct {
	Currency string `json:"currency"`
}

// DetectCurrency returns the currency code of the caller's approximate location.
func (c *GeolocationClient) DetectCurrency(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create geolocation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute geolocation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected geolocation status %d: %s", resp.StatusCode, resp.Status)
	}

	var body geolocationResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	code := strings.ToUpper(strings.TrimSpace(body.Currency))
	if code == "" {
		return "", errNoCurrency
	}
	return code, nil
}

func NewGeolocationClient(httpClient *http.Client, url string) *GeolocationClient {
	return &GeolocationClient{http: httpClient, url: url}
}
