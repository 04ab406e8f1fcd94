package gst

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"expoevents-backend/internal/logger"
)

// Lookup is the upstream verification call. The production implementation
// hits the GSTIN check API; tests substitute a stub.
type Lookup interface {
	Check(ctx context.Context, gstin string) (*UpstreamResponse, error)
}

// UpstreamResponse mirrors the verification API's JSON envelope.
type UpstreamResponse struct {
	Flag    *bool         `json:"flag"`
	Message string        `json:"message"`
	Data    *UpstreamData `json:"data"`
}

// UpstreamData carries the registration record fields this system reads.
type UpstreamData struct {
	Sts      string           `json:"sts"`
	Lgnm     string           `json:"lgnm"`
	TradeNam string           `json:"tradeNam"`
	Rgdt     string           `json:"rgdt"`
	Ctb      string           `json:"ctb"`
	Pradr    *UpstreamAddress `json:"pradr"`
}

// UpstreamAddress is the principal place of business block.
type UpstreamAddress struct {
	Addr *UpstreamAddrFields `json:"addr"`
}

type UpstreamAddrFields struct {
	Bno  string `json:"bno"`
	Bnm  string `json:"bnm"`
	St   string `json:"st"`
	Loc  string `json:"loc"`
	Dst  string `json:"dst"`
	Stcd string `json:"stcd"`
	Pncd string `json:"pncd"`
}

// FormatAddress joins the address parts the way the registration record
// displays them, skipping empty components.
func (a *UpstreamAddrFields) FormatAddress() string {
	parts := []string{a.Bno, a.Bnm, a.St, a.Loc, a.Dst, a.Pncd}
	joined := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			joined = append(joined, strings.TrimSpace(p))
		}
	}
	return strings.Join(joined, " ")
}

// Client calls the external GSTIN verification endpoint. The API key is
// embedded in the URL path per the provider's contract.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates an upstream client with a fixed request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Check(ctx context.Context, gstin string) (*UpstreamResponse, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiKey, gstin)

	logger.ExternalServiceCall("gst-api", "Check", "gstin", gstin)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build GST API request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.ExternalServiceResult("gst-api", "Check", err)
		return nil, fmt.Errorf("GST API request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed UpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.ExternalServiceResult("gst-api", "Check", err)
		return nil, fmt.Errorf("invalid JSON response from GST API: %w", err)
	}

	logger.ExternalServiceResult("gst-api", "Check", nil, "status", resp.StatusCode)
	return &parsed, nil
}
