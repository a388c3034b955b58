package geo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// LookupClient resolves a postal pincode to region membership. Implemented
// by the postal-API client below; swapped for a fake in tests.
type LookupClient interface {
	LookupPincode(ctx context.Context, pincode string) (bool, error)
}

// BulkFetcher fetches the full region-member pincode list in one call.
type BulkFetcher interface {
	FetchRegionPincodes(ctx context.Context) ([]string, error)
}

// postOfficeResponse mirrors the postal lookup API: a status flag plus a
// list of post-office records each carrying a state name.
type postOfficeResponse []struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name  string `json:"Name"`
		State string `json:"State"`
	} `json:"PostOffice"`
}

// PostalAPIClient talks to the pincode lookup service and, optionally, to a
// bulk region-pincode endpoint.
type PostalAPIClient struct {
	client     *resty.Client
	regionName string
	bulkURL    string
}

// NewPostalAPIClient builds a client for the given lookup base URL
// (e.g. "https://api.postalpincode.in") and target region name. bulkURL may
// be empty when no bulk source is configured.
func NewPostalAPIClient(baseURL, bulkURL, regionName string, timeout time.Duration) *PostalAPIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &PostalAPIClient{
		client:     client,
		regionName: regionName,
		bulkURL:    bulkURL,
	}
}

// LookupPincode asks the postal API which region a pincode belongs to.
// A non-success status or empty post-office list means "unknown", reported
// as not-in-region without error so the caller caches the negative verdict.
func (p *PostalAPIClient) LookupPincode(ctx context.Context, pincode string) (bool, error) {
	var body postOfficeResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/pincode/" + pincode)
	if err != nil {
		return false, fmt.Errorf("geo: pincode lookup %s: %w", pincode, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("geo: pincode lookup %s: status %s", pincode, resp.Status())
	}
	if len(body) == 0 || !strings.EqualFold(body[0].Status, "Success") {
		return false, nil
	}
	for _, office := range body[0].PostOffice {
		if strings.EqualFold(office.State, p.regionName) {
			return true, nil
		}
	}
	return false, nil
}

// FetchRegionPincodes downloads the full region pincode list from the
// configured bulk URL (a plain JSON array of pincode strings).
func (p *PostalAPIClient) FetchRegionPincodes(ctx context.Context) ([]string, error) {
	if p.bulkURL == "" {
		return nil, fmt.Errorf("geo: no bulk pincode URL configured")
	}
	var pincodes []string
	resp, err := p.client.R().
		SetContext(ctx).
		SetResult(&pincodes).
		Get(p.bulkURL)
	if err != nil {
		return nil, fmt.Errorf("geo: bulk pincode fetch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("geo: bulk pincode fetch: status %s", resp.Status())
	}
	return pincodes, nil
}
