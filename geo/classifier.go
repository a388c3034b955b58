package geo

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gondgesagar/Web-scrapper-alert/models"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// Field candidates per tier. Each list is also probed under a nested "raw"
// sub-object, since pre-normalized records wrap the original payload.
var (
	stateFieldKeys = []string{"state", "stateName", "propertyState", "location", "city"}

	pincodeFieldKeys = []string{"pincode", "pinCode", "postalCode", "postal_code", "zipcode", "zip"}

	addressFieldKeys = []string{
		"address", "summaryDesc", "details", "description",
		"location", "property_name", "raw_text", "projectName",
	}

	barePincodeRegexp = regexp.MustCompile(`\b(\d{6})\b`)
	digitsRegexp      = regexp.MustCompile(`\d`)
)

// Region names the classification target and its standard abbreviations.
type Region struct {
	Name          string
	Abbreviations []string
}

// Classifier decides region membership tier by tier: direct state fields,
// postal code (pre-fetched set, permanent cache, remote lookup), then a
// free-text fallback. It owns the cache; lookups go through the client.
type Classifier struct {
	region Region
	cache  *PincodeCache
	lookup LookupClient
	logger *utils.Logger
}

// NewClassifier wires a classifier for the region over the given cache and
// lookup client.
func NewClassifier(region Region, cache *PincodeCache, lookup LookupClient, logger *utils.Logger) *Classifier {
	return &Classifier{region: region, cache: cache, lookup: lookup, logger: logger}
}

// Cache exposes the owned cache for lifecycle calls (Load at run start,
// Save at run end).
func (c *Classifier) Cache() *PincodeCache {
	return c.cache
}

// Prefetch populates the region pincode set when it is not already loaded,
// retrying the bulk fetch with bounded exponential backoff. Exhausted
// retries leave the set empty; classification degrades to the cache, lookup
// and free-text tiers. Never aborts the run.
func (c *Classifier) Prefetch(ctx context.Context, fetcher BulkFetcher, maxAttempts int) {
	if c.cache.HasMembers() {
		c.logger.Debug("[geo] Region pincode set already loaded")
		return
	}
	retry := &utils.RetryConfig{
		MaxAttempts: maxAttempts,
		BaseDelay:   2 * time.Second,
		Logger:      c.logger,
	}
	var pincodes []string
	err := retry.Do("region-pincode-prefetch", func() error {
		var fetchErr error
		pincodes, fetchErr = fetcher.FetchRegionPincodes(ctx)
		return fetchErr
	})
	if err != nil {
		c.logger.Warn("[geo] Pincode prefetch failed, degrading to lookup tiers: %v", err)
		return
	}
	c.cache.SetMembers(pincodes)
	c.logger.Info("[geo] Prefetched %d region pincodes", len(pincodes))
}

// InRegion classifies one raw record, short-circuiting on the first tier
// that answers true. It never returns an error: lookup failures mean "not
// classified via this tier".
func (c *Classifier) InRegion(ctx context.Context, record map[string]any) bool {
	if c.matchStateField(record) {
		return true
	}
	if pincode, ok := c.extractPincode(record); ok {
		if c.classifyPincode(ctx, pincode) {
			return true
		}
	}
	return c.matchFreeText(record)
}

// matchStateField is tier 1: a case-insensitive substring match of the
// region name, or an exact match of one of its abbreviations, in any
// candidate state field.
func (c *Classifier) matchStateField(record map[string]any) bool {
	region := strings.ToLower(c.region.Name)
	for _, value := range fieldValues(record, stateFieldKeys) {
		lowered := strings.ToLower(value)
		if strings.Contains(lowered, region) {
			return true
		}
		for _, abbr := range c.region.Abbreviations {
			if strings.EqualFold(strings.TrimSpace(value), abbr) {
				return true
			}
		}
	}
	return false
}

// extractPincode is the tier-2 extraction: first 6 digits of any candidate
// pincode field, falling back to a bare 6-digit token in address text.
func (c *Classifier) extractPincode(record map[string]any) (string, bool) {
	for _, value := range fieldValues(record, pincodeFieldKeys) {
		digits := strings.Join(digitsRegexp.FindAllString(value, -1), "")
		if len(digits) >= 6 {
			return digits[:6], true
		}
	}
	for _, value := range fieldValues(record, addressFieldKeys) {
		if m := barePincodeRegexp.FindStringSubmatch(value); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// classifyPincode resolves a pincode via the pre-fetched set (authoritative,
// cached on hit), the permanent verdict cache, then one remote lookup.
// Definite answers are cached permanently, including negatives; a transport
// failure is not a verdict and leaves the pincode eligible for a later
// lookup.
func (c *Classifier) classifyPincode(ctx context.Context, pincode string) bool {
	if c.cache.IsMember(pincode) {
		c.cache.PutVerdict(pincode, true)
		return true
	}
	if verdict, ok := c.cache.Verdict(pincode); ok {
		return verdict
	}
	inRegion, err := c.lookup.LookupPincode(ctx, pincode)
	if err != nil {
		c.logger.Warn("[geo] Lookup failed for %s, leaving unresolved: %v", pincode, err)
		return false
	}
	c.cache.PutVerdict(pincode, inRegion)
	return inRegion
}

// matchFreeText is tier 3: the region name anywhere in an address-like field.
func (c *Classifier) matchFreeText(record map[string]any) bool {
	region := strings.ToLower(c.region.Name)
	for _, value := range fieldValues(record, addressFieldKeys) {
		if strings.Contains(strings.ToLower(value), region) {
			return true
		}
	}
	return false
}

// fieldValues collects non-empty string values for the candidate keys from
// the record and from a nested "raw" sub-object when present.
func fieldValues(record map[string]any, keys []string) []string {
	var values []string
	scopes := []map[string]any{record}
	if nested, ok := record["raw"].(map[string]any); ok {
		scopes = append(scopes, nested)
	}
	for _, scope := range scopes {
		for _, key := range keys {
			if v, ok := scope[key]; ok {
				if s := models.Stringify(v); s != "" {
					values = append(values, s)
				}
			}
		}
	}
	return values
}
