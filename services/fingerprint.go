package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// fingerprintKeepKeys is the allow-list of raw fields that participate in
// the fingerprint. Bounding the digest to identity-bearing and content
// fields keeps it stable against raw-payload noise (pagination metadata,
// server timestamps).
var fingerprintKeepKeys = []string{
	"propertyId",
	"bankPropertyId",
	"projectName",
	"price",
	"summaryDesc",
	"address",
	"bankName",
	"postedOn",
	"inspectionStartDateTime",
	"inspectionEndDateTime",
	"auctionStartDateTime",
	"auctionEndDateTime",
	"emdStartDateTime",
	"emdEndDateTime",
	"photos",
}

const identityDetailsMax = 200

func digestHex(v any) string {
	// encoding/json writes map keys in sorted order, so equal content
	// yields equal bytes regardless of how the maps were built.
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(models.Stringify(v))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fingerprint computes the content digest of an entry over the resolver
// outputs plus the raw allow-list subset. Equal stable-subset content gives
// an equal digest; any change to an allow-listed field changes it.
func Fingerprint(entry *models.NormalizedEntry) string {
	rawSubset := map[string]any{}
	if raw := entry.RawMap(); raw != nil {
		for _, key := range fingerprintKeepKeys {
			if v, ok := raw[key]; ok {
				rawSubset[key] = v
			}
		}
	}
	payload := map[string]any{
		"emd_cost":        entry.EMDCost,
		"details":         entry.Details,
		"important_dates": entry.ImportantDates,
		"link":            entry.Link,
		"raw_subset":      rawSubset,
	}
	return digestHex(payload)
}

// IdentityKey derives the stable cross-run name for an entry: an explicit
// source identifier when present, else truncated details text, else a digest
// of the whole normalized entry.
func IdentityKey(entry *models.NormalizedEntry) string {
	if raw := entry.RawMap(); raw != nil {
		if id := models.Stringify(raw["propertyId"]); id != "" {
			return id
		}
		if id := models.Stringify(raw["bankPropertyId"]); id != "" {
			return id
		}
	}
	if details := entry.DetailsString(); details != "" {
		runes := []rune(details)
		if len(runes) > identityDetailsMax {
			return string(runes[:identityDetailsMax])
		}
		return details
	}
	return digestHex(entry)
}

// Diff returns the identity keys present in current but absent from
// previous, sorted. An identity that persists with a changed digest is not
// reported: reporting is strictly new-identity-only.
func Diff(current, previous map[string]string) []string {
	var fresh []string
	for key := range current {
		if _, seen := previous[key]; !seen {
			fresh = append(fresh, key)
		}
	}
	sort.Strings(fresh)
	return fresh
}
