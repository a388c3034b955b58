package services

import (
	"strings"
	"time"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// dateLayouts is tried in order; the first layout that parses wins. Layouts
// without zone information parse as UTC, so every instant this package hands
// out is anchored — horizon comparisons never mix naive and aware times.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"2006/01/02",
	"2 Jan 2006",
	"2 January 2006",
}

// auctionDateKeys is the candidate priority order for the horizon filter.
var auctionDateKeys = []string{
	"auctionStartDateTime",
	"auction_date",
	"auctionDate",
	"auctionStartDate",
	"auctionEndDateTime",
}

// ParseDate parses a date-like string in any of the supported formats.
// Returns false when nothing parses — that is "no date here", not an error.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AuctionDate extracts the first parseable auction-date-like value from an
// entry, trying the candidate keys in priority order against the raw record
// first, then the collected date fields.
func AuctionDate(entry *models.NormalizedEntry) (time.Time, bool) {
	raw := entry.RawMap()
	for _, key := range auctionDateKeys {
		if raw != nil {
			if v, ok := raw[key]; ok {
				if t, parsed := ParseDate(models.Stringify(v)); parsed {
					return t, true
				}
			}
		}
		for _, field := range entry.ImportantDates {
			if strings.Contains(strings.ToLower(field.Key), strings.ToLower(key)) {
				if t, parsed := ParseDate(models.Stringify(field.Value)); parsed {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

// FarEnoughFuture reports whether the entry's auction date is at or after
// now plus the horizon. Both sides are compared as UTC instants. An entry
// with no parseable auction date fails the predicate.
func FarEnoughFuture(entry *models.NormalizedEntry, horizonDays int, now time.Time) bool {
	t, ok := AuctionDate(entry)
	if !ok {
		return false
	}
	cutoff := now.UTC().AddDate(0, 0, horizonDays)
	return !t.UTC().Before(cutoff)
}
