package services

import (
	"regexp"
	"strings"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// Resolution is first-match-wins over ordered rule tables: patterns within a
// group encode precedence, pair order is the tie-break inside one pattern.
// Keep the tables data, not branching code, so the precedence stays declared.
var (
	emdCostPatterns = compileGroup(
		`\bemd\b`,
		`emd[_-]?amount`,
		`earnest[_-]?money`,
	)
	detailsPatterns = compileGroup(
		`summarydesc`,
		`address`,
		`projectname`,
		`details`,
		`description`,
		`asset`,
		`property`,
		`title`,
	)
	linkPatterns = compileGroup(
		`link`,
		`url`,
		`document`,
		`property[_-]?url`,
	)
	photosPatterns = compileGroup(
		`photos`,
		`images`,
		`imageurl`,
	)

	// dateKeyRegexp is deliberately broad: every matching non-empty pair is
	// collected, multiplicity matters (inspection/auction/EMD windows).
	dateKeyRegexp = regexp.MustCompile(`(?i)(date|deadline|start|end|auction|bid)`)
)

const (
	relativeStoragePrefix = "Production/"
	storageBaseURL        = "https://d14q55p4nerl4m.cloudfront.net/"
)

func compileGroup(patterns ...string) []*regexp.Regexp {
	group := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		group[i] = regexp.MustCompile(`(?i)` + p)
	}
	return group
}

// ResolveFirst returns the value of the first pair whose path matches the
// group, trying patterns in group order and pairs in flattened order.
func ResolveFirst(pairs []models.FlatPair, group []*regexp.Regexp) (any, bool) {
	for _, re := range group {
		for _, pair := range pairs {
			if re.MatchString(pair.Path) {
				return pair.Value, true
			}
		}
	}
	return nil, false
}

// CollectDateFields gathers every non-empty pair whose path looks date-ish,
// preserving flattened order.
func CollectDateFields(pairs []models.FlatPair) []models.DateField {
	var fields []models.DateField
	for _, pair := range pairs {
		if dateKeyRegexp.MatchString(pair.Path) && !models.IsEmptyValue(pair.Value) {
			fields = append(fields, models.DateField{Key: pair.Path, Value: pair.Value})
		}
	}
	return fields
}

// AbsoluteURL rewrites a relative-storage reference to the fixed CDN base.
// Already-absolute values pass through untouched, so the rewrite is
// idempotent.
func AbsoluteURL(link string) string {
	if strings.HasPrefix(link, relativeStoragePrefix) {
		return storageBaseURL + link
	}
	return link
}

// ExtractFields flattens one raw record and resolves the semantic fields
// over its pairs. Every resolution is best-effort: an unresolved field stays
// nil, never an error.
func ExtractFields(record map[string]any) *models.NormalizedEntry {
	pairs := Flatten(record)

	entry := &models.NormalizedEntry{Raw: record}
	entry.EMDCost, _ = ResolveFirst(pairs, emdCostPatterns)
	entry.Details, _ = ResolveFirst(pairs, detailsPatterns)
	entry.ImportantDates = CollectDateFields(pairs)

	if link, ok := ResolveFirst(pairs, linkPatterns); ok {
		if s, isStr := link.(string); isStr {
			entry.Link = AbsoluteURL(s)
		} else {
			entry.Link = link
		}
	}
	if photos, ok := ResolveFirst(pairs, photosPatterns); ok {
		if s, isStr := photos.(string); isStr {
			entry.Photos = AbsoluteURL(s)
		} else {
			entry.Photos = photos
		}
	}

	return entry
}
