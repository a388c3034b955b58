package services

import (
	"regexp"
	"strings"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

// CategoryOther is the fallback label when no rule matches.
const CategoryOther = "Other"

type categoryRule struct {
	re    *regexp.Regexp
	label string
}

// categoryRules is a priority-ordered rule table; first match anywhere in
// the concatenated listing text wins. Order is a semantic contract: specific
// categories (Villa) must precede broad ones (Residential).
var categoryRules = []categoryRule{
	{regexp.MustCompile(`villa`), "Villa"},
	{regexp.MustCompile(`flat|apartment`), "Flat"},
	{regexp.MustCompile(`plot|\bland\b`), "Plot"},
	{regexp.MustCompile(`shop|showroom|commercial|office\s+space`), "Commercial"},
	{regexp.MustCompile(`industrial|factory|warehouse`), "Industrial"},
	{regexp.MustCompile(`agricultur|farm`), "Agricultural"},
	{regexp.MustCompile(`vehicle|\bcar\b|two\s+wheeler`), "Vehicle"},
	{regexp.MustCompile(`machinery|\bplant\b`), "Machinery"},
	{regexp.MustCompile(`residential|bungalow`), "Residential"},
}

// Secondary single-keyword checks, applied only when no rule matched.
var secondaryChecks = []categoryRule{
	{regexp.MustCompile(`house`), "Residential"},
	{regexp.MustCompile(`office`), "Commercial"},
}

// CategoryDisplayOrder is the fixed priority order used when grouping the
// new/changed subset for notification.
var CategoryDisplayOrder = []string{
	"Villa",
	"Flat",
	"Residential",
	"Plot",
	"Commercial",
	"Industrial",
	"Agricultural",
	"Vehicle",
	"Machinery",
	CategoryOther,
}

// categoryAliases normalizes free-form type names (as passed on the command
// line or carried by scraped cards) to canonical labels.
var categoryAliases = map[string]string{
	"villas":            "Villa",
	"flats":             "Flat",
	"apartment":         "Flat",
	"apartments":        "Flat",
	"plots":             "Plot",
	"land":              "Plot",
	"lands":             "Plot",
	"open plot":         "Plot",
	"shop":              "Commercial",
	"shops":             "Commercial",
	"office":            "Commercial",
	"offices":           "Commercial",
	"house":             "Residential",
	"houses":            "Residential",
	"residential house": "Residential",
	"bungalow":          "Residential",
	"factory":           "Industrial",
	"warehouse":         "Industrial",
	"farm":              "Agricultural",
	"farm land":         "Agricultural",
	"vehicles":          "Vehicle",
	"car":               "Vehicle",
	"cars":              "Vehicle",
	"machine":           "Machinery",
	"machines":          "Machinery",
	"others":            CategoryOther,
}

// categoryText concatenates the free text a category decision may draw from:
// resolved details, a few raw sub-fields, and the resolved link.
func categoryText(entry *models.NormalizedEntry) string {
	parts := []string{
		entry.DetailsString(),
		entry.RawString("projectName"),
		entry.RawString("summaryDesc"),
		entry.RawString("propertyType"),
		entry.RawString("assetCategory"),
		entry.RawString("address"),
		entry.RawString("property_name"),
		entry.RawString("raw_text"),
		entry.LinkString(),
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// Classify maps an entry to a category label, first rule match wins.
func Classify(entry *models.NormalizedEntry) string {
	text := categoryText(entry)
	for _, rule := range categoryRules {
		if rule.re.MatchString(text) {
			return rule.label
		}
	}
	for _, check := range secondaryChecks {
		if check.re.MatchString(text) {
			return check.label
		}
	}
	return CategoryOther
}

// NormalizeCategory resolves a free-form category name to a canonical label.
func NormalizeCategory(name string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return "", false
	}
	for _, label := range CategoryDisplayOrder {
		if strings.ToLower(label) == trimmed {
			return label, true
		}
	}
	if label, ok := categoryAliases[trimmed]; ok {
		return label, true
	}
	return "", false
}
