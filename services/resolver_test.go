package services

import (
	"testing"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

func TestResolverGroupPrecedence(t *testing.T) {
	// summaryDesc precedes title in the details group, even though the
	// title pair comes first in flattened order.
	pairs := []models.FlatPair{
		{Path: "a.title", Value: "X"},
		{Path: "a.summaryDesc", Value: "Y"},
	}

	got, ok := ResolveFirst(pairs, detailsPatterns)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "Y" {
		t.Errorf("details resolution: got %v, want Y (summaryDesc wins over title)", got)
	}
}

func TestResolverPairOrderTieBreak(t *testing.T) {
	pairs := []models.FlatPair{
		{Path: "first.address", Value: "A1"},
		{Path: "second.address", Value: "A2"},
	}

	got, _ := ResolveFirst(pairs, detailsPatterns)
	if got != "A1" {
		t.Errorf("within one pattern, pair order breaks ties: got %v, want A1", got)
	}
}

func TestResolverNoMatch(t *testing.T) {
	pairs := []models.FlatPair{{Path: "unrelated", Value: 1}}
	if _, ok := ResolveFirst(pairs, emdCostPatterns); ok {
		t.Error("expected no match for unrelated path")
	}
}

func TestCollectDateFieldsMultiplicity(t *testing.T) {
	pairs := []models.FlatPair{
		{Path: "auctionStartDateTime", Value: "2099-01-01T10:00:00Z"},
		{Path: "auctionEndDateTime", Value: "2099-01-02T10:00:00Z"},
		{Path: "emptyDeadline", Value: ""},
		{Path: "nilBid", Value: nil},
		{Path: "price", Value: "100"},
	}

	fields := CollectDateFields(pairs)
	if len(fields) != 2 {
		t.Fatalf("got %d date fields, want 2: %v", len(fields), fields)
	}
	if fields[0].Key != "auctionStartDateTime" || fields[1].Key != "auctionEndDateTime" {
		t.Errorf("date field order not preserved: %v", fields)
	}
}

func TestAbsoluteURLIdempotent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Production/doc.pdf", "https://d14q55p4nerl4m.cloudfront.net/Production/doc.pdf"},
		{"https://d14q55p4nerl4m.cloudfront.net/Production/doc.pdf", "https://d14q55p4nerl4m.cloudfront.net/Production/doc.pdf"},
		{"https://example.com/x", "https://example.com/x"},
		{"", ""},
	}
	for _, tt := range tests {
		got := AbsoluteURL(tt.in)
		if got != tt.want {
			t.Errorf("AbsoluteURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
		if again := AbsoluteURL(got); again != got {
			t.Errorf("AbsoluteURL not idempotent for %q: %q then %q", tt.in, got, again)
		}
	}
}

func TestExtractFields(t *testing.T) {
	record := map[string]any{
		"projectName":          "Test Plot",
		"emdAmount":            float64(50000),
		"documentLink":         "Production/brochure.pdf",
		"photos":               []any{"Production/p1.jpg"},
		"auctionStartDateTime": "2099-01-01T10:00:00Z",
	}

	entry := ExtractFields(record)

	if entry.Details != "Test Plot" {
		t.Errorf("details: got %v, want Test Plot", entry.Details)
	}
	if entry.EMDCost != float64(50000) {
		t.Errorf("emd_cost: got %v, want 50000", entry.EMDCost)
	}
	if entry.Link != "https://d14q55p4nerl4m.cloudfront.net/Production/brochure.pdf" {
		t.Errorf("link not rewritten: got %v", entry.Link)
	}
	if len(entry.ImportantDates) != 1 || entry.ImportantDates[0].Key != "auctionStartDateTime" {
		t.Errorf("important dates: got %v", entry.ImportantDates)
	}
	if entry.Raw == nil {
		t.Error("raw record not retained")
	}
}

func TestExtractFieldsAllAbsent(t *testing.T) {
	entry := ExtractFields(map[string]any{"unrelated": "nothing here"})
	if entry.EMDCost != nil || entry.Details != nil || entry.Link != nil {
		t.Errorf("expected unresolved fields to stay nil: %+v", entry)
	}
}
