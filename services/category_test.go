package services

import (
	"testing"

	"github.com/gondgesagar/Web-scrapper-alert/models"
)

func entryWithDetails(details string) *models.NormalizedEntry {
	return &models.NormalizedEntry{Details: details, Raw: map[string]any{}}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		details string
		want    string
	}{
		// Specific categories precede broad ones.
		{"Luxury villa in a residential complex", "Villa"},
		{"Residential flat, 2BHK", "Flat"},
		{"Plot 5, Pune, Maharashtra 411001", "Plot"},
		{"Commercial shop on MG Road", "Commercial"},
		{"Industrial shed with machinery", "Industrial"},
		{"Agricultural land parcel", "Plot"},
		{"Two wheeler, seized vehicle", "Vehicle"},
		{"Residential bungalow", "Residential"},
		{"Mystery asset", "Other"},
	}

	for _, tt := range tests {
		got := Classify(entryWithDetails(tt.details))
		if got != tt.want {
			t.Errorf("Classify(%q) = %q; want %q", tt.details, got, tt.want)
		}
	}
}

func TestClassifySecondaryChecks(t *testing.T) {
	tests := []struct {
		details string
		want    string
	}{
		{"Independent house near station", "Residential"},
		{"Office premises, 3rd floor", "Commercial"},
	}
	for _, tt := range tests {
		got := Classify(entryWithDetails(tt.details))
		if got != tt.want {
			t.Errorf("Classify(%q) = %q; want %q", tt.details, got, tt.want)
		}
	}
}

func TestClassifyDrawsFromRawFields(t *testing.T) {
	entry := &models.NormalizedEntry{
		Raw: map[string]any{"propertyType": "Villa"},
	}
	if got := Classify(entry); got != "Villa" {
		t.Errorf("expected raw propertyType to classify, got %q", got)
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Villa", "Villa", true},
		{"villa", "Villa", true},
		{"flats", "Flat", true},
		{"apartments", "Flat", true},
		{"LAND", "Plot", true},
		{"residential house", "Residential", true},
		{" shop ", "Commercial", true},
		{"spaceship", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeCategory(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NormalizeCategory(%q) = (%q, %v); want (%q, %v)",
				tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
