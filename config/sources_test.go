package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSources(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSources(t *testing.T) {
	path := writeSources(t, `
sources:
  - name: baanknet
    type: browser
    url: https://baanknet.com/property-listing
    capture_substring: property-listing-data
    geo_filter: true
  - name: eauction
    type: html
    cities:
      - name: pune
        url: https://example.com/auctions/pune
      - name: nagpur
        url: https://example.com/auctions/nagpur
`)

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(sources))
	}
	if !sources[0].GeoFilter || sources[0].Type != SourceTypeBrowser {
		t.Errorf("first source misparsed: %+v", sources[0])
	}
	if len(sources[1].Cities) != 2 {
		t.Errorf("city pages misparsed: %+v", sources[1])
	}
}

func TestLoadSourcesMissingFileUsesDefaults(t *testing.T) {
	sources, err := LoadSources(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Name != "baanknet" {
		t.Errorf("expected default sources, got %+v", sources)
	}
}

func TestLoadSourcesMalformed(t *testing.T) {
	path := writeSources(t, "sources: [unclosed")
	if _, err := LoadSources(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestLoadSourcesUnnamed(t *testing.T) {
	path := writeSources(t, "sources:\n  - type: html\n")
	if _, err := LoadSources(path); err == nil {
		t.Error("expected an error for a nameless source")
	}
}

func TestRestrictCities(t *testing.T) {
	sources := []SourceConfig{
		{Name: "baanknet", Type: SourceTypeBrowser, GeoFilter: true},
		{Name: "eauction", Type: SourceTypeHTML, Cities: []CityPage{
			{Name: "pune", URL: "u1"},
			{Name: "nagpur", URL: "u2"},
		}},
	}

	restricted := RestrictCities(sources, []string{"nagpur"})
	if len(restricted[1].Cities) != 1 || restricted[1].Cities[0].Name != "nagpur" {
		t.Errorf("restriction failed: %+v", restricted[1].Cities)
	}
	if len(sources[1].Cities) != 2 {
		t.Error("restriction must not mutate the input")
	}

	untouched := RestrictCities(sources, nil)
	if len(untouched[1].Cities) != 2 {
		t.Error("empty city list must leave sources untouched")
	}
}
