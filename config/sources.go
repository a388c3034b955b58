package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source types understood by the scrape adapters.
const (
	SourceTypeBrowser = "browser"
	SourceTypeHTML    = "html"
)

// CityPage is one city listing page of an HTML source.
type CityPage struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// SourceConfig describes one scrape source.
type SourceConfig struct {
	Name             string     `yaml:"name"`
	Type             string     `yaml:"type"`
	URL              string     `yaml:"url"`
	CaptureSubstring string     `yaml:"capture_substring"`
	GeoFilter        bool       `yaml:"geo_filter"`
	Cities           []CityPage `yaml:"cities"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// DefaultSources is used when no sources file is present: the structured
// listing site, geo-filtered.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:             "baanknet",
			Type:             SourceTypeBrowser,
			URL:              "https://baanknet.com/property-listing",
			CaptureSubstring: "property-listing-data",
			GeoFilter:        true,
		},
	}
}

// LoadSources reads source definitions from the YAML file at path. A
// missing file yields the defaults; a malformed file is an error.
func LoadSources(path string) ([]SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSources(), nil
		}
		return nil, fmt.Errorf("config: read sources %q: %w", path, err)
	}
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("config: parse sources %q: %w", path, err)
	}
	if len(file.Sources) == 0 {
		return DefaultSources(), nil
	}
	for i, src := range file.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("config: sources %q: source %d has no name", path, i)
		}
	}
	return file.Sources, nil
}

// RestrictCities narrows every HTML source to the named cities. An empty
// list leaves the sources untouched.
func RestrictCities(sources []SourceConfig, cities []string) []SourceConfig {
	if len(cities) == 0 {
		return sources
	}
	wanted := map[string]struct{}{}
	for _, c := range cities {
		wanted[c] = struct{}{}
	}
	out := make([]SourceConfig, len(sources))
	copy(out, sources)
	for i, src := range out {
		if src.Type != SourceTypeHTML {
			continue
		}
		var kept []CityPage
		for _, city := range src.Cities {
			if _, ok := wanted[city.Name]; ok {
				kept = append(kept, city)
			}
		}
		out[i].Cities = kept
	}
	return out
}
