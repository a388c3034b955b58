package eauction

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/gondgesagar/Web-scrapper-alert/config"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

var (
	// auctionDateRegexp pulls the first date-looking token out of a card's
	// text when no dedicated date element exists.
	auctionDateRegexp = regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{4}|\d{4}-\d{2}-\d{2}`)
	whitespaceRegexp  = regexp.MustCompile(`\s+`)
)

// cardSelectors are tried in order until one matches anything on the page.
var cardSelectors = []string{
	".auction-card",
	".property-card",
	"div.card",
	"article",
	"li.listing",
}

// Scraper fetches configured city listing pages and extracts each auction
// card as a near-flat record (property_name, raw_text, auction_date,
// city_url). City pages are fetched through a bounded worker pool with the
// configured rate limit; listing links are deduplicated across cities.
type Scraper struct {
	cfg    *config.Config
	source config.SourceConfig
	logger *utils.Logger
	client *resty.Client
	pool   *utils.WorkerPool
	seen   *utils.URLSet
}

// New creates a city-page Scraper for one HTML source.
func New(cfg *config.Config, source config.SourceConfig, logger *utils.Logger) *Scraper {
	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTPTimeoutSec) * time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	return &Scraper{
		cfg:    cfg,
		source: source,
		logger: logger,
		client: client,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seen:   utils.NewURLSet(),
	}
}

// Name returns the source identifier records are tagged with.
func (s *Scraper) Name() string { return s.source.Name }

// GeoFilter reports whether records from this source must pass the region
// classifier.
func (s *Scraper) GeoFilter() bool { return s.source.GeoFilter }

// Fetch pulls every configured city page and returns the extracted card
// records. A failed city page is logged and skipped; the fetch fails only
// when no page could be read at all.
func (s *Scraper) Fetch(ctx context.Context) ([]any, error) {
	if len(s.source.Cities) == 0 {
		s.logger.Warn("[%s] No city pages configured", s.source.Name)
		return nil, nil
	}

	var (
		mu       sync.Mutex
		records  []any
		pageErrs int
	)
	for _, city := range s.source.Cities {
		c := city
		s.pool.Submit(func() {
			cards, err := s.fetchCity(ctx, c)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				pageErrs++
				s.logger.Error("[%s] City %s failed: %v", s.source.Name, c.Name, err)
				return
			}
			records = append(records, cards...)
			s.logger.Info("[%s] City %s — %d cards", s.source.Name, c.Name, len(cards))
		})
	}
	s.pool.Wait()

	if pageErrs == len(s.source.Cities) {
		return nil, fmt.Errorf("eauction: all %d city pages failed", pageErrs)
	}
	return records, nil
}

// fetchCity downloads one city page and extracts its auction cards.
func (s *Scraper) fetchCity(ctx context.Context, city config.CityPage) ([]any, error) {
	resp, err := s.client.R().SetContext(ctx).Get(city.URL)
	if err != nil {
		return nil, fmt.Errorf("eauction: get %q: %w", city.URL, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("eauction: get %q: status %s", city.URL, resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("eauction: parse %q: %w", city.URL, err)
	}

	var cards *goquery.Selection
	for _, selector := range cardSelectors {
		cards = doc.Find(selector)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return nil, nil
	}

	var records []any
	cards.Each(func(_ int, card *goquery.Selection) {
		record := s.extractCard(card, city)
		if record == nil {
			return
		}
		if link, ok := record["link"].(string); ok && link != "" {
			if !s.seen.Add(link) {
				return
			}
		}
		records = append(records, any(record))
	})
	return records, nil
}

// extractCard turns one card element into a near-flat record. Cards with no
// text at all are dropped.
func (s *Scraper) extractCard(card *goquery.Selection, city config.CityPage) map[string]any {
	rawText := collapse(card.Text())
	if rawText == "" {
		return nil
	}

	name := collapse(card.Find("h1, h2, h3, .title, .property-title").First().Text())
	if name == "" {
		name = rawText
		if runes := []rune(name); len(runes) > 80 {
			name = strings.TrimSpace(string(runes[:80]))
		}
	}

	auctionDate := collapse(card.Find(".auction-date, .date, time").First().Text())
	if auctionDate == "" {
		auctionDate = auctionDateRegexp.FindString(rawText)
	}

	record := map[string]any{
		"property_name": name,
		"raw_text":      rawText,
		"auction_date":  auctionDate,
		"city":          city.Name,
		"city_url":      city.URL,
	}
	if href, ok := card.Find("a[href]").First().Attr("href"); ok {
		record["link"] = absoluteHref(city.URL, href)
	}
	return record
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRegexp.ReplaceAllString(s, " "))
}

// absoluteHref resolves a card link against its city page.
func absoluteHref(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	trimmed := strings.TrimSuffix(base, "/")
	if strings.HasPrefix(href, "/") {
		// Keep scheme and host only.
		if idx := strings.Index(trimmed, "://"); idx >= 0 {
			if slash := strings.Index(trimmed[idx+3:], "/"); slash >= 0 {
				trimmed = trimmed[:idx+3+slash]
			}
		}
		return trimmed + href
	}
	return trimmed + "/" + href
}
