package baanknet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/gondgesagar/Web-scrapper-alert/config"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// ErrNoPayloads signals that the listing page produced no capturable data at
// all — distinct from a page that legitimately listed zero records.
var ErrNoPayloads = errors.New("baanknet: no listing payloads captured")

// Scraper drives a headless browser over the property-listing page and
// captures every JSON response whose URL matches the configured substring.
// The listing site renders through an XHR API, so sniffing the network is
// the only way to get structured records without reverse-engineering
// authentication.
type Scraper struct {
	cfg    *config.Config
	source config.SourceConfig
	logger *utils.Logger
	retry  *utils.RetryConfig
}

// New creates a ready-to-use listing Scraper for one browser source.
func New(cfg *config.Config, source config.SourceConfig, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		source: source,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Name returns the source identifier records are tagged with.
func (s *Scraper) Name() string { return s.source.Name }

// GeoFilter reports whether records from this source must pass the region
// classifier.
func (s *Scraper) GeoFilter() bool { return s.source.GeoFilter }

// Fetch navigates to the listing page and returns the captured JSON
// payloads. Returns ErrNoPayloads when nothing was captured.
func (s *Scraper) Fetch(ctx context.Context) ([]any, error) {
	s.logger.Info("[%s] Starting browser capture — target: %s", s.source.Name, s.source.URL)

	chromeBin := findChromeBinary(s.cfg.ChromeBin)
	s.logger.Info("[%s] Using browser binary: %s", s.source.Name, chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	var payloads []any
	err := s.retry.Do("capture-listing-payloads", func() error {
		captured, err := s.capture(allocCtx)
		if err != nil {
			return err
		}
		if len(captured) == 0 {
			return ErrNoPayloads
		}
		payloads = captured
		return nil
	})
	if err != nil {
		if len(payloads) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoPayloads, err)
		}
		return nil, err
	}

	s.logger.Info("[%s] Capture complete — %d payload(s)", s.source.Name, len(payloads))
	return payloads, nil
}

// capture runs one browser session: navigate, let the XHRs settle, then
// pull the bodies of every matching response.
func (s *Scraper) capture(allocCtx context.Context) ([]any, error) {
	browserCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 90*time.Second)
	defer cancelTimeout()

	var (
		mu         sync.Mutex
		requestIDs []network.RequestID
	)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		if !strings.Contains(resp.Response.URL, s.source.CaptureSubstring) {
			return
		}
		if !strings.Contains(strings.ToLower(resp.Response.MimeType), "json") {
			return
		}
		mu.Lock()
		requestIDs = append(requestIDs, resp.RequestID)
		mu.Unlock()
	})

	var payloads []any
	err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(s.source.URL),
		chromedp.Sleep(5*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			mu.Lock()
			ids := make([]network.RequestID, len(requestIDs))
			copy(ids, requestIDs)
			mu.Unlock()

			for _, id := range ids {
				body, err := network.GetResponseBody(id).Do(ctx)
				if err != nil {
					s.logger.Warn("[%s] Could not read response body: %v", s.source.Name, err)
					continue
				}
				var payload any
				if err := json.Unmarshal(body, &payload); err != nil {
					s.logger.Warn("[%s] Skipping non-JSON body: %v", s.source.Name, err)
					continue
				}
				payloads = append(payloads, payload)
			}
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("baanknet: browser session: %w", err)
	}
	return payloads, nil
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
