package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gondgesagar/Web-scrapper-alert/config"
	"github.com/gondgesagar/Web-scrapper-alert/geo"
	"github.com/gondgesagar/Web-scrapper-alert/notify"
	"github.com/gondgesagar/Web-scrapper-alert/scraper/baanknet"
	"github.com/gondgesagar/Web-scrapper-alert/scraper/eauction"
	"github.com/gondgesagar/Web-scrapper-alert/services"
	"github.com/gondgesagar/Web-scrapper-alert/storage"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	outputPath := flag.String("output", cfg.OutputPath, "where to write scraped data JSON")
	maxItems := flag.Int("max-items", cfg.MaxItems, "maximum number of listing items to process")
	statePath := flag.String("state", cfg.StatePath, "where to store state between runs for change detection")
	noEmail := flag.Bool("no-email", false, "do not send email notifications even if changes are detected")
	horizonDays := flag.Int("horizon-days", cfg.HorizonDays, "drop listings whose auction date is sooner than this many days (0 = off)")
	cities := flag.String("cities", "", "comma-separated city names to restrict HTML sources to")
	categories := flag.String("categories", "", "comma-separated category allow-list for notifications")
	flag.Parse()

	logger.Info("=== Auction listing watcher starting ===")
	logger.Info("Config — max items: %d | region: %s | horizon: %d days",
		*maxItems, cfg.RegionName, *horizonDays)

	sources, err := config.LoadSources(cfg.SourcesPath)
	if err != nil {
		logger.Error("Failed to load source definitions: %v", err)
		fmt.Println("NEW_AUCTIONS_COUNT=0")
		os.Exit(1)
	}
	sources = config.RestrictCities(sources, splitList(*cities))

	ctx := context.Background()

	region := geo.Region{Name: cfg.RegionName, Abbreviations: cfg.RegionAbbreviations}
	cache := geo.NewPincodeCache(cfg.PincodeCachePath, cfg.RegionPincodeSetPath, logger)
	cache.Load()
	postal := geo.NewPostalAPIClient(cfg.PincodeAPIBaseURL, cfg.RegionPincodeURL,
		cfg.RegionName, time.Duration(cfg.HTTPTimeoutSec)*time.Second)
	classifier := geo.NewClassifier(region, cache, postal, logger)

	if anyGeoFiltered(sources) && cfg.RegionPincodeURL != "" {
		classifier.Prefetch(ctx, postal, cfg.MaxRetries)
	}

	batches, err := fetchAll(ctx, cfg, sources, logger)
	if err != nil {
		logger.Error("Could not obtain records from any source: %v", err)
		fmt.Println("NEW_AUCTIONS_COUNT=0")
		os.Exit(1)
	}

	stateStore := storage.NewStateStore(*statePath, logger)
	previous := stateStore.Load()

	pipeline := services.NewPipeline(classifier, logger, services.Options{
		MaxItems:    *maxItems,
		HorizonDays: *horizonDays,
		Categories:  splitList(*categories),
	})
	result, current := pipeline.Run(ctx, batches, previous)

	writer := storage.NewJSONWriter(*outputPath)
	if err := writer.Write(result.Entries); err != nil {
		logger.Error("Output write failed: %v", err)
	}

	if err := stateStore.Save(current); err != nil {
		logger.Error("State save failed: %v", err)
	}
	if err := cache.Save(); err != nil {
		logger.Warn("Geo cache save failed: %v", err)
	}

	if !*noEmail {
		mailer := notify.NewMailer(cfg, logger)
		if err := mailer.NotifyNew(result.Grouped, len(result.Fresh)); err != nil {
			logger.Error("Notification failed: %v", err)
		}
	}

	fmt.Printf("NEW_AUCTIONS_COUNT=%d\n", len(result.Fresh))
	fmt.Printf("Wrote %d items to %s\n", len(result.Entries), *outputPath)
}

// fetchAll runs every configured source adapter. A source that fetched
// successfully but listed zero records still contributes its (empty) batch,
// so a legitimately quiet day completes the run and refreshes the state.
// The fetch fails only when every attempted source errored.
func fetchAll(ctx context.Context, cfg *config.Config, sources []config.SourceConfig, logger *utils.Logger) ([]services.SourceBatch, error) {
	var (
		batches []services.SourceBatch
		tried   int
		failed  int
	)
	for _, src := range sources {
		var (
			payloads []any
			err      error
		)
		switch src.Type {
		case config.SourceTypeBrowser:
			payloads, err = baanknet.New(cfg, src, logger).Fetch(ctx)
		case config.SourceTypeHTML:
			payloads, err = eauction.New(cfg, src, logger).Fetch(ctx)
		default:
			logger.Warn("Skipping source %q with unknown type %q", src.Name, src.Type)
			continue
		}
		tried++
		if err != nil {
			failed++
			logger.Error("Source %q failed: %v", src.Name, err)
			continue
		}
		if len(payloads) == 0 {
			logger.Info("Source %q listed zero records", src.Name)
		}
		batches = append(batches, services.SourceBatch{
			Name:      src.Name,
			GeoFilter: src.GeoFilter,
			Payloads:  payloads,
		})
	}
	if tried == 0 {
		return nil, fmt.Errorf("no usable sources configured")
	}
	if failed == tried {
		return nil, fmt.Errorf("all %d sources failed to fetch", failed)
	}
	return batches, nil
}

func anyGeoFiltered(sources []config.SourceConfig) bool {
	for _, src := range sources {
		if src.GeoFilter {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
