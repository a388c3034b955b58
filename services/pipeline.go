package services

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/gondgesagar/Web-scrapper-alert/models"
	"github.com/gondgesagar/Web-scrapper-alert/utils"
)

// RegionFilter is the geo-classification dependency of the pipeline.
type RegionFilter interface {
	InRegion(ctx context.Context, record map[string]any) bool
}

// SourceBatch is one source's captured payloads, tagged with the source
// name and whether its records must pass the geo filter.
type SourceBatch struct {
	Name      string
	GeoFilter bool
	Payloads  []any
}

// Options configures one pipeline run.
type Options struct {
	MaxItems    int
	HorizonDays int      // 0 disables the date-horizon filter
	Categories  []string // free-form allow-list names; empty disables the filter
	Now         func() time.Time
}

// Pipeline sequences flattening, resolution, classification and change
// detection over the records of all configured sources. It is synchronous
// and CPU-bound; all I/O happens in the adapters around it.
type Pipeline struct {
	geo    RegionFilter
	logger *utils.Logger
	opts   Options
}

// NewPipeline creates a pipeline with the given region filter and options.
func NewPipeline(geo RegionFilter, logger *utils.Logger, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{geo: geo, logger: logger, opts: opts}
}

type sourcedRecord struct {
	source    string
	geoFilter bool
	item      any
}

// keyedEntry pairs an entry with its identity, preserving encounter order
// for the new-subset report.
type keyedEntry struct {
	id    string
	entry *models.NormalizedEntry
}

// unwrapBatches splits captured payloads into individual records: a map
// wrapping a "data" or "content" list contributes its elements, a bare list
// its elements, anything else is a record of its own.
func unwrapBatches(batches []SourceBatch) []sourcedRecord {
	var records []sourcedRecord
	for _, batch := range batches {
		for _, payload := range batch.Payloads {
			for _, item := range unwrapPayload(payload) {
				records = append(records, sourcedRecord{
					source:    batch.Name,
					geoFilter: batch.GeoFilter,
					item:      item,
				})
			}
		}
	}
	return records
}

func unwrapPayload(payload any) []any {
	switch p := payload.(type) {
	case map[string]any:
		if data, ok := p["data"].([]any); ok {
			return data
		}
		if content, ok := p["content"].([]any); ok {
			return content
		}
		return []any{p}
	case []any:
		return p
	default:
		return []any{payload}
	}
}

// Run processes all batches against the previous run's snapshot. It returns
// the run result and the current identity→fingerprint map for persistence.
// No record-level failure is fatal.
func (p *Pipeline) Run(ctx context.Context, batches []SourceBatch, previous map[string]string) (*models.RunResult, map[string]string) {
	records := unwrapBatches(batches)
	if p.opts.MaxItems > 0 && len(records) > p.opts.MaxItems {
		records = records[:p.opts.MaxItems]
	}

	now := p.opts.Now()
	result := &models.RunResult{}
	current := map[string]string{}
	var keyed []keyedEntry

	for _, rec := range records {
		raw, isMap := rec.item.(map[string]any)
		if !isMap {
			// Opaque passthrough: no extraction, no identity, no diffing.
			result.Entries = append(result.Entries, &models.NormalizedEntry{Raw: rec.item})
			continue
		}

		if rec.geoFilter && p.geo != nil && !p.geo.InRegion(ctx, raw) {
			p.logger.Debug("[pipeline] Dropped out-of-region record from %s", rec.source)
			continue
		}

		entry := ExtractFields(raw)
		entry.Source = rec.source
		entry.City = deriveCity(raw)

		if p.opts.HorizonDays > 0 && !FarEnoughFuture(entry, p.opts.HorizonDays, now) {
			p.logger.Debug("[pipeline] Dropped record inside %d-day horizon from %s",
				p.opts.HorizonDays, rec.source)
			continue
		}

		id := IdentityKey(entry)
		current[id] = Fingerprint(entry)
		result.Entries = append(result.Entries, entry)
		keyed = append(keyed, keyedEntry{id: id, entry: entry})
	}

	// The new subset is whatever Diff reports; each fresh identity is
	// represented by its first occurrence.
	freshIDs := map[string]struct{}{}
	for _, id := range Diff(current, previous) {
		freshIDs[id] = struct{}{}
	}
	for _, k := range keyed {
		if _, ok := freshIDs[k.id]; ok {
			result.Fresh = append(result.Fresh, k.entry)
			delete(freshIDs, k.id)
		}
	}

	result.Fresh = p.filterCategories(result.Fresh)
	result.Grouped = groupByCategory(result.Fresh)

	p.logger.Info("[pipeline] Processed %d records — %d entries, %d new",
		len(records), len(result.Entries), len(result.Fresh))
	return result, current
}

// filterCategories applies the category allow-list to the new subset only.
// Unknown allow-list names are logged and ignored.
func (p *Pipeline) filterCategories(fresh []*models.NormalizedEntry) []*models.NormalizedEntry {
	if len(p.opts.Categories) == 0 {
		return fresh
	}
	allowed := map[string]struct{}{}
	for _, name := range p.opts.Categories {
		label, ok := NormalizeCategory(name)
		if !ok {
			p.logger.Warn("[pipeline] Unknown category %q in allow-list, ignoring", name)
			continue
		}
		allowed[label] = struct{}{}
	}
	if len(allowed) == 0 {
		return fresh
	}
	kept := make([]*models.NormalizedEntry, 0, len(fresh))
	for _, entry := range fresh {
		if _, ok := allowed[Classify(entry)]; ok {
			kept = append(kept, entry)
		}
	}
	return kept
}

// groupByCategory buckets entries in the fixed display-priority order,
// omitting empty buckets.
func groupByCategory(entries []*models.NormalizedEntry) []models.CategoryGroup {
	buckets := map[string][]*models.NormalizedEntry{}
	for _, entry := range entries {
		label := Classify(entry)
		buckets[label] = append(buckets[label], entry)
	}
	var groups []models.CategoryGroup
	for _, label := range CategoryDisplayOrder {
		if bucket, ok := buckets[label]; ok {
			groups = append(groups, models.CategoryGroup{Category: label, Entries: bucket})
		}
	}
	return groups
}

// deriveCity pulls a city name from the record when one is available:
// an explicit city field, or the last path segment of a city page URL.
func deriveCity(record map[string]any) string {
	if city := models.Stringify(record["city"]); city != "" {
		return city
	}
	if cityURL := models.Stringify(record["city_url"]); cityURL != "" {
		base := path.Base(strings.TrimSuffix(cityURL, "/"))
		base = strings.TrimSuffix(base, path.Ext(base))
		if base != "." && base != "/" {
			return base
		}
	}
	return ""
}
