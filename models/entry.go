package models

// FlatPair is one scalar leaf of a raw record, addressed by its path:
// object keys joined by ".", sequence indices as "[i]".
type FlatPair struct {
	Path  string
	Value any
}

// DateField is a single date-bearing key/value collected from a raw record.
// A record usually carries several (inspection, auction, EMD windows).
type DateField struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// NormalizedEntry is the canonical output shape for one listing. It is
// created once per accepted raw record; Link/Source/City are attached during
// the same pass and the entry is never mutated afterwards.
type NormalizedEntry struct {
	EMDCost        any         `json:"emd_cost"`
	Details        any         `json:"details"`
	ImportantDates []DateField `json:"important_dates"`
	Link           any         `json:"link"`
	Photos         any         `json:"photos"`
	Source         string      `json:"source,omitempty"`
	City           string      `json:"city,omitempty"`
	Raw            any         `json:"raw"`
}

// RawMap returns the original record as a map, or nil if the record was not
// dict-like (opaque passthrough entries).
func (e *NormalizedEntry) RawMap() map[string]any {
	m, _ := e.Raw.(map[string]any)
	return m
}

// RawString returns the string form of a top-level raw field, or "" when the
// field is absent, nil, or the record is opaque.
func (e *NormalizedEntry) RawString(key string) string {
	m := e.RawMap()
	if m == nil {
		return ""
	}
	return Stringify(m[key])
}

// DetailsString returns the resolved details as text, "" if unresolved.
func (e *NormalizedEntry) DetailsString() string {
	return Stringify(e.Details)
}

// LinkString returns the resolved link as text, "" if unresolved or not a string.
func (e *NormalizedEntry) LinkString() string {
	s, _ := e.Link.(string)
	return s
}

// Summary is the per-item view handed to the notification formatter. It is
// complete: the formatter renders it without re-deriving anything.
type Summary struct {
	Details        string
	Bank           string
	Price          string
	Posted         string
	Link           string
	Photos         any
	ImportantDates []DateField
	EMDCost        any
}

// Summarize projects the entry onto the notification boundary fields.
func (e *NormalizedEntry) Summarize() Summary {
	return Summary{
		Details:        e.DetailsString(),
		Bank:           e.RawString("bankName"),
		Price:          e.RawString("price"),
		Posted:         e.RawString("postedOn"),
		Link:           e.LinkString(),
		Photos:         e.Photos,
		ImportantDates: e.ImportantDates,
		EMDCost:        e.EMDCost,
	}
}

// CategoryGroup is one bucket of the new/changed subset, in display order.
type CategoryGroup struct {
	Category string
	Entries  []*NormalizedEntry
}

// RunResult is what one pipeline run emits: the full normalized result list
// (for the output artifact), the new subset (for notification) and its
// grouping by category.
type RunResult struct {
	Entries []*NormalizedEntry
	Fresh   []*NormalizedEntry
	Grouped []CategoryGroup
}
