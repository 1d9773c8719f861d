package merge

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Engine reconciles a newly parsed batch against a channel's retained
// record set. Merging is last-write-wins by RecordKey: re-uploading a
// period replaces the prior entries for overlapping keys rather than
// summing with them, so a corrected file can be uploaded any number of
// times. Source-agnostic: it only sees the canonical record shape.

// Options tunes retention. Zero values fall back to the defaults.
type Options struct {
	RetentionMonths int // primary rolling window
	DegradedMonths  int // shorter window tried when the cap is exceeded
	MaxBytes        int // serialized-size cap per channel; 0 disables
}

const (
	defaultRetentionMonths = 24
	defaultDegradedMonths  = 12
)

// Engine merges batches and applies the retention policy.
type Engine struct {
	opts Options
	log  zerolog.Logger
	now  func() time.Time
}

// NewEngine builds a merge engine.
func NewEngine(opts Options, log zerolog.Logger) *Engine {
	if opts.RetentionMonths <= 0 {
		opts.RetentionMonths = defaultRetentionMonths
	}
	if opts.DegradedMonths <= 0 {
		opts.DegradedMonths = defaultDegradedMonths
	}
	return &Engine{opts: opts, log: log, now: time.Now}
}

// Result is the outcome of one merge.
type Result struct {
	Merged   []*model.SalesRecord
	Added    int // records whose key did not previously exist
	Replaced int // records that overwrote an existing key
	Expired  int // records dropped by the retention window
}

// Merge overlays a new batch onto the existing record set and applies
// retention. Existing records keep their first-seen relative order;
// genuinely new keys append in batch order.
func (e *Engine) Merge(existing, incoming []*model.SalesRecord) Result {
	byKey := make(map[model.RecordKey]int, len(existing))
	merged := make([]*model.SalesRecord, 0, len(existing)+len(incoming))

	for _, rec := range existing {
		key := rec.Key()
		if idx, ok := byKey[key]; ok {
			merged[idx] = rec // duplicate in stored data, keep the later one
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, rec)
	}

	var res Result
	for _, rec := range incoming {
		key := rec.Key()
		if idx, ok := byKey[key]; ok {
			merged[idx] = rec
			res.Replaced++
			continue
		}
		byKey[key] = len(merged)
		merged = append(merged, rec)
		res.Added++
	}

	merged, expired := e.applyRetention(merged)
	res.Merged = merged
	res.Expired = expired
	return res
}

// applyRetention filters to the rolling window. If the serialized set
// still exceeds the size cap, it degrades to the shorter window, then
// drops the oldest periods one by one. Degradation is silent by design:
// the persistence layer enforces a small per-entry cap and an upload
// must not fail because history grew.
func (e *Engine) applyRetention(records []*model.SalesRecord) ([]*model.SalesRecord, int) {
	original := len(records)

	records = filterWindow(records, e.cutoff(e.opts.RetentionMonths))
	if e.opts.MaxBytes > 0 && serializedSize(records) > e.opts.MaxBytes {
		e.log.Warn().
			Int("records", len(records)).
			Int("capBytes", e.opts.MaxBytes).
			Msgf("record set over size cap, degrading retention to %d months", e.opts.DegradedMonths)
		records = filterWindow(records, e.cutoff(e.opts.DegradedMonths))

		for serializedSize(records) > e.opts.MaxBytes {
			trimmed := dropOldestPeriod(records)
			if len(trimmed) == len(records) {
				break // single period left; nothing more to drop
			}
			records = trimmed
		}
	}

	return records, original - len(records)
}

func (e *Engine) cutoff(months int) string {
	t := e.now().UTC().AddDate(0, -months, 0)
	return t.Format("2006-01")
}

func filterWindow(records []*model.SalesRecord, cutoff string) []*model.SalesRecord {
	out := records[:0:0]
	for _, rec := range records {
		if rec.Period >= cutoff {
			out = append(out, rec)
		}
	}
	return out
}

func dropOldestPeriod(records []*model.SalesRecord) []*model.SalesRecord {
	periods := make(map[string]struct{})
	for _, rec := range records {
		periods[rec.Period] = struct{}{}
	}
	if len(periods) <= 1 {
		return records
	}
	sorted := make([]string, 0, len(periods))
	for p := range periods {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)
	oldest := sorted[0]

	out := records[:0:0]
	for _, rec := range records {
		if rec.Period != oldest {
			out = append(out, rec)
		}
	}
	return out
}

func serializedSize(records []*model.SalesRecord) int {
	data, err := json.Marshal(records)
	if err != nil {
		return 0
	}
	return len(data)
}
