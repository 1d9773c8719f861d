package importer

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/aggregate"
	"github.com/mummysboy/galantsalestracker/internal/merge"
	"github.com/mummysboy/galantsalestracker/internal/model"
	"github.com/mummysboy/galantsalestracker/internal/parser"
	"github.com/mummysboy/galantsalestracker/internal/sink"
	"github.com/mummysboy/galantsalestracker/internal/store"
)

// Coordinator drives the upload pipeline: parse the distributor file,
// merge against the channel's existing records, swap the channel in
// the store, mirror rows to the sink, and refresh the channel summary.
// Imports are serialized so two concurrent uploads for the same
// channel cannot interleave their read-merge-replace cycles.
type Coordinator struct {
	store  *store.Store
	merger *merge.Engine
	sink   *sink.Client
	svc    *parser.Services
	log    zerolog.Logger

	mu        sync.Mutex
	summaries map[model.Channel]*aggregate.Summary
}

// NewCoordinator wires the pipeline. sinkClient may be nil when the
// remote sink is disabled.
func NewCoordinator(st *store.Store, merger *merge.Engine, sinkClient *sink.Client, svc *parser.Services, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     st,
		merger:    merger,
		sink:      sinkClient,
		svc:       svc,
		log:       log.With().Str("component", "importer").Logger(),
		summaries: make(map[model.Channel]*aggregate.Summary),
	}
}

// ImportOptions describes one uploaded file.
type ImportOptions struct {
	Channel  model.Channel
	Filename string
	Reader   io.Reader
}

// ProgressEvent is streamed to the client while an import runs.
type ProgressEvent struct {
	Type      string      `json:"type"` // start/parsed/merged/done/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BatchReport summarizes a completed import.
type BatchReport struct {
	BatchID      string          `json:"batchId"`
	Channel      model.Channel   `json:"channel"`
	SourceFile   string          `json:"sourceFile"`
	Periods      []string        `json:"periods"`
	RowsRead     int             `json:"rowsRead"`
	RowsSkipped  int             `json:"rowsSkipped"`
	ZeroRows     int             `json:"zeroRows"`
	Records      int             `json:"records"`
	Added        int             `json:"added"`
	Replaced     int             `json:"replaced"`
	Expired      int             `json:"expired"`
	TotalCases   int             `json:"totalCases"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Adjustments  int             `json:"adjustments"`
	Duration     time.Duration   `json:"duration"`
}

// Import runs the pipeline in the background and returns its progress
// channel. The channel is closed after the final done or error event.
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()
	batchID := uuid.NewString()
	log := c.log.With().Str("batch", batchID).Str("channel", string(opts.Channel)).Logger()

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "start",
		Message: fmt.Sprintf("importing %s file %s", opts.Channel, opts.Filename),
		Data: map[string]string{
			"batchId":  batchID,
			"filename": opts.Filename,
		},
		Timestamp: time.Now(),
	})

	parseFn, ok := parser.ForChannel(opts.Channel)
	if !ok {
		c.fail(progressChan, log, batchID, opts, startTime, fmt.Errorf("unknown channel %q", opts.Channel))
		return
	}

	result, err := parseFn(opts.Reader, opts.Filename, c.svc)
	if err != nil {
		c.fail(progressChan, log, batchID, opts, startTime, fmt.Errorf("parse %s: %w", opts.Filename, err))
		return
	}

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "parsed",
		Message:   fmt.Sprintf("parsed %d rows into %d records across %v", result.Meta.RowsRead, len(result.Records), result.Meta.Periods),
		Data:      result.Meta,
		Timestamp: time.Now(),
	})

	// Serialize merge-and-replace so concurrent uploads can't clobber
	// each other's view of the channel.
	c.mu.Lock()
	existing, err := c.store.GetChannel(opts.Channel)
	if err != nil {
		c.mu.Unlock()
		c.fail(progressChan, log, batchID, opts, startTime, fmt.Errorf("load channel %s: %w", opts.Channel, err))
		return
	}

	mergeRes := c.merger.Merge(existing, result.Records)

	if err := c.store.ReplaceChannel(opts.Channel, mergeRes.Merged); err != nil {
		c.mu.Unlock()
		c.fail(progressChan, log, batchID, opts, startTime, fmt.Errorf("store channel %s: %w", opts.Channel, err))
		return
	}
	delete(c.summaries, opts.Channel)
	c.mu.Unlock()

	c.sendProgress(progressChan, ProgressEvent{
		Type:    "merged",
		Message: fmt.Sprintf("merged: %d added, %d replaced, %d expired", mergeRes.Added, mergeRes.Replaced, mergeRes.Expired),
		Data: map[string]int{
			"added":    mergeRes.Added,
			"replaced": mergeRes.Replaced,
			"expired":  mergeRes.Expired,
			"total":    len(mergeRes.Merged),
		},
		Timestamp: time.Now(),
	})

	// Only the batch's own records go to the sink; merged history is
	// already there from earlier uploads.
	if c.sink != nil {
		c.sink.Append(sink.RowsFromRecords(opts.Channel, result.Records))
	}

	report := BatchReport{
		BatchID:      batchID,
		Channel:      opts.Channel,
		SourceFile:   opts.Filename,
		Periods:      result.Meta.Periods,
		RowsRead:     result.Meta.RowsRead,
		RowsSkipped:  result.Meta.RowsSkipped,
		ZeroRows:     result.Meta.ZeroRows,
		Records:      len(result.Records),
		Added:        mergeRes.Added,
		Replaced:     mergeRes.Replaced,
		Expired:      mergeRes.Expired,
		TotalCases:   result.Meta.TotalCases,
		TotalRevenue: result.Meta.TotalRevenue,
		Adjustments:  result.Meta.Adjustments,
		Duration:     time.Since(startTime),
	}

	c.logBatch(log, report, "")

	log.Info().
		Int("records", report.Records).
		Int("added", report.Added).
		Int("replaced", report.Replaced).
		Str("file", opts.Filename).
		Msg("import complete")

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   fmt.Sprintf("import complete: %d records", report.Records),
		Data:      report,
		Timestamp: time.Now(),
	})
}

// sendProgress delivers an event without ever blocking the pipeline;
// if the consumer has fallen behind the buffer, the event is dropped.
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
	}
}

// fail logs the error, records the failed batch, and emits the
// terminal error event.
func (c *Coordinator) fail(ch chan ProgressEvent, log zerolog.Logger, batchID string, opts ImportOptions, startTime time.Time, err error) {
	log.Error().Err(err).Str("file", opts.Filename).Msg("import failed")

	c.logBatch(log, BatchReport{
		BatchID:    batchID,
		Channel:    opts.Channel,
		SourceFile: opts.Filename,
		Duration:   time.Since(startTime),
	}, err.Error())

	c.sendProgress(ch, ProgressEvent{
		Type:      "error",
		Message:   err.Error(),
		Timestamp: time.Now(),
	})
}

func (c *Coordinator) logBatch(log zerolog.Logger, report BatchReport, errorNote string) {
	entry := store.BatchLogEntry{
		BatchID:    report.BatchID,
		Channel:    report.Channel,
		SourceFile: report.SourceFile,
		Periods:    report.Periods,
		RowsRead:   report.RowsRead,
		Records:    report.Records,
		Added:      report.Added,
		Replaced:   report.Replaced,
		Expired:    report.Expired,
		ErrorNote:  errorNote,
		UploadedAt: time.Now(),
	}
	if err := c.store.InsertBatchLog(entry); err != nil {
		log.Warn().Err(err).Msg("batch log insert failed")
	}
}

// Summary returns the aggregated view for a channel, rebuilding it
// from the store on first use after an import or delete.
func (c *Coordinator) Summary(channel model.Channel) (*aggregate.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.summaries[channel]; ok {
		return cached, nil
	}

	records, err := c.store.GetChannel(channel)
	if err != nil {
		return nil, fmt.Errorf("load channel %s: %w", channel, err)
	}
	summary := aggregate.Rebuild(records)
	c.summaries[channel] = summary
	return summary, nil
}

// DeletePeriod removes one month of a channel's records and drops the
// cached summary.
func (c *Coordinator) DeletePeriod(channel model.Channel, period string) (int64, error) {
	if !model.ValidPeriod(period) {
		return 0, fmt.Errorf("invalid period %q", period)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed, err := c.store.DeletePeriod(channel, period)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		delete(c.summaries, channel)
		c.log.Info().Str("channel", string(channel)).Str("period", period).Int64("removed", removed).Msg("period deleted")
	}
	return removed, nil
}
