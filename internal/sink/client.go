// Package sink mirrors merged rows to the hosted spreadsheet backend.
// The sink is a durability/export target, never a synchronous
// dependency: local state is already committed by the time rows are
// queued here, so failures are logged and dropped, not retried or
// surfaced as upload errors.
package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Row is one line item for the sink's append interface.
type Row struct {
	Date         string // YYYY-MM-DD the sale is attributed to
	CustomerName string
	ProductName  string
	ProductCode  string
	Cases        int
	Revenue      decimal.Decimal
	SourceLabel  string
}

// Tuple renders the row in the sink's wire order:
// [date, customer, product, code, cases, revenue, invoiceKey, source, uploadedAt].
func (r Row) Tuple(uploadedAt time.Time) []any {
	return []any{
		r.Date,
		r.CustomerName,
		r.ProductName,
		r.ProductCode,
		r.Cases,
		r.Revenue.StringFixed(2),
		InvoiceKey(r.Date, r.CustomerName, r.ProductName, r.Cases, r.Revenue),
		r.SourceLabel,
		uploadedAt.UTC().Format(time.RFC3339),
	}
}

// InvoiceKey derives a deterministic synthetic invoice key from the
// identifying fields, so re-uploading identical line items produces
// identical keys and the sink can dedup idempotently. djb2 over the
// joined fields.
func InvoiceKey(date, customer, product string, cases int, revenue decimal.Decimal) string {
	payload := date + "|" + customer + "|" + product + "|" +
		strconv.Itoa(cases) + "|" + revenue.StringFixed(2)

	var hash uint32 = 5381
	for i := 0; i < len(payload); i++ {
		hash = hash*33 + uint32(payload[i])
	}
	return fmt.Sprintf("INV-%08X", hash)
}

// RowsFromRecords converts merged records into sink rows. The sale date
// is the first of the period month; the sink only pivots monthly.
func RowsFromRecords(channel model.Channel, records []*model.SalesRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, Row{
			Date:         rec.Period + "-01",
			CustomerName: rec.CustomerName,
			ProductName:  rec.ProductName,
			ProductCode:  rec.ProductCode,
			Cases:        rec.Cases,
			Revenue:      rec.Revenue,
			SourceLabel:  string(channel),
		})
	}
	return rows
}

// Config for the sink client.
type Config struct {
	URL     string
	Token   string
	Enabled bool
	Timeout time.Duration
}

type batch struct {
	rows       []Row
	uploadedAt time.Time
}

// Client queues row batches and ships them from a single background
// worker, keeping sink latency and outages off the parse/merge path.
type Client struct {
	cfg    Config
	http   *http.Client
	log    zerolog.Logger
	queue  chan batch
	done   chan struct{}
	closed chan struct{}
}

// NewClient builds the sink client and starts its worker. A disabled
// client accepts and discards batches.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		log:    log,
		queue:  make(chan batch, 16),
		done:   make(chan struct{}),
		closed: make(chan struct{}),
	}
	go c.worker()
	return c
}

// Append queues rows for the sink. Never blocks the caller: when the
// queue is full the batch is dropped and logged, by the same policy as
// a failed request.
func (c *Client) Append(rows []Row) {
	if !c.cfg.Enabled || len(rows) == 0 {
		return
	}
	b := batch{rows: rows, uploadedAt: time.Now()}
	select {
	case c.queue <- b:
	default:
		c.log.Error().Int("rows", len(rows)).Msg("sink queue full, dropping batch")
	}
}

// Close drains queued batches and stops the worker.
func (c *Client) Close() {
	close(c.done)
	<-c.closed
}

func (c *Client) worker() {
	defer close(c.closed)
	for {
		select {
		case b := <-c.queue:
			c.send(b)
		case <-c.done:
			// drain what's already queued
			for {
				select {
				case b := <-c.queue:
					c.send(b)
				default:
					return
				}
			}
		}
	}
}

type appendRequest struct {
	Token string  `json:"token"`
	Rows  [][]any `json:"rows"`
}

func (c *Client) send(b batch) {
	tuples := make([][]any, 0, len(b.rows))
	for _, row := range b.rows {
		tuples = append(tuples, row.Tuple(b.uploadedAt))
	}

	body, err := json.Marshal(appendRequest{Token: c.cfg.Token, Rows: tuples})
	if err != nil {
		c.log.Error().Err(err).Msg("sink batch marshal failed")
		return
	}

	resp, err := c.http.Post(c.cfg.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		c.log.Error().Err(err).Int("rows", len(b.rows)).Msg("sink append failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Int("rows", len(b.rows)).Msg("sink rejected batch")
		return
	}
	c.log.Debug().Int("rows", len(b.rows)).Msg("sink batch appended")
}
