package parser

import (
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/catalog"
	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Services bundles the shared dependencies every distributor parser
// needs. Constructed once per process and passed in explicitly.
type Services struct {
	Products *catalog.Products
	Pricing  *catalog.Pricing
	Log      zerolog.Logger
}

// Metadata summarizes one parse for diagnostics and the batch report.
type Metadata struct {
	Channel      model.Channel   `json:"channel"`
	SourceFile   string          `json:"sourceFile"`
	Periods      []string        `json:"periods"`
	RowsRead     int             `json:"rowsRead"`
	RowsSkipped  int             `json:"rowsSkipped"`
	ZeroRows     int             `json:"zeroRows"`
	Customers    int             `json:"customers"`
	TotalCases   int             `json:"totalCases"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	Adjustments  int             `json:"adjustments"`
}

// Result is a parsed batch: canonical records plus aggregate metadata.
// A file with zero usable rows yields an empty Result, not an error.
type Result struct {
	Records []*model.SalesRecord `json:"records"`
	Meta    Metadata             `json:"meta"`
}

// ParseFunc is the uniform parser contract: one raw distributor file in,
// canonical records out.
type ParseFunc func(r io.Reader, filename string, svc *Services) (*Result, error)

// ForChannel returns the parser for a channel.
func ForChannel(ch model.Channel) (ParseFunc, bool) {
	switch ch {
	case model.ChannelPetes:
		return ParsePetes, true
	case model.ChannelTroia:
		return ParseTroia, true
	case model.ChannelTonys:
		return ParseTonys, true
	case model.ChannelVistar:
		return ParseVistar, true
	case model.ChannelDutchValley:
		return ParseDutchValley, true
	case model.ChannelHarvest:
		return ParseHarvest, true
	case model.ChannelSunrise:
		return ParseSunrise, true
	}
	return nil, false
}

func newResult(channel model.Channel, sourceFile string) *Result {
	return &Result{
		Meta: Metadata{
			Channel:      channel,
			SourceFile:   sourceFile,
			TotalRevenue: decimal.Zero,
		},
	}
}

// add appends a record, enforcing the shared soft-skip rules: records
// with no customer are discarded, zero-zero records are treated as no
// data. Returns true when the record was kept.
func (res *Result) add(rec *model.SalesRecord) bool {
	if rec.CustomerName == "" {
		res.Meta.RowsSkipped++
		return false
	}
	if rec.IsZero() {
		res.Meta.ZeroRows++
		return false
	}
	res.Records = append(res.Records, rec)
	res.Meta.TotalCases += rec.Cases
	res.Meta.TotalRevenue = res.Meta.TotalRevenue.Add(rec.Revenue)
	if rec.IsAdjustment {
		res.Meta.Adjustments++
	}
	return true
}

// finalize fills the derived metadata fields after all rows are in.
func (res *Result) finalize() {
	periods := make(map[string]struct{})
	customers := make(map[string]struct{})
	for _, rec := range res.Records {
		periods[rec.Period] = struct{}{}
		customers[rec.CustomerName] = struct{}{}
	}
	res.Meta.Periods = sortedKeys(periods)
	res.Meta.Customers = len(customers)
	res.Meta.TotalRevenue = res.Meta.TotalRevenue.Round(2)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
