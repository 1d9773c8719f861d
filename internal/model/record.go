package model

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// Channel identifies one distributor pipeline. Records are retained and
// merged per channel, never across channels.
type Channel string

const (
	ChannelPetes       Channel = "petes"
	ChannelTroia       Channel = "troia"
	ChannelTonys       Channel = "tonys"
	ChannelVistar      Channel = "vistar"
	ChannelDutchValley Channel = "dutchvalley"
	ChannelHarvest     Channel = "harvest"
	ChannelSunrise     Channel = "sunrise"
)

// AllChannels lists every known channel in display order.
var AllChannels = []Channel{
	ChannelPetes,
	ChannelTroia,
	ChannelTonys,
	ChannelVistar,
	ChannelDutchValley,
	ChannelHarvest,
	ChannelSunrise,
}

// KnownChannel reports whether ch names a supported channel.
func KnownChannel(ch Channel) bool {
	for _, c := range AllChannels {
		if c == ch {
			return true
		}
	}
	return false
}

// SalesRecord is the canonical unit: one line of "customer X bought
// product Y in period Z". Records are immutable after parsing; merges
// replace whole records by key rather than mutating fields.
type SalesRecord struct {
	Period       string `json:"period"` // YYYY-MM
	CustomerName string `json:"customerName"`
	AccountName  string `json:"accountName,omitempty"` // second tier for three-tier sources
	ProductName  string `json:"productName"`           // canonical name, or raw description if unmapped

	ProductCode   string `json:"productCode,omitempty"`
	ItemNumber    string `json:"itemNumber,omitempty"`
	Size          string `json:"size,omitempty"`
	MfgItemNumber string `json:"mfgItemNumber,omitempty"`

	Cases     int     `json:"cases"` // negative for returns/credits
	Pieces    int     `json:"pieces,omitempty"`
	NetLbs    float64 `json:"netLbs,omitempty"`
	WeightLbs float64 `json:"weightLbs,omitempty"`

	Revenue decimal.Decimal `json:"revenue"`

	CustomerID string `json:"customerId,omitempty"`

	// ExcludeFromTotals marks sub-distributor volume already counted in a
	// parent channel; such rows never enter combined totals.
	ExcludeFromTotals bool `json:"excludeFromTotals,omitempty"`

	// IsAdjustment marks a synthetic reconciliation row. It participates in
	// channel totals but never surfaces as a product.
	IsAdjustment bool `json:"isAdjustment,omitempty"`
}

// RecordKey is the merge identity of a record. A struct key gives value
// equality without delimiter-escaping hazards, and carries AccountName so
// two sub-accounts of the same customer cannot overwrite each other.
type RecordKey struct {
	Period       string
	CustomerName string
	AccountName  string
	ProductName  string
}

// Key returns the merge identity of the record.
func (r *SalesRecord) Key() RecordKey {
	return RecordKey{
		Period:       r.Period,
		CustomerName: r.CustomerName,
		AccountName:  r.AccountName,
		ProductName:  r.ProductName,
	}
}

// IsZero reports whether the record carries no data at all (zero cases and
// zero revenue). Such rows are dropped at parse time.
func (r *SalesRecord) IsZero() bool {
	return r.Cases == 0 && r.Revenue.IsZero()
}

var periodPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// ValidPeriod reports whether p is a well-formed YYYY-MM period key.
func ValidPeriod(p string) bool {
	return periodPattern.MatchString(p)
}
