package model

import "github.com/shopspring/decimal"

// PricingEntry is one row of the master price list. Loaded once per
// process and treated as read-only; parsers consult it to enrich sources
// that do not report weight or cost directly.
type PricingEntry struct {
	ItemNumber         string          `json:"itemNumber"`
	ProductDescription string          `json:"productDescription"`
	Pack               int             `json:"pack"`
	Size               string          `json:"size"`
	Category           string          `json:"category"`
	CaseWeight         float64         `json:"caseWeight"` // lbs per case
	CaseCost           decimal.Decimal `json:"caseCost"`
	UnitCost           decimal.Decimal `json:"unitCost"`
}
