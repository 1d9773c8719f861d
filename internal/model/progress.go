package model

import "github.com/shopspring/decimal"

// Trend direction for one metric between the two most recent periods.
type Trend string

const (
	TrendNew         Trend = "new"
	TrendIncreasing  Trend = "increasing"
	TrendDecreasing  Trend = "decreasing"
	TrendStable      Trend = "stable"
	TrendExpanding   Trend = "expanding"
	TrendContracting Trend = "contracting"
)

// LifecycleStatus classifies a customer's overall trajectory.
type LifecycleStatus string

const (
	StatusActive    LifecycleStatus = "active"
	StatusDeclining LifecycleStatus = "declining"
	StatusEmerging  LifecycleStatus = "emerging"
	StatusLost      LifecycleStatus = "lost"
)

// ProductRevenue pairs a product with its revenue inside one period.
type ProductRevenue struct {
	ProductName string          `json:"productName"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cases       int             `json:"cases"`
}

// PeriodSummary is one customer's activity inside one period.
type PeriodSummary struct {
	Period       string           `json:"period"`
	TotalRevenue decimal.Decimal  `json:"totalRevenue"`
	TotalCases   int              `json:"totalCases"`
	ProductCount int              `json:"productCount"`
	TopProducts  []ProductRevenue `json:"topProducts"`
}

// ProgressTrends holds the per-metric trend classifications.
type ProgressTrends struct {
	Revenue  Trend `json:"revenue"`
	Cases    Trend `json:"cases"`
	Products Trend `json:"products"`
}

// CustomerProgress is the derived trend analysis for one customer. It is
// recomputed in full on every merge and never persisted.
type CustomerProgress struct {
	CustomerName string          `json:"customerName"`
	Periods      []PeriodSummary `json:"periods"`
	Trends       ProgressTrends  `json:"trends"`
	Status       LifecycleStatus `json:"status"`
}
