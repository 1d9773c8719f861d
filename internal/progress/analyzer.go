package progress

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Analyzer buckets a customer's records by period and classifies the
// trajectory. Pure and stateless: recomputed in full from the canonical
// record set on every merge, never updated incrementally.

const trendThreshold = 0.10 // ±10% relative change separates a trend from noise

const topProductLimit = 5

// Analyze computes the progress analysis for one customer over a
// canonical record set.
func Analyze(records []*model.SalesRecord, customerName string) *model.CustomerProgress {
	byPeriod := make(map[string][]*model.SalesRecord)
	for _, rec := range records {
		if rec.CustomerName != customerName {
			continue
		}
		byPeriod[rec.Period] = append(byPeriod[rec.Period], rec)
	}

	// Zero-padded YYYY-MM keys sort correctly as strings.
	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	analysis := &model.CustomerProgress{CustomerName: customerName}
	for _, p := range periods {
		analysis.Periods = append(analysis.Periods, summarizePeriod(p, byPeriod[p]))
	}

	analysis.Trends, analysis.Status = classify(analysis.Periods)
	return analysis
}

// AnalyzeAll computes the analysis for every customer in the set.
// Results are assembled fully before being returned, so callers never
// observe a partial recompute.
func AnalyzeAll(records []*model.SalesRecord) []*model.CustomerProgress {
	seen := make(map[string]struct{})
	var customers []string
	for _, rec := range records {
		if _, ok := seen[rec.CustomerName]; !ok {
			seen[rec.CustomerName] = struct{}{}
			customers = append(customers, rec.CustomerName)
		}
	}
	sort.Strings(customers)

	out := make([]*model.CustomerProgress, len(customers))
	var g errgroup.Group
	g.SetLimit(4)
	var mu sync.Mutex
	for i, name := range customers {
		i, name := i, name
		g.Go(func() error {
			a := Analyze(records, name)
			mu.Lock()
			out[i] = a
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never error
	return out
}

func summarizePeriod(period string, records []*model.SalesRecord) model.PeriodSummary {
	summary := model.PeriodSummary{Period: period, TotalRevenue: decimal.Zero}

	type productAgg struct {
		revenue decimal.Decimal
		cases   int
	}
	products := make(map[string]*productAgg)

	for _, rec := range records {
		summary.TotalCases += rec.Cases
		summary.TotalRevenue = summary.TotalRevenue.Add(rec.Revenue)
		if rec.IsAdjustment {
			continue // adjustments count toward totals, never as a product
		}
		agg, ok := products[rec.ProductName]
		if !ok {
			agg = &productAgg{revenue: decimal.Zero}
			products[rec.ProductName] = agg
		}
		agg.revenue = agg.revenue.Add(rec.Revenue)
		agg.cases += rec.Cases
	}

	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	summary.ProductCount = len(products)

	top := make([]model.ProductRevenue, 0, len(products))
	for name, agg := range products {
		top = append(top, model.ProductRevenue{
			ProductName: name,
			Revenue:     agg.revenue.Round(2),
			Cases:       agg.cases,
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if !top[i].Revenue.Equal(top[j].Revenue) {
			return top[i].Revenue.GreaterThan(top[j].Revenue)
		}
		return top[i].ProductName < top[j].ProductName
	})
	if len(top) > topProductLimit {
		top = top[:topProductLimit]
	}
	summary.TopProducts = top
	return summary
}

// classify compares only the latest period against the one immediately
// before it; a longer trailing average would lag the signal the sales
// team actually reacts to.
func classify(periods []model.PeriodSummary) (model.ProgressTrends, model.LifecycleStatus) {
	switch len(periods) {
	case 0:
		return model.ProgressTrends{
			Revenue:  model.TrendNew,
			Cases:    model.TrendNew,
			Products: model.TrendNew,
		}, model.StatusLost
	case 1:
		return model.ProgressTrends{
			Revenue:  model.TrendNew,
			Cases:    model.TrendNew,
			Products: model.TrendNew,
		}, model.StatusEmerging
	}

	latest := periods[len(periods)-1]
	prior := periods[len(periods)-2]

	trends := model.ProgressTrends{
		Revenue: direction(prior.TotalRevenue.InexactFloat64(), latest.TotalRevenue.InexactFloat64()),
		Cases:   direction(float64(prior.TotalCases), float64(latest.TotalCases)),
	}

	switch {
	case latest.ProductCount > prior.ProductCount:
		trends.Products = model.TrendExpanding
	case latest.ProductCount < prior.ProductCount:
		trends.Products = model.TrendContracting
	default:
		trends.Products = model.TrendStable
	}

	status := model.StatusActive
	if trends.Revenue == model.TrendDecreasing || trends.Cases == model.TrendDecreasing {
		status = model.StatusDeclining
	}
	return trends, status
}

func direction(prior, latest float64) model.Trend {
	if prior == 0 {
		if latest > 0 {
			return model.TrendIncreasing
		}
		if latest < 0 {
			return model.TrendDecreasing
		}
		return model.TrendStable
	}
	change := (latest - prior) / prior
	switch {
	case change > trendThreshold:
		return model.TrendIncreasing
	case change < -trendThreshold:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}
