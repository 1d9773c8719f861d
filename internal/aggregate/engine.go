package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Rebuild computes the view-ready aggregates for one channel's merged
// record set. Everything here is recomputed in full after each merge or
// delete; there is no incremental maintenance to get subtly wrong.

// MonthCell is a cases/revenue pair inside one calendar month column.
type MonthCell struct {
	Cases   int             `json:"cases"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyTotal is one period's channel-level rollup.
type MonthlyTotal struct {
	Period             string          `json:"period"`
	Cases              int             `json:"cases"`
	Revenue            decimal.Decimal `json:"revenue"`
	AccountCount       int             `json:"accountCount"`
	AvgCasesPerAccount float64         `json:"avgCasesPerAccount"`
	NewCustomers       []string        `json:"newCustomers"`
	LostCustomers      []string        `json:"lostCustomers"`
}

// ProductPivot is one product's per-month cells under a sub-vendor.
type ProductPivot struct {
	ProductName string               `json:"productName"`
	Months      map[string]MonthCell `json:"months"`
}

// SubVendorPivot groups products under a second-tier name.
type SubVendorPivot struct {
	Name     string          `json:"name"`
	Products []*ProductPivot `json:"products"`
}

// CustomerPivot is the top level of the drill-down hierarchy.
type CustomerPivot struct {
	CustomerName string            `json:"customerName"`
	SubVendors   []*SubVendorPivot `json:"subVendors"`
}

// Summary is the full aggregate view for one channel.
type Summary struct {
	Periods   []string         `json:"periods"`
	Months    []MonthlyTotal   `json:"months"`
	Customers []*CustomerPivot `json:"customers"`
}

// Rebuild computes the Summary from scratch. Records tagged
// ExcludeFromTotals stay out of the channel totals but still appear in
// the drill-down pivot; adjustment records do the opposite: they count
// toward totals but never surface as a product.
func Rebuild(records []*model.SalesRecord) *Summary {
	s := &Summary{}
	if len(records) == 0 {
		return s
	}

	s.Periods = distinctPeriods(records)
	s.Months = monthlyTotals(records, s.Periods)
	s.Customers = customerPivots(records)
	return s
}

func distinctPeriods(records []*model.SalesRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		set[rec.Period] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func monthlyTotals(records []*model.SalesRecord, periods []string) []MonthlyTotal {
	type monthAgg struct {
		cases     int
		revenue   decimal.Decimal
		customers map[string]struct{}
	}
	byPeriod := make(map[string]*monthAgg, len(periods))
	for _, p := range periods {
		byPeriod[p] = &monthAgg{revenue: decimal.Zero, customers: make(map[string]struct{})}
	}

	for _, rec := range records {
		agg := byPeriod[rec.Period]
		if rec.ExcludeFromTotals {
			continue
		}
		agg.cases += rec.Cases
		agg.revenue = agg.revenue.Add(rec.Revenue)
		agg.customers[rec.CustomerName] = struct{}{}
	}

	newByPeriod, lostByPeriod := customerTurnover(records, periods)

	out := make([]MonthlyTotal, 0, len(periods))
	for _, p := range periods {
		agg := byPeriod[p]
		total := MonthlyTotal{
			Period:        p,
			Cases:         agg.cases,
			Revenue:       agg.revenue.Round(2),
			AccountCount:  len(agg.customers),
			NewCustomers:  newByPeriod[p],
			LostCustomers: lostByPeriod[p],
		}
		if total.AccountCount > 0 {
			total.AvgCasesPerAccount = float64(total.Cases) / float64(total.AccountCount)
		}
		out = append(out, total)
	}
	return out
}

// customerTurnover computes the new/lost customer sets per month.
//
// "New" means never seen in any earlier period of the dataset, not just
// absent from the immediately prior month; a customer that skips a month
// and returns is not new again. The first month has no new customers by
// definition: with nothing earlier to compare against, marking everyone
// new would be noise. "Lost" compares only against the immediately prior
// populated month.
func customerTurnover(records []*model.SalesRecord, periods []string) (newBy, lostBy map[string][]string) {
	presence := make(map[string]map[string]struct{}, len(periods)) // period -> customers
	for _, p := range periods {
		presence[p] = make(map[string]struct{})
	}
	for _, rec := range records {
		if rec.ExcludeFromTotals {
			continue
		}
		presence[rec.Period][rec.CustomerName] = struct{}{}
	}

	newBy = make(map[string][]string, len(periods))
	lostBy = make(map[string][]string, len(periods))

	everSeen := make(map[string]struct{})
	for i, p := range periods {
		current := presence[p]

		if i > 0 {
			var added []string
			for customer := range current {
				if _, ok := everSeen[customer]; !ok {
					added = append(added, customer)
				}
			}
			sort.Strings(added)
			newBy[p] = added

			prior := presence[periods[i-1]]
			var lost []string
			for customer := range prior {
				if _, ok := current[customer]; !ok {
					lost = append(lost, customer)
				}
			}
			sort.Strings(lost)
			lostBy[p] = lost
		}

		for customer := range current {
			everSeen[customer] = struct{}{}
		}
	}
	return newBy, lostBy
}

func customerPivots(records []*model.SalesRecord) []*CustomerPivot {
	type key struct{ customer, sub, product string }
	perKeyPeriods := make(map[key]map[string]MonthCell)

	customers := make(map[string]map[string]map[string]struct{}) // customer -> sub -> product

	for _, rec := range records {
		if rec.IsAdjustment {
			continue // never surfaces as a product
		}
		customer, sub := splitSubVendor(rec.CustomerName, rec.AccountName)
		k := key{customer, sub, rec.ProductName}

		months, ok := perKeyPeriods[k]
		if !ok {
			months = make(map[string]MonthCell)
			perKeyPeriods[k] = months
		}
		cell := months[rec.Period]
		cell.Cases += rec.Cases
		cell.Revenue = cell.Revenue.Add(rec.Revenue).Round(2)
		months[rec.Period] = cell

		if customers[customer] == nil {
			customers[customer] = make(map[string]map[string]struct{})
		}
		if customers[customer][sub] == nil {
			customers[customer][sub] = make(map[string]struct{})
		}
		customers[customer][sub][rec.ProductName] = struct{}{}
	}

	names := make([]string, 0, len(customers))
	for name := range customers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*CustomerPivot, 0, len(names))
	for _, customer := range names {
		pivot := &CustomerPivot{CustomerName: customer}

		subNames := make([]string, 0, len(customers[customer]))
		for sub := range customers[customer] {
			subNames = append(subNames, sub)
		}
		sort.Strings(subNames)

		for _, sub := range subNames {
			subPivot := &SubVendorPivot{Name: sub}

			productNames := make([]string, 0, len(customers[customer][sub]))
			for product := range customers[customer][sub] {
				productNames = append(productNames, product)
			}
			sort.Strings(productNames)

			for _, product := range productNames {
				subPivot.Products = append(subPivot.Products, &ProductPivot{
					ProductName: product,
					Months:      perKeyPeriods[key{customer, sub, product}],
				})
			}
			pivot.SubVendors = append(pivot.SubVendors, subPivot)
		}
		out = append(out, pivot)
	}
	return out
}

// splitSubVendor resolves the two-tier display hierarchy. An explicit
// account name wins; otherwise combined names like "Acme - Downtown" or
// "Acme: Downtown" are split on the convention separator.
func splitSubVendor(customerName, accountName string) (customer, sub string) {
	if accountName != "" {
		return customerName, accountName
	}
	for _, sep := range []string{" - ", ": "} {
		if i := strings.Index(customerName, sep); i > 0 {
			return customerName[:i], strings.TrimSpace(customerName[i+len(sep):])
		}
	}
	return customerName, ""
}
