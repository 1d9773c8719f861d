package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

func rec(period, customer, product string, cases int, revenue float64) *model.SalesRecord {
	return &model.SalesRecord{
		Period:       period,
		CustomerName: customer,
		ProductName:  product,
		Cases:        cases,
		Revenue:      decimal.NewFromFloat(revenue),
	}
}

func monthFor(t *testing.T, s *Summary, period string) MonthlyTotal {
	t.Helper()
	for _, m := range s.Months {
		if m.Period == period {
			return m
		}
	}
	t.Fatalf("no monthly total for %s", period)
	return MonthlyTotal{}
}

func TestMonthlyTotals(t *testing.T) {
	t.Parallel()

	s := Rebuild([]*model.SalesRecord{
		rec("2025-07", "Acme Deli", "Corned Beef Round", 3, 45.00),
		rec("2025-07", "Acme Deli", "Pastrami Round", 2, 30.00),
		rec("2025-07", "Bodega Fresh", "Corned Beef Round", 1, 15.00),
	})

	jul := monthFor(t, s, "2025-07")
	if jul.Cases != 6 {
		t.Errorf("cases = %d, want 6", jul.Cases)
	}
	if jul.Revenue.String() != "90" {
		t.Errorf("revenue = %s, want 90", jul.Revenue)
	}
	if jul.AccountCount != 2 {
		t.Errorf("accounts = %d, want 2", jul.AccountCount)
	}
	if jul.AvgCasesPerAccount != 3.0 {
		t.Errorf("avg cases/account = %v, want 3", jul.AvgCasesPerAccount)
	}
}

// "New" means never seen in any earlier month of the dataset. A
// customer who skips a month and returns is not new again, and the
// first month marks nobody as new.
func TestNewCustomerFirstAppearance(t *testing.T) {
	t.Parallel()

	s := Rebuild([]*model.SalesRecord{
		rec("2025-07", "Acme Deli", "Corned Beef Round", 1, 10),
		rec("2025-07", "Skipper Foods", "Corned Beef Round", 1, 10),
		// Skipper Foods skips 2025-08
		rec("2025-08", "Acme Deli", "Corned Beef Round", 1, 10),
		rec("2025-08", "Newcomer Market", "Corned Beef Round", 1, 10),
		rec("2025-09", "Acme Deli", "Corned Beef Round", 1, 10),
		rec("2025-09", "Skipper Foods", "Corned Beef Round", 1, 10),
	})

	jul := monthFor(t, s, "2025-07")
	if len(jul.NewCustomers) != 0 {
		t.Errorf("first month new customers = %v, want none", jul.NewCustomers)
	}

	aug := monthFor(t, s, "2025-08")
	if len(aug.NewCustomers) != 1 || aug.NewCustomers[0] != "Newcomer Market" {
		t.Errorf("aug new = %v, want [Newcomer Market]", aug.NewCustomers)
	}

	sep := monthFor(t, s, "2025-09")
	if len(sep.NewCustomers) != 0 {
		t.Errorf("returning customer marked new: %v", sep.NewCustomers)
	}
}

// "Lost" compares against the immediately prior month.
func TestLostCustomers(t *testing.T) {
	t.Parallel()

	s := Rebuild([]*model.SalesRecord{
		rec("2025-07", "Acme Deli", "Corned Beef Round", 1, 10),
		rec("2025-07", "Fickle Foods", "Corned Beef Round", 1, 10),
		rec("2025-08", "Acme Deli", "Corned Beef Round", 1, 10),
	})

	aug := monthFor(t, s, "2025-08")
	if len(aug.LostCustomers) != 1 || aug.LostCustomers[0] != "Fickle Foods" {
		t.Errorf("aug lost = %v, want [Fickle Foods]", aug.LostCustomers)
	}
}

// Adjustment records count toward channel totals but never surface as
// a product in the drill-down.
func TestAdjustmentRecords(t *testing.T) {
	t.Parallel()

	adj := rec("2025-07", "Acme Deli", "Reconciliation Adjustment", 1, 5.00)
	adj.IsAdjustment = true

	s := Rebuild([]*model.SalesRecord{
		rec("2025-07", "Acme Deli", "Corned Beef Round", 4, 45.00),
		adj,
	})

	jul := monthFor(t, s, "2025-07")
	if jul.Cases != 5 || jul.Revenue.String() != "50" {
		t.Errorf("totals = %d / %s, want 5 / 50 (adjustment counted)", jul.Cases, jul.Revenue)
	}

	for _, customer := range s.Customers {
		for _, sub := range customer.SubVendors {
			for _, product := range sub.Products {
				if product.ProductName == "Reconciliation Adjustment" {
					t.Fatal("adjustment surfaced as a product in the pivot")
				}
			}
		}
	}
}

// Excluded records stay out of channel totals but remain visible in
// the drill-down pivot.
func TestExcludeFromTotals(t *testing.T) {
	t.Parallel()

	excluded := rec("2025-07", "Sunrise #12", "Corned Beef Round", 2, 88.00)
	excluded.ExcludeFromTotals = true

	s := Rebuild([]*model.SalesRecord{
		rec("2025-07", "Acme Deli", "Corned Beef Round", 4, 45.00),
		excluded,
	})

	jul := monthFor(t, s, "2025-07")
	if jul.Cases != 4 {
		t.Errorf("cases = %d, want 4 (excluded record counted)", jul.Cases)
	}
	if jul.AccountCount != 1 {
		t.Errorf("accounts = %d, want 1", jul.AccountCount)
	}

	found := false
	for _, customer := range s.Customers {
		if customer.CustomerName == "Sunrise #12" {
			found = true
		}
	}
	if !found {
		t.Error("excluded record missing from the drill-down pivot")
	}
}

func TestSubVendorSplit(t *testing.T) {
	t.Parallel()

	explicit := rec("2025-07", "Yoder Markets", "Corned Beef Round", 1, 10)
	explicit.AccountName = "Yoder Markets #2"

	s := Rebuild([]*model.SalesRecord{
		explicit,
		rec("2025-07", "Acme - Downtown", "Corned Beef Round", 1, 10),
	})

	var names []string
	for _, customer := range s.Customers {
		for _, sub := range customer.SubVendors {
			names = append(names, customer.CustomerName+"/"+sub.Name)
		}
	}

	want := map[string]bool{
		"Acme/Downtown":                  false,
		"Yoder Markets/Yoder Markets #2": false,
	}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("missing pivot entry %q (got %v)", n, names)
		}
	}
}
