package parser

import (
	"testing"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Line items that don't sum to the stated GRAND TOTAL produce one
// synthetic adjustment record carrying the difference, so the batch
// totals always equal the file's bottom line.
func TestParsePetesGrandTotalReconciliation(t *testing.T) {
	t.Parallel()

	r := xlsxReader(t, testSheet{name: "Sales", rows: [][]any{
		{"Pete's Distribution Monthly Sales"},
		{"Customer", "Item #", "Description", "Size", "Cases", "Amount"},
		{"Acme Deli", "1001", "CB ROUND", "14#", "2", "20.00"},
		{"Bodega Fresh", "2001", "PASTRAMI RND", "13#", "3", "30.00"},
		{"Acme Deli", "1001", "CB ROUND", "14#", "(1)", "(5.00)"},
		{"Grand Total", "", "", "", "5", "50.00"},
	}})

	res, err := ParsePetes(r, "Petes 6.25.xlsx", testServices())
	if err != nil {
		t.Fatalf("ParsePetes: %v", err)
	}

	if len(res.Records) != 4 {
		t.Fatalf("got %d records, want 4 (3 line items + adjustment)", len(res.Records))
	}

	adj := findRecord(t, res.Records, func(r *model.SalesRecord) bool { return r.IsAdjustment })
	if adj.Cases != 1 || adj.Revenue.String() != "5" {
		t.Errorf("adjustment = %d cases / %s, want 1 / 5", adj.Cases, adj.Revenue)
	}
	if adj.CustomerName != "Acme Deli" {
		t.Errorf("adjustment attributed to %q, want first customer Acme Deli", adj.CustomerName)
	}
	if adj.ProductName != "Reconciliation Adjustment" {
		t.Errorf("adjustment product = %q", adj.ProductName)
	}

	// batch totals equal the stated grand total
	if res.Meta.TotalCases != 5 {
		t.Errorf("TotalCases = %d, want 5", res.Meta.TotalCases)
	}
	if res.Meta.TotalRevenue.String() != "50" {
		t.Errorf("TotalRevenue = %s, want 50", res.Meta.TotalRevenue)
	}

	// returns keep their sign
	ret := findRecord(t, res.Records, func(r *model.SalesRecord) bool { return r.Cases < 0 })
	if ret.Cases != -1 || ret.Revenue.String() != "-5" {
		t.Errorf("return = %d cases / %s, want -1 / -5", ret.Cases, ret.Revenue)
	}
}

func TestParsePetesNoAdjustmentWhenBalanced(t *testing.T) {
	t.Parallel()

	r := xlsxReader(t, testSheet{name: "Sales", rows: [][]any{
		{"Customer", "Item #", "Description", "Size", "Cases", "Amount"},
		{"Acme Deli", "1001", "CB ROUND", "14#", "2", "20.00"},
		{"Grand Total", "", "", "", "2", "20.00"},
	}})

	res, err := ParsePetes(r, "Petes 6.25.xlsx", testServices())
	if err != nil {
		t.Fatalf("ParsePetes: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1 (no adjustment needed)", len(res.Records))
	}
	if res.Meta.Adjustments != 0 {
		t.Errorf("Adjustments = %d, want 0", res.Meta.Adjustments)
	}
}

func TestParsePetesPeriodAndCanonicalization(t *testing.T) {
	t.Parallel()

	r := xlsxReader(t, testSheet{name: "Sales", rows: [][]any{
		{"Customer", "Item #", "Description", "Size", "Cases", "Amount"},
		{"Acme Deli", "1001", "GALANT CORNED BEEF ROUND", "14#", "2", "20.00"},
	}})

	res, err := ParsePetes(r, "Petes 12.24.xlsx", testServices())
	if err != nil {
		t.Fatalf("ParsePetes: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(res.Records))
	}
	rec := res.Records[0]
	if rec.Period != "2024-12" {
		t.Errorf("period = %q, want 2024-12 (from filename M.YY)", rec.Period)
	}
	if rec.ProductName != "Corned Beef Round" {
		t.Errorf("product = %q, want canonical Corned Beef Round", rec.ProductName)
	}
}
