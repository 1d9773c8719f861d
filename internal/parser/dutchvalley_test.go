package parser

import (
	"strings"
	"testing"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

func dutchValleyTSV() string {
	lines := []string{
		"Dutch Valley Foods\tSales by Customer\tFROM 07/01/2025 TO 07/31/2025",
		"Cust #\tRetailer\tStore\tItem\tDescription\tSize\tQty\tNet Lbs\tAmount",
		"4401\tYoder Markets\tYoder Markets #2\t1001\tCB ROUND\t14#\t3\t42.0\t180.00",
		"4401\tYoder Markets\tYoder Markets #5\t1001\tCB ROUND\t14#\t2\t28.0\t120.00",
		"4402\tMiller Bulk Foods\tMiller Bulk Foods\t2001\tPASTRAMI RND\t13#\t1\t13.0\t55.00",
	}
	return strings.Join(lines, "\n") + "\n"
}

// The retailer is the customer; the individual store stays as the
// account name, preserving the three-tier hierarchy.
func TestParseDutchValleyThreeTier(t *testing.T) {
	t.Parallel()

	res, err := ParseDutchValley(strings.NewReader(dutchValleyTSV()), "dutchvalley.txt", testServices())
	if err != nil {
		t.Fatalf("ParseDutchValley: %v", err)
	}

	if len(res.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(res.Records))
	}

	for _, rec := range res.Records {
		if rec.Period != "2025-07" {
			t.Errorf("period = %q, want 2025-07 (from range header)", rec.Period)
		}
	}

	store2 := findRecord(t, res.Records, func(r *model.SalesRecord) bool {
		return r.AccountName == "Yoder Markets #2"
	})
	if store2.CustomerName != "Yoder Markets" {
		t.Errorf("customer = %q, want Yoder Markets", store2.CustomerName)
	}
	if store2.CustomerID != "4401" {
		t.Errorf("customer id = %q, want 4401", store2.CustomerID)
	}
	if store2.Cases != 3 || store2.NetLbs != 42.0 || store2.Revenue.String() != "180" {
		t.Errorf("figures = %d cases / %v lbs / %s, want 3 / 42 / 180", store2.Cases, store2.NetLbs, store2.Revenue)
	}

	// the two stores stay distinct records under one retailer
	if store5 := findRecord(t, res.Records, func(r *model.SalesRecord) bool {
		return r.AccountName == "Yoder Markets #5"
	}); store5.Key() == store2.Key() {
		t.Error("records for different stores must have distinct keys")
	}
}
