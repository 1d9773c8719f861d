package parser

import (
	"strings"
	"testing"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

const vistarReport = `VELOCITY REPORT          FROM : 06/30/25 THRU 07/01/25

OPCO : VISTAR DENVER
ITEM 1001  CORNED BEEF ROUND
  MOUNTAIN VENDING CO            12      540.00
  PEAK SNACKS LLC                 3      135.00
ITEM 2001  PASTRAMI ROUND
  MOUNTAIN VENDING CO             5      225.00
OPCO : VISTAR PHOENIX
ITEM 1001  CORNED BEEF ROUND
  DESERT PROVISIONS               2       90.00
*** END OF REPORT ***
`

// Account rows inherit the OPCO and ITEM headers above them; the period
// comes from the FROM/THRU header and lands in the closing month.
func TestParseVistarRowGroups(t *testing.T) {
	t.Parallel()

	res, err := ParseVistar(strings.NewReader(vistarReport), "vistar.txt", testServices())
	if err != nil {
		t.Fatalf("ParseVistar: %v", err)
	}

	if len(res.Records) != 4 {
		t.Fatalf("got %d records, want 4", len(res.Records))
	}

	for _, rec := range res.Records {
		if rec.Period != "2025-07" {
			t.Errorf("period = %q, want 2025-07 (THRU date wins)", rec.Period)
		}
	}

	first := findRecord(t, res.Records, func(r *model.SalesRecord) bool {
		return r.AccountName == "MOUNTAIN VENDING CO" && r.ItemNumber == "1001"
	})
	if first.CustomerName != "VISTAR DENVER" {
		t.Errorf("customer = %q, want VISTAR DENVER", first.CustomerName)
	}
	if first.Cases != 12 || first.Revenue.String() != "540" {
		t.Errorf("figures = %d / %s, want 12 / 540", first.Cases, first.Revenue)
	}
	if first.ProductName != "Corned Beef Round" {
		t.Errorf("product = %q, want canonical name", first.ProductName)
	}

	// the second OPCO resets the group
	phoenix := findRecord(t, res.Records, func(r *model.SalesRecord) bool {
		return r.AccountName == "DESERT PROVISIONS"
	})
	if phoenix.CustomerName != "VISTAR PHOENIX" {
		t.Errorf("customer = %q, want VISTAR PHOENIX", phoenix.CustomerName)
	}
}

func TestParseVistarSkipsFooter(t *testing.T) {
	t.Parallel()

	res, err := ParseVistar(strings.NewReader(vistarReport), "vistar.txt", testServices())
	if err != nil {
		t.Fatalf("ParseVistar: %v", err)
	}
	if res.Meta.RowsSkipped == 0 {
		t.Error("expected the footer line to be skipped")
	}
}
