package parser

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/catalog"
	"github.com/mummysboy/galantsalestracker/internal/model"

	"github.com/xuri/excelize/v2"
)

func testServices() *Services {
	return &Services{
		Products: catalog.NewProducts(zerolog.Nop()),
		Pricing:  catalog.NewPricing(zerolog.Nop()),
		Log:      zerolog.Nop(),
	}
}

func testServicesWithPricing(t *testing.T) *Services {
	t.Helper()
	svc := testServices()
	svc.Pricing.Add(&model.PricingEntry{
		ItemNumber:         "1001",
		ProductDescription: "Corned Beef Round",
		Category:           "corned beef",
		CaseWeight:         14.0,
		CaseCost:           decimal.NewFromFloat(60.00),
	})
	svc.Pricing.Add(&model.PricingEntry{
		ItemNumber:         "2001",
		ProductDescription: "Pastrami Round",
		Category:           "pastrami",
		CaseWeight:         13.0,
		CaseCost:           decimal.NewFromFloat(55.00),
	})
	return svc
}

type testSheet struct {
	name string
	rows [][]any
}

// xlsxReader builds an in-memory workbook with the given sheets.
func xlsxReader(t *testing.T, sheets ...testSheet) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range sheet.rows {
			cell := fmt.Sprintf("A%d", r+1)
			rowCopy := row
			if err := f.SetSheetRow(sheet.name, cell, &rowCopy); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// findRecord returns the first record matching the predicate, or fails.
func findRecord(t *testing.T, records []*model.SalesRecord, match func(*model.SalesRecord) bool) *model.SalesRecord {
	t.Helper()
	for _, rec := range records {
		if match(rec) {
			return rec
		}
	}
	t.Fatal("no record matched")
	return nil
}
