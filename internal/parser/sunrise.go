package parser

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Sunrise Markets reports its in-store deli program separately, but that
// volume already flows through Pete's channel. Every record is tagged
// ExcludeFromTotals so an all-businesses view never counts it twice;
// the channel still exists for its own drill-down.

var sunriseColumns = []ColumnSpec{
	{Field: "store", Names: []string{"store", "location"}, Fallback: 0, Required: true},
	{Field: "upc", Names: []string{"upc", "item"}, Fallback: 1},
	{Field: "description", Names: []string{"description", "product"}, Fallback: 2, Required: true},
	{Field: "units", Names: []string{"units", "pieces"}, Fallback: -1},
	{Field: "cases", Names: []string{"cases", "qty"}, Fallback: 3, Required: true},
	{Field: "amount", Names: []string{"amount", "sales", "revenue"}, Fallback: 4, Required: true},
}

// ParseSunrise parses a Sunrise Markets deli-program workbook.
func ParseSunrise(r io.Reader, filename string, svc *Services) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Sunrise workbook: %w", err)
	}
	defer f.Close()

	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}

	res := newResult(model.ChannelSunrise, filename)
	if len(rows) == 0 {
		return res, nil
	}

	headerIdx := FindHeaderRow(rows, []string{"store", "cases"}, 10)
	if headerIdx < 0 {
		headerIdx = 0
	}
	cols, err := ResolveColumns(rows[headerIdx], sunriseColumns)
	if err != nil {
		return nil, fmt.Errorf("Sunrise sheet: %w", err)
	}

	period := petesPeriod(rows, filename)

	for _, row := range rows[headerIdx+1:] {
		res.Meta.RowsRead++
		if IsNonDataRow(row) {
			res.Meta.RowsSkipped++
			continue
		}

		res.add(&model.SalesRecord{
			Period:            period,
			CustomerName:      cols.Cell(row, "store"),
			ProductName:       svc.Products.Canonical(cols.Cell(row, "description")),
			ProductCode:       cols.Cell(row, "upc"),
			Pieces:            ToInt(cols.Cell(row, "units")),
			Cases:             ToInt(cols.Cell(row, "cases")),
			Revenue:           ToMoney(cols.Cell(row, "amount")),
			ExcludeFromTotals: true,
		})
	}

	res.finalize()
	return res, nil
}
