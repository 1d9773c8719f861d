package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Dutch Valley sends a tab-separated export with a date-range header
// line above the column row. The hierarchy is three tiers: retailer,
// then the individual store (kept as the account name), then product.

var dutchValleyColumns = []ColumnSpec{
	{Field: "custId", Names: []string{"cust #", "cust no", "customer #"}, Fallback: 0},
	{Field: "retailer", Names: []string{"retailer", "customer"}, Fallback: 1, Required: true},
	{Field: "store", Names: []string{"store", "company", "location"}, Fallback: 2},
	{Field: "item", Names: []string{"item", "upc"}, Fallback: 3},
	{Field: "description", Names: []string{"description", "product"}, Fallback: 4, Required: true},
	{Field: "size", Names: []string{"size"}, Fallback: -1},
	{Field: "qty", Names: []string{"qty", "cases"}, Fallback: 5, Required: true},
	{Field: "netLbs", Names: []string{"net lbs", "net weight"}, Fallback: -1},
	{Field: "amount", Names: []string{"amount", "ext price", "sales"}, Fallback: 6, Required: true},
}

// ParseDutchValley parses a Dutch Valley tab-separated sales export.
func ParseDutchValley(r io.Reader, filename string, svc *Services) (*Result, error) {
	var rows [][]string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rows = append(rows, strings.Split(scanner.Text(), "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read Dutch Valley export: %w", err)
	}

	res := newResult(model.ChannelDutchValley, filename)
	if len(rows) == 0 {
		return res, nil
	}

	// The range header sits above the column row.
	period := ""
	scan := len(rows)
	if scan > 8 {
		scan = 8
	}
	for _, row := range rows[:scan] {
		if p, ok := PeriodFromRangeHeader(strings.Join(row, " ")); ok {
			period = p
			break
		}
	}
	if period == "" {
		if p, ok := PeriodFromFilename(filename); ok {
			period = p
		} else {
			period = CurrentPeriod()
		}
	}

	headerIdx := FindHeaderRow(rows, []string{"retailer", "qty"}, 8)
	if headerIdx < 0 {
		headerIdx = FindHeaderRow(rows, []string{"customer", "qty"}, 8)
	}
	if headerIdx < 0 {
		headerIdx = 0
	}
	cols, err := ResolveColumns(rows[headerIdx], dutchValleyColumns)
	if err != nil {
		return nil, fmt.Errorf("Dutch Valley export: %w", err)
	}

	for _, row := range rows[headerIdx+1:] {
		res.Meta.RowsRead++
		if IsNonDataRow(row) {
			res.Meta.RowsSkipped++
			continue
		}

		res.add(&model.SalesRecord{
			Period:       period,
			CustomerName: cols.Cell(row, "retailer"),
			AccountName:  cols.Cell(row, "store"),
			ProductName:  svc.Products.Canonical(cols.Cell(row, "description")),
			ProductCode:  cols.Cell(row, "item"),
			Size:         cols.Cell(row, "size"),
			Cases:        ToInt(cols.Cell(row, "qty")),
			NetLbs:       ToNumber(cols.Cell(row, "netLbs")),
			Revenue:      ToMoney(cols.Cell(row, "amount")),
			CustomerID:   cols.Cell(row, "custId"),
		})
	}

	res.finalize()
	return res, nil
}
