package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Tony's velocity report carries two reporting periods side by side:
// each data row has a cases/sales column pair for the current month and
// another pair for the prior month. Column groups are located by
// scanning header text for month-name substrings, so a row can yield up
// to two records, one per period.

var tonysBaseColumns = []ColumnSpec{
	{Field: "customer", Names: []string{"customer", "account"}, Fallback: 0, Required: true},
	{Field: "item", Names: []string{"item #", "item"}, Fallback: 1},
	{Field: "description", Names: []string{"description", "product"}, Fallback: 2, Required: true},
}

// tonysPeriodGroup is one side-by-side reporting period in the header.
type tonysPeriodGroup struct {
	period   string
	casesCol int
	salesCol int
}

// ParseTonys parses a Tony's two-period velocity workbook.
func ParseTonys(r io.Reader, filename string, svc *Services) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Tony's workbook: %w", err)
	}
	defer f.Close()

	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}

	res := newResult(model.ChannelTonys, filename)
	if len(rows) == 0 {
		return res, nil
	}

	headerIdx := FindHeaderRow(rows, []string{"customer", "cases"}, 10)
	if headerIdx < 0 {
		headerIdx = 0
	}
	header := rows[headerIdx]

	cols, err := ResolveColumns(header, tonysBaseColumns)
	if err != nil {
		return nil, fmt.Errorf("Tony's sheet: %w", err)
	}

	groups := tonysPeriodGroups(header)
	if len(groups) == 0 {
		return nil, fmt.Errorf("Tony's sheet: no period column groups found (expected month-name cases/sales headers)")
	}

	for _, row := range rows[headerIdx+1:] {
		res.Meta.RowsRead++
		if IsNonDataRow(row) {
			res.Meta.RowsSkipped++
			continue
		}

		customer := cols.Cell(row, "customer")
		item := cols.Cell(row, "item")
		desc := cols.Cell(row, "description")

		for _, g := range groups {
			cases := 0
			if g.casesCol >= 0 && g.casesCol < len(row) {
				cases = ToInt(row[g.casesCol])
			}
			rec := &model.SalesRecord{
				Period:       g.period,
				CustomerName: customer,
				ProductName:  svc.Products.Canonical(desc),
				ProductCode:  item,
				ItemNumber:   item,
				Cases:        cases,
			}
			if g.salesCol >= 0 && g.salesCol < len(row) {
				rec.Revenue = ToMoney(row[g.salesCol])
			}
			rec.WeightLbs, _ = svc.Pricing.Enrich(item, desc, cases)
			res.add(rec)
		}
	}

	res.finalize()
	return res, nil
}

// tonysPeriodGroups extracts the side-by-side period groups from the
// header row. A header cell like "Jun 25 Cases" opens a group; its
// matching "Jun 25 Sales $" cell completes it.
func tonysPeriodGroups(header []string) []tonysPeriodGroup {
	byPeriod := make(map[string]*tonysPeriodGroup)
	var order []string

	for i, cell := range header {
		period, ok := PeriodFromMonthName(cell)
		if !ok {
			continue
		}
		g, exists := byPeriod[period]
		if !exists {
			g = &tonysPeriodGroup{period: period, casesCol: -1, salesCol: -1}
			byPeriod[period] = g
			order = append(order, period)
		}

		lower := strings.ToLower(cell)
		switch {
		case strings.Contains(lower, "case"), strings.Contains(lower, "qty"):
			g.casesCol = i
		case strings.Contains(lower, "sales"), strings.Contains(lower, "amount"), strings.Contains(lower, "$"):
			g.salesCol = i
		}
	}

	out := make([]tonysPeriodGroup, 0, len(order))
	for _, p := range order {
		g := byPeriod[p]
		if g.casesCol >= 0 || g.salesCol >= 0 {
			out = append(out, *g)
		}
	}
	return out
}
