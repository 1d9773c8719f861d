package parser

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Harvest keeps one worksheet per calendar year (sheet names "2024",
// "2025", ...). Inside each sheet the header carries a cases/sales
// column pair per month, found by scanning header text for month-name
// substrings; the sheet name supplies the year.

var harvestBaseColumns = []ColumnSpec{
	{Field: "custId", Names: []string{"cust #", "cust no"}, Fallback: -1},
	{Field: "customer", Names: []string{"customer", "account"}, Fallback: 0, Required: true},
	{Field: "item", Names: []string{"item #", "item"}, Fallback: 1},
	{Field: "description", Names: []string{"description", "product"}, Fallback: 2, Required: true},
}

var yearSheetPattern = regexp.MustCompile(`^\s*(20\d{2})\s*$`)

// harvestMonthGroup is one month's cases/sales column pair.
type harvestMonthGroup struct {
	period   string
	casesCol int
	salesCol int
}

// ParseHarvest parses a Harvest sheet-per-year workbook. Every year
// sheet contributes records; non-year sheets are skipped.
func ParseHarvest(r io.Reader, filename string, svc *Services) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Harvest workbook: %w", err)
	}
	defer f.Close()

	res := newResult(model.ChannelHarvest, filename)

	yearSheets := 0
	for _, sheet := range f.GetSheetList() {
		m := yearSheetPattern.FindStringSubmatch(sheet)
		if m == nil {
			continue
		}
		yearSheets++
		if err := parseHarvestSheet(f, sheet, m[1], svc, res); err != nil {
			return nil, err
		}
	}
	if yearSheets == 0 {
		return nil, fmt.Errorf("Harvest workbook: no year sheets found (expected sheet names like %q)", time.Now().UTC().Format("2006"))
	}

	res.finalize()
	return res, nil
}

func parseHarvestSheet(f *excelize.File, sheet, year string, svc *Services, res *Result) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read Harvest sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	headerIdx := FindHeaderRow(rows, []string{"customer"}, 10)
	if headerIdx < 0 {
		headerIdx = 0
	}
	header := rows[headerIdx]

	cols, err := ResolveColumns(header, harvestBaseColumns)
	if err != nil {
		return fmt.Errorf("Harvest sheet %q: %w", sheet, err)
	}

	groups := harvestMonthGroups(header, year)
	if len(groups) == 0 {
		return fmt.Errorf("Harvest sheet %q: no month column groups found", sheet)
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
		custID := cols.Cell(row, "custId")

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
				CustomerID:   custID,
			}
			if g.salesCol >= 0 && g.salesCol < len(row) {
				rec.Revenue = ToMoney(row[g.salesCol])
			}
			res.add(rec)
		}
	}
	return nil
}

// harvestMonthGroups locates the per-month column pairs. Header cells
// carry bare month names ("Jan Cases", "Jan Sales"); the year comes from
// the sheet name.
func harvestMonthGroups(header []string, year string) []harvestMonthGroup {
	byMonth := make(map[time.Month]*harvestMonthGroup)
	var order []time.Month

	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(cell))
		var matched time.Month
		for name, month := range monthNames {
			if strings.HasPrefix(lower, name) {
				matched = month
				break
			}
		}
		if matched == 0 {
			continue
		}

		g, exists := byMonth[matched]
		if !exists {
			g = &harvestMonthGroup{
				period:   fmt.Sprintf("%s-%02d", year, int(matched)),
				casesCol: -1,
				salesCol: -1,
			}
			byMonth[matched] = g
			order = append(order, matched)
		}
		switch {
		case strings.Contains(lower, "case"), strings.Contains(lower, "qty"):
			g.casesCol = i
		case strings.Contains(lower, "sales"), strings.Contains(lower, "amount"), strings.Contains(lower, "$"):
			g.salesCol = i
		}
	}

	out := make([]harvestMonthGroup, 0, len(order))
	for _, m := range order {
		g := byMonth[m]
		if g.casesCol >= 0 || g.salesCol >= 0 {
			out = append(out, *g)
		}
	}
	return out
}
