package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Pete's ships a single-sheet workbook of line items with a stated
// GRAND TOTAL row at the bottom. The stated total is authoritative: when
// line items don't sum to it, one synthetic adjustment record carries the
// difference so downstream sums always equal the file's bottom line.

var petesColumns = []ColumnSpec{
	{Field: "customer", Names: []string{"customer", "account name"}, Fallback: 0, Required: true},
	{Field: "item", Names: []string{"item #", "item no", "item"}, Fallback: 1},
	{Field: "description", Names: []string{"description", "product"}, Fallback: 2, Required: true},
	{Field: "size", Names: []string{"size"}, Fallback: -1},
	{Field: "cases", Names: []string{"cases", "qty"}, Fallback: 4, Required: true},
	{Field: "amount", Names: []string{"amount", "sales $", "ext price"}, Fallback: 5, Required: true},
}

// ParsePetes parses a Pete's monthly sales workbook.
func ParsePetes(r io.Reader, filename string, svc *Services) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open Pete's workbook: %w", err)
	}
	defer f.Close()

	rows, err := firstSheetRows(f)
	if err != nil {
		return nil, err
	}

	res := newResult(model.ChannelPetes, filename)
	if len(rows) == 0 {
		return res, nil
	}

	headerIdx := FindHeaderRow(rows, []string{"customer", "cases"}, 10)
	if headerIdx < 0 {
		headerIdx = 0
	}
	cols, err := ResolveColumns(rows[headerIdx], petesColumns)
	if err != nil {
		return nil, fmt.Errorf("Pete's sheet: %w", err)
	}

	period := petesPeriod(rows, filename)

	var (
		firstCustomer string
		statedCases   int
		statedRevenue decimal.Decimal
		hasStated     bool
	)

	for _, row := range rows[headerIdx+1:] {
		res.Meta.RowsRead++

		if isGrandTotalRow(row) {
			statedCases = ToInt(cols.Cell(row, "cases"))
			statedRevenue = ToMoney(cols.Cell(row, "amount"))
			hasStated = true
			continue
		}
		if IsNonDataRow(row) {
			res.Meta.RowsSkipped++
			continue
		}

		rec := &model.SalesRecord{
			Period:       period,
			CustomerName: cols.Cell(row, "customer"),
			ProductName:  svc.Products.Canonical(cols.Cell(row, "description")),
			ProductCode:  cols.Cell(row, "item"),
			ItemNumber:   cols.Cell(row, "item"),
			Size:         cols.Cell(row, "size"),
			Cases:        ToInt(cols.Cell(row, "cases")),
			Revenue:      ToMoney(cols.Cell(row, "amount")),
		}
		if res.add(rec) && firstCustomer == "" {
			firstCustomer = rec.CustomerName
		}
	}

	if hasStated && firstCustomer != "" {
		caseDiff := statedCases - res.Meta.TotalCases
		revenueDiff := statedRevenue.Sub(res.Meta.TotalRevenue).Round(2)
		if caseDiff != 0 || !revenueDiff.IsZero() {
			res.add(&model.SalesRecord{
				Period:       period,
				CustomerName: firstCustomer,
				ProductName:  "Reconciliation Adjustment",
				Cases:        caseDiff,
				Revenue:      revenueDiff,
				IsAdjustment: true,
			})
		}
	}

	res.finalize()
	return res, nil
}

// petesPeriod resolves the reporting month: filename "M.YY" pattern
// first, then a report-date cell in the pre-header rows, then the
// current UTC month.
func petesPeriod(rows [][]string, filename string) string {
	if p, ok := PeriodFromFilename(filename); ok {
		return p
	}
	scan := len(rows)
	if scan > 10 {
		scan = 10
	}
	for _, row := range rows[:scan] {
		for _, cell := range row {
			if p, ok := PeriodFromDateString(cell); ok {
				return p
			}
		}
	}
	return CurrentPeriod()
}

func isGrandTotalRow(row []string) bool {
	joined := strings.ToLower(strings.Join(row, " "))
	return strings.Contains(joined, "grand total")
}

// firstSheetRows reads every row of the workbook's first sheet.
func firstSheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
