package parser

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Vistar prints a column-formatted text report grouped three levels
// deep: an OPCO header names the distribution center, an ITEM header
// names the product for all account rows beneath it until the next ITEM
// line. That carried group state lives in an explicit accumulator local
// to one parse, folded over the lines.

// vistarGroup is the row-group accumulator carried across lines.
type vistarGroup struct {
	opco        string
	itemNumber  string
	productDesc string
}

var numericToken = regexp.MustCompile(`^\(?\$?-?[\d,]+(?:\.\d+)?\)?$`)

// ParseVistar parses a Vistar velocity text report.
func ParseVistar(r io.Reader, filename string, svc *Services) (*Result, error) {
	res := newResult(model.ChannelVistar, filename)

	period := ""
	var group vistarGroup

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if p, ok := PeriodFromRangeHeader(trimmed); ok {
			period = p
			continue
		}

		upper := strings.ToUpper(trimmed)
		switch {
		case strings.HasPrefix(upper, "OPCO"):
			group = vistarGroup{opco: afterColon(trimmed)}
			continue
		case strings.HasPrefix(upper, "ITEM"):
			num, desc := splitItemHeader(trimmed)
			group.itemNumber = num
			group.productDesc = desc
			continue
		}

		res.Meta.RowsRead++
		if IsNonDataRow([]string{trimmed}) {
			res.Meta.RowsSkipped++
			continue
		}
		if group.opco == "" || group.productDesc == "" {
			// preamble noise before the first group headers
			res.Meta.RowsSkipped++
			continue
		}

		account, cases, revenue, ok := splitVistarDataLine(trimmed)
		if !ok {
			res.Meta.RowsSkipped++
			continue
		}

		if period == "" {
			if p, found := PeriodFromFilename(filename); found {
				period = p
			} else {
				period = CurrentPeriod()
			}
		}

		res.add(&model.SalesRecord{
			Period:       period,
			CustomerName: group.opco,
			AccountName:  account,
			ProductName:  svc.Products.Canonical(group.productDesc),
			ProductCode:  group.itemNumber,
			ItemNumber:   group.itemNumber,
			Cases:        cases,
			Revenue:      decimal.NewFromFloat(revenue).Round(2),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read Vistar report: %w", err)
	}

	res.finalize()
	return res, nil
}

func afterColon(s string) string {
	if i := strings.Index(s, ":"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return strings.TrimSpace(s)
}

// splitItemHeader splits "ITEM 1001  CORNED BEEF ROUND" into number and
// description.
func splitItemHeader(line string) (string, string) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", ""
	}
	num := fields[1]
	desc := strings.Join(fields[2:], " ")
	return num, desc
}

// splitVistarDataLine splits an account row into name + trailing cases
// and amount columns. The name may contain spaces, so the two rightmost
// numeric-looking tokens are taken as the figures.
func splitVistarDataLine(line string) (account string, cases int, revenue float64, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", 0, 0, false
	}
	last := fields[len(fields)-1]
	secondLast := fields[len(fields)-2]
	if !numericToken.MatchString(last) || !numericToken.MatchString(secondLast) {
		return "", 0, 0, false
	}
	account = strings.Join(fields[:len(fields)-2], " ")
	cases = ToInt(secondLast)
	revenue = ToNumber(last)
	return account, cases, revenue, true
}
