package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// Pricing is the master price list, loaded once per process and treated
// as read-only. Parsers whose source files carry no cost or weight data
// consult it to compute revenue and shipped weight.
type Pricing struct {
	entries    []*model.PricingEntry
	byItem     map[string]*model.PricingEntry
	byCategory map[string]*model.PricingEntry // first entry per category, the default
	log        zerolog.Logger
}

// NewPricing builds an empty price list. Lookups miss until entries are
// loaded; enrichment then degrades to zero values, which is acceptable
// for sources that carry their own revenue.
func NewPricing(log zerolog.Logger) *Pricing {
	return &Pricing{
		byItem:     make(map[string]*model.PricingEntry),
		byCategory: make(map[string]*model.PricingEntry),
		log:        log,
	}
}

// LoadWorkbook reads the price list from the first sheet of an Excel
// workbook. Expected columns: Item #, Description, Pack, Size, Category,
// Case Weight, Case Cost, Unit Cost. Column order does not matter.
func (p *Pricing) LoadWorkbook(path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open pricing workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("pricing workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read pricing sheet: %w", err)
	}
	if len(rows) < 2 {
		return fmt.Errorf("pricing sheet has no data rows")
	}

	idx := indexPricingHeader(rows[0])
	if idx.item < 0 || idx.desc < 0 {
		return fmt.Errorf("pricing sheet missing required columns: Item #, Description")
	}

	count := 0
	for _, row := range rows[1:] {
		entry := parsePricingRow(row, idx)
		if entry == nil {
			continue
		}
		p.Add(entry)
		count++
	}

	p.log.Info().Int("entries", count).Str("path", path).Msg("master price list loaded")
	return nil
}

// Add registers one entry. First entry per category becomes that
// category's default for fuzzy-miss lookups.
func (p *Pricing) Add(entry *model.PricingEntry) {
	p.entries = append(p.entries, entry)
	if entry.ItemNumber != "" {
		p.byItem[entry.ItemNumber] = entry
	}
	cat := strings.ToLower(strings.TrimSpace(entry.Category))
	if cat != "" {
		if _, ok := p.byCategory[cat]; !ok {
			p.byCategory[cat] = entry
		}
	}
}

// Lookup finds the pricing entry for a product: by item number first,
// then fuzzy description match, then category default. Returns false
// when nothing matches.
func (p *Pricing) Lookup(itemNumber, description string) (*model.PricingEntry, bool) {
	if itemNumber != "" {
		if e, ok := p.byItem[strings.TrimSpace(itemNumber)]; ok {
			return e, true
		}
	}

	norm := NormalizeProductName(description)
	if norm != "" {
		for _, e := range p.entries {
			entryNorm := NormalizeProductName(e.ProductDescription)
			if entryNorm == "" {
				continue
			}
			if strings.Contains(norm, entryNorm) || strings.Contains(entryNorm, norm) {
				return e, true
			}
		}

		for cat, e := range p.byCategory {
			if strings.Contains(strings.ToLower(description), cat) {
				return e, true
			}
		}
	}

	return nil, false
}

// Enrich computes shipped weight and revenue for a case count using the
// best matching pricing entry. Zero values when nothing matches.
func (p *Pricing) Enrich(itemNumber, description string, cases int) (weightLbs float64, revenue decimal.Decimal) {
	entry, ok := p.Lookup(itemNumber, description)
	if !ok {
		return 0, decimal.Zero
	}
	weightLbs = float64(cases) * entry.CaseWeight
	revenue = entry.CaseCost.Mul(decimal.NewFromInt(int64(cases))).Round(2)
	return weightLbs, revenue
}

// Len reports how many entries are loaded.
func (p *Pricing) Len() int { return len(p.entries) }

type pricingHeaderIndex struct {
	item, desc, pack, size, category, caseWeight, caseCost, unitCost int
}

func indexPricingHeader(header []string) pricingHeaderIndex {
	idx := pricingHeaderIndex{item: -1, desc: -1, pack: -1, size: -1, category: -1, caseWeight: -1, caseCost: -1, unitCost: -1}
	for i, col := range header {
		c := strings.ToLower(strings.TrimSpace(col))
		switch {
		case strings.Contains(c, "item"):
			idx.item = i
		case strings.Contains(c, "desc"):
			idx.desc = i
		case strings.Contains(c, "pack"):
			idx.pack = i
		case strings.Contains(c, "size"):
			idx.size = i
		case strings.Contains(c, "categ"):
			idx.category = i
		case strings.Contains(c, "weight"):
			idx.caseWeight = i
		case strings.Contains(c, "case cost"), strings.Contains(c, "case price"):
			idx.caseCost = i
		case strings.Contains(c, "unit cost"), strings.Contains(c, "unit price"):
			idx.unitCost = i
		}
	}
	return idx
}

func parsePricingRow(row []string, idx pricingHeaderIndex) *model.PricingEntry {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	item := cell(idx.item)
	desc := cell(idx.desc)
	if item == "" && desc == "" {
		return nil
	}

	entry := &model.PricingEntry{
		ItemNumber:         item,
		ProductDescription: desc,
		Size:               cell(idx.size),
		Category:           cell(idx.category),
	}
	if v := cell(idx.pack); v != "" {
		entry.Pack, _ = strconv.Atoi(v)
	}
	if v := cell(idx.caseWeight); v != "" {
		entry.CaseWeight, _ = strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	}
	entry.CaseCost = parseMoney(cell(idx.caseCost))
	entry.UnitCost = parseMoney(cell(idx.unitCost))
	return entry
}

func parseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d.Round(2)
}
