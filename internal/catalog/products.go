package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// ProductEntry defines one canonical product and the vendor spellings that
// should collapse into it.
type ProductEntry struct {
	ItemNumber     string
	CanonicalName  string
	Category       string
	AlternateNames []string
}

// defaultProducts is the static alternate-name dictionary. Vendor exports
// spell the same product a dozen ways; every spelling observed in the wild
// gets added here so it maps back to one canonical name.
var defaultProducts = []ProductEntry{
	{
		ItemNumber:    "1001",
		CanonicalName: "Corned Beef Round",
		Category:      "corned beef",
		AlternateNames: []string{
			"CB ROUND", "CORNED BF ROUND", "CORNED BEEF RND",
			"GALANT CORNED BEEF ROUND", "COOKED CORNED BEEF ROUND",
		},
	},
	{
		ItemNumber:    "1002",
		CanonicalName: "Corned Beef Brisket",
		Category:      "corned beef",
		AlternateNames: []string{
			"CB BRISKET", "CORNED BF BRISKET", "CORNED BEEF BRSKT",
			"GALANT CORNED BEEF BRISKET", "1ST CUT CORNED BEEF",
		},
	},
	{
		ItemNumber:    "2001",
		CanonicalName: "Pastrami Round",
		Category:      "pastrami",
		AlternateNames: []string{
			"PASTRAMI RND", "PAST ROUND", "GALANT PASTRAMI ROUND",
			"COOKED PASTRAMI ROUND",
		},
	},
	{
		ItemNumber:    "2002",
		CanonicalName: "Pastrami Brisket",
		Category:      "pastrami",
		AlternateNames: []string{
			"PASTRAMI BRSKT", "PAST BRISKET", "GALANT PASTRAMI BRISKET",
			"NAVEL PASTRAMI",
		},
	},
	{
		ItemNumber:    "3001",
		CanonicalName: "Roast Beef Top Round",
		Category:      "roast beef",
		AlternateNames: []string{
			"ROAST BF", "RST BEEF TOP RND", "GALANT ROAST BEEF",
			"SEASONED ROAST BEEF",
		},
	},
	{
		ItemNumber:    "4001",
		CanonicalName: "Turkey Pastrami",
		Category:      "turkey",
		AlternateNames: []string{
			"TKY PASTRAMI", "TURKEY PAST", "GALANT TURKEY PASTRAMI",
		},
	},
	{
		ItemNumber:    "5001",
		CanonicalName: "Beef Salami",
		Category:      "salami",
		AlternateNames: []string{
			"BF SALAMI", "GALANT SALAMI", "KOSHER STYLE SALAMI",
		},
	},
}

// Products maps arbitrary vendor product strings or codes to canonical
// product names. Built once at startup and passed into parsers; unmapped
// names are counted so gaps in the dictionary can be curated later.
type Products struct {
	byKey map[string]string // normalized key -> canonical name
	order []string          // normalized keys in table order, for substring matching

	log zerolog.Logger

	mu       sync.Mutex
	unmapped map[string]int
}

// NewProducts builds the mapper from the built-in dictionary.
func NewProducts(log zerolog.Logger) *Products {
	return NewProductsFrom(defaultProducts, log)
}

// NewProductsFrom builds the mapper from an explicit entry table.
func NewProductsFrom(entries []ProductEntry, log zerolog.Logger) *Products {
	p := &Products{
		byKey:    make(map[string]string),
		log:      log,
		unmapped: make(map[string]int),
	}
	for _, e := range entries {
		p.addKey(e.CanonicalName, e.CanonicalName)
		p.addKey(e.ItemNumber, e.CanonicalName)
		for _, alt := range e.AlternateNames {
			p.addKey(alt, e.CanonicalName)
		}
	}
	return p
}

func (p *Products) addKey(raw, canonical string) {
	key := NormalizeProductName(raw)
	if key == "" {
		return
	}
	if _, exists := p.byKey[key]; !exists {
		p.byKey[key] = canonical
		p.order = append(p.order, key)
	}
}

// Canonical maps a raw vendor product string to its canonical name.
// Lookup order: exact normalized match, then substring match in table
// order, then the raw input unchanged. Never fails.
func (p *Products) Canonical(raw string) string {
	norm := NormalizeProductName(raw)
	if norm == "" {
		return raw
	}

	if name, ok := p.byKey[norm]; ok {
		return name
	}

	// First match wins, in table order.
	for _, key := range p.order {
		if strings.Contains(norm, key) || strings.Contains(key, norm) {
			return p.byKey[key]
		}
	}

	p.recordUnmapped(raw)
	return raw
}

func (p *Products) recordUnmapped(raw string) {
	p.mu.Lock()
	first := p.unmapped[raw] == 0
	p.unmapped[raw]++
	p.mu.Unlock()

	if first {
		p.log.Warn().Str("product", raw).Msg("unmapped product name, using raw description")
	}
}

// UnmappedCount is one raw product name the dictionary did not cover and
// how many times it was seen.
type UnmappedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Unmapped returns every raw name that fell through the dictionary this
// session, most frequent first.
func (p *Products) Unmapped() []UnmappedCount {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]UnmappedCount, 0, len(p.unmapped))
	for name, count := range p.unmapped {
		out = append(out, UnmappedCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// NormalizeProductName uppercases, collapses whitespace, and strips
// punctuation except "&" so vendor spellings compare cleanly.
func NormalizeProductName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	lastSpace := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '&':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ', r == '\t', r == '\n', r == '\r':
			if !lastSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// punctuation dropped
		}
	}
	return strings.TrimSpace(b.String())
}
