package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ToNumber parses a locale-tolerant numeric cell: plain numbers, currency
// strings ("$1,234.50"), and accounting-style negatives ("(3)" means -3).
// Returns 0 for empty or unparseable input, never an error; a bad cell in
// a thousand-row report must not abort the file.
func ToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	if negative {
		f = -f
	}
	return f
}

// ToInt parses a cell as a whole count, through the same tolerant rules
// as ToNumber. Fractional cases in exports round toward zero.
func ToInt(s string) int {
	return int(ToNumber(s))
}

// ToMoney parses a currency cell into a 2-decimal amount.
func ToMoney(s string) decimal.Decimal {
	return decimal.NewFromFloat(ToNumber(s)).Round(2)
}
