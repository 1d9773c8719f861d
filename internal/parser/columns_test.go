package parser

import (
	"strings"
	"testing"
)

func TestResolveColumnsByName(t *testing.T) {
	t.Parallel()

	header := []string{"Customer  Name", "Item #", "Description", "Cases\nShipped", "Sales $"}
	specs := []ColumnSpec{
		{Field: "customer", Names: []string{"customer"}, Fallback: -1, Required: true},
		{Field: "item", Names: []string{"item"}, Fallback: -1},
		{Field: "cases", Names: []string{"cases"}, Fallback: -1, Required: true},
		{Field: "sales", Names: []string{"sales"}, Fallback: -1},
	}

	index, err := ResolveColumns(header, specs)
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}

	if got := index.Get("customer"); got != 0 {
		t.Errorf("customer resolved to %d, want 0", got)
	}
	if got := index.Get("cases"); got != 3 {
		t.Errorf("cases resolved to %d, want 3 (newline in header)", got)
	}
	if got := index.Get("sales"); got != 4 {
		t.Errorf("sales resolved to %d, want 4", got)
	}
}

func TestResolveColumnsFallbackAndMissing(t *testing.T) {
	t.Parallel()

	header := []string{"A", "B", "C"}

	index, err := ResolveColumns(header, []ColumnSpec{
		{Field: "customer", Names: []string{"customer"}, Fallback: 1},
	})
	if err != nil {
		t.Fatalf("ResolveColumns: %v", err)
	}
	if got := index.Get("customer"); got != 1 {
		t.Errorf("fallback resolved to %d, want 1", got)
	}

	_, err = ResolveColumns(header, []ColumnSpec{
		{Field: "customer", Names: []string{"customer"}, Fallback: -1, Required: true},
		{Field: "cases", Names: []string{"cases"}, Fallback: -1, Required: true},
	})
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
	if !strings.Contains(err.Error(), "customer") || !strings.Contains(err.Error(), "cases") {
		t.Errorf("error should name every missing column, got %q", err)
	}
}

func TestFindHeaderRow(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Pete's Distribution"},
		{"Sales Report June 2025"},
		{"Customer", "Product", "Cases", "Revenue"},
		{"Acme Deli", "Corned Beef", "3", "45.00"},
	}

	if got := FindHeaderRow(rows, []string{"customer", "cases"}, 10); got != 2 {
		t.Errorf("FindHeaderRow = %d, want 2", got)
	}
	if got := FindHeaderRow(rows, []string{"no such header"}, 10); got != -1 {
		t.Errorf("FindHeaderRow = %d, want -1", got)
	}
}

func TestIsNonDataRow(t *testing.T) {
	t.Parallel()

	cases := []struct {
		row  []string
		want bool
	}{
		{[]string{""}, true},
		{[]string{"Grand Total", "", "120"}, true},
		{[]string{"Customer Total"}, true},
		{[]string{"Acme Deli", "Pastrami", "4"}, false},
	}
	for _, tc := range cases {
		if got := IsNonDataRow(tc.row); got != tc.want {
			t.Errorf("IsNonDataRow(%v) = %v, want %v", tc.row, got, tc.want)
		}
	}
}
