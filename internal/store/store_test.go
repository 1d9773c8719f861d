package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []*model.SalesRecord {
	return []*model.SalesRecord{
		{
			Period:       "2025-07",
			CustomerName: "Acme Deli",
			ProductName:  "Corned Beef Round",
			ProductCode:  "1001",
			ItemNumber:   "1001",
			Size:         "14#",
			Cases:        3,
			NetLbs:       42.0,
			Revenue:      decimal.RequireFromString("180.00"),
		},
		{
			Period:            "2025-07",
			CustomerName:      "Sunrise #12",
			ProductName:       "Corned Beef Round",
			Cases:             2,
			Revenue:           decimal.RequireFromString("88.00"),
			ExcludeFromTotals: true,
		},
		{
			Period:       "2025-08",
			CustomerName: "Acme Deli",
			AccountName:  "Acme Downtown",
			ProductName:  "Pastrami Round",
			Cases:        -1,
			Revenue:      decimal.RequireFromString("-55.00"),
			IsAdjustment: true,
		},
	}
}

func TestReplaceAndGetChannel(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	records := sampleRecords()

	if err := s.ReplaceChannel(model.ChannelPetes, records); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}

	got, err := s.GetChannel(model.ChannelPetes)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("got %d records, want %d", len(got), len(records))
	}

	for i, want := range records {
		g := got[i]
		if g.Period != want.Period || g.CustomerName != want.CustomerName ||
			g.AccountName != want.AccountName || g.ProductName != want.ProductName {
			t.Errorf("record %d identity mismatch: %+v", i, g)
		}
		if g.Cases != want.Cases {
			t.Errorf("record %d cases = %d, want %d", i, g.Cases, want.Cases)
		}
		if !g.Revenue.Equal(want.Revenue) {
			t.Errorf("record %d revenue = %s, want %s", i, g.Revenue, want.Revenue)
		}
		if g.ExcludeFromTotals != want.ExcludeFromTotals || g.IsAdjustment != want.IsAdjustment {
			t.Errorf("record %d flags mismatch: %+v", i, g)
		}
	}

	// Replace swaps the whole set
	if err := s.ReplaceChannel(model.ChannelPetes, records[:1]); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}
	got, err = s.GetChannel(model.ChannelPetes)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("after replace got %d records, want 1", len(got))
	}
}

func TestChannelsAreIsolated(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.ReplaceChannel(model.ChannelPetes, sampleRecords()); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}
	if err := s.ReplaceChannel(model.ChannelTroia, sampleRecords()[:1]); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}

	// clearing one channel leaves the other alone
	if err := s.ReplaceChannel(model.ChannelPetes, nil); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}
	troia, err := s.GetChannel(model.ChannelTroia)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if len(troia) != 1 {
		t.Errorf("troia has %d records after clearing petes, want 1", len(troia))
	}
}

func TestDeletePeriod(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.ReplaceChannel(model.ChannelPetes, sampleRecords()); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}

	removed, err := s.DeletePeriod(model.ChannelPetes, "2025-07")
	if err != nil {
		t.Fatalf("DeletePeriod: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d rows, want 2", removed)
	}

	got, err := s.GetChannel(model.ChannelPetes)
	if err != nil {
		t.Fatalf("GetChannel: %v", err)
	}
	if len(got) != 1 || got[0].Period != "2025-08" {
		t.Errorf("remaining records = %+v, want only 2025-08", got)
	}
}

func TestChannelStatsAndCount(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.ReplaceChannel(model.ChannelPetes, sampleRecords()); err != nil {
		t.Fatalf("ReplaceChannel: %v", err)
	}

	stats, err := s.ChannelStats()
	if err != nil {
		t.Fatalf("ChannelStats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d stats, want 1", len(stats))
	}
	if stats[0].Channel != model.ChannelPetes || stats[0].Records != 3 || stats[0].Periods != 2 {
		t.Errorf("stats = %+v, want petes/3/2", stats[0])
	}

	count, err := s.CountRecords()
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestBatchLog(t *testing.T) {
	t.Parallel()

	s := testStore(t)

	entries := []BatchLogEntry{
		{
			BatchID:    "batch-1",
			Channel:    model.ChannelPetes,
			SourceFile: "Petes 6.25.xlsx",
			Periods:    []string{"2025-06"},
			RowsRead:   10,
			Records:    8,
			Added:      8,
			UploadedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			BatchID:    "batch-2",
			Channel:    model.ChannelTroia,
			SourceFile: "Troia Jul 25.csv",
			Periods:    []string{"2025-07"},
			ErrorNote:  "parse failed",
			UploadedAt: time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	for _, e := range entries {
		if err := s.InsertBatchLog(e); err != nil {
			t.Fatalf("InsertBatchLog: %v", err)
		}
	}

	got, err := s.ListBatchLog(0)
	if err != nil {
		t.Fatalf("ListBatchLog: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	// newest first
	if got[0].BatchID != "batch-2" {
		t.Errorf("first entry = %s, want batch-2", got[0].BatchID)
	}
	if got[0].ErrorNote != "parse failed" {
		t.Errorf("error note = %q", got[0].ErrorNote)
	}
	if len(got[1].Periods) != 1 || got[1].Periods[0] != "2025-06" {
		t.Errorf("periods = %v, want [2025-06]", got[1].Periods)
	}
}
