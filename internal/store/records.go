package store

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// ReplaceChannel swaps a channel's entire retained record set for the
// merged one, in one transaction. Merges replace whole sets rather than
// patching rows; the merge engine owns the key semantics.
func (s *Store) ReplaceChannel(channel model.Channel, records []*model.SalesRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sales_records WHERE channel = ?", string(channel)); err != nil {
		return fmt.Errorf("clear channel %s: %w", channel, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sales_records (
			channel, period, customer_name, account_name, product_name,
			product_code, item_number, size, mfg_item_number,
			cases, pieces, net_lbs, weight_lbs, revenue,
			customer_id, exclude_from_totals, is_adjustment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(
			string(channel), r.Period, r.CustomerName, r.AccountName, r.ProductName,
			r.ProductCode, r.ItemNumber, r.Size, r.MfgItemNumber,
			r.Cases, r.Pieces, r.NetLbs, r.WeightLbs, r.Revenue.String(),
			r.CustomerID, boolToInt(r.ExcludeFromTotals), boolToInt(r.IsAdjustment),
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetChannel loads a channel's full retained record set.
func (s *Store) GetChannel(channel model.Channel) ([]*model.SalesRecord, error) {
	rows, err := s.db.Query(`
		SELECT period, customer_name, account_name, product_name,
		       product_code, item_number, size, mfg_item_number,
		       cases, pieces, net_lbs, weight_lbs, revenue,
		       customer_id, exclude_from_totals, is_adjustment
		FROM sales_records
		WHERE channel = ?
		ORDER BY id
	`, string(channel))
	if err != nil {
		return nil, fmt.Errorf("query channel %s: %w", channel, err)
	}
	defer rows.Close()

	var records []*model.SalesRecord
	for rows.Next() {
		r := &model.SalesRecord{}
		var revenue string
		var exclude, adjustment int
		err := rows.Scan(
			&r.Period, &r.CustomerName, &r.AccountName, &r.ProductName,
			&r.ProductCode, &r.ItemNumber, &r.Size, &r.MfgItemNumber,
			&r.Cases, &r.Pieces, &r.NetLbs, &r.WeightLbs, &revenue,
			&r.CustomerID, &exclude, &adjustment,
		)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Revenue, err = decimal.NewFromString(revenue)
		if err != nil {
			return nil, fmt.Errorf("parse stored revenue %q: %w", revenue, err)
		}
		r.ExcludeFromTotals = exclude != 0
		r.IsAdjustment = adjustment != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// DeletePeriod removes every record for one period from exactly one
// channel and reports how many rows went away.
func (s *Store) DeletePeriod(channel model.Channel, period string) (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM sales_records WHERE channel = ? AND period = ?",
		string(channel), period,
	)
	if err != nil {
		return 0, fmt.Errorf("delete period %s from %s: %w", period, channel, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

// ChannelStat is one channel's row/period footprint.
type ChannelStat struct {
	Channel model.Channel `json:"channel"`
	Records int           `json:"records"`
	Periods int           `json:"periods"`
}

// ChannelStats summarizes every channel that has data.
func (s *Store) ChannelStats() ([]ChannelStat, error) {
	rows, err := s.db.Query(`
		SELECT channel, COUNT(*), COUNT(DISTINCT period)
		FROM sales_records
		GROUP BY channel
		ORDER BY channel
	`)
	if err != nil {
		return nil, fmt.Errorf("query channel stats: %w", err)
	}
	defer rows.Close()

	var stats []ChannelStat
	for rows.Next() {
		var st ChannelStat
		var channel string
		if err := rows.Scan(&channel, &st.Records, &st.Periods); err != nil {
			return nil, fmt.Errorf("scan channel stat: %w", err)
		}
		st.Channel = model.Channel(channel)
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// CountRecords reports the total retained record count across channels.
func (s *Store) CountRecords() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sales_records").Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
