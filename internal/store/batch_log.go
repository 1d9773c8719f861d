package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/mummysboy/galantsalestracker/internal/model"
)

// BatchLogEntry records one upload's outcome, successful or not. The
// remote sink keeps its own running log; this local one survives sink
// outages and answers "what did we upload last week" offline.
type BatchLogEntry struct {
	BatchID    string        `json:"batchId"`
	Channel    model.Channel `json:"channel"`
	SourceFile string        `json:"sourceFile"`
	Periods    []string      `json:"periods"`
	RowsRead   int           `json:"rowsRead"`
	Records    int           `json:"records"`
	Added      int           `json:"added"`
	Replaced   int           `json:"replaced"`
	Expired    int           `json:"expired"`
	ErrorNote  string        `json:"errorNote,omitempty"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

// InsertBatchLog appends one entry to the batch log.
func (s *Store) InsertBatchLog(e BatchLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO batch_log (
			batch_id, channel, source_file, periods,
			rows_read, records, added, replaced, expired,
			error_note, uploaded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.BatchID, string(e.Channel), e.SourceFile, strings.Join(e.Periods, ","),
		e.RowsRead, e.Records, e.Added, e.Replaced, e.Expired,
		e.ErrorNote, e.UploadedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert batch log: %w", err)
	}
	return nil
}

// ListBatchLog returns the most recent entries, newest first.
func (s *Store) ListBatchLog(limit int) ([]BatchLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT batch_id, channel, source_file, periods,
		       rows_read, records, added, replaced, expired,
		       error_note, uploaded_at
		FROM batch_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query batch log: %w", err)
	}
	defer rows.Close()

	var entries []BatchLogEntry
	for rows.Next() {
		var e BatchLogEntry
		var channel, periods, uploadedAt string
		err := rows.Scan(
			&e.BatchID, &channel, &e.SourceFile, &periods,
			&e.RowsRead, &e.Records, &e.Added, &e.Replaced, &e.Expired,
			&e.ErrorNote, &uploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan batch log: %w", err)
		}
		e.Channel = model.Channel(channel)
		if periods != "" {
			e.Periods = strings.Split(periods, ",")
		}
		e.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
