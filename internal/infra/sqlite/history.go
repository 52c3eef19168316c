package sqlite

import (
	"fmt"
	"time"

	"github.com/chorus-network/chorus/internal/domain"
)

// RecordRun appends one run to the history.
func (d *DB) RecordRun(r domain.Run) error {
	_, err := d.db.Exec(`
		INSERT INTO runs (id, input_file, output_file, words, chunks, task_id, phase, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.InputFile, r.OutputFile, r.Words, r.Chunks, r.TaskID,
		string(r.Phase), r.Error, r.Duration.Milliseconds(), r.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(limit int) ([]domain.Run, error) {
	rows, err := d.db.Query(`
		SELECT id, input_file, output_file, words, chunks, task_id, phase, error, duration_ms, created_at
		FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			r          domain.Run
			phase      string
			durationMS int64
			createdAt  int64
		)
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputFile, &r.Words, &r.Chunks,
			&r.TaskID, &phase, &r.Error, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Phase = domain.TaskPhase(phase)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = time.Unix(createdAt, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
