package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

const entryColumns = `id, run_id, position, song_id, artist, title, outcome, old_value, new_value, detail, created_at`

// EntryRepository stores the per-song outcomes of a run.
type EntryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository with the given database connection
func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// CreateBatch inserts entries for runID in a single transaction, assigning IDs.
func (r *EntryRepository) CreateBatch(runID string, entries []*models.RunEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO run_entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, e := range entries {
		e.ID = shared.GenerateID()
		e.RunID = runID
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}

		_, err := stmt.Exec(e.ID, e.RunID, e.Position, e.SongID, e.Artist, e.Title, e.Outcome,
			nullString(e.OldValue), nullString(e.NewValue), nullString(e.Detail), e.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert entry for song %d: %w", e.SongID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}
	return nil
}

// ListByRun returns the entries of a run in collection order.
func (r *EntryRepository) ListByRun(runID string) ([]*models.RunEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM run_entries WHERE run_id = ? ORDER BY position ASC`
	return r.query(query, runID)
}

// ListBySong returns every recorded outcome for a song, newest run first.
func (r *EntryRepository) ListBySong(songID int) ([]*models.RunEntry, error) {
	query := `
		SELECT e.id, e.run_id, e.position, e.song_id, e.artist, e.title, e.outcome, e.old_value, e.new_value, e.detail, e.created_at
		FROM run_entries e
		JOIN runs r ON r.id = e.run_id
		WHERE e.song_id = ?
		ORDER BY r.sequence DESC
	`
	return r.query(query, songID)
}

func (r *EntryRepository) query(query string, args ...any) ([]*models.RunEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.RunEntry
	for rows.Next() {
		var (
			e                       models.RunEntry
			oldValue, newValue, det sql.NullString
		)
		err := rows.Scan(&e.ID, &e.RunID, &e.Position, &e.SongID, &e.Artist, &e.Title, &e.Outcome,
			&oldValue, &newValue, &det, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.OldValue, e.NewValue, e.Detail = oldValue.String, newValue.String, det.String
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
