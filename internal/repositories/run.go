package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/songdeck/internal/models"
	"github.com/desertthunder/songdeck/internal/shared"
)

const runColumns = `id, sequence, kind, status, collection, total, updated, failed, deferred,
	searches_used, search_budget, error_message, started_at, finished_at, created_at, updated_at`

var _ models.Repository[*models.Run] = (*RunRepository)(nil)

// RunRepository stores reconciliation runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run into the database with generated ID and sequence
func (r *RunRepository) Create(run *models.Run) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)
	run.SetSequence(sequence)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		string(run.Kind()),
		string(run.Status()),
		run.Collection(),
		run.Total(),
		run.Updated(),
		run.Failed(),
		run.Deferred(),
		run.SearchesUsed(),
		run.SearchBudget(),
		nullString(run.ErrorMessage()),
		run.StartedAt(),
		run.FinishedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySequence retrieves a run by its sequence number, as shown by the history command
func (r *RunRepository) GetBySequence(sequence int) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE sequence = ?`
	return r.scanOne(r.db.QueryRow(query, sequence))
}

// Update modifies the counters and status of an existing run
func (r *RunRepository) Update(run *models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	query := `
		UPDATE runs
		SET status = ?, total = ?, updated = ?, failed = ?, deferred = ?, searches_used = ?, search_budget = ?,
			error_message = ?, finished_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		string(run.Status()),
		run.Total(),
		run.Updated(),
		run.Failed(),
		run.Deferred(),
		run.SearchesUsed(),
		run.SearchBudget(),
		nullString(run.ErrorMessage()),
		run.FinishedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, run.ID())
	}

	return nil
}

// List retrieves runs matching the given criteria, newest first.
//
// Supported criteria: "kind" (models.RunKind or string), "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1 = 1`
	args := []any{}

	switch kind := criteria["kind"].(type) {
	case models.RunKind:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, string(kind))
		}
	case string:
		if kind != "" {
			query += " AND kind = ?"
			args = append(args, kind)
		}
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// scanOne scans a single row into a [models.Run]
func (r *RunRepository) scanOne(row *sql.Row) (*models.Run, error) {
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	return run, err
}

func scanRun(row scanner) (*models.Run, error) {
	var (
		id           string
		sequence     int
		kind         string
		status       string
		collection   string
		total        int
		updated      int
		failed       int
		deferred     int
		searchesUsed int
		searchBudget int
		errorMessage sql.NullString
		startedAt    time.Time
		finishedAt   sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := row.Scan(&id, &sequence, &kind, &status, &collection, &total, &updated, &failed, &deferred,
		&searchesUsed, &searchBudget, &errorMessage, &startedAt, &finishedAt, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewRun(sequence, models.RunKind(kind), collection, total)
	run.SetID(id)
	run.SetCounts(updated, failed, deferred)
	run.SetSearches(searchesUsed, searchBudget)
	run.SetErrorMessage(errorMessage.String)
	run.SetStartedAt(startedAt)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	var finished *time.Time
	if finishedAt.Valid {
		finished = &finishedAt.Time
	}
	run.Restore(models.RunStatus(status), finished)

	return run, nil
}
