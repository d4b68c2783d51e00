package state

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/katzezweii/smart-home-llm-multi-agent/internal/blackboard"
	"github.com/katzezweii/smart-home-llm-multi-agent/pkg/models"
)

// SaveRun persists a finished run with its tasks, collaborations, and trace
// in one transaction. It satisfies the engine's RunStore interface.
func (db *DB) SaveRun(ctx context.Context, res *models.RunResult, history []blackboard.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO runs (id, input, status, final_output, complexity, category, error, started_at, finished_at, input_tokens, output_tokens)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, res.RunID, res.Input, string(res.Status), res.FinalOutput, res.Complexity, string(res.Category),
			res.Err, formatTime(res.StartedAt), formatTime(res.FinishedAt), res.InputTokens, res.OutputTokens)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for i, t := range res.Tasks {
			_, err := tx.Exec(`
				INSERT INTO run_tasks (run_id, task_id, device_type, action, status, result, error, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, res.RunID, t.TaskID, string(t.DeviceType), t.Action, string(t.Status), t.Result, t.Error, i)
			if err != nil {
				return fmt.Errorf("insert task %s: %w", t.TaskID, err)
			}
		}

		for i, c := range res.Collaborations {
			resolved := 0
			if c.Resolved {
				resolved = 1
			}
			_, err := tx.Exec(`
				INSERT INTO run_collaborations (run_id, from_task, from_device, target_device, query, response, resolved, error, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, res.RunID, c.FromTask, string(c.FromDevice), string(c.TargetDevice), c.Query, c.Response, resolved, c.Error, i)
			if err != nil {
				return fmt.Errorf("insert collaboration %d: %w", i, err)
			}
		}

		for i, h := range history {
			_, err := tx.Exec(`
				INSERT INTO run_history (run_id, position, device, kind, action, result, at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, res.RunID, i, string(h.Device), string(h.Kind), h.Action, h.Result, formatTime(h.At))
			if err != nil {
				return fmt.Errorf("insert history entry %d: %w", i, err)
			}
		}

		return nil
	})
}

// GetRun retrieves a run by ID, including its tasks and collaborations.
// Returns nil if the run does not exist.
func (db *DB) GetRun(id string) (*models.RunResult, error) {
	row := db.QueryRow(`
		SELECT id, input, status, final_output, complexity, category, error, started_at, finished_at, input_tokens, output_tokens
		FROM runs WHERE id = ?
	`, id)

	res, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	if res.Tasks, err = db.runTasks(id); err != nil {
		return nil, err
	}
	if res.Collaborations, err = db.runCollaborations(id); err != nil {
		return nil, err
	}
	return res, nil
}

// ListRuns returns run summaries, newest first, without their tasks and
// collaborations. A non-positive limit returns all runs.
func (db *DB) ListRuns(limit int) ([]*models.RunResult, error) {
	query := `
		SELECT id, input, status, final_output, complexity, category, error, started_at, finished_at, input_tokens, output_tokens
		FROM runs ORDER BY started_at DESC, id DESC
	`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.RunResult
	for rows.Next() {
		res, err := scanRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, res)
	}
	return runs, rows.Err()
}

// GetHistory returns the persisted trace for a run in recorded order.
func (db *DB) GetHistory(runID string) ([]blackboard.HistoryEntry, error) {
	rows, err := db.Query(`
		SELECT device, kind, action, result, at
		FROM run_history WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var entries []blackboard.HistoryEntry
	for rows.Next() {
		var (
			h      blackboard.HistoryEntry
			device string
			kind   string
			at     string
		)
		if err := rows.Scan(&device, &kind, &h.Action, &h.Result, &at); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		h.Device = models.DeviceType(device)
		h.Kind = blackboard.HistoryKind(kind)
		h.At, _ = parseTime(at)
		entries = append(entries, h)
	}
	return entries, rows.Err()
}

// DeleteRun deletes a run and everything recorded under it.
func (db *DB) DeleteRun(id string) error {
	if _, err := db.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

// CountRuns returns the total number of persisted runs.
func (db *DB) CountRuns() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// scanRun reads one runs row through the given scan function.
func scanRun(scan func(dest ...any) error) (*models.RunResult, error) {
	var (
		res        models.RunResult
		status     string
		category   string
		startedAt  string
		finishedAt string
	)
	err := scan(&res.RunID, &res.Input, &status, &res.FinalOutput, &res.Complexity, &category,
		&res.Err, &startedAt, &finishedAt, &res.InputTokens, &res.OutputTokens)
	if err != nil {
		return nil, err
	}
	res.Status = models.RunStatus(status)
	res.Category = models.Category(category)
	res.StartedAt, _ = parseTime(startedAt)
	res.FinishedAt, _ = parseTime(finishedAt)
	return &res, nil
}

// runTasks loads a run's task outcomes in planner order.
func (db *DB) runTasks(runID string) ([]models.TaskOutcome, error) {
	rows, err := db.Query(`
		SELECT task_id, device_type, action, status, result, error
		FROM run_tasks WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get run tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.TaskOutcome
	for rows.Next() {
		var (
			t      models.TaskOutcome
			device string
			status string
		)
		if err := rows.Scan(&t.TaskID, &device, &t.Action, &status, &t.Result, &t.Error); err != nil {
			return nil, fmt.Errorf("scan run task: %w", err)
		}
		t.DeviceType = models.DeviceType(device)
		t.Status = models.TaskStatus(status)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// runCollaborations loads a run's collaboration outcomes in request order.
func (db *DB) runCollaborations(runID string) ([]models.CollaborationOutcome, error) {
	rows, err := db.Query(`
		SELECT from_task, from_device, target_device, query, response, resolved, error
		FROM run_collaborations WHERE run_id = ? ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("get run collaborations: %w", err)
	}
	defer rows.Close()

	var collabs []models.CollaborationOutcome
	for rows.Next() {
		var (
			c        models.CollaborationOutcome
			from     string
			target   string
			resolved int
		)
		if err := rows.Scan(&c.FromTask, &from, &target, &c.Query, &c.Response, &resolved, &c.Error); err != nil {
			return nil, fmt.Errorf("scan run collaboration: %w", err)
		}
		c.FromDevice = models.DeviceType(from)
		c.TargetDevice = models.DeviceType(target)
		c.Resolved = resolved != 0
		collabs = append(collabs, c)
	}
	return collabs, rows.Err()
}
