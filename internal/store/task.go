package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kwrobel/listly/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	var deadline sql.NullTime

	err := scanner.Scan(
		&t.ID, &t.ListID, &t.Title, &t.Description, &t.Priority,
		&deadline, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deadline.Valid {
		t.Deadline = &deadline.Time
	}
	return &t, nil
}

const taskCols = `id, list_id, title, description, priority, deadline, completed, created_at, updated_at`

// taskOrder sorts incomplete before complete, then by priority weight,
// then deadline ascending with NULLs last, then newest first.
const taskOrder = `
	completed ASC,
	CASE priority WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 END DESC,
	deadline IS NULL ASC,
	deadline ASC,
	created_at DESC,
	id DESC`

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (s *TaskStore) Create(listID int64, title, description string, priority model.Priority, deadline *time.Time) (*model.Task, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasks (list_id, title, description, priority, deadline) VALUES (?, ?, ?, ?, ?)`,
		listID, title, description, string(priority), nullTime(deadline),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) Update(id int64, title, description string, priority model.Priority, deadline *time.Time) (*model.Task, error) {
	_, err := s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, priority = ?, deadline = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, description, string(priority), nullTime(deadline), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return s.GetByID(id)
}

func (s *TaskStore) SetCompleted(id int64, completed bool) error {
	_, err := s.db.Exec(
		`UPDATE tasks SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		completed, id,
	)
	if err != nil {
		return fmt.Errorf("set completed: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) ListByList(listID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE list_id = ? ORDER BY `+taskOrder,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// accessibleLists matches every list the user owns or is shared on.
const accessibleLists = `(tl.owner_id = ? OR tl.id IN (SELECT list_id FROM list_shares WHERE user_id = ?))`

// Upcoming returns incomplete tasks across the user's lists with a
// deadline inside [from, to], earliest deadline first.
func (s *TaskStore) Upcoming(userID int64, from, to time.Time) ([]model.TaskWithList, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.list_id, t.title, t.description, t.priority, t.deadline, t.completed, t.created_at, t.updated_at,
		        tl.name AS list_name
		 FROM tasks t
		 JOIN task_lists tl ON t.list_id = tl.id
		 WHERE t.completed = 0
		   AND t.deadline IS NOT NULL
		   AND t.deadline >= ? AND t.deadline <= ?
		   AND `+accessibleLists+`
		 ORDER BY t.deadline ASC`,
		from.UTC(), to.UTC(), userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upcoming tasks: %w", err)
	}
	defer rows.Close()
	return collectTasksWithList(rows)
}

// Overdue returns incomplete tasks across the user's lists whose deadline
// is strictly before the given instant, earliest deadline first.
func (s *TaskStore) Overdue(userID int64, before time.Time) ([]model.TaskWithList, error) {
	rows, err := s.db.Query(
		`SELECT t.id, t.list_id, t.title, t.description, t.priority, t.deadline, t.completed, t.created_at, t.updated_at,
		        tl.name AS list_name
		 FROM tasks t
		 JOIN task_lists tl ON t.list_id = tl.id
		 WHERE t.completed = 0
		   AND t.deadline IS NOT NULL
		   AND t.deadline < ?
		   AND `+accessibleLists+`
		 ORDER BY t.deadline ASC`,
		before.UTC(), userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("overdue tasks: %w", err)
	}
	defer rows.Close()
	return collectTasksWithList(rows)
}

func collectTasksWithList(rows *sql.Rows) ([]model.TaskWithList, error) {
	var tasks []model.TaskWithList
	for rows.Next() {
		var t model.TaskWithList
		var deadline sql.NullTime
		err := rows.Scan(
			&t.ID, &t.ListID, &t.Title, &t.Description, &t.Priority,
			&deadline, &t.Completed, &t.CreatedAt, &t.UpdatedAt, &t.ListName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task with list: %w", err)
		}
		if deadline.Valid {
			t.Deadline = &deadline.Time
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Stats aggregates counts over every task in the user's accessible lists.
// Upcoming counts pending tasks due in [now, upTo]; overdue counts pending
// tasks due before now.
func (s *TaskStore) Stats(userID int64, now, upTo time.Time) (*model.TaskStats, error) {
	row := s.db.QueryRow(
		`SELECT
		   COUNT(*),
		   COALESCE(SUM(CASE WHEN t.completed = 1 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN t.completed = 0 THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN t.completed = 0 AND t.deadline < ? THEN 1 ELSE 0 END), 0),
		   COALESCE(SUM(CASE WHEN t.completed = 0 AND t.deadline >= ? AND t.deadline <= ? THEN 1 ELSE 0 END), 0)
		 FROM tasks t
		 JOIN task_lists tl ON t.list_id = tl.id
		 WHERE `+accessibleLists,
		now.UTC(), now.UTC(), upTo.UTC(), userID, userID,
	)

	var st model.TaskStats
	if err := row.Scan(&st.Total, &st.Completed, &st.Pending, &st.Overdue, &st.Upcoming); err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	return &st, nil
}
