package store

import (
	"database/sql"
	"fmt"

	"github.com/kwrobel/listly/internal/model"
)

type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.TaskList, error) {
	var l model.TaskList
	err := scanner.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scanShare(scanner interface{ Scan(...any) error }) (*model.ListShare, error) {
	var sh model.ListShare
	err := scanner.Scan(&sh.ID, &sh.ListID, &sh.UserID, &sh.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

const listCols = `id, name, owner_id, created_at, updated_at`
const shareCols = `id, list_id, user_id, created_at`

func (s *ListStore) Create(name string, ownerID int64) (*model.TaskList, error) {
	result, err := s.db.Exec(
		`INSERT INTO task_lists (name, owner_id) VALUES (?, ?)`,
		name, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ListStore) GetByID(id int64) (*model.TaskList, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM task_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ListStore) Rename(id int64, name string) (*model.TaskList, error) {
	_, err := s.db.Exec(
		`UPDATE task_lists SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a list together with its shares and tasks in one
// transaction, so a failed delete leaves everything in place.
func (s *ListStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM list_shares WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("delete list shares: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("delete list tasks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM task_lists WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return tx.Commit()
}

// ListForUser returns every list the user owns or has a share on,
// owned lists first, then alphabetical within each group.
func (s *ListStore) ListForUser(userID int64) ([]model.TaskListSummary, error) {
	rows, err := s.db.Query(
		`SELECT tl.id, tl.name, tl.owner_id, tl.created_at, tl.updated_at,
		        u.name AS owner_name,
		        CASE WHEN tl.owner_id = ? THEN 1 ELSE 0 END AS is_owner
		 FROM task_lists tl
		 JOIN users u ON tl.owner_id = u.id
		 WHERE tl.owner_id = ?
		    OR tl.id IN (SELECT list_id FROM list_shares WHERE user_id = ?)
		 ORDER BY is_owner DESC, tl.name ASC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists for user: %w", err)
	}
	defer rows.Close()

	var lists []model.TaskListSummary
	for rows.Next() {
		var l model.TaskListSummary
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt, &l.OwnerName, &l.IsOwner); err != nil {
			return nil, fmt.Errorf("scan list summary: %w", err)
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// GetSummary returns a single list with owner name and the caller's is_owner flag.
func (s *ListStore) GetSummary(listID, userID int64) (*model.TaskListSummary, error) {
	row := s.db.QueryRow(
		`SELECT tl.id, tl.name, tl.owner_id, tl.created_at, tl.updated_at,
		        u.name AS owner_name,
		        CASE WHEN tl.owner_id = ? THEN 1 ELSE 0 END AS is_owner
		 FROM task_lists tl
		 JOIN users u ON tl.owner_id = u.id
		 WHERE tl.id = ?`,
		userID, listID,
	)
	var l model.TaskListSummary
	err := row.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt, &l.OwnerName, &l.IsOwner)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list summary: %w", err)
	}
	return &l, nil
}

func (s *ListStore) AddShare(listID, userID int64) (*model.ListShare, error) {
	result, err := s.db.Exec(
		`INSERT INTO list_shares (list_id, user_id) VALUES (?, ?)`,
		listID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("add share: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+shareCols+` FROM list_shares WHERE id = ?`, id)
	return scanShare(row)
}

func (s *ListStore) RemoveShare(listID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM list_shares WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	if err != nil {
		return fmt.Errorf("remove share: %w", err)
	}
	return nil
}

func (s *ListStore) GetShare(listID, userID int64) (*model.ListShare, error) {
	row := s.db.QueryRow(
		`SELECT `+shareCols+` FROM list_shares WHERE list_id = ? AND user_id = ?`,
		listID, userID,
	)
	sh, err := scanShare(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get share: %w", err)
	}
	return sh, nil
}

// ListShares returns the users a list is shared with, ordered by name.
func (s *ListStore) ListShares(listID int64) ([]model.ShareUser, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.name, u.email
		 FROM list_shares ls
		 JOIN users u ON ls.user_id = u.id
		 WHERE ls.list_id = ?
		 ORDER BY u.name ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var users []model.ShareUser
	for rows.Next() {
		var u model.ShareUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan share user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
