// Package access answers the one question every list and task operation
// asks first: may this user touch this list? Owners always may; everyone
// else needs a share row. A missing list answers false rather than
// erroring, so callers can present "not found" and "no access" identically.
package access

import (
	"database/sql"
	"fmt"
)

type Checker struct {
	db *sql.DB
}

func NewChecker(db *sql.DB) *Checker {
	return &Checker{db: db}
}

// IsOwner reports whether the list exists and is owned by the user.
func (c *Checker) IsOwner(listID, userID int64) (bool, error) {
	var ownerID int64
	err := c.db.QueryRow(`SELECT owner_id FROM task_lists WHERE id = ?`, listID).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check owner: %w", err)
	}
	return ownerID == userID, nil
}

// HasAccess reports whether the user owns the list or holds a share on it.
func (c *Checker) HasAccess(listID, userID int64) (bool, error) {
	var count int
	err := c.db.QueryRow(
		`SELECT COUNT(*) FROM task_lists
		 WHERE id = ? AND (
		     owner_id = ?
		     OR id IN (SELECT list_id FROM list_shares WHERE user_id = ?)
		 )`,
		listID, userID, userID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check access: %w", err)
	}
	return count > 0, nil
}
