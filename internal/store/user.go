package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/kwrobel/listly/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var resetToken sql.NullString
	var resetExpires sql.NullTime

	err := scanner.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &resetToken, &resetExpires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if resetToken.Valid {
		u.ResetToken = &resetToken.String
	}
	if resetExpires.Valid {
		u.ResetExpires = &resetExpires.Time
	}
	return &u, nil
}

const userCols = `id, name, email, password_hash, reset_token, reset_token_expires, created_at, updated_at`

func (s *UserStore) Create(name, email, passwordHash string) (*model.User, error) {
	result, err := s.db.Exec(
		`INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`,
		name, email, passwordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id int64) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) UpdatePassword(id int64, passwordHash string) error {
	_, err := s.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// SetResetToken stores a password reset token and its expiry on the user row.
func (s *UserStore) SetResetToken(id int64, token string, expires time.Time) error {
	_, err := s.db.Exec(
		`UPDATE users SET reset_token = ?, reset_token_expires = ? WHERE id = ?`,
		token, expires.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set reset token: %w", err)
	}
	return nil
}

// GetByResetToken returns the user holding an unexpired reset token, or nil.
func (s *UserStore) GetByResetToken(token string, now time.Time) (*model.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userCols+` FROM users WHERE reset_token = ? AND reset_token_expires > ?`,
		token, now.UTC(),
	)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by reset token: %w", err)
	}
	return u, nil
}

func (s *UserStore) ClearResetToken(id int64) error {
	_, err := s.db.Exec(`UPDATE users SET reset_token = NULL, reset_token_expires = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear reset token: %w", err)
	}
	return nil
}
