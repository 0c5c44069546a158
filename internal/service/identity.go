package service

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/kwrobel/listly/internal/model"
	"github.com/kwrobel/listly/internal/store"
)

const (
	minPasswordLen = 6
	resetTokenTTL  = time.Hour
)

// invalidCredentials is deliberately the same whether the email is
// unknown or the password wrong, so login cannot probe for accounts.
const invalidCredentials = "invalid email or password"

// IdentityService handles registration, login and password management.
type IdentityService struct {
	users    *store.UserStore
	sessions *store.SessionStore
	hasher   PasswordHasher
	logger   *slog.Logger
}

func NewIdentityService(users *store.UserStore, sessions *store.SessionStore, hasher PasswordHasher, logger *slog.Logger) *IdentityService {
	return &IdentityService{users: users, sessions: sessions, hasher: hasher, logger: logger}
}

// Register validates and creates a new user account.
func (s *IdentityService) Register(name, email, password, confirmPassword string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" || email == "" || password == "" {
		return nil, validation("all fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validation("invalid email format")
	}
	if password != confirmPassword {
		return nil, validation("passwords do not match")
	}
	if len(password) < minPasswordLen {
		return nil, validation("password must be at least 6 characters")
	}

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, storeErr("register lookup", err)
	}
	if existing != nil {
		return nil, conflict("user already exists")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, storeErr("hash password", err)
	}

	user, err := s.users.Create(name, email, hash)
	if err != nil {
		return nil, storeErr("create user", err)
	}
	return user, nil
}

// Login verifies credentials and opens a session bound to the user.
func (s *IdentityService) Login(email, password string) (*model.User, *model.Session, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, nil, storeErr("login lookup", err)
	}
	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, authErr(invalidCredentials)
	}

	sess, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, nil, storeErr("create session", err)
	}
	return user, sess, nil
}

// Logout deletes the session for the given token. An unknown token is a no-op.
func (s *IdentityService) Logout(token string) error {
	sess, err := s.sessions.GetByToken(token)
	if err != nil {
		return storeErr("logout lookup", err)
	}
	if sess == nil {
		return nil
	}
	if err := s.sessions.Delete(sess.ID); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}

// CurrentUser resolves a user id to the account behind it.
func (s *IdentityService) CurrentUser(userID int64) (*model.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, storeErr("current user", err)
	}
	if user == nil {
		return nil, authErr("login required")
	}
	return user, nil
}

// ChangePassword verifies the current password and replaces it.
func (s *IdentityService) ChangePassword(userID int64, current, newPassword, confirmNew string) error {
	if newPassword != confirmNew {
		return validation("new passwords do not match")
	}
	if len(newPassword) < minPasswordLen {
		return validation("new password must be at least 6 characters")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return storeErr("change password lookup", err)
	}
	if user == nil || !s.hasher.Verify(current, user.PasswordHash) {
		return authErr("current password is incorrect")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return storeErr("hash password", err)
	}
	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return storeErr("update password", err)
	}
	return nil
}

// RequestPasswordReset issues a one-hour reset token for the account.
// The token would normally travel by email; it is returned so the caller
// can deliver it.
func (s *IdentityService) RequestPasswordReset(email string) (string, error) {
	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return "", storeErr("reset lookup", err)
	}
	if user == nil {
		return "", notFound("no user with that email")
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", storeErr("generate reset token", err)
	}
	token := hex.EncodeToString(tokenBytes)

	expires := time.Now().UTC().Add(resetTokenTTL)
	if err := s.users.SetResetToken(user.ID, token, expires); err != nil {
		return "", storeErr("store reset token", err)
	}

	s.logger.Info("password reset requested", "user_id", user.ID)
	return token, nil
}

// ResetPassword completes a reset: the token must be unexpired, and the
// new password passes the same checks as ChangePassword.
func (s *IdentityService) ResetPassword(token, newPassword, confirmNew string) error {
	if newPassword != confirmNew {
		return validation("new passwords do not match")
	}
	if len(newPassword) < minPasswordLen {
		return validation("new password must be at least 6 characters")
	}

	user, err := s.users.GetByResetToken(token, time.Now().UTC())
	if err != nil {
		return storeErr("reset token lookup", err)
	}
	if user == nil {
		return notFound("reset token is invalid or expired")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return storeErr("hash password", err)
	}
	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return storeErr("update password", err)
	}
	if err := s.users.ClearResetToken(user.ID); err != nil {
		return storeErr("clear reset token", err)
	}
	return nil
}
