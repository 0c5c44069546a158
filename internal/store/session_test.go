package store

import (
	"testing"

	"github.com/kwrobel/listly/internal/database"
)

func setupSessionTestDB(t *testing.T) (*SessionStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db), NewUserStore(db)
}

func TestSessionCreateAndGet(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, err := us.Create("Ann", "ann@example.com", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", sess.UserID, u.ID)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.ID != sess.ID {
		t.Errorf("id = %d, want %d", got.ID, sess.ID)
	}
}

func TestSessionGetUnknownToken(t *testing.T) {
	ss, _ := setupSessionTestDB(t)

	got, err := ss.GetByToken("nope")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionDelete(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Ann", "ann@example.com", "h")
	sess, _ := ss.Create(u.ID)

	if err := ss.Delete(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, _ := ss.GetByToken(sess.Token)
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionDeleteForUser(t *testing.T) {
	ss, us := setupSessionTestDB(t)

	u, _ := us.Create("Ann", "ann@example.com", "h")
	s1, _ := ss.Create(u.ID)
	s2, _ := ss.Create(u.ID)

	if err := ss.DeleteForUser(u.ID); err != nil {
		t.Fatalf("delete for user: %v", err)
	}

	for _, tok := range []string{s1.Token, s2.Token} {
		if got, _ := ss.GetByToken(tok); got != nil {
			t.Error("expected all user sessions deleted")
		}
	}
}
