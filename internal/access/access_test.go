package access

import (
	"testing"

	"github.com/kwrobel/listly/internal/database"
	"github.com/kwrobel/listly/internal/store"
)

func setupAccessTestDB(t *testing.T) (*Checker, *store.ListStore, *store.UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewChecker(db), store.NewListStore(db), store.NewUserStore(db)
}

func TestOwnerHasAccess(t *testing.T) {
	c, ls, us := setupAccessTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	list, _ := ls.Create("Groceries", ann.ID)

	owner, err := c.IsOwner(list.ID, ann.ID)
	if err != nil {
		t.Fatalf("is owner: %v", err)
	}
	if !owner {
		t.Error("expected owner = true")
	}

	ok, err := c.HasAccess(list.ID, ann.ID)
	if err != nil {
		t.Fatalf("has access: %v", err)
	}
	if !ok {
		t.Error("expected access = true for owner")
	}
}

func TestStrangerHasNoAccess(t *testing.T) {
	c, ls, us := setupAccessTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	carol, _ := us.Create("Carol", "carol@example.com", "h")
	list, _ := ls.Create("Groceries", ann.ID)

	if ok, _ := c.HasAccess(list.ID, carol.ID); ok {
		t.Error("expected access = false for unrelated user")
	}
	if owner, _ := c.IsOwner(list.ID, carol.ID); owner {
		t.Error("expected owner = false for unrelated user")
	}
}

func TestShareGrantsAccessNotOwnership(t *testing.T) {
	c, ls, us := setupAccessTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	bob, _ := us.Create("Bob", "bob@example.com", "h")
	list, _ := ls.Create("Groceries", ann.ID)
	ls.AddShare(list.ID, bob.ID)

	if ok, _ := c.HasAccess(list.ID, bob.ID); !ok {
		t.Error("expected access = true for shared user")
	}
	if owner, _ := c.IsOwner(list.ID, bob.ID); owner {
		t.Error("share must not grant ownership")
	}
}

func TestMissingListAnswersFalse(t *testing.T) {
	c, _, us := setupAccessTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")

	ok, err := c.HasAccess(9999, ann.ID)
	if err != nil {
		t.Fatalf("has access: %v", err)
	}
	if ok {
		t.Error("expected access = false for missing list")
	}

	owner, err := c.IsOwner(9999, ann.ID)
	if err != nil {
		t.Fatalf("is owner: %v", err)
	}
	if owner {
		t.Error("expected owner = false for missing list")
	}
}
