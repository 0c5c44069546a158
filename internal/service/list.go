package service

import (
	"strings"

	"github.com/kwrobel/listly/internal/access"
	"github.com/kwrobel/listly/internal/model"
	"github.com/kwrobel/listly/internal/store"
)

// noAccess is the single message for both "list does not exist" and
// "list is not shared with you"; distinguishing them would reveal which
// list ids exist.
const noAccess = "no access to this list"

// ListService implements list CRUD and sharing. All permission decisions
// go through the access checker.
type ListService struct {
	lists  *store.ListStore
	users  *store.UserStore
	access *access.Checker
}

func NewListService(lists *store.ListStore, users *store.UserStore, checker *access.Checker) *ListService {
	return &ListService{lists: lists, users: users, access: checker}
}

// requireOwner fails with the uniform no-access message unless the user
// owns the list.
func (s *ListService) requireOwner(listID, userID int64) error {
	owner, err := s.access.IsOwner(listID, userID)
	if err != nil {
		return storeErr("check owner", err)
	}
	if !owner {
		return permission(noAccess)
	}
	return nil
}

// requireAccess fails unless the user owns the list or holds a share.
func (s *ListService) requireAccess(listID, userID int64) error {
	ok, err := s.access.HasAccess(listID, userID)
	if err != nil {
		return storeErr("check access", err)
	}
	if !ok {
		return permission(noAccess)
	}
	return nil
}

func (s *ListService) Create(name string, ownerID int64) (*model.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("list name cannot be empty")
	}

	list, err := s.lists.Create(name, ownerID)
	if err != nil {
		return nil, storeErr("create list", err)
	}
	return list, nil
}

func (s *ListService) Rename(listID int64, name string, userID int64) (*model.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation("list name cannot be empty")
	}
	if err := s.requireOwner(listID, userID); err != nil {
		return nil, err
	}

	list, err := s.lists.Rename(listID, name)
	if err != nil {
		return nil, storeErr("rename list", err)
	}
	return list, nil
}

func (s *ListService) Delete(listID, userID int64) error {
	if err := s.requireOwner(listID, userID); err != nil {
		return err
	}
	if err := s.lists.Delete(listID); err != nil {
		return storeErr("delete list", err)
	}
	return nil
}

// Share grants a user, looked up by email, access to an owned list.
func (s *ListService) Share(listID int64, email string, ownerID int64) (*model.ShareUser, error) {
	if err := s.requireOwner(listID, ownerID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, storeErr("share lookup", err)
	}
	if user == nil {
		return nil, notFound("no user with that email")
	}
	if user.ID == ownerID {
		return nil, validation("cannot share a list with yourself")
	}

	existing, err := s.lists.GetShare(listID, user.ID)
	if err != nil {
		return nil, storeErr("check share", err)
	}
	if existing != nil {
		return nil, conflict("list is already shared with this user")
	}

	if _, err := s.lists.AddShare(listID, user.ID); err != nil {
		return nil, storeErr("add share", err)
	}
	return &model.ShareUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// RemoveShare revokes a share. Removing one that does not exist succeeds.
func (s *ListService) RemoveShare(listID, targetUserID, ownerID int64) error {
	if err := s.requireOwner(listID, ownerID); err != nil {
		return err
	}
	if err := s.lists.RemoveShare(listID, targetUserID); err != nil {
		return storeErr("remove share", err)
	}
	return nil
}

// Shares returns the share roster; both the owner and shared users may
// see it.
func (s *ListService) Shares(listID, userID int64) ([]model.ShareUser, error) {
	if err := s.requireAccess(listID, userID); err != nil {
		return nil, err
	}

	users, err := s.lists.ListShares(listID)
	if err != nil {
		return nil, storeErr("list shares", err)
	}
	if users == nil {
		users = []model.ShareUser{}
	}
	return users, nil
}

// ListsFor returns every list the user owns or is shared on.
func (s *ListService) ListsFor(userID int64) ([]model.TaskListSummary, error) {
	lists, err := s.lists.ListForUser(userID)
	if err != nil {
		return nil, storeErr("list lists", err)
	}
	if lists == nil {
		lists = []model.TaskListSummary{}
	}
	return lists, nil
}

// Details returns one list with its owner's name and the caller's
// is_owner flag.
func (s *ListService) Details(listID, userID int64) (*model.TaskListSummary, error) {
	if err := s.requireAccess(listID, userID); err != nil {
		return nil, err
	}

	list, err := s.lists.GetSummary(listID, userID)
	if err != nil {
		return nil, storeErr("get list", err)
	}
	if list == nil {
		// Deleted between the access check and the read; present it the
		// same as no access.
		return nil, permission(noAccess)
	}
	return list, nil
}
