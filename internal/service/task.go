package service

import (
	"math"
	"strings"
	"time"

	"github.com/kwrobel/listly/internal/access"
	"github.com/kwrobel/listly/internal/model"
	"github.com/kwrobel/listly/internal/store"
)

// DefaultUpcomingWindow is the dashboard's deadline window in days.
const DefaultUpcomingWindow = 7

// UpcomingTask is a pending task due inside the deadline window,
// annotated with whole days until the deadline (rounded up).
type UpcomingTask struct {
	model.TaskWithList
	DaysUntil int `json:"days_until"`
}

// OverdueTask is a pending task past its deadline, annotated with whole
// days overdue (rounded down).
type OverdueTask struct {
	model.TaskWithList
	DaysOverdue int `json:"days_overdue"`
}

// TaskService implements task CRUD, completion toggling and the
// dashboard aggregations. List-level permissions are delegated to the
// access checker; tasks have no ACL of their own.
type TaskService struct {
	tasks  *store.TaskStore
	access *access.Checker
}

func NewTaskService(tasks *store.TaskStore, checker *access.Checker) *TaskService {
	return &TaskService{tasks: tasks, access: checker}
}

func (s *TaskService) requireListAccess(listID, userID int64) error {
	ok, err := s.access.HasAccess(listID, userID)
	if err != nil {
		return storeErr("check access", err)
	}
	if !ok {
		return permission(noAccess)
	}
	return nil
}

// ParseDeadline turns user input into a UTC timestamp. Empty or
// unparseable input yields nil; the task simply has no deadline.
func ParseDeadline(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{
		"2006-01-02T15:04",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// daysUntil is the ceiling of the day difference from now to the deadline.
func daysUntil(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// daysOverdue is the floor of the day difference from the deadline to now.
func daysOverdue(now, deadline time.Time) int {
	return int(math.Floor(now.Sub(deadline).Hours() / 24))
}

// ListForList returns a list's tasks in display order: incomplete first,
// then priority, then deadline (no deadline last), then newest.
func (s *TaskService) ListForList(listID, userID int64) ([]model.Task, error) {
	if err := s.requireListAccess(listID, userID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListByList(listID)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Create(listID int64, title, description, priority, deadline string, userID int64) (*model.Task, error) {
	if err := s.requireListAccess(listID, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validation("task title cannot be empty")
	}

	task, err := s.tasks.Create(listID, title, strings.TrimSpace(description), model.ParsePriority(priority), ParseDeadline(deadline))
	if err != nil {
		return nil, storeErr("create task", err)
	}
	return task, nil
}

// Update replaces all four mutable fields; there is no partial patch.
func (s *TaskService) Update(taskID int64, title, description, priority, deadline string, userID int64) (*model.Task, error) {
	if _, err := s.GetWithAccess(taskID, userID); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, validation("task title cannot be empty")
	}

	task, err := s.tasks.Update(taskID, title, strings.TrimSpace(description), model.ParsePriority(priority), ParseDeadline(deadline))
	if err != nil {
		return nil, storeErr("update task", err)
	}
	return task, nil
}

// ToggleComplete flips the completed flag and returns the new state.
// Two toggles restore the original state.
func (s *TaskService) ToggleComplete(taskID, userID int64) (bool, error) {
	task, err := s.GetWithAccess(taskID, userID)
	if err != nil {
		return false, err
	}

	newState := !task.Completed
	if err := s.tasks.SetCompleted(taskID, newState); err != nil {
		return false, storeErr("toggle task", err)
	}
	return newState, nil
}

func (s *TaskService) Delete(taskID, userID int64) error {
	if _, err := s.GetWithAccess(taskID, userID); err != nil {
		return err
	}
	if err := s.tasks.Delete(taskID); err != nil {
		return storeErr("delete task", err)
	}
	return nil
}

// GetWithAccess resolves task -> list -> access check, the shared
// primitive behind every per-task operation.
func (s *TaskService) GetWithAccess(taskID, userID int64) (*model.Task, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return nil, storeErr("get task", err)
	}
	if task == nil {
		return nil, notFound("task not found")
	}
	if err := s.requireListAccess(task.ListID, userID); err != nil {
		return nil, err
	}
	return task, nil
}

// Upcoming returns pending tasks due within the next windowDays days
// across every list the user can access, earliest first.
func (s *TaskService) Upcoming(userID int64, windowDays int) ([]UpcomingTask, error) {
	if windowDays <= 0 {
		windowDays = DefaultUpcomingWindow
	}

	now := time.Now().UTC()
	rows, err := s.tasks.Upcoming(userID, now, now.AddDate(0, 0, windowDays))
	if err != nil {
		return nil, storeErr("upcoming tasks", err)
	}

	upcoming := make([]UpcomingTask, 0, len(rows))
	for _, t := range rows {
		upcoming = append(upcoming, UpcomingTask{
			TaskWithList: t,
			DaysUntil:    daysUntil(now, *t.Deadline),
		})
	}
	return upcoming, nil
}

// Overdue returns pending tasks past their deadline across every list
// the user can access, earliest first.
func (s *TaskService) Overdue(userID int64) ([]OverdueTask, error) {
	now := time.Now().UTC()
	rows, err := s.tasks.Overdue(userID, now)
	if err != nil {
		return nil, storeErr("overdue tasks", err)
	}

	overdue := make([]OverdueTask, 0, len(rows))
	for _, t := range rows {
		overdue = append(overdue, OverdueTask{
			TaskWithList: t,
			DaysOverdue:  daysOverdue(now, *t.Deadline),
		})
	}
	return overdue, nil
}

// Stats aggregates the user's task counts for the dashboard header.
func (s *TaskService) Stats(userID int64) (*model.TaskStats, error) {
	now := time.Now().UTC()
	stats, err := s.tasks.Stats(userID, now, now.AddDate(0, 0, DefaultUpcomingWindow))
	if err != nil {
		return nil, storeErr("task stats", err)
	}
	return stats, nil
}
