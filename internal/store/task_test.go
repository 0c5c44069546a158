package store

import (
	"testing"
	"time"

	"github.com/kwrobel/listly/internal/database"
	"github.com/kwrobel/listly/internal/model"
)

func setupTaskTestDB(t *testing.T) (*TaskStore, *ListStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTaskStore(db), NewListStore(db), NewUserStore(db)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestTaskCRUD(t *testing.T) {
	ts, ls, us := setupTaskTestDB(t)

	u, _ := us.Create("Ann", "ann@example.com", "h")
	list, _ := ls.Create("Groceries", u.ID)

	deadline := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	task, err := ts.Create(list.ID, "Buy milk", "Two liters", model.PriorityHigh, &deadline)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want %q", task.Title, "Buy milk")
	}
	if task.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want %q", task.Priority, model.PriorityHigh)
	}
	if task.Deadline == nil || !task.Deadline.Equal(deadline) {
		t.Errorf("deadline = %v, want %v", task.Deadline, deadline)
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}

	updated, err := ts.Update(task.ID, "Buy oat milk", "", model.PriorityLow, nil)
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Title != "Buy oat milk" {
		t.Errorf("updated title = %q, want %q", updated.Title, "Buy oat milk")
	}
	if updated.Deadline != nil {
		t.Errorf("updated deadline = %v, want nil", updated.Deadline)
	}

	if err := ts.SetCompleted(task.ID, true); err != nil {
		t.Fatalf("set completed: %v", err)
	}
	got, _ := ts.GetByID(task.ID)
	if !got.Completed {
		t.Error("expected completed = true")
	}

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	got, _ = ts.GetByID(task.ID)
	if got != nil {
		t.Error("expected nil for deleted task")
	}
}

func TestTaskListOrdering(t *testing.T) {
	ts, ls, us := setupTaskTestDB(t)

	u, _ := us.Create("Ann", "ann@example.com", "h")
	list, _ := ls.Create("Groceries", u.ID)

	now := time.Now().UTC()
	// Insertion order is deliberately scrambled.
	highNoDeadline, _ := ts.Create(list.ID, "high no deadline", "", model.PriorityHigh, nil)
	mediumTomorrow, _ := ts.Create(list.ID, "medium tomorrow", "", model.PriorityMedium, timePtr(now.Add(24*time.Hour)))
	highLater, _ := ts.Create(list.ID, "high in 5 days", "", model.PriorityHigh, timePtr(now.Add(5*24*time.Hour)))
	highSoon, _ := ts.Create(list.ID, "high in 2 days", "", model.PriorityHigh, timePtr(now.Add(2*24*time.Hour)))
	lowNoDeadline, _ := ts.Create(list.ID, "low no deadline", "", model.PriorityLow, nil)
	doneHigh, _ := ts.Create(list.ID, "done high tomorrow", "", model.PriorityHigh, timePtr(now.Add(24*time.Hour)))
	ts.SetCompleted(doneHigh.ID, true)

	tasks, err := ts.ListByList(list.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 6 {
		t.Fatalf("expected 6 tasks, got %d", len(tasks))
	}

	wantOrder := []int64{highSoon.ID, highLater.ID, highNoDeadline.ID, mediumTomorrow.ID, lowNoDeadline.ID, doneHigh.ID}
	for i, id := range wantOrder {
		if tasks[i].ID != id {
			t.Errorf("tasks[%d] = %q (id %d), want id %d", i, tasks[i].Title, tasks[i].ID, id)
		}
	}
}

func TestTaskUpcomingWindow(t *testing.T) {
	ts, ls, us := setupTaskTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	bob, _ := us.Create("Bob", "bob@example.com", "h")
	annList, _ := ls.Create("Groceries", ann.ID)
	bobList, _ := ls.Create("Bob's list", bob.ID)
	ls.AddShare(bobList.ID, ann.ID)

	now := time.Now().UTC()
	inWindow, _ := ts.Create(annList.ID, "due soon", "", model.PriorityMedium, timePtr(now.Add(48*time.Hour)))
	sharedInWindow, _ := ts.Create(bobList.ID, "shared due", "", model.PriorityMedium, timePtr(now.Add(24*time.Hour)))
	ts.Create(annList.ID, "too far", "", model.PriorityMedium, timePtr(now.Add(9*24*time.Hour)))
	ts.Create(annList.ID, "no deadline", "", model.PriorityMedium, nil)
	done, _ := ts.Create(annList.ID, "done", "", model.PriorityMedium, timePtr(now.Add(24*time.Hour)))
	ts.SetCompleted(done.ID, true)

	tasks, err := ts.Upcoming(ann.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 upcoming tasks, got %d", len(tasks))
	}
	// Earliest deadline first; the shared list's task counts too.
	if tasks[0].ID != sharedInWindow.ID {
		t.Errorf("tasks[0].ID = %d, want %d", tasks[0].ID, sharedInWindow.ID)
	}
	if tasks[0].ListName != "Bob's list" {
		t.Errorf("list_name = %q, want %q", tasks[0].ListName, "Bob's list")
	}
	if tasks[1].ID != inWindow.ID {
		t.Errorf("tasks[1].ID = %d, want %d", tasks[1].ID, inWindow.ID)
	}

	// Bob has no access to Ann's list, so only his own task shows.
	bobTasks, _ := ts.Upcoming(bob.ID, now, now.AddDate(0, 0, 7))
	if len(bobTasks) != 1 || bobTasks[0].ID != sharedInWindow.ID {
		t.Errorf("bob upcoming = %d tasks, want 1 (his own)", len(bobTasks))
	}
}

func TestTaskOverdue(t *testing.T) {
	ts, ls, us := setupTaskTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	list, _ := ls.Create("Groceries", ann.ID)

	now := time.Now().UTC()
	old, _ := ts.Create(list.ID, "very late", "", model.PriorityMedium, timePtr(now.Add(-5*24*time.Hour)))
	recent, _ := ts.Create(list.ID, "barely late", "", model.PriorityMedium, timePtr(now.Add(-time.Hour)))
	ts.Create(list.ID, "future", "", model.PriorityMedium, timePtr(now.Add(time.Hour)))
	doneLate, _ := ts.Create(list.ID, "done late", "", model.PriorityMedium, timePtr(now.Add(-24*time.Hour)))
	ts.SetCompleted(doneLate.ID, true)

	tasks, err := ts.Overdue(ann.ID, now)
	if err != nil {
		t.Fatalf("overdue: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 overdue tasks, got %d", len(tasks))
	}
	if tasks[0].ID != old.ID || tasks[1].ID != recent.ID {
		t.Errorf("overdue order = [%d, %d], want [%d, %d]", tasks[0].ID, tasks[1].ID, old.ID, recent.ID)
	}
}

func TestTaskStats(t *testing.T) {
	ts, ls, us := setupTaskTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	bob, _ := us.Create("Bob", "bob@example.com", "h")
	annList, _ := ls.Create("Groceries", ann.ID)
	bobList, _ := ls.Create("Bob's list", bob.ID)
	ls.AddShare(bobList.ID, ann.ID)

	now := time.Now().UTC()
	done, _ := ts.Create(annList.ID, "done", "", model.PriorityMedium, nil)
	ts.SetCompleted(done.ID, true)
	ts.Create(annList.ID, "overdue", "", model.PriorityMedium, timePtr(now.Add(-24*time.Hour)))
	ts.Create(annList.ID, "upcoming", "", model.PriorityMedium, timePtr(now.Add(48*time.Hour)))
	ts.Create(bobList.ID, "shared pending", "", model.PriorityMedium, nil)

	stats, err := ts.Stats(ann.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("completed = %d, want 1", stats.Completed)
	}
	if stats.Pending != 3 {
		t.Errorf("pending = %d, want 3", stats.Pending)
	}
	if stats.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", stats.Overdue)
	}
	if stats.Upcoming != 1 {
		t.Errorf("upcoming = %d, want 1", stats.Upcoming)
	}
}

func TestTaskStatsEmpty(t *testing.T) {
	ts, _, us := setupTaskTestDB(t)

	ann, _ := us.Create("Ann", "ann@example.com", "h")
	now := time.Now().UTC()

	stats, err := ts.Stats(ann.ID, now, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 || stats.Pending != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
