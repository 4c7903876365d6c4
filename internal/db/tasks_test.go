package db

import (
	"testing"
	"time"

	"github.com/voxdroid/tasktrack/internal/model"
)

func TestCreateTaskDefaults(t *testing.T) {
	d := newTestDB(t)
	p, _ := d.CreateProject("Website", "", "")

	task, ok := d.CreateTask(NewTask{Title: "Design mockup", ProjectID: &p.ID})
	if !ok {
		t.Fatal("create task failed")
	}
	if task.Status != model.StatusTodo {
		t.Fatalf("expected status todo, got %q", task.Status)
	}
	if task.Priority != model.PriorityMedium {
		t.Fatalf("expected priority medium, got %q", task.Priority)
	}
	if task.ProjectID == nil || *task.ProjectID != p.ID {
		t.Fatalf("expected project reference %d, got %v", p.ID, task.ProjectID)
	}
}

func TestListTasksByProject(t *testing.T) {
	d := newTestDB(t)
	p, _ := d.CreateProject("Website", "", "")
	other, _ := d.CreateProject("Other", "", "")

	task, _ := d.CreateTask(NewTask{Title: "Design mockup", ProjectID: &p.ID})
	d.CreateTask(NewTask{Title: "Unrelated", ProjectID: &other.ID})
	d.CreateTask(NewTask{Title: "Orphan"})

	got := d.ListTasks(TaskFilter{ProjectID: &p.ID})
	if len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("expected exactly the project's task, got %+v", got)
	}
}

func TestListTasksFilters(t *testing.T) {
	d := newTestDB(t)

	d.CreateTask(NewTask{Title: "Low", Priority: model.PriorityLow})
	urgent, _ := d.CreateTask(NewTask{Title: "Urgent", Priority: model.PriorityUrgent})
	d.UpdateTaskFields(urgent.ID, map[string]any{"favorite": true})

	if got := d.ListTasks(TaskFilter{Priority: model.PriorityUrgent}); len(got) != 1 {
		t.Fatalf("priority filter: expected 1 task, got %d", len(got))
	}
	fav := true
	if got := d.ListTasks(TaskFilter{Favorite: &fav}); len(got) != 1 || got[0].ID != urgent.ID {
		t.Fatalf("favorite filter: unexpected result %+v", got)
	}
}

func TestCreateTaskDanglingProjectRejected(t *testing.T) {
	d := newTestDB(t)

	missing := int64(999)
	if _, ok := d.CreateTask(NewTask{Title: "Nope", ProjectID: &missing}); ok {
		t.Fatal("expected dangling project reference to be rejected")
	}
}

func TestStatusCompletedStampsCompletedAt(t *testing.T) {
	d, clk := newClockDB(t)

	task, _ := d.CreateTask(NewTask{Title: "Finish me"})
	if task.CompletedAt != nil {
		t.Fatal("expected no completed_at on a fresh task")
	}

	clk.Advance(10 * time.Minute)
	d.UpdateTaskFields(task.ID, map[string]any{"status": "completed"})

	got, _ := d.GetTask(task.ID)
	if got.CompletedAt == nil {
		t.Fatal("expected completed_at to be stamped")
	}
	if !got.CompletedAt.Equal(clk.Now().UTC().Truncate(time.Second)) {
		t.Fatalf("completed_at = %v, want %v", got.CompletedAt, clk.Now())
	}

	// Reverting the status clears the stamp.
	d.UpdateTaskFields(task.ID, map[string]any{"status": "todo"})
	got, _ = d.GetTask(task.ID)
	if got.CompletedAt != nil {
		t.Fatalf("expected completed_at cleared, got %v", got.CompletedAt)
	}
}

func TestUpdateMissingTask(t *testing.T) {
	d := newTestDB(t)

	res, err := d.UpdateTaskFields(404, map[string]any{"title": "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if res.RowsAffected != 0 {
		t.Fatalf("expected 0 rows affected, got %d", res.RowsAffected)
	}
}
