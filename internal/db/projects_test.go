package db

import (
	"testing"

	"github.com/voxdroid/tasktrack/internal/model"
)

func TestCreateProjectDefaults(t *testing.T) {
	d := newTestDB(t)

	p, ok := d.CreateProject("Website", "", "")
	if !ok {
		t.Fatal("create project failed")
	}
	if p.ID == 0 {
		t.Fatal("expected generated id")
	}
	if p.Status != model.ProjectActive {
		t.Fatalf("expected status active, got %q", p.Status)
	}
	if p.Favorite {
		t.Fatal("expected favorite=false by default")
	}
	if p.Color != defaultProjectColor {
		t.Fatalf("expected default color, got %q", p.Color)
	}
}

func TestListProjectsCounts(t *testing.T) {
	d := newTestDB(t)

	p, _ := d.CreateProject("Website", "", "")
	d.CreateTask(NewTask{Title: "One", ProjectID: &p.ID})
	done, _ := d.CreateTask(NewTask{Title: "Two", ProjectID: &p.ID})
	d.UpdateTaskFields(done.ID, map[string]any{"status": "completed"})

	projects := d.ListProjects()
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].TaskCount != 2 || projects[0].CompletedCount != 1 {
		t.Fatalf("unexpected counts: %+v", projects[0])
	}
}

func TestDeleteProjectNullifiesTasks(t *testing.T) {
	d := newTestDB(t)

	p, _ := d.CreateProject("Website", "", "")
	task, ok := d.CreateTask(NewTask{Title: "Design mockup", ProjectID: &p.ID})
	if !ok {
		t.Fatal("create task failed")
	}

	if res := d.DeleteProject(p.ID); res.RowsAffected != 1 {
		t.Fatalf("expected delete to affect 1 row, got %d", res.RowsAffected)
	}

	// The task survives with its project reference cleared, not deleted.
	got, found := d.GetTask(task.ID)
	if !found {
		t.Fatal("task should survive project deletion")
	}
	if got.ProjectID != nil {
		t.Fatalf("expected nil project reference, got %v", *got.ProjectID)
	}
}

func TestDeleteMissingProject(t *testing.T) {
	d := newTestDB(t)

	if res := d.DeleteProject(42); res.RowsAffected != 0 {
		t.Fatalf("expected zero-effect result, got %+v", res)
	}
}
