package db

import (
	"testing"
	"time"
)

func TestStartAndStopEntry(t *testing.T) {
	d, clk := newClockDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tracked"})

	entry, ok := d.StartEntry(task.ID, "")
	if !ok {
		t.Fatal("start entry failed")
	}
	if !entry.IsRunning() {
		t.Fatal("expected entry to be running")
	}

	running, found := d.RunningEntry(&task.ID)
	if !found || running.ID != entry.ID {
		t.Fatalf("expected the running entry, got %+v found=%v", running, found)
	}

	clk.Advance(5 * time.Minute)
	stopped, ok := d.StopEntry(entry.ID)
	if !ok {
		t.Fatal("stop entry failed")
	}
	if stopped.Duration == nil || *stopped.Duration != 300 {
		t.Fatalf("expected duration 300 seconds, got %v", stopped.Duration)
	}
	if stopped.IsRunning() {
		t.Fatal("stopped entry should not be running")
	}

	if _, found := d.RunningEntry(&task.ID); found {
		t.Fatal("running query should no longer return the entry")
	}
}

func TestOneRunningEntryPerTask(t *testing.T) {
	d := newTestDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tracked"})
	other, _ := d.CreateTask(NewTask{Title: "Other"})

	if _, ok := d.StartEntry(task.ID, ""); !ok {
		t.Fatal("first start failed")
	}
	if _, ok := d.StartEntry(task.ID, ""); ok {
		t.Fatal("second concurrent start on the same task must be rejected")
	}
	// A different task can still start a timer.
	if _, ok := d.StartEntry(other.ID, ""); !ok {
		t.Fatal("start on another task failed")
	}
}

func TestStopEntryTwice(t *testing.T) {
	d, clk := newClockDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tracked"})

	entry, _ := d.StartEntry(task.ID, "")
	clk.Advance(time.Minute)
	if _, ok := d.StopEntry(entry.ID); !ok {
		t.Fatal("first stop failed")
	}
	if _, ok := d.StopEntry(entry.ID); ok {
		t.Fatal("stopping an ended entry must not be ok")
	}
}

func TestDeleteTaskCascadesEntries(t *testing.T) {
	d, clk := newClockDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tracked"})

	entry, _ := d.StartEntry(task.ID, "")
	clk.Advance(time.Minute)
	d.StopEntry(entry.ID)

	if res := d.DeleteTask(task.ID); res.RowsAffected != 1 {
		t.Fatalf("expected task delete to affect 1 row, got %d", res.RowsAffected)
	}
	if _, found := d.GetEntry(entry.ID); found {
		t.Fatal("time entries must be cascade-deleted with their task")
	}
}

func TestUpdateEntryFields(t *testing.T) {
	d, clk := newClockDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tracked"})

	entry, _ := d.StartEntry(task.ID, "")
	clk.Advance(time.Minute)
	d.StopEntry(entry.ID)

	res, err := d.UpdateEntryFields(entry.ID, map[string]any{
		"description": "reviewed pull requests",
		"duration":    int64(90),
	})
	if err != nil {
		t.Fatalf("update entry: %v", err)
	}
	if res.RowsAffected != 1 {
		t.Fatalf("expected 1 affected row, got %d", res.RowsAffected)
	}

	got, _ := d.GetEntry(entry.ID)
	if got.Description != "reviewed pull requests" {
		t.Fatalf("description not updated, got %q", got.Description)
	}
	if got.Duration == nil || *got.Duration != 90 {
		t.Fatalf("duration not updated, got %v", got.Duration)
	}

	if _, err := d.UpdateEntryFields(entry.ID, map[string]any{"task_id": int64(99)}); err == nil {
		t.Fatal("task_id is not editable and must be rejected")
	}
}

func TestListEntriesFilter(t *testing.T) {
	d, clk := newClockDB(t)
	a, _ := d.CreateTask(NewTask{Title: "A"})
	b, _ := d.CreateTask(NewTask{Title: "B"})

	ea, _ := d.StartEntry(a.ID, "")
	clk.Advance(time.Minute)
	d.StopEntry(ea.ID)

	clk.Advance(time.Minute)
	eb, _ := d.StartEntry(b.ID, "")
	clk.Advance(time.Minute)
	d.StopEntry(eb.ID)

	if got := d.ListEntries(EntryFilter{TaskID: &a.ID}); len(got) != 1 || got[0].ID != ea.ID {
		t.Fatalf("task filter: unexpected entries %+v", got)
	}
	if got := d.ListEntries(EntryFilter{}); len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got := d.ListEntries(EntryFilter{Limit: 1}); len(got) != 1 {
		t.Fatalf("limit ignored, got %d entries", len(got))
	}
}
