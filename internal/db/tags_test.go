package db

import (
	"testing"
)

func TestTagLifecycle(t *testing.T) {
	d := newTestDB(t)

	tag, ok := d.CreateTag("backend", "")
	if !ok {
		t.Fatal("create tag failed")
	}
	if tag.Color != defaultTagColor {
		t.Fatalf("expected default color, got %q", tag.Color)
	}

	// Names are unique.
	if _, ok := d.CreateTag("backend", "#fff"); ok {
		t.Fatal("duplicate tag name must be rejected")
	}

	if res := d.DeleteTag(tag.ID); res.RowsAffected != 1 {
		t.Fatalf("expected delete to affect 1 row, got %d", res.RowsAffected)
	}
}

func TestTaskTagging(t *testing.T) {
	d := newTestDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tagged"})
	tag, _ := d.CreateTag("backend", "")

	d.TagTask(task.ID, tag.ID)
	// Re-attaching the same pair is a no-op, not an error.
	d.TagTask(task.ID, tag.ID)

	tags := d.GetTaskTags(task.ID)
	if len(tags) != 1 || tags[0].Name != "backend" {
		t.Fatalf("unexpected task tags: %+v", tags)
	}

	if res := d.UntagTask(task.ID, tag.ID); res.RowsAffected != 1 {
		t.Fatalf("expected untag to affect 1 row, got %d", res.RowsAffected)
	}
	if tags := d.GetTaskTags(task.ID); len(tags) != 0 {
		t.Fatalf("expected no tags, got %+v", tags)
	}
}

func TestDeleteTagDetachesTasks(t *testing.T) {
	d := newTestDB(t)
	task, _ := d.CreateTask(NewTask{Title: "Tagged"})
	tag, _ := d.CreateTag("gone", "")
	d.TagTask(task.ID, tag.ID)

	d.DeleteTag(tag.ID)

	if tags := d.GetTaskTags(task.ID); len(tags) != 0 {
		t.Fatalf("expected association removed with tag, got %+v", tags)
	}
	if _, found := d.GetTask(task.ID); !found {
		t.Fatal("task itself must survive tag deletion")
	}
}
