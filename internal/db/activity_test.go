package db

import (
	"testing"
)

func TestRecordAndListActivity(t *testing.T) {
	d := newTestDB(t)

	d.RecordActivity("created", "task", 1, "created task \"One\"")
	d.RecordActivity("updated", "task", 1, "updated task")
	d.RecordActivity("created", "project", 7, "created project")

	all := d.ListActivity(ActivityFilter{})
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	// Newest first.
	if all[0].Action != "created" || all[0].EntityType != "project" {
		t.Fatalf("unexpected newest entry: %+v", all[0])
	}

	id := int64(1)
	tasks := d.ListActivity(ActivityFilter{EntityType: "task", EntityID: &id})
	if len(tasks) != 2 {
		t.Fatalf("expected 2 task entries, got %d", len(tasks))
	}

	limited := d.ListActivity(ActivityFilter{Limit: 1})
	if len(limited) != 1 {
		t.Fatalf("expected 1 entry with limit, got %d", len(limited))
	}
}

func TestActivityFailureNeverPropagates(t *testing.T) {
	d := newTestDB(t)

	// Break the sink entirely.
	d.Update(`DROP TABLE activity_log`)

	// The primary mutation still succeeds and the sink call is absorbed.
	p, ok := d.CreateProject("Still works", "", "")
	if !ok {
		t.Fatal("mutation failed after sink breakage")
	}
	d.RecordActivity("created", "project", p.ID, "this insert fails silently")

	if _, found := d.GetProject(p.ID); !found {
		t.Fatal("project should exist despite sink failure")
	}
}
