package db

import (
	"strings"
	"testing"
)

func TestBuildSetClause(t *testing.T) {
	set, args, err := BuildSetClause(TaskColumns, map[string]any{
		"title":    "New title",
		"priority": "high",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Sorted column order keeps the statement deterministic.
	if set != "priority = ?, title = ?" {
		t.Fatalf("unexpected clause %q", set)
	}
	if len(args) != 2 || args[0] != "high" || args[1] != "New title" {
		t.Fatalf("args do not match clause order: %v", args)
	}
}

func TestBuildSetClauseRejectsUnknownField(t *testing.T) {
	_, _, err := BuildSetClause(TaskColumns, map[string]any{
		"title":            "ok",
		"id; DROP TABLE t": "injection",
	})
	if err == nil {
		t.Fatal("expected rejection of unknown field")
	}
}

func TestBuildSetClauseRejectsEmpty(t *testing.T) {
	if _, _, err := BuildSetClause(TaskColumns, nil); err == nil {
		t.Fatal("expected error for empty field map")
	}
}

func TestBuildSetClauseValuesStayBound(t *testing.T) {
	// A hostile value must end up as a parameter, never in the SQL text.
	hostile := "x'; DROP TABLE tasks; --"
	set, args, err := BuildSetClause(TaskColumns, map[string]any{"title": hostile})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(set, "DROP") {
		t.Fatalf("value leaked into SQL text: %q", set)
	}
	if len(args) != 1 || args[0] != hostile {
		t.Fatalf("expected hostile value bound as arg, got %v", args)
	}
}

func TestPartialUpdateEndToEnd(t *testing.T) {
	d := newTestDB(t)
	p, ok := d.CreateProject("Website", "", "")
	if !ok {
		t.Fatal("create project failed")
	}

	res, err := d.UpdateProjectFields(p.ID, map[string]any{
		"name":     "Site",
		"favorite": true,
		"status":   "completed",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.RowsAffected != 1 {
		t.Fatalf("expected 1 row affected, got %d", res.RowsAffected)
	}

	got, _ := d.GetProject(p.ID)
	if got.Name != "Site" || !got.Favorite || got.Status != "completed" {
		t.Fatalf("partial update not applied: %+v", got)
	}
}

func TestPartialUpdateUnknownFieldDoesNotTouchStore(t *testing.T) {
	d := newTestDB(t)
	p, _ := d.CreateProject("Website", "", "")

	_, err := d.UpdateProjectFields(p.ID, map[string]any{"nope": 1})
	if err == nil {
		t.Fatal("expected validation error")
	}

	got, _ := d.GetProject(p.ID)
	if got.Name != "Website" {
		t.Fatalf("store modified despite validation error: %+v", got)
	}
}
