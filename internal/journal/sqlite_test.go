package journal

import (
	"path/filepath"
	"testing"
	"time"

	"keybin-go/internal/kb"
)

func TestSQLiteJournal_BeginFinishList(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	defer j.Close()

	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	id1, err := j.Begin(&kb.Operation{OpID: "op-1", Name: "profile new", Profile: "work", StartedAt: start})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	id2, err := j.Begin(&kb.Operation{OpID: "op-2", Name: "log add", Profile: "work", StartedAt: start.Add(time.Minute)})
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	if err := j.Finish(id1, "success", start.Add(250*time.Millisecond)); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}

	ops, err := j.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(List()) = %d, want 2", len(ops))
	}

	// Newest first.
	if ops[0].OpID != "op-2" || ops[0].Status != "running" || !ops[0].FinishedAt.IsZero() {
		t.Errorf("ops[0] = %+v, want running op-2", ops[0])
	}
	first := ops[1]
	if first.Name != "profile new" || first.Profile != "work" || first.Status != "success" {
		t.Errorf("ops[1] = %+v", first)
	}
	if !first.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", first.StartedAt, start)
	}
	if got := first.FinishedAt.Sub(first.StartedAt); got != 250*time.Millisecond {
		t.Errorf("duration = %v, want 250ms", got)
	}

	limited, err := j.List(1)
	if err != nil {
		t.Fatalf("List(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(List(1)) = %d, want 1", len(limited))
	}
}

func TestSQLiteJournal_FinishUnknown(t *testing.T) {
	j, err := NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	defer j.Close()

	if err := j.Finish(42, "success", time.Now()); err == nil {
		t.Error("Finish() on unknown id expected error")
	}
}

func TestSQLiteJournal_ReopenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "journal.db")

	j, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	if _, err := j.Begin(&kb.Operation{OpID: "op-1", Name: "log delete", StartedAt: time.Now()}); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	j, err = NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("reopen NewSQLiteJournal() error = %v", err)
	}
	defer j.Close()

	ops, err := j.List(10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ops) != 1 || ops[0].Name != "log delete" {
		t.Errorf("List() after reopen = %+v", ops)
	}
}
