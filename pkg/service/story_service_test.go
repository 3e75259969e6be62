package service

import (
	"testing"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
)

func TestGetProgressMissing(t *testing.T) {
	svc := NewStoryService(newTestDB(t))
	got, err := svc.GetProgress("missing")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if got != nil {
		t.Fatalf("GetProgress = %+v, want nil", got)
	}
}

func TestMarkOutlineConfirmedCreatesRow(t *testing.T) {
	svc := NewStoryService(newTestDB(t))

	progress, err := svc.MarkOutlineConfirmed("c1", intPtr(5))
	if err != nil {
		t.Fatalf("MarkOutlineConfirmed: %v", err)
	}
	if !progress.OutlineConfirmed {
		t.Fatal("OutlineConfirmed = false")
	}
	if progress.Status != db.StatusPending {
		t.Fatalf("Status = %q, want pending", progress.Status)
	}
	if progress.CurrentSection != 0 {
		t.Fatalf("CurrentSection = %d, want 0", progress.CurrentSection)
	}
	if progress.TotalSections == nil || *progress.TotalSections != 5 {
		t.Fatalf("TotalSections = %v, want 5", progress.TotalSections)
	}
}

func TestMarkOutlineConfirmedIdempotent(t *testing.T) {
	svc := NewStoryService(newTestDB(t))

	first, err := svc.MarkOutlineConfirmed("c1", nil)
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	second, err := svc.MarkOutlineConfirmed("c1", intPtr(3))
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("confirm created a second row: %d vs %d", first.ID, second.ID)
	}
	if second.TotalSections == nil || *second.TotalSections != 3 {
		t.Fatalf("TotalSections = %v, want 3", second.TotalSections)
	}
}

func TestUpdateProgressPartial(t *testing.T) {
	svc := NewStoryService(newTestDB(t))
	if _, err := svc.MarkOutlineConfirmed("c1", intPtr(4)); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	content := "the generated section"
	status := db.StatusCompleted
	progress, err := svc.UpdateProgress("c1", ProgressUpdate{
		Status:               &status,
		LastGeneratedContent: &content,
		LastGeneratedSection: intPtr(0),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if progress.Status != db.StatusCompleted {
		t.Fatalf("Status = %q", progress.Status)
	}
	if progress.LastGeneratedContent != content {
		t.Fatalf("LastGeneratedContent = %q", progress.LastGeneratedContent)
	}
	// Fields not in the update stay untouched.
	if progress.CurrentSection != 0 || !progress.OutlineConfirmed {
		t.Fatalf("unrelated fields changed: %+v", progress)
	}
}

func TestUpdateProgressMissing(t *testing.T) {
	svc := NewStoryService(newTestDB(t))
	status := db.StatusCompleted
	if _, err := svc.UpdateProgress("missing", ProgressUpdate{Status: &status}); err != ErrProgressNotFound {
		t.Fatalf("err = %v, want ErrProgressNotFound", err)
	}
}

func TestCanGenerate(t *testing.T) {
	svc := NewStoryService(newTestDB(t))

	ok, err := svc.CanGenerate("c1")
	if err != nil {
		t.Fatalf("CanGenerate: %v", err)
	}
	if ok {
		t.Fatal("CanGenerate = true with no progress row")
	}

	if _, err := svc.MarkOutlineConfirmed("c1", nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	ok, err = svc.CanGenerate("c1")
	if err != nil {
		t.Fatalf("CanGenerate: %v", err)
	}
	if !ok {
		t.Fatal("CanGenerate = false after confirmation")
	}

	generating := db.StatusGenerating
	if _, err := svc.UpdateProgress("c1", ProgressUpdate{Status: &generating}); err != nil {
		t.Fatalf("set generating: %v", err)
	}
	ok, err = svc.CanGenerate("c1")
	if err != nil {
		t.Fatalf("CanGenerate: %v", err)
	}
	if ok {
		t.Fatal("CanGenerate = true while generating")
	}
}
