package service

import (
	"fmt"
	"testing"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
)

func makeRecords(n int) []db.ChatRecord {
	records := make([]db.ChatRecord, n)
	for i := range records {
		role := db.RoleUser
		if i%2 == 1 {
			role = db.RoleAssistant
		}
		records[i] = db.ChatRecord{
			ID:             uint(i + 1),
			ConversationID: "c1",
			Role:           role,
			Content:        fmt.Sprintf("message number %d with some words", i),
		}
	}
	return records
}

func TestAssembleContextEmpty(t *testing.T) {
	if got := AssembleContext(nil, false, 100, 60000, 15, 0); got != nil {
		t.Fatalf("AssembleContext(nil) = %v, want nil", got)
	}
}

func TestAssembleContextCapsAtMaxMessages(t *testing.T) {
	records := makeRecords(200)
	got := AssembleContext(records, false, 100, 60000, 15, 50)
	if len(got) != 100 {
		t.Fatalf("len = %d, want 100", len(got))
	}
	// The selection must be the most recent contiguous suffix in
	// chronological order.
	for i, m := range got {
		want := records[100+i].Content
		if m.Content != want {
			t.Fatalf("message %d = %q, want %q", i, m.Content, want)
		}
	}
}

func TestAssembleContextSummaryWindow(t *testing.T) {
	records := makeRecords(40)
	got := AssembleContext(records, true, 100, 60000, 15, 50)
	if len(got) != 15 {
		t.Fatalf("len = %d, want 15", len(got))
	}
	if got[len(got)-1].Content != records[39].Content {
		t.Fatalf("last message = %q, want newest", got[len(got)-1].Content)
	}
}

func TestAssembleContextSummaryWindowShortHistory(t *testing.T) {
	records := makeRecords(5)
	got := AssembleContext(records, true, 100, 60000, 15, 50)
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
}

func TestAssembleContextKeepsNewestUnderTinyBudget(t *testing.T) {
	records := makeRecords(20)
	// Budget already exhausted by the system prompt; at least the
	// newest message is still kept.
	got := AssembleContext(records, false, 100, 1, 15, 1000)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Content != records[19].Content {
		t.Fatalf("got %q, want newest message", got[0].Content)
	}
}
