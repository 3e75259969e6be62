package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
)

func TestShouldSummarizeRule(t *testing.T) {
	existing := func(count int) *db.ConversationSummary {
		return &db.ConversationSummary{MessageCount: count}
	}
	cases := []struct {
		name     string
		count    int
		existing *db.ConversationSummary
		want     bool
	}{
		{"below threshold", 100, nil, false},
		{"at threshold no summary", 150, nil, true},
		{"above threshold no summary", 160, nil, true},
		{"summary fresh", 160, existing(150), false},
		{"summary stale by half threshold", 225, existing(150), true},
		{"just under refresh point", 224, existing(150), false},
		{"well past refresh point", 300, existing(150), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := shouldSummarize(c.count, c.existing, 150); got != c.want {
				t.Fatalf("shouldSummarize(%d, %v, 150) = %v, want %v", c.count, c.existing, got, c.want)
			}
		})
	}
}

func TestGenerateSummaryPersists(t *testing.T) {
	gdb := newTestDB(t)
	chat := NewChatService(gdb)
	ai := &stubAI{response: "Mira found the journal and set out for the lighthouse."}
	svc := NewSummaryService(gdb, chat, ai, 150)

	for i := 0; i < 6; i++ {
		if _, err := chat.SaveUserMessage("c1", fmt.Sprintf("turn %d", i)); err != nil {
			t.Fatalf("save message: %v", err)
		}
	}

	summary, err := svc.GenerateSummary(context.Background(), "c1", "ollama", "llama2", "", "http://localhost:11434", 2048, 0.7)
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if summary.MessageCount != 6 {
		t.Fatalf("MessageCount = %d, want 6", summary.MessageCount)
	}
	if summary.Summary != ai.response {
		t.Fatalf("Summary = %q, want stub response", summary.Summary)
	}

	stored, err := svc.GetSummary("c1")
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if stored == nil || stored.ID != summary.ID {
		t.Fatalf("stored summary = %+v, want persisted row", stored)
	}
}

func TestGenerateSummaryEmptyConversation(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSummaryService(gdb, NewChatService(gdb), &stubAI{response: "x"}, 150)

	if _, err := svc.GenerateSummary(context.Background(), "empty", "ollama", "llama2", "", "", 2048, 0.7); err != ErrNoMessages {
		t.Fatalf("err = %v, want ErrNoMessages", err)
	}
}

func TestCreateOrUpdateSummaryUpdatesInPlace(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSummaryService(gdb, NewChatService(gdb), &stubAI{}, 150)

	first, err := svc.CreateOrUpdateSummary("c1", "first version", 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.CreateOrUpdateSummary("c1", "second version", 20)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("update created a new row: %d vs %d", first.ID, second.ID)
	}
	if second.Summary != "second version" || second.MessageCount != 20 {
		t.Fatalf("updated summary = %+v", second)
	}
}

func TestDeleteSummary(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewSummaryService(gdb, NewChatService(gdb), &stubAI{}, 150)

	if err := svc.DeleteSummary("missing"); err != ErrSummaryNotFound {
		t.Fatalf("delete missing: err = %v, want ErrSummaryNotFound", err)
	}

	if _, err := svc.CreateOrUpdateSummary("c1", "text", 5); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteSummary("c1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := svc.GetSummary("c1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("summary survived delete: %+v", got)
	}
}
