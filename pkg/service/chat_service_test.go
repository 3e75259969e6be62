package service

import (
	"fmt"
	"testing"
)

func TestGetConversationOrderAndPaging(t *testing.T) {
	svc := NewChatService(newTestDB(t))

	for i := 0; i < 5; i++ {
		if _, err := svc.SaveUserMessage("c1", fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := svc.GetConversation("c1", 0, 0)
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	for i, rec := range all {
		if rec.Content != fmt.Sprintf("m%d", i) {
			t.Fatalf("record %d = %q, out of order", i, rec.Content)
		}
	}

	page, err := svc.GetConversation("c1", 2, 1)
	if err != nil {
		t.Fatalf("paged: %v", err)
	}
	if len(page) != 2 || page[0].Content != "m1" || page[1].Content != "m2" {
		t.Fatalf("page = %+v", page)
	}
}

func TestGetLastAssistantMessage(t *testing.T) {
	svc := NewChatService(newTestDB(t))

	got, err := svc.GetLastAssistantMessage("c1")
	if err != nil {
		t.Fatalf("GetLastAssistantMessage: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil", got)
	}

	if _, err := svc.SaveUserMessage("c1", "hi"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.SaveAssistantMessage("c1", "first", "ollama", "llama2"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := svc.SaveAssistantMessage("c1", "second", "ollama", "llama2"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err = svc.GetLastAssistantMessage("c1")
	if err != nil {
		t.Fatalf("GetLastAssistantMessage: %v", err)
	}
	if got == nil || got.Content != "second" {
		t.Fatalf("got %+v, want second", got)
	}
}

func TestDeleteLastMessageCleansCharacters(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewChatService(gdb)
	characters := NewCharacterService(gdb, nil)
	svc.SetCharacterService(characters)

	if _, err := svc.SaveUserMessage("c1", "hi"); err != nil {
		t.Fatalf("save: %v", err)
	}
	msg, err := svc.SaveAssistantMessage("c1", "Josef appeared at the door.", "ollama", "llama2")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := characters.RecordCharactersFromMessage("c1", msg.ID, msg.Content, nil); err != nil {
		t.Fatalf("record characters: %v", err)
	}

	deleted, err := svc.DeleteLastMessage("c1")
	if err != nil {
		t.Fatalf("DeleteLastMessage: %v", err)
	}
	if deleted.ID != msg.ID {
		t.Fatalf("deleted %d, want newest %d", deleted.ID, msg.ID)
	}

	chars, err := characters.GetCharacters("c1")
	if err != nil {
		t.Fatalf("GetCharacters: %v", err)
	}
	if len(chars) != 0 {
		t.Fatalf("characters survived message delete: %+v", chars)
	}

	count, err := svc.CountMessages("c1")
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestDeleteLastMessageEmpty(t *testing.T) {
	svc := NewChatService(newTestDB(t))
	if _, err := svc.DeleteLastMessage("empty"); err != ErrNoMessages {
		t.Fatalf("err = %v, want ErrNoMessages", err)
	}
}

func TestStripThinkContent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain text", "plain text"},
		{"<think>reasoning</think>answer", "answer"},
		{"<THINK>loud</THINK>answer", "answer"},
		{"before\n\n\n\n\nafter", "before\n\nafter"},
		{"```think\nhidden\n```visible", "visible"},
	}
	for _, c := range cases {
		if got := StripThinkContent(c.in); got != c.want {
			t.Fatalf("StripThinkContent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
