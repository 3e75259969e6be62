package service

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/iwannatoa/ooc-app-sub000/pkg/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// stubAI is a deterministic AIClient for orchestration tests.
type stubAI struct {
	response string
	err      error
	calls    []*ChatRequest
}

func (s *stubAI) Chat(_ context.Context, req *ChatRequest) (*ChatResult, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	return &ChatResult{Response: s.response, Model: req.Model}, nil
}

func (s *stubAI) ChatStream(_ context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return nil, s.err
	}
	chunks := make(chan StreamChunk, len(s.response))
	for _, r := range s.response {
		chunks <- StreamChunk{Content: string(r)}
	}
	close(chunks)
	return chunks, nil
}

func intPtr(v int) *int { return &v }
