package storage

import (
	"context"
	"testing"
)

func TestHistoryRepo_InsertAndList(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))
	ctx := context.Background()

	userID := int64(1)
	records := []*ChatRecord{
		{UserID: &userID, SessionID: "s1", Question: "What is ROS?", Answer: "A robotics middleware.", ContextUsed: `[{"source":"ch1.md"}]`},
		{UserID: nil, SessionID: "s1", Question: "And DDS?", Answer: "Its transport layer."},
		{UserID: nil, SessionID: "s2", Question: "Other session", Answer: "..."},
	}
	for _, record := range records {
		if err := repo.Insert(ctx, record); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if record.ID == 0 {
			t.Fatal("Insert() did not assign an id")
		}
	}

	got, err := repo.ListBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListBySession() returned %d records, want 2", len(got))
	}
	// Oldest first.
	if got[0].Question != "What is ROS?" || got[1].Question != "And DDS?" {
		t.Errorf("wrong order: %q then %q", got[0].Question, got[1].Question)
	}
	if got[0].UserID == nil || *got[0].UserID != 1 {
		t.Errorf("UserID = %v, want 1", got[0].UserID)
	}
	if got[1].UserID != nil {
		t.Errorf("anonymous record has UserID %v", got[1].UserID)
	}
	if got[0].ContextUsed != `[{"source":"ch1.md"}]` {
		t.Errorf("ContextUsed = %q", got[0].ContextUsed)
	}
}

func TestHistoryRepo_ListBySession_Empty(t *testing.T) {
	repo := NewHistoryRepo(newTestDB(t))

	got, err := repo.ListBySession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListBySession() returned %d records, want 0", len(got))
	}
}
