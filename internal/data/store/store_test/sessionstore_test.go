package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/memStore"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/data/store"
	"github.com/akolanti/DocQuery/internal/domain/sessionModel"
)

func assertActiveMember(t *testing.T, s sessionModel.Session) {
	t.Helper()
	if s.ActiveDocumentId != "" && !s.HasDocument(s.ActiveDocumentId) {
		t.Errorf("active document %q is not a member of %v", s.ActiveDocumentId, s.DocumentIds)
	}
}

func TestSessionStore_CreateAndActivate(t *testing.T) {
	sessions := store.NewSessionStore(persistence.NewCodec(memStore.NewStore()))
	ctx := context.Background()

	if _, ok := sessions.GetActiveSession(); ok {
		t.Error("no session should be active before any is created")
	}

	first := sessions.CreateSession(ctx, "")
	second := sessions.CreateSession(ctx, "  Contracts ")

	active, ok := sessions.GetActiveSession()
	if !ok || active.Id != second {
		t.Fatalf("newest session should be active, got %+v", active)
	}
	if active.Name != "Contracts" || active.State != sessionModel.SessionActive || len(active.DocumentIds) != 0 {
		t.Errorf("unexpected new session: %+v", active)
	}
	if s, _ := sessions.GetSession(first); s.Name != config.DefaultSessionName {
		t.Errorf("empty name should default, got %q", s.Name)
	}

	if sessions.SetActiveSession(ctx, "ghost") {
		t.Error("unknown session cannot become active")
	}
	if active, _ := sessions.GetActiveSession(); active.Id != second {
		t.Error("failed SetActiveSession changed the pointer")
	}
	if !sessions.SetActiveSession(ctx, first) {
		t.Fatal("SetActiveSession failed")
	}
	if active, _ := sessions.GetActiveSession(); active.Id != first {
		t.Error("active pointer not switched")
	}
}

func TestSessionStore_DocumentSelection(t *testing.T) {
	sessions := store.NewSessionStore(persistence.NewCodec(memStore.NewStore()))
	ctx := context.Background()
	s := sessions.CreateSession(ctx, "S")

	if !sessions.AddDocumentToSession(ctx, s, "d1") || !sessions.AddDocumentToSession(ctx, s, "d2") {
		t.Fatal("adding documents failed")
	}
	got, _ := sessions.GetSession(s)
	if got.ActiveDocumentId != "d2" {
		t.Errorf("most recent add should win, got %q", got.ActiveDocumentId)
	}

	if sessions.AddDocumentToSession(ctx, s, "d1") {
		t.Error("duplicates are forbidden")
	}
	if sessions.AddDocumentToSession(ctx, "ghost", "d3") {
		t.Error("unknown session accepted a document")
	}

	if !sessions.SetActiveDocument(ctx, s, "d1") {
		t.Fatal("selecting a member should succeed")
	}
	if sessions.SetActiveDocument(ctx, s, "unknown") {
		t.Error("selecting a non-member should fail")
	}
	got, _ = sessions.GetSession(s)
	if got.ActiveDocumentId != "d1" {
		t.Errorf("expected d1 to stay active, got %q", got.ActiveDocumentId)
	}
	if len(got.DocumentIds) != 2 || got.DocumentIds[0] != "d1" || got.DocumentIds[1] != "d2" {
		t.Errorf("insertion order lost: %v", got.DocumentIds)
	}
	assertActiveMember(t, got)

	// returned sessions are copies
	got.DocumentIds[0] = "mutated"
	again, _ := sessions.GetSession(s)
	if again.DocumentIds[0] != "d1" {
		t.Error("caller mutated store-owned document ids")
	}
}

func TestSessionStore_Rename(t *testing.T) {
	sessions := store.NewSessionStore(persistence.NewCodec(memStore.NewStore()))
	ctx := context.Background()
	s := sessions.CreateSession(ctx, "old")

	if sessions.RenameSession(ctx, s, "   ") || sessions.RenameSession(ctx, "ghost", "x") {
		t.Error("blank names and unknown ids must be refused")
	}
	if !sessions.RenameSession(ctx, s, "new") {
		t.Fatal("rename failed")
	}
	if got, _ := sessions.GetSession(s); got.Name != "new" {
		t.Errorf("got %q", got.Name)
	}
}

func TestSessionStore_Restore(t *testing.T) {
	codec := persistence.NewCodec(memStore.NewStore())
	ctx := context.Background()

	sessions := store.NewSessionStore(codec)
	a := sessions.CreateSession(ctx, "A")
	b := sessions.CreateSession(ctx, "B")
	sessions.AddDocumentToSession(ctx, a, "d1")
	sessions.AddDocumentToSession(ctx, a, "d2")
	sessions.SetActiveDocument(ctx, a, "d1")
	sessions.SetActiveSession(ctx, a)

	restored := store.NewSessionStore(codec)
	restored.Restore(ctx)

	list := restored.ListSessions()
	if len(list) != 2 || list[0].Id != a || list[1].Id != b {
		t.Fatalf("sessions lost or reordered: %+v", list)
	}
	active, ok := restored.GetActiveSession()
	if !ok || active.Id != a || active.ActiveDocumentId != "d1" {
		t.Errorf("active state lost: %+v", active)
	}
	for _, s := range list {
		assertActiveMember(t, s)
	}
}
