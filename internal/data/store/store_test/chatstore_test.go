package store_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/memStore"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/data/store"
	"github.com/akolanti/DocQuery/internal/domain/chatModel"
)

func TestChatStore_AppendAndCopy(t *testing.T) {
	chat := store.NewChatStore(persistence.NewCodec(memStore.NewStore()))
	ctx := context.Background()

	if _, ok := chat.AddMessage(ctx, "", chatModel.RoleUser, "hi", nil); ok {
		t.Error("empty session id must be refused")
	}

	first, ok := chat.AddMessage(ctx, "S", chatModel.RoleUser, "hi", nil)
	if !ok || first.Id == "" || first.CreatedAt.IsZero() {
		t.Fatalf("unexpected message: %+v", first)
	}
	second, _ := chat.AddMessage(ctx, "S", chatModel.RoleAssistant, "hello", json.RawMessage(`{"page":2}`))

	msgs := chat.GetMessages("S")
	if len(msgs) != 2 || msgs[0].Content != "hi" || msgs[1].Content != "hello" {
		t.Fatalf("insertion order lost: %+v", msgs)
	}
	if msgs[0].Id >= msgs[1].Id || msgs[1].Id != second.Id {
		t.Errorf("message ids should sort in append order: %s, %s", msgs[0].Id, msgs[1].Id)
	}

	msgs[0].Content = "mutated"
	msgs[1].Evidence[0] = 'X'

	again := chat.GetMessages("S")
	if len(again) != 2 || again[0].Content != "hi" || string(again[1].Evidence) != `{"page":2}` {
		t.Errorf("caller mutation leaked into the store: %+v", again)
	}

	if empty := chat.GetMessages("unknown"); empty == nil || len(empty) != 0 {
		t.Errorf("unknown sessions should yield an empty slice, got %#v", empty)
	}
}

func TestChatStore_SendingIsNotPersisted(t *testing.T) {
	kv := memStore.NewStore()
	codec := persistence.NewCodec(kv)
	ctx := context.Background()

	chat := store.NewChatStore(codec)
	chat.SetSending(true)
	chat.AddMessage(ctx, "S", chatModel.RoleUser, "hi", nil)
	if !chat.IsSending() {
		t.Fatal("flag should be set in-process")
	}

	raw, _, _ := kv.Get(ctx, config.ChatKey)
	if strings.Contains(strings.ToLower(raw), "sending") {
		t.Errorf("sending flag leaked into storage: %s", raw)
	}

	restored := store.NewChatStore(codec)
	restored.SetSending(true)
	restored.Restore(ctx)
	if restored.IsSending() {
		t.Error("sending must be false after restore")
	}
	if msgs := restored.GetMessages("S"); len(msgs) != 1 || msgs[0].Role != chatModel.RoleUser {
		t.Errorf("log not restored: %+v", msgs)
	}
}

func TestChatStore_TryBeginSending(t *testing.T) {
	chat := store.NewChatStore(persistence.NewCodec(memStore.NewStore()))

	if !chat.TryBeginSending() {
		t.Fatal("first begin should win")
	}
	if chat.TryBeginSending() {
		t.Error("second begin must be refused while sending")
	}
	chat.SetSending(false)
	if !chat.TryBeginSending() {
		t.Error("begin should succeed again after release")
	}
}

func TestChatStore_RefusesUnknownRole(t *testing.T) {
	codec := persistence.NewCodec(memStore.NewStore())
	ctx := context.Background()
	chat := store.NewChatStore(codec)

	if _, ok := chat.AddMessage(ctx, "S", chatModel.Role("system"), "be brief", nil); ok {
		t.Error("a role the log cannot restore must be refused")
	}
	chat.AddMessage(ctx, "S", chatModel.RoleUser, "hi", nil)
	if msgs := chat.GetMessages("S"); len(msgs) != 1 {
		t.Fatalf("expected only the user message, got %+v", msgs)
	}

	restored := store.NewChatStore(codec)
	restored.Restore(ctx)
	if got := len(restored.GetMessages("S")); got != 1 {
		t.Errorf("every accepted message should survive restore, got %d", got)
	}
}

func TestChatStore_ReloadKeepsSending(t *testing.T) {
	chat := store.NewChatStore(persistence.NewCodec(memStore.NewStore()))
	ctx := context.Background()

	if !chat.TryBeginSending() {
		t.Fatal("begin failed")
	}
	chat.Reload(ctx)
	if !chat.IsSending() {
		t.Error("reload must not lower an in-flight flag")
	}
	if chat.TryBeginSending() {
		t.Error("a second begin must still be refused after reload")
	}
	chat.Restore(ctx)
	if chat.IsSending() {
		t.Error("restore starts from a lowered flag")
	}
}
