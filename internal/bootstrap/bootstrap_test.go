package bootstrap

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/redisStore"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/alicebob/miniredis/v2"
)

type inlineDispatcher struct{}

func (inlineDispatcher) Submit(task func()) { task() }

func TestOpenSubstrates_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	subs, err := OpenSubstrates(ctx, config.Runtime{Substrate: config.SubstrateRedis, RedisAddr: mr.Addr()})
	if err != nil || subs.Kind != config.SubstrateRedis {
		t.Fatalf("got %v %v", subs.Kind, err)
	}

	ws := NewWorkspace(ctx, subs, inlineDispatcher{}, nil)
	id := ws.Documents.AddDocument(ctx, docModel.File{Name: "a.txt", Content: []byte("hello")})
	if !ws.Documents.ParseDocument(ctx, id) {
		t.Fatal("parse failed")
	}

	mr.Select(config.RedisStateStore)
	if !mr.Exists(config.DocumentsKey) {
		t.Error("documents should live in the state db")
	}
	artifactId, _ := ws.Documents.ArtifactFor(id)
	mr.Select(config.RedisArtifactStore)
	if !mr.Exists(config.ArtifactKeyPrefix + artifactId) {
		t.Error("artifact should live in the artifact db")
	}
	if mr.TTL(config.ArtifactKeyPrefix+artifactId) != config.RedisArtifactTTL {
		t.Error("artifact ttl not applied")
	}
}

func TestOpenSubstrates_RedisOfflineFallsBack(t *testing.T) {
	subs, err := OpenSubstrates(context.Background(), config.Runtime{Substrate: config.SubstrateRedis, RedisAddr: "127.0.0.1:1"})
	if err != nil || subs.Kind != config.SubstrateMemory {
		t.Errorf("expected memory fallback, got %v %v", subs.Kind, err)
	}
}

func TestOpenSubstrates_SqliteSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	rt := config.Runtime{Substrate: config.SubstrateSqlite, SqlitePath: filepath.Join(t.TempDir(), "state.db")}

	subs, err := OpenSubstrates(ctx, rt)
	if err != nil {
		t.Fatal(err)
	}
	ws := NewWorkspace(ctx, subs, inlineDispatcher{}, nil)
	docId := ws.Documents.AddDocument(ctx, docModel.File{Name: "a.txt", Content: []byte("hello")})
	ws.Documents.ParseDocument(ctx, docId)
	sessionId := ws.Sessions.CreateSession(ctx, "kept")
	if err := subs.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSubstrates(ctx, rt)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	restarted := NewWorkspace(ctx, reopened, inlineDispatcher{}, nil)

	doc, ok := restarted.Documents.GetDocument(docId)
	if !ok || doc.State != docModel.StateParsed || restarted.Documents.HasFile(docId) {
		t.Errorf("unexpected restored document: %+v ok=%v", doc, ok)
	}
	if _, ok := restarted.Sessions.GetSession(sessionId); !ok {
		t.Error("session lost across restart")
	}
}

func TestOpenSubstrates_Unknown(t *testing.T) {
	if _, err := OpenSubstrates(context.Background(), config.Runtime{Substrate: "tape"}); err == nil {
		t.Error("expected error")
	}
}

func TestProviders_SkipsMissingKeys(t *testing.T) {
	if got := Providers(context.Background(), config.Runtime{}); len(got) != 0 {
		t.Errorf("expected no providers, got %d", len(got))
	}
}

func TestOpenSubstrates_ArtifactDbFailureClosesStateClient(t *testing.T) {
	mr := miniredis.RunT(t)
	var state *redisStore.Store
	newRedisStore = func(ctx context.Context, opts redisStore.Options) (*redisStore.Store, error) {
		if opts.DB == config.RedisArtifactStore {
			return nil, errors.New("artifact db refused")
		}
		s, err := redisStore.NewStore(ctx, opts)
		state = s
		return s, err
	}
	defer func() { newRedisStore = redisStore.NewStore }()

	subs, err := OpenSubstrates(context.Background(), config.Runtime{Substrate: config.SubstrateRedis, RedisAddr: mr.Addr()})
	if err != nil || subs.Kind != config.SubstrateMemory {
		t.Fatalf("expected memory fallback, got %v %v", subs.Kind, err)
	}
	if state == nil {
		t.Fatal("state store was never opened")
	}
	if _, _, err := state.Get(context.Background(), "k"); err == nil {
		t.Error("state client should be closed after the artifact store failed")
	}
}
