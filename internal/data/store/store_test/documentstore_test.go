package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/data/memStore"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/data/redisStore"
	"github.com/akolanti/DocQuery/internal/data/store"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newDocumentStore(ext docModel.Extractor) (*store.DocumentStore, *persistence.Codec, *memStore.Store) {
	kv := memStore.NewStore()
	codec := persistence.NewCodec(kv)
	return store.NewDocumentStore(codec, ext, &InlineDispatcher{}), codec, kv
}

func mustGet(t *testing.T, docs *store.DocumentStore, id string) docModel.Document {
	t.Helper()
	doc, ok := docs.GetDocument(id)
	if !ok {
		t.Fatalf("document %s not found", id)
	}
	return doc
}

func TestDocumentStore_AddDocument(t *testing.T) {
	docs, _, _ := newDocumentStore(&MockExtractor{})
	ctx := context.Background()

	id := docs.AddDocument(ctx, sampleFile("notes.txt"))
	doc := mustGet(t, docs, id)

	if doc.State != docModel.StateUploaded {
		t.Errorf("new documents start UPLOADED, got %s", doc.State)
	}
	if doc.Metadata.Name != "notes.txt" || doc.Metadata.Size != 11 || doc.Metadata.MimeType != "text/plain" {
		t.Errorf("metadata mismatch: %+v", doc.Metadata)
	}
	if doc.File != nil {
		t.Error("GetDocument must not expose the raw file")
	}
	if !docs.HasFile(id) {
		t.Error("store should hold the file handle")
	}
	if docs.IsQueryable(id) {
		t.Error("an unparsed document is not queryable")
	}
	if other := docs.AddDocument(ctx, sampleFile("notes.txt")); other == id {
		t.Error("ids must be unique per upload")
	}
}

func TestDocumentStore_ParseSuccessThenRefuse(t *testing.T) {
	ext := &MockExtractor{
		OnExtract: func(ctx context.Context, id string, f docModel.File) (docModel.ExtractResult, error) {
			return docModel.ExtractResult{ArtifactId: "a1", TextLength: 11}, nil
		},
	}
	docs, _, _ := newDocumentStore(ext)
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	if !docs.ParseDocument(ctx, id) {
		t.Fatal("first parse should succeed")
	}
	if !docs.IsQueryable(id) {
		t.Fatal("document should be queryable after a successful parse")
	}

	ext.OnExtract = func(ctx context.Context, id string, f docModel.File) (docModel.ExtractResult, error) {
		t.Error("extractor must not be called for a PARSED document")
		return docModel.ExtractResult{ArtifactId: "a2"}, nil
	}
	if docs.ParseDocument(ctx, id) {
		t.Error("parsing a PARSED document must be refused")
	}
	doc := mustGet(t, docs, id)
	if doc.State != docModel.StateParsed || doc.ArtifactId != "a1" || doc.TextLength != 11 {
		t.Errorf("refused parse changed state: %+v", doc)
	}
	if artifact, ok := docs.ArtifactFor(id); !ok || artifact != "a1" {
		t.Errorf("ArtifactFor = %q %v", artifact, ok)
	}
}

func TestDocumentStore_FailureAndRetry(t *testing.T) {
	fail := true
	ext := &MockExtractor{
		OnExtract: func(ctx context.Context, id string, f docModel.File) (docModel.ExtractResult, error) {
			if fail {
				return docModel.ExtractResult{}, &docModel.ExtractionError{Message: "Unsupported file type"}
			}
			return docModel.ExtractResult{ArtifactId: "a1"}, nil
		},
	}
	docs, _, _ := newDocumentStore(ext)
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.bin"))

	if docs.ParseDocument(ctx, id) {
		t.Fatal("parse should report failure")
	}
	doc := mustGet(t, docs, id)
	if doc.State != docModel.StateParseFailed || doc.ParseError != "Unsupported file type" {
		t.Errorf("expected PARSE_FAILED with message, got %+v", doc)
	}

	fail = false
	if !docs.ParseDocument(ctx, id) {
		t.Fatal("retry from PARSE_FAILED should be allowed")
	}
	doc = mustGet(t, docs, id)
	if doc.State != docModel.StateParsed || doc.ParseError != "" {
		t.Errorf("retry should clear the error, got %+v", doc)
	}
}

func TestDocumentStore_EmptyArtifactIsFailure(t *testing.T) {
	ext := &MockExtractor{
		OnExtract: func(ctx context.Context, id string, f docModel.File) (docModel.ExtractResult, error) {
			return docModel.ExtractResult{TextLength: 5}, nil
		},
	}
	docs, _, _ := newDocumentStore(ext)
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	if docs.ParseDocument(ctx, id) {
		t.Error("a success without an artifact id must not count")
	}
	if doc := mustGet(t, docs, id); doc.State == docModel.StateParsed {
		t.Error("PARSED without artifact id")
	}
}

func TestDocumentStore_UnknownIds(t *testing.T) {
	docs, _, _ := newDocumentStore(&MockExtractor{})
	ctx := context.Background()

	if docs.ParseDocument(ctx, "ghost") || docs.StartParse(ctx, "ghost") {
		t.Error("parse of unknown id should fail")
	}
	if docs.ReuploadDocument(ctx, "ghost", sampleFile("a.txt")) {
		t.Error("reupload of unknown id should fail")
	}
	if docs.IsQueryable("ghost") {
		t.Error("unknown ids are never queryable")
	}
	if _, ok := docs.GetDocument("ghost"); ok {
		t.Error("unknown id found")
	}
}

func TestDocumentStore_MissingFileRequiresReupload(t *testing.T) {
	docs, codec, _ := newDocumentStore(&MockExtractor{})
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	// a fresh process has the record but never the bytes
	restored := store.NewDocumentStore(codec, &MockExtractor{}, &InlineDispatcher{})
	restored.Restore(ctx)
	if restored.HasFile(id) {
		t.Fatal("restored documents must not carry a file")
	}

	if restored.ParseDocument(ctx, id) {
		t.Fatal("parse without a file must fail")
	}
	doc := mustGet(t, restored, id)
	if doc.State != docModel.StateRequiresReupload {
		t.Errorf("expected REQUIRES_REUPLOAD, got %s", doc.State)
	}
	if restored.IsQueryable(id) {
		t.Error("REQUIRES_REUPLOAD is not queryable")
	}

	if !restored.ReuploadDocument(ctx, id, sampleFile("a.txt")) {
		t.Fatal("reupload should succeed")
	}
	if doc := mustGet(t, restored, id); doc.State != docModel.StateUploaded {
		t.Errorf("reupload should reset to UPLOADED, got %s", doc.State)
	}
	if !restored.ParseDocument(ctx, id) || !restored.IsQueryable(id) {
		t.Error("parse after reupload should succeed")
	}
}

func TestDocumentStore_SingleFlight(t *testing.T) {
	gate := NewGatedExtractor()
	kv := memStore.NewStore()
	codec := persistence.NewCodec(kv)
	docs := store.NewDocumentStore(codec, gate, nil)
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	if !docs.StartParse(ctx, id) {
		t.Fatal("first parse should start")
	}
	var reply chan outcome
	select {
	case reply = <-gate.Calls:
	case <-time.After(2 * time.Second):
		t.Fatal("extractor was never called")
	}

	if doc := mustGet(t, docs, id); doc.State != docModel.StateParsing {
		t.Fatalf("expected PARSING, got %s", doc.State)
	}
	if docs.StartParse(ctx, id) || docs.ParseDocument(ctx, id) {
		t.Error("overlapping parse must be refused while PARSING")
	}

	t.Run("PARSING never survives a restore", func(t *testing.T) {
		fresh := store.NewDocumentStore(codec, &MockExtractor{}, nil)
		fresh.Restore(ctx)
		doc := mustGet(t, fresh, id)
		if doc.State != docModel.StateParseFailed || doc.ParseError != config.InterruptedParseError {
			t.Errorf("expected interrupted PARSE_FAILED, got %+v", doc)
		}
	})

	reply <- outcome{result: docModel.ExtractResult{ArtifactId: "a1", TextLength: 3}}
	deadline := time.Now().Add(2 * time.Second)
	for !docs.IsQueryable(id) {
		if time.Now().After(deadline) {
			t.Fatal("document never became queryable")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if docs.StaleParseResponses() != 0 {
		t.Error("a single parse should not be counted as stale")
	}
}

// A slow first response still overwrites a newer completed parse. The race is
// kept as-is and surfaced through StaleParseResponses.
func TestDocumentStore_StaleResponseRace(t *testing.T) {
	gate := NewGatedExtractor()
	docs := store.NewDocumentStore(persistence.NewCodec(memStore.NewStore()), gate, nil)
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	first := make(chan bool, 1)
	go func() { first <- docs.ParseDocument(ctx, id) }()
	firstReply := <-gate.Calls

	if !docs.ReuploadDocument(ctx, id, sampleFile("a.txt")) {
		t.Fatal("reupload during a parse should be accepted")
	}

	second := make(chan bool, 1)
	go func() { second <- docs.ParseDocument(ctx, id) }()
	secondReply := <-gate.Calls
	secondReply <- outcome{result: docModel.ExtractResult{ArtifactId: "a2"}}
	if !<-second {
		t.Fatal("second parse should succeed")
	}
	if !docs.IsQueryable(id) {
		t.Fatal("document should be queryable after the second parse")
	}

	firstReply <- outcome{err: &docModel.ExtractionError{Message: "timed out"}}
	if <-first {
		t.Fatal("first parse reported success")
	}

	doc := mustGet(t, docs, id)
	if doc.State != docModel.StateParseFailed || doc.ParseError != "timed out" {
		t.Errorf("late response should overwrite state, got %+v", doc)
	}
	if docs.IsQueryable(id) {
		t.Error("overwritten document must not stay queryable")
	}
	if got := docs.StaleParseResponses(); got != 1 {
		t.Errorf("expected 1 stale response, got %d", got)
	}
}

func TestDocumentStore_RestoreDowngradesUnprovenParse(t *testing.T) {
	kv := memStore.NewStore()
	body := `{"version":2,"data":[{"id":"d1","state":"PARSED","metadata":{"name":"a.pdf","size":4},"artifactId":null}]}`
	if err := kv.Set(context.Background(), config.DocumentsKey, body); err != nil {
		t.Fatal(err)
	}

	docs := store.NewDocumentStore(persistence.NewCodec(kv), &MockExtractor{}, nil)
	docs.Restore(context.Background())

	doc := mustGet(t, docs, "d1")
	if doc.State != docModel.StateUploaded || doc.ArtifactId != "" {
		t.Errorf("expected UPLOADED without artifact, got %+v", doc)
	}
	if docs.IsQueryable("d1") {
		t.Error("downgraded document must not be queryable")
	}
}

func TestDocumentStore_RedisRoundtrip(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := redisStore.NewTestStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 0)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	docs := store.NewDocumentStore(persistence.NewCodec(kv), &MockExtractor{}, nil)
	parsed := docs.AddDocument(ctx, sampleFile("a.txt"))
	uploaded := docs.AddDocument(ctx, sampleFile("b.txt"))
	if !docs.ParseDocument(ctx, parsed) {
		t.Fatal("parse failed")
	}

	if !mr.Exists(config.DocumentsKey) {
		t.Fatal("documents were not persisted to redis")
	}

	restored := store.NewDocumentStore(persistence.NewCodec(kv), &MockExtractor{}, nil)
	restored.Restore(ctx)

	list := restored.ListDocuments()
	if len(list) != 2 || list[0].Id != parsed || list[1].Id != uploaded {
		t.Fatalf("insertion order lost: %+v", list)
	}
	for _, d := range list {
		if d.State == docModel.StateParsed && d.ArtifactId == "" {
			t.Errorf("PARSED without artifact after restore: %+v", d)
		}
		if restored.HasFile(d.Id) {
			t.Errorf("file survived restore for %s", d.Id)
		}
	}
	if !restored.IsQueryable(parsed) {
		t.Error("a proven parse should stay queryable across restore")
	}
}

func TestDocumentStore_RestoredParsedStaysParsed(t *testing.T) {
	docs, codec, _ := newDocumentStore(&MockExtractor{})
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))
	if !docs.ParseDocument(ctx, id) {
		t.Fatal("parse failed")
	}
	artifactId := mustGet(t, docs, id).ArtifactId

	restored := store.NewDocumentStore(codec, &MockExtractor{}, &InlineDispatcher{})
	restored.Restore(ctx)
	if restored.ParseDocument(ctx, id) {
		t.Fatal("parse of a PARSED document must be refused")
	}
	doc := mustGet(t, restored, id)
	if doc.State != docModel.StateParsed || doc.ArtifactId != artifactId || !restored.IsQueryable(id) {
		t.Errorf("refused parse changed a restored document: %+v", doc)
	}
}

func TestDocumentStore_TryParseReportsStart(t *testing.T) {
	docs, _, _ := newDocumentStore(&MockExtractor{
		OnExtract: func(ctx context.Context, id string, file docModel.File) (docModel.ExtractResult, error) {
			return docModel.ExtractResult{}, &docModel.ExtractionError{Message: "Could not read the document content."}
		},
	})
	ctx := context.Background()
	id := docs.AddDocument(ctx, sampleFile("a.txt"))

	tests := []struct {
		name        string
		id          string
		wantStarted bool
		wantState   docModel.DocumentState
	}{
		{"failed extraction still started", id, true, docModel.StateParseFailed},
		{"retry from PARSE_FAILED starts again", id, true, docModel.StateParseFailed},
		{"unknown id never starts", "ghost", false, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			started, parsed := docs.TryParse(ctx, tc.id)
			if started != tc.wantStarted || parsed {
				t.Errorf("got started=%v parsed=%v", started, parsed)
			}
			if tc.wantState != "" {
				if doc := mustGet(t, docs, tc.id); doc.State != tc.wantState {
					t.Errorf("expected %s, got %s", tc.wantState, doc.State)
				}
			}
		})
	}

	gated := NewGatedExtractor()
	busy, _, _ := newDocumentStore(gated)
	busyId := busy.AddDocument(ctx, sampleFile("b.txt"))
	done := make(chan bool)
	go func() {
		started, _ := busy.TryParse(ctx, busyId)
		done <- started
	}()
	reply := <-gated.Calls
	if started, _ := busy.TryParse(ctx, busyId); started {
		t.Error("a second parse while PARSING must report not started")
	}
	reply <- outcome{result: docModel.ExtractResult{ArtifactId: "a1", TextLength: 5}}
	if !<-done {
		t.Error("the first parse should report started")
	}
}

func TestDocumentStore_DropArtifact(t *testing.T) {
	ctx := context.Background()

	t.Run("file held goes back to UPLOADED and can reparse", func(t *testing.T) {
		docs, codec, _ := newDocumentStore(&MockExtractor{})
		id := docs.AddDocument(ctx, sampleFile("a.txt"))
		docs.ParseDocument(ctx, id)
		artifactId := mustGet(t, docs, id).ArtifactId

		if docs.DropArtifact(ctx, id, "someone-else") {
			t.Error("a different artifact id must not revoke")
		}
		if !docs.DropArtifact(ctx, id, artifactId) {
			t.Fatal("expected revoke")
		}
		doc := mustGet(t, docs, id)
		if doc.State != docModel.StateUploaded || doc.ArtifactId != "" || doc.TextLength != 0 || docs.IsQueryable(id) {
			t.Errorf("unexpected revoked document: %+v", doc)
		}
		if docs.DropArtifact(ctx, id, artifactId) {
			t.Error("second revoke should be a no-op")
		}

		restored := store.NewDocumentStore(codec, &MockExtractor{}, nil)
		restored.Restore(ctx)
		if restored.IsQueryable(id) {
			t.Error("revocation must be persisted")
		}
		if !docs.ParseDocument(ctx, id) || !docs.IsQueryable(id) {
			t.Error("reparse after revoke should succeed")
		}
	})

	t.Run("no file requires reupload", func(t *testing.T) {
		docs, codec, _ := newDocumentStore(&MockExtractor{})
		id := docs.AddDocument(ctx, sampleFile("a.txt"))
		docs.ParseDocument(ctx, id)
		artifactId := mustGet(t, docs, id).ArtifactId

		restored := store.NewDocumentStore(codec, &MockExtractor{}, nil)
		restored.Restore(ctx)
		if !restored.DropArtifact(ctx, id, artifactId) {
			t.Fatal("expected revoke")
		}
		if doc := mustGet(t, restored, id); doc.State != docModel.StateRequiresReupload {
			t.Errorf("expected REQUIRES_REUPLOAD, got %s", doc.State)
		}
	})
}
