package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/akolanti/DocQuery/internal/adapter/utils"
	"github.com/akolanti/DocQuery/internal/data/persistence"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/internal/metrics"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

// DocumentStore owns every Document and its raw file. All mutations persist the
// whole family before returning, one write per transition.
//
// Legal transitions:
//
//	UPLOADED          --parse(start)-->   PARSING
//	PARSE_FAILED      --parse(retry)-->   PARSING
//	PARSING           --parse(success)--> PARSED
//	PARSING           --parse(failure)--> PARSE_FAILED
//	PARSED            --artifact lost-->  UPLOADED, or REQUIRES_REUPLOAD without a file
//	any but PARSED (no file) --parse-->   REQUIRES_REUPLOAD
//	any               --reupload-->       UPLOADED
type DocumentStore struct {
	mu         sync.RWMutex
	documents  map[string]*docModel.Document
	order      []string
	attempts   map[string]uint64
	stale      uint64
	codec      *persistence.Codec
	extractor  docModel.Extractor
	dispatcher docModel.Dispatcher
	logger     *logger_i.Logger
	now        func() time.Time
}

type goDispatcher struct{}

func (goDispatcher) Submit(task func()) { go task() }

// NewDocumentStore builds an empty store. Call Restore before serving.
// A nil dispatcher runs parse completions on a fresh goroutine.
func NewDocumentStore(codec *persistence.Codec, extractor docModel.Extractor, dispatcher docModel.Dispatcher) *DocumentStore {
	if dispatcher == nil {
		dispatcher = goDispatcher{}
	}
	return &DocumentStore{
		documents:  make(map[string]*docModel.Document),
		attempts:   make(map[string]uint64),
		codec:      codec,
		extractor:  extractor,
		dispatcher: dispatcher,
		logger:     logger_i.NewLogger("DocumentStore"),
		now:        time.Now,
	}
}

func (s *DocumentStore) AddDocument(ctx context.Context, file docModel.File) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := &docModel.Document{
		Id:    utils.GetNewUUID(),
		State: docModel.StateUploaded,
		Metadata: docModel.Metadata{
			Name:       file.Name,
			Size:       file.Size(),
			MimeType:   file.MimeType,
			UploadedAt: s.now().UTC(),
		},
		File: &file,
	}
	s.documents[doc.Id] = doc
	s.order = append(s.order, doc.Id)
	s.persistLocked(ctx)

	s.logger.WithTrace(ctx).Debug("document added", "id", doc.Id, "name", file.Name, "size", doc.Metadata.Size)
	metrics.CaptureTransition(string(doc.State))
	return doc.Id
}

// ReuploadDocument swaps in a new file and resets the document to UPLOADED.
// Metadata stays as first uploaded.
func (s *DocumentStore) ReuploadDocument(ctx context.Context, id string, file docModel.File) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return false
	}
	doc.File = &file
	doc.State = docModel.StateUploaded
	doc.ParseError = ""
	s.persistLocked(ctx)

	s.logger.WithTrace(ctx).Debug("document reuploaded", "id", id)
	metrics.CaptureTransition(string(doc.State))
	return true
}

// ParseDocument runs a parse to completion on the calling goroutine and reports
// whether the document ended up PARSED.
func (s *DocumentStore) ParseDocument(ctx context.Context, id string) bool {
	_, parsed := s.TryParse(ctx, id)
	return parsed
}

// TryParse is ParseDocument that also reports whether the guard let the parse
// start, so a refusal can be told apart from a failed extraction.
func (s *DocumentStore) TryParse(ctx context.Context, id string) (started bool, parsed bool) {
	file, attempt, ok := s.beginParse(ctx, id)
	if !ok {
		return false, false
	}
	return true, s.runParse(ctx, id, file, attempt)
}

// StartParse applies the same guard as ParseDocument but hands the extractor call
// to the dispatcher. It reports whether a parse was started.
func (s *DocumentStore) StartParse(ctx context.Context, id string) bool {
	file, attempt, ok := s.beginParse(ctx, id)
	if !ok {
		return false
	}
	detached := context.WithoutCancel(ctx)
	s.dispatcher.Submit(func() {
		s.runParse(detached, id, file, attempt)
	})
	return true
}

func (s *DocumentStore) beginParse(ctx context.Context, id string) (docModel.File, uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.logger.WithTrace(ctx).With("id", id)

	doc, ok := s.documents[id]
	if !ok {
		return docModel.File{}, 0, false
	}
	// a PARSED document keeps its proof even when the bytes are gone
	if doc.State == docModel.StateParsed {
		log.Warn("parse refused", "state", doc.State)
		return docModel.File{}, 0, false
	}
	if doc.File == nil {
		doc.State = docModel.StateRequiresReupload
		doc.ParseError = ""
		s.persistLocked(ctx)
		log.Info("document has no file, reupload required")
		metrics.CaptureTransition(string(doc.State))
		return docModel.File{}, 0, false
	}
	if !doc.State.CanStartParse() {
		log.Warn("parse refused", "state", doc.State)
		return docModel.File{}, 0, false
	}

	doc.State = docModel.StateParsing
	doc.ParseError = ""
	s.attempts[id]++
	s.persistLocked(ctx)
	metrics.CaptureTransition(string(doc.State))
	log.Debug("parse started", "attempt", s.attempts[id])
	return *doc.File, s.attempts[id], true
}

func (s *DocumentStore) runParse(ctx context.Context, id string, file docModel.File, attempt uint64) bool {
	start := time.Now()
	result, err := s.extractor.Extract(ctx, id, file)
	metrics.CaptureExecutionMetrics("extraction", time.Since(start))
	if err == nil && result.ArtifactId == "" {
		err = errors.New("extraction returned no artifact id")
	}
	return s.finishParse(ctx, id, attempt, result, err)
}

// finishParse applies an extractor outcome. A completion from an older attempt is
// still applied; it is only logged and counted.
func (s *DocumentStore) finishParse(ctx context.Context, id string, attempt uint64, result docModel.ExtractResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.logger.WithTrace(ctx).With("id", id, "attempt", attempt)

	doc, ok := s.documents[id]
	if !ok {
		log.Warn("parse completed for unknown document")
		return false
	}
	if attempt != s.attempts[id] || doc.State != docModel.StateParsing {
		s.stale++
		metrics.CaptureStaleParseResponse()
		log.Warn("stale parse response", "currentAttempt", s.attempts[id], "state", doc.State)
	}

	if err != nil {
		doc.State = docModel.StateParseFailed
		doc.ParseError = err.Error()
		s.persistLocked(ctx)
		metrics.CaptureTransition(string(doc.State))
		log.Warn("parse failed", "error", err)
		return false
	}

	doc.ArtifactId = result.ArtifactId
	doc.TextLength = result.TextLength
	doc.State = docModel.StateParsed
	doc.ParseError = ""
	s.persistLocked(ctx)
	metrics.CaptureTransition(string(doc.State))
	log.Debug("parse succeeded", "artifactId", result.ArtifactId, "textLength", result.TextLength)
	return true
}

func (s *DocumentStore) IsQueryable(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	return ok && doc.Queryable()
}

// ArtifactFor returns the artifact id only for a queryable document.
func (s *DocumentStore) ArtifactFor(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok || !doc.Queryable() {
		return "", false
	}
	return doc.ArtifactId, true
}

// DropArtifact revokes a PARSED document whose artifact is no longer readable.
// With its file still held the document goes back to UPLOADED, otherwise to
// REQUIRES_REUPLOAD. It reports false when the document no longer holds artifactId.
func (s *DocumentStore) DropArtifact(ctx context.Context, id string, artifactId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok || doc.State != docModel.StateParsed || doc.ArtifactId != artifactId {
		return false
	}
	doc.ArtifactId = ""
	doc.TextLength = 0
	doc.ParseError = ""
	doc.State = docModel.StateUploaded
	if doc.File == nil {
		doc.State = docModel.StateRequiresReupload
	}
	s.persistLocked(ctx)
	metrics.CaptureTransition(string(doc.State))
	s.logger.WithTrace(ctx).Warn("artifact lost, document revoked", "id", id, "artifactId", artifactId, "state", doc.State)
	return true
}

// GetDocument returns a copy without the raw file.
func (s *DocumentStore) GetDocument(id string) (docModel.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return docModel.Document{}, false
	}
	out := *doc
	out.File = nil
	return out, true
}

func (s *DocumentStore) HasFile(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	return ok && doc.File != nil
}

func (s *DocumentStore) ListDocuments() []docModel.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]docModel.Document, 0, len(s.order))
	for _, id := range s.order {
		d := *s.documents[id]
		d.File = nil
		out = append(out, d)
	}
	return out
}

// StaleParseResponses counts completions that landed after a newer attempt began.
func (s *DocumentStore) StaleParseResponses() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// Restore replaces the in-memory map with the codec's repaired records.
func (s *DocumentStore) Restore(ctx context.Context) {
	docs, _ := s.codec.LoadDocuments(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents = make(map[string]*docModel.Document, len(docs))
	s.order = make([]string, 0, len(docs))
	s.attempts = make(map[string]uint64)
	for i := range docs {
		doc := docs[i]
		doc.File = nil
		s.documents[doc.Id] = &doc
		s.order = append(s.order, doc.Id)
	}
	s.logger.WithTrace(ctx).Info("documents restored", "count", len(docs))
}

func (s *DocumentStore) persistLocked(ctx context.Context) {
	snapshot := make([]docModel.Document, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, *s.documents[id])
	}
	s.codec.SaveDocuments(ctx, snapshot)
}
