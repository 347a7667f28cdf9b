package persistence

import (
	"context"
	"encoding/json"

	"github.com/akolanti/DocQuery/internal/config"
	"github.com/akolanti/DocQuery/internal/domain/chatModel"
	"github.com/akolanti/DocQuery/internal/domain/commonModels"
	"github.com/akolanti/DocQuery/internal/domain/docModel"
	"github.com/akolanti/DocQuery/internal/domain/sessionModel"
	"github.com/akolanti/DocQuery/internal/metrics"
	"github.com/akolanti/DocQuery/pkg/logger_i"
)

type Family string

const (
	FamilyDocuments Family = "documents"
	FamilySessions  Family = "sessions"
	FamilyChat      Family = "chat"
	FamilyConfig    Family = "config"
)

var families = []Family{FamilyDocuments, FamilySessions, FamilyChat, FamilyConfig}

func (f Family) key() string {
	switch f {
	case FamilyDocuments:
		return config.DocumentsKey
	case FamilySessions:
		return config.SessionsKey
	case FamilyChat:
		return config.ChatKey
	case FamilyConfig:
		return config.ConfigKey
	}
	return ""
}

// ParseFamily accepts only the entity families; config is reachable through ClearAll alone.
func ParseFamily(s string) (Family, bool) {
	switch f := Family(s); f {
	case FamilyDocuments, FamilySessions, FamilyChat:
		return f, true
	}
	return "", false
}

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// SessionSnapshot is the sessions family: every session plus the global active pointer.
type SessionSnapshot struct {
	Sessions        []sessionModel.Session
	ActiveSessionId string
}

// Codec writes canonical entity data to the substrate and reads it back
// pessimistically. Save never returns an error; Load reports "no data" for
// anything it cannot trust.
type Codec struct {
	kv      commonModels.KeyValueStore
	version int
	logger  *logger_i.Logger
}

func NewCodec(kv commonModels.KeyValueStore) *Codec {
	return &Codec{
		kv:      kv,
		version: config.SchemaVersion,
		logger:  logger_i.NewLogger("PersistenceCodec"),
	}
}

func (c *Codec) save(ctx context.Context, family Family, data any) {
	log := c.logger.WithTrace(ctx).With("family", family)
	raw, err := json.Marshal(data)
	if err != nil {
		log.Error("failed to encode family", "error", err)
		metrics.CapturePersistenceFailure(string(family), "encode")
		return
	}
	body, err := json.Marshal(envelope{Version: c.version, Data: raw})
	if err != nil {
		log.Error("failed to encode envelope", "error", err)
		metrics.CapturePersistenceFailure(string(family), "encode")
		return
	}
	if err := c.kv.Set(ctx, family.key(), string(body)); err != nil {
		log.Error("failed to persist family", "error", err)
		metrics.CapturePersistenceFailure(string(family), "write")
		return
	}
	log.Debug("persisted family", "bytes", len(body))
}

func (c *Codec) load(ctx context.Context, family Family) (json.RawMessage, bool) {
	log := c.logger.WithTrace(ctx).With("family", family)
	val, found, err := c.kv.Get(ctx, family.key())
	if err != nil {
		log.Error("failed to read family", "error", err)
		metrics.CapturePersistenceFailure(string(family), "read")
		return nil, false
	}
	if !found {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(val), &env); err != nil {
		log.Warn("malformed family payload, ignoring", "error", err)
		metrics.CapturePersistenceFailure(string(family), "decode")
		return nil, false
	}
	if env.Version < c.version {
		log.Warn("dropping stale schema version", "stored", env.Version, "current", c.version)
		if err := c.kv.Remove(ctx, family.key()); err != nil {
			log.Error("failed to remove stale family", "error", err)
			metrics.CapturePersistenceFailure(string(family), "remove")
		}
		return nil, false
	}
	if env.Version > c.version {
		log.Warn("ignoring newer schema version", "stored", env.Version, "current", c.version)
		return nil, false
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, false
	}
	return env.Data, true
}

func (c *Codec) Clear(ctx context.Context, family Family) {
	if err := c.kv.Remove(ctx, family.key()); err != nil {
		c.logger.WithTrace(ctx).Error("failed to clear family", "family", family, "error", err)
		metrics.CapturePersistenceFailure(string(family), "remove")
	}
}

// ClearAll removes every family including config.
func (c *Codec) ClearAll(ctx context.Context) {
	for _, f := range families {
		c.Clear(ctx, f)
	}
}

func (c *Codec) SaveDocuments(ctx context.Context, docs []docModel.Document) {
	records := make([]documentRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, toDocumentRecord(d))
	}
	c.save(ctx, FamilyDocuments, records)
}

// LoadDocuments returns the repaired documents. Restored documents never carry a file.
func (c *Codec) LoadDocuments(ctx context.Context) ([]docModel.Document, bool) {
	data, ok := c.load(ctx, FamilyDocuments)
	if !ok {
		return nil, false
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		c.logger.WithTrace(ctx).Warn("documents payload is not a list", "error", err)
		return nil, false
	}

	seen := make(map[string]bool, len(raws))
	docs := make([]docModel.Document, 0, len(raws))
	for i, raw := range raws {
		var rec documentRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			c.logger.Warn("discarding malformed document", "index", i, "error", err)
			continue
		}
		doc, ok := c.repairDocument(rec)
		if !ok || seen[doc.Id] {
			c.logger.Warn("discarding invalid document", "index", i, "id", rec.Id)
			continue
		}
		seen[doc.Id] = true
		docs = append(docs, doc)
	}
	return docs, true
}

func (c *Codec) repairDocument(rec documentRecord) (docModel.Document, bool) {
	state := docModel.DocumentState(rec.State)
	if rec.Id == "" || !state.Valid() || rec.Metadata.Name == "" || rec.Metadata.Size < 0 {
		return docModel.Document{}, false
	}

	doc := docModel.Document{
		Id:    rec.Id,
		State: state,
		Metadata: docModel.Metadata{
			Name:       rec.Metadata.Name,
			Size:       rec.Metadata.Size,
			MimeType:   rec.Metadata.MimeType,
			UploadedAt: rec.Metadata.UploadedAt,
		},
		ArtifactId: deref(rec.ArtifactId),
		ParseError: deref(rec.ParseError),
		TextLength: rec.TextLength,
	}

	switch doc.State {
	case docModel.StateParsed:
		if doc.ArtifactId == "" {
			c.logger.Warn("downgrading unproven PARSED document", "id", doc.Id)
			metrics.CaptureRestoreDowngrade("parsed_without_artifact")
			doc.State = docModel.StateUploaded
		}
	case docModel.StateParsing:
		c.logger.Warn("downgrading interrupted parse", "id", doc.Id)
		metrics.CaptureRestoreDowngrade("interrupted_parse")
		doc.State = docModel.StateParseFailed
		doc.ParseError = config.InterruptedParseError
	}

	if doc.State == docModel.StateParseFailed {
		if doc.ParseError == "" {
			doc.ParseError = config.GenericParseError
		}
	} else {
		doc.ParseError = ""
	}
	if doc.State != docModel.StateParsed {
		doc.TextLength = 0
	}
	return doc, true
}

func (c *Codec) SaveSessions(ctx context.Context, snap SessionSnapshot) {
	records := make([]sessionRecord, 0, len(snap.Sessions))
	for _, s := range snap.Sessions {
		records = append(records, toSessionRecord(s))
	}
	payload := struct {
		Sessions        []sessionRecord `json:"sessions"`
		ActiveSessionId *string         `json:"activeSessionId"`
	}{records, optional(snap.ActiveSessionId)}
	c.save(ctx, FamilySessions, payload)
}

func (c *Codec) LoadSessions(ctx context.Context) (SessionSnapshot, bool) {
	data, ok := c.load(ctx, FamilySessions)
	if !ok {
		return SessionSnapshot{}, false
	}
	var rec sessionsRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.logger.WithTrace(ctx).Warn("malformed sessions payload", "error", err)
		return SessionSnapshot{}, false
	}

	snap := SessionSnapshot{Sessions: make([]sessionModel.Session, 0, len(rec.Sessions))}
	seen := make(map[string]bool, len(rec.Sessions))
	for i, raw := range rec.Sessions {
		var sr sessionRecord
		if err := json.Unmarshal(raw, &sr); err != nil {
			c.logger.Warn("discarding malformed session", "index", i, "error", err)
			continue
		}
		state := sessionModel.SessionState(sr.State)
		if sr.Id == "" || !state.Valid() || seen[sr.Id] {
			c.logger.Warn("discarding invalid session", "index", i, "id", sr.Id)
			continue
		}
		seen[sr.Id] = true

		session := sessionModel.Session{
			Id:          sr.Id,
			Name:        sr.Name,
			State:       state,
			CreatedAt:   sr.CreatedAt,
			DocumentIds: uniqueIds(sr.DocumentIds),
		}
		if active := deref(sr.ActiveDocumentId); session.HasDocument(active) {
			session.ActiveDocumentId = active
		}
		snap.Sessions = append(snap.Sessions, session)
	}

	if active := deref(rec.ActiveSessionId); seen[active] {
		snap.ActiveSessionId = active
	}
	return snap, true
}

func uniqueIds(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (c *Codec) SaveChat(ctx context.Context, logs map[string][]chatModel.Message) {
	records := make(map[string][]messageRecord, len(logs))
	for sessionId, msgs := range logs {
		out := make([]messageRecord, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, toMessageRecord(m))
		}
		records[sessionId] = out
	}
	c.save(ctx, FamilyChat, records)
}

func (c *Codec) LoadChat(ctx context.Context) (map[string][]chatModel.Message, bool) {
	data, ok := c.load(ctx, FamilyChat)
	if !ok {
		return nil, false
	}
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.WithTrace(ctx).Warn("malformed chat payload", "error", err)
		return nil, false
	}

	logs := make(map[string][]chatModel.Message, len(raw))
	for sessionId, entries := range raw {
		if sessionId == "" {
			continue
		}
		msgs := make([]chatModel.Message, 0, len(entries))
		for i, entry := range entries {
			var mr messageRecord
			if err := json.Unmarshal(entry, &mr); err != nil || mr.Id == "" || !chatModel.Role(mr.Role).Valid() {
				c.logger.Warn("discarding invalid message", "sessionId", sessionId, "index", i)
				continue
			}
			msg := chatModel.Message{
				Id:        mr.Id,
				Role:      chatModel.Role(mr.Role),
				Content:   mr.Content,
				CreatedAt: mr.CreatedAt,
			}
			if len(mr.Evidence) > 0 && string(mr.Evidence) != "null" {
				msg.Evidence = mr.Evidence
			}
			msgs = append(msgs, msg)
		}
		logs[sessionId] = msgs
	}
	return logs, true
}

func (c *Codec) SaveSettings(ctx context.Context, s commonModels.ModelSettings) {
	c.save(ctx, FamilyConfig, settingsRecord{
		Provider:    s.Provider,
		Model:       s.Model,
		Temperature: s.Temperature,
	})
}

func (c *Codec) LoadSettings(ctx context.Context) (commonModels.ModelSettings, bool) {
	data, ok := c.load(ctx, FamilyConfig)
	if !ok {
		return commonModels.ModelSettings{}, false
	}
	var rec settingsRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Provider == "" {
		c.logger.WithTrace(ctx).Warn("malformed settings payload", "error", err)
		return commonModels.ModelSettings{}, false
	}
	return commonModels.ModelSettings{
		Provider:    rec.Provider,
		Model:       rec.Model,
		Temperature: rec.Temperature,
	}, true
}
