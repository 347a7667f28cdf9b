package docModel

import (
	"context"
	"time"
)

type DocumentState string

const (
	StateUploaded         DocumentState = "UPLOADED"
	StateParsing          DocumentState = "PARSING"
	StateParseFailed      DocumentState = "PARSE_FAILED"
	StateParsed           DocumentState = "PARSED"
	StateRequiresReupload DocumentState = "REQUIRES_REUPLOAD"
)

func (s DocumentState) Valid() bool {
	switch s {
	case StateUploaded, StateParsing, StateParseFailed, StateParsed, StateRequiresReupload:
		return true
	}
	return false
}

// CanStartParse reports whether a parse may begin from s.
// This is the single-flight guard: PARSING and PARSED refuse re-entry.
func (s DocumentState) CanStartParse() bool {
	return s == StateUploaded || s == StateParseFailed
}

type Metadata struct {
	Name       string
	Size       int64
	MimeType   string
	UploadedAt time.Time
}

// File is the raw uploaded content. It only ever lives in process memory.
type File struct {
	Name     string
	MimeType string
	Content  []byte
}

func (f File) Size() int64 {
	return int64(len(f.Content))
}

type Document struct {
	Id         string
	State      DocumentState
	Metadata   Metadata
	File       *File
	ArtifactId string // empty until a parse is acknowledged by the extractor
	ParseError string // only set while State == StateParseFailed
	TextLength int
}

// Queryable is the authorization gate for analysis calls.
func (d Document) Queryable() bool {
	return d.State == StateParsed && d.ArtifactId != ""
}

type ExtractResult struct {
	ArtifactId string
	TextLength int
}

// ExtractionError carries a message that is safe to show to the user.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return e.Message
}

type Extractor interface {
	Extract(ctx context.Context, documentId string, file File) (ExtractResult, error)
}

// Dispatcher runs parse completions off the caller's goroutine.
type Dispatcher interface {
	Submit(task func())
}
