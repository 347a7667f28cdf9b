package store_test

import (
	"context"

	"github.com/akolanti/DocQuery/internal/domain/docModel"
)

// MockExtractor implements docModel.Extractor
type MockExtractor struct {
	OnExtract func(ctx context.Context, id string, file docModel.File) (docModel.ExtractResult, error)
}

func (m *MockExtractor) Extract(ctx context.Context, id string, file docModel.File) (docModel.ExtractResult, error) {
	if m.OnExtract != nil {
		return m.OnExtract(ctx, id, file)
	}
	return docModel.ExtractResult{ArtifactId: "artifact-" + id, TextLength: len(file.Content)}, nil
}

type outcome struct {
	result docModel.ExtractResult
	err    error
}

// GatedExtractor blocks every call until the test answers on the reply channel
// published through Calls.
type GatedExtractor struct {
	Calls chan chan outcome
}

func NewGatedExtractor() *GatedExtractor {
	return &GatedExtractor{Calls: make(chan chan outcome, 4)}
}

func (g *GatedExtractor) Extract(ctx context.Context, id string, file docModel.File) (docModel.ExtractResult, error) {
	reply := make(chan outcome)
	g.Calls <- reply
	o := <-reply
	return o.result, o.err
}

// InlineDispatcher runs tasks synchronously.
type InlineDispatcher struct {
	Submitted int
}

func (d *InlineDispatcher) Submit(task func()) {
	d.Submitted++
	task()
}

func sampleFile(name string) docModel.File {
	return docModel.File{Name: name, MimeType: "text/plain", Content: []byte("hello world")}
}
