package commonModels

import "context"

// KeyValueStore is the durable substrate the persistence codec writes to.
// Values are whole strings; there are no partial updates.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// ModelSettings selects the provider and model used by the analysis collaborator.
type ModelSettings struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"
