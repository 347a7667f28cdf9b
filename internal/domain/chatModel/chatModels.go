package chatModel

import (
	"encoding/json"
	"slices"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Message struct {
	Id        string
	Role      Role
	Content   string
	Evidence  json.RawMessage
	CreatedAt time.Time
}

func (m Message) Clone() Message {
	m.Evidence = slices.Clone(m.Evidence)
	return m
}
