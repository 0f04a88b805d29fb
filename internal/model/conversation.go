package model

import (
	"strings"
	"time"
)

// Role identifies the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnSource records where a remembered turn originally came from.
type TurnSource struct {
	Domain    string `json:"domain,omitempty"`
	Topic     string `json:"topic,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"` // Unix milliseconds
}

// ConversationTurn is a single caller-supplied history entry. Turns are never
// mutated: the prompt assembler only partitions them (memory vs. live
// conversation) and optionally groups memory turns by source domain.
type ConversationTurn struct {
	Role     Role        `json:"role"`
	Content  string      `json:"content"`
	IsMemory bool        `json:"isMemory,omitempty"`
	Source   *TurnSource `json:"source,omitempty"`
}

// Domain returns the source domain of a remembered turn, or "" when unknown.
func (t ConversationTurn) Domain() string {
	if t.Source == nil {
		return ""
	}
	return t.Source.Domain
}

// When returns the turn's source timestamp, or the zero time when unknown.
func (t ConversationTurn) When() time.Time {
	if t.Source == nil || t.Source.Timestamp == 0 {
		return time.Time{}
	}
	return time.UnixMilli(t.Source.Timestamp)
}

// PartitionHistory splits caller-supplied history into memory turns and the
// live conversation, dropping turns with no content.
func PartitionHistory(history []ConversationTurn) (memory, conversation []ConversationTurn) {
	for _, t := range history {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		if t.IsMemory {
			memory = append(memory, t)
		} else {
			conversation = append(conversation, t)
		}
	}
	return memory, conversation
}
