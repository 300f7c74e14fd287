package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is one entry in the conversation log. Messages are immutable once
// appended to a history.
type Message struct {
	ID              string    `json:"id"`
	Role            string    `json:"role"`
	Content         string    `json:"content"`
	Timestamp       time.Time `json:"timestamp"`
	Kind            string    `json:"type,omitempty"`
	ThinkingContent string    `json:"thinking_content,omitempty"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
)

// Message kinds for assistant messages produced by the streaming client
const (
	KindThinking    = "thinking"
	KindFinalAnswer = "final_answer"
	KindComplete    = "complete"
)

// Turn is the wire representation of one prior exchange entry sent back to
// the backend as conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewCompleteMessage creates the terminal assistant message for a finished
// stream, carrying the final answer and the thinking snapshot
func NewCompleteMessage(content, thinking string) Message {
	return Message{
		ID:              uuid.NewString(),
		Role:            RoleAssistant,
		Content:         content,
		Timestamp:       time.Now(),
		Kind:            KindComplete,
		ThinkingContent: thinking,
	}
}

func NewErrorMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleError,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsSystem() bool {
	return m.Role == RoleSystem
}

func (m Message) IsError() bool {
	return m.Role == RoleError
}

func (m Message) IsComplete() bool {
	return m.Kind == KindComplete
}

func (m Message) HasThinking() bool {
	return strings.TrimSpace(m.ThinkingContent) != ""
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
