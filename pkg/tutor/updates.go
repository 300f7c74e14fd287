package tutor

import "github.com/sagehq/sage/pkg/chat"

// UpdateKind discriminates the state transitions handed to the UI layer
type UpdateKind int

const (
	// UpdateThinking carries a new snapshot of the running thinking trace
	UpdateThinking UpdateKind = iota
	// UpdateAnswer carries a new snapshot of the running answer text
	UpdateAnswer
	// UpdateFinal carries the finalized assistant message for this request
	UpdateFinal
	// UpdateFailed carries the terminal failure message for this request
	UpdateFailed
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateThinking:
		return "thinking"
	case UpdateAnswer:
		return "answer"
	case UpdateFinal:
		return "final"
	case UpdateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the update ends the in-flight request
func (k UpdateKind) Terminal() bool {
	return k == UpdateFinal || k == UpdateFailed
}

// Update is a read-only snapshot emitted by the client. Thinking and Answer
// hold the accumulated buffers at emission time; Message is set only on
// terminal updates.
type Update struct {
	Kind     UpdateKind
	Thinking string
	Answer   string
	Message  chat.Message
}
