package tutor

import (
	"encoding/json"
	"fmt"
)

// EventType discriminates the payloads the backend emits on the chat stream
type EventType string

const (
	EventThinkingStart    EventType = "thinking_start"
	EventThinkingDelta    EventType = "thinking_delta"
	EventThinkingComplete EventType = "thinking_complete"
	EventAnswerStart      EventType = "answer_start"
	EventAnswerDelta      EventType = "answer_delta"
	EventAnswerComplete   EventType = "answer_complete"
	EventError            EventType = "error"
)

// Known reports whether the event type is part of the protocol
func (t EventType) Known() bool {
	switch t {
	case EventThinkingStart, EventThinkingDelta, EventThinkingComplete,
		EventAnswerStart, EventAnswerDelta, EventAnswerComplete, EventError:
		return true
	}
	return false
}

// Terminal reports whether the event ends the stream
func (t EventType) Terminal() bool {
	return t == EventAnswerComplete || t == EventError
}

// StreamEvent is one decoded frame from the chat stream. Which fields carry
// data depends on Type: deltas use Delta, completion events carry full
// snapshots in ThinkingContent or Response.
type StreamEvent struct {
	Type            EventType `json:"type"`
	Delta           string    `json:"delta,omitempty"`
	ThinkingContent string    `json:"thinking_content,omitempty"`
	Response        string    `json:"response,omitempty"`
	RequestID       string    `json:"request_id,omitempty"`
}

// ParseEvent decodes one data: payload. Unknown or missing type tags are an
// error so new protocol additions surface in logs instead of vanishing.
func ParseEvent(payload []byte) (StreamEvent, error) {
	var ev StreamEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return StreamEvent{}, fmt.Errorf("failed to parse stream event: %w", err)
	}

	if ev.Type == "" {
		return StreamEvent{}, fmt.Errorf("stream event missing type tag")
	}
	if !ev.Type.Known() {
		return StreamEvent{}, fmt.Errorf("unknown stream event type %q", ev.Type)
	}

	return ev, nil
}
