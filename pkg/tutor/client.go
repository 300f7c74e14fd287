package tutor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sagehq/sage/pkg/chat"
	"github.com/sagehq/sage/pkg/logger"
	"github.com/sagehq/sage/pkg/memory"
)

const (
	defaultChatPath     = "/api/chat"
	defaultSummaryLimit = 400

	// scanner limits; answer deltas are small but thinking snapshots can be large
	scanBufferSize = 64 * 1024
	scanMaxLine    = 1024 * 1024
)

const (
	connectFailedText  = "Unable to reach the tutor right now. Please check your connection and try again."
	streamCutText      = "The tutor stopped responding before finishing. Please try again."
	genericFailureText = "Something went wrong while generating a response. Please try again."
)

// Settings configures a Client. Zero values fall back to defaults; Token is
// injected rather than read from ambient state so the client stays testable.
type Settings struct {
	BaseURL           string
	ChatPath          string
	Token             func() string
	HTTPClient        *http.Client
	Recorder          memory.Recorder
	SummaryLimit      int
	Timeout           time.Duration
	InactivityTimeout time.Duration
}

// chatRequest is the wire format of a chat turn request
type chatRequest struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history"`
}

// Client reconstructs tutoring responses from the backend's chat stream.
// One request may be in flight at a time; progress is observed on Updates.
type Client struct {
	baseURL           string
	chatPath          string
	token             func() string
	httpClient        *http.Client
	recorder          memory.Recorder
	summaryLimit      int
	inactivityTimeout time.Duration

	updates  chan Update
	done     chan struct{}
	inFlight atomic.Bool
	closed   atomic.Bool
}

// NewClient creates a streaming chat client
func NewClient(settings Settings) *Client {
	if settings.ChatPath == "" {
		settings.ChatPath = defaultChatPath
	}
	if settings.HTTPClient == nil {
		// Timeout bounds the wait for response headers only. The body read
		// phase is open-ended by nature and is guarded by the inactivity
		// watchdog instead; http.Client.Timeout would cut streams short.
		settings.HTTPClient = &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: settings.Timeout},
		}
	}
	if settings.Token == nil {
		settings.Token = func() string { return "" }
	}
	if settings.SummaryLimit <= 0 {
		settings.SummaryLimit = defaultSummaryLimit
	}

	return &Client{
		baseURL:           strings.TrimRight(settings.BaseURL, "/"),
		chatPath:          settings.ChatPath,
		token:             settings.Token,
		httpClient:        settings.HTTPClient,
		recorder:          settings.Recorder,
		summaryLimit:      settings.SummaryLimit,
		inactivityTimeout: settings.InactivityTimeout,
		updates:           make(chan Update, 64),
		done:              make(chan struct{}),
	}
}

// Updates returns the channel of state transitions. The channel stays open
// for the lifetime of the client; each accepted SendMessage contributes a
// series of snapshot updates ending in exactly one terminal update.
func (c *Client) Updates() <-chan Update {
	return c.updates
}

// Busy reports whether a request is currently streaming
func (c *Client) Busy() bool {
	return c.inFlight.Load()
}

// Close tears the client down. Any open stream stops consuming and no
// further updates are emitted.
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
}

// SendMessage starts a streaming chat request for userText with the given
// prior conversation. It is a no-op while another request is in flight or
// after Close; outcomes are observed on Updates.
func (c *Client) SendMessage(ctx context.Context, userText string, history []chat.Message) {
	if c.closed.Load() {
		return
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		logger.Warn("send ignored: previous response still streaming")
		return
	}

	go func() {
		defer c.inFlight.Store(false)
		c.run(ctx, userText, history)
	}()
}

func (c *Client) run(ctx context.Context, userText string, history []chat.Message) {
	body, err := json.Marshal(chatRequest{
		Message: userText,
		History: chat.ToTurns(history),
	})
	if err != nil {
		logger.Error("failed to marshal chat request: %v", err)
		c.fail(genericFailureText)
		return
	}

	url := c.baseURL + c.chatPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		logger.Error("failed to create chat request: %v", err)
		c.fail(genericFailureText)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("chat request failed: %v", err)
		c.fail(connectFailedText)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("chat request rejected: %s", describeErrorResponse(resp))
		c.fail(connectFailedText)
		return
	}

	c.readStream(userText, resp.Body)
}

// readStream drives the per-request reducer over the SSE frames of body.
// Lines are buffered byte-wise until a full newline arrives, so multi-byte
// runes split across chunk reads never corrupt a frame.
func (c *Client) readStream(userText string, body io.ReadCloser) {
	dog := newWatchdog(body, c.inactivityTimeout)
	defer dog.Stop()

	scanner := bufio.NewScanner(dog)
	scanner.Buffer(make([]byte, 0, scanBufferSize), scanMaxLine)

	var thinking, answer strings.Builder

	for scanner.Scan() {
		if c.closed.Load() {
			return
		}

		payload, ok := extractPayload(scanner.Bytes())
		if !ok {
			continue
		}

		ev, err := ParseEvent(payload)
		if err != nil {
			// Fail open per line: one bad frame must not kill the stream
			logger.Warn("skipping malformed stream frame: %v", err)
			continue
		}

		if c.apply(ev, userText, &thinking, &answer) {
			return
		}
	}

	if c.closed.Load() {
		return
	}
	if err := scanner.Err(); err != nil {
		logger.Error("chat stream read error: %v", err)
	} else {
		logger.Error("chat stream ended without a terminal event")
	}
	c.fail(streamCutText)
}

// apply folds one event into the in-flight buffers and emits the matching
// update. It returns true when the event was terminal.
func (c *Client) apply(ev StreamEvent, userText string, thinking, answer *strings.Builder) bool {
	switch ev.Type {
	case EventThinkingStart, EventAnswerStart:
		// phase boundaries only; the thinking snapshot stays visible until
		// the first answer delta replaces it

	case EventThinkingDelta:
		thinking.WriteString(ev.Delta)
		c.emit(Update{Kind: UpdateThinking, Thinking: thinking.String()})

	case EventThinkingComplete:
		if ev.ThinkingContent != "" {
			thinking.Reset()
			thinking.WriteString(ev.ThinkingContent)
		}
		c.emit(Update{Kind: UpdateThinking, Thinking: thinking.String()})

	case EventAnswerDelta:
		answer.WriteString(ev.Delta)
		// sentinels are stripped from the displayed snapshot, not the accumulation
		c.emit(Update{
			Kind:     UpdateAnswer,
			Thinking: thinking.String(),
			Answer:   chat.StripAnswerTags(answer.String()),
		})

	case EventAnswerComplete:
		final := answer.String()
		if ev.Response != "" {
			final = ev.Response
		}
		// the completion snapshot is whole, so a delimited block can be
		// extracted instead of just dropping stray markers
		final = chat.ExtractAnswer(final)

		msg := chat.NewCompleteMessage(final, thinking.String())
		c.emit(Update{Kind: UpdateFinal, Thinking: msg.ThinkingContent, Answer: final, Message: msg})
		c.record(userText, final, ev.RequestID)
		return true

	case EventError:
		text := ev.Response
		if strings.TrimSpace(text) == "" {
			text = genericFailureText
		}
		c.fail(text)
		return true
	}

	return false
}

// fail emits the single terminal failure message for the request
func (c *Client) fail(text string) {
	c.emit(Update{
		Kind:    UpdateFailed,
		Message: chat.NewCompleteMessage(text, ""),
	})
}

func (c *Client) emit(u Update) {
	if c.closed.Load() {
		return
	}
	select {
	case c.updates <- u:
	case <-c.done:
	}
}

// record persists a condensed interaction record. Best effort: it runs
// detached from the request and its failure is logged, never surfaced.
func (c *Client) record(query, response, requestID string) {
	if c.recorder == nil || !c.recorder.Enabled() {
		return
	}

	rec := memory.Interaction{
		Query:     query,
		Response:  response,
		Summary:   memory.Summarize(response, c.summaryLimit),
		RequestID: requestID,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.recorder.Record(ctx, rec); err != nil {
			logger.Warn("failed to record interaction: %v", err)
		}
	}()
}

func describeErrorResponse(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Sprintf("status %d (unreadable body: %v)", resp.StatusCode, err)
	}

	var errResp struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
		return fmt.Sprintf("status %d: %s", resp.StatusCode, errResp.Error)
	}

	return fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
