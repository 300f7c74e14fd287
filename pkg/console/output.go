package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	thinkingStyle = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	promptStyle   = lipgloss.NewStyle().Bold(true)
	noticeStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
)

// Output renders client updates to a terminal. It tracks how much of each
// streamed snapshot has already been printed so only new text is written.
type Output struct {
	w            io.Writer
	thinkingLen  int
	answerLen    int
	showThinking bool
	inThinking   bool
}

// NewOutput creates an output handler writing to stdout
func NewOutput(showThinking bool) *Output {
	return &Output{w: os.Stdout, showThinking: showThinking}
}

// NewOutputWriter creates an output handler writing to w. Intended for tests.
func NewOutputWriter(w io.Writer, showThinking bool) *Output {
	return &Output{w: w, showThinking: showThinking}
}

// Reset clears per-request print state before a new exchange
func (o *Output) Reset() {
	o.thinkingLen = 0
	o.answerLen = 0
	o.inThinking = false
}

// Thinking prints the unprinted tail of the thinking snapshot
func (o *Output) Thinking(snapshot string) {
	if !o.showThinking {
		return
	}

	tail := tailOf(snapshot, o.thinkingLen)
	if tail == "" {
		return
	}
	o.thinkingLen = len(snapshot)
	o.inThinking = true
	fmt.Fprint(o.w, thinkingStyle.Render(tail))
}

// Answer prints the unprinted tail of the answer snapshot
func (o *Output) Answer(snapshot string) {
	if o.inThinking {
		// separate the trace from the answer
		fmt.Fprint(o.w, "\n\n")
		o.inThinking = false
	}

	tail := tailOf(snapshot, o.answerLen)
	if tail == "" {
		return
	}
	o.answerLen = len(snapshot)
	fmt.Fprint(o.w, tail)
}

// Final terminates the streamed answer block
func (o *Output) Final() {
	fmt.Fprintln(o.w)
}

// Error prints a failure message
func (o *Output) Error(msg string) {
	fmt.Fprintln(o.w, errorStyle.Render(msg))
}

// Notice prints an informational aside
func (o *Output) Notice(msg string) {
	fmt.Fprintln(o.w, noticeStyle.Render(msg))
}

// Prompt prints the input prompt
func (o *Output) Prompt() {
	fmt.Fprint(o.w, promptStyle.Render("> "))
}

// tailOf returns the part of snapshot beyond the printed length. Snapshots
// only ever grow except when a completion event rewrites the trace; then
// the rewritten text is treated as fully printed.
func tailOf(snapshot string, printed int) string {
	if printed >= len(snapshot) {
		return ""
	}
	return snapshot[printed:]
}
