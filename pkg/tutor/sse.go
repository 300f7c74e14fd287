package tutor

import (
	"bytes"
	"io"
	"time"
)

// dataPrefix marks SSE payload lines. Anything else on the stream
// (comments, event names, blank keep-alives) is ignored.
const dataPrefix = "data: "

// extractPayload returns the JSON payload of an SSE data line, or ok=false
// for lines that carry none. The input must be a complete line without its
// trailing newline.
func extractPayload(line []byte) ([]byte, bool) {
	if !bytes.HasPrefix(line, []byte(dataPrefix)) {
		return nil, false
	}

	payload := bytes.TrimSpace(line[len(dataPrefix):])
	if len(payload) == 0 {
		return nil, false
	}

	return payload, true
}

// watchdog closes the stream body when no bytes arrive for the configured
// timeout, so a silent upstream cannot hang a request forever. The read loop
// then observes the close as an unexpected stream termination.
type watchdog struct {
	reader  io.Reader
	timer   *time.Timer
	timeout time.Duration
}

// newWatchdog wraps body with an inactivity watchdog. A timeout <= 0
// disables it.
func newWatchdog(body io.ReadCloser, timeout time.Duration) *watchdog {
	w := &watchdog{reader: body, timeout: timeout}
	if timeout > 0 {
		w.timer = time.AfterFunc(timeout, func() {
			body.Close()
		})
	}
	return w
}

func (w *watchdog) Read(p []byte) (int, error) {
	n, err := w.reader.Read(p)
	if n > 0 && w.timer != nil {
		w.timer.Reset(w.timeout)
	}
	return n, err
}

// Stop disarms the watchdog once the stream has finished
func (w *watchdog) Stop() {
	if w.timer != nil {
		w.timer.Stop()
	}
}
