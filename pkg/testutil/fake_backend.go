package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"time"
)

// Frame formats one SSE data line for a fake chat stream
func Frame(payload string) string {
	return "data: " + payload + "\n"
}

// ServeStream returns a fake chat backend that writes each chunk verbatim
// with a flush in between, mimicking the backend's streaming behavior.
// Chunks need not align with frame boundaries, so tests can split frames
// (and even multi-byte runes) across network reads.
func ServeStream(chunks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStreamHeaders(w)
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
}

// ServeStreamThenHang returns a backend that writes the chunks, then keeps
// the connection open without further bytes until the client goes away.
func ServeStreamThenHang(chunks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStreamHeaders(w)
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
		case <-time.After(30 * time.Second):
		}
	}))
}

// ServeStalled returns a backend that accepts the connection but never sends
// response headers
func ServeStalled() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server arms its background connection read
		// and observes the client disconnect; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
}

// ServeStatus returns a backend that rejects every request with the given
// status and body
func ServeStatus(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

// ServeStreamGated returns a backend that blocks until release is closed,
// then streams the chunks. Used to hold a request open deliberately.
func ServeStreamGated(release <-chan struct{}, chunks ...string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeStreamHeaders(w)
		flusher := w.(http.Flusher)
		flusher.Flush()
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		for _, chunk := range chunks {
			w.Write([]byte(chunk))
			flusher.Flush()
		}
	}))
}

func writeStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}
