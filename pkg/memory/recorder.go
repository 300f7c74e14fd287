package memory

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sagehq/sage/pkg/config"
)

// DefaultSummaryLimit caps the condensed summary stored with each record
const DefaultSummaryLimit = 400

// Interaction is the condensed record of one completed exchange
type Interaction struct {
	Query     string `json:"query"`
	Response  string `json:"response"`
	Summary   string `json:"summary"`
	RequestID string `json:"request_id,omitempty"`
}

// Recorder persists interaction records. Implementations must treat Record
// as best effort; callers swallow failures.
type Recorder interface {
	// Record persists one interaction
	Record(ctx context.Context, rec Interaction) error

	// Enabled returns whether recording is active
	Enabled() bool

	// Close releases any held resources
	Close() error
}

// NewRecorder builds the recorder selected by configuration
func NewRecorder(cfg config.MemoryConfig, token func() string) (Recorder, error) {
	switch cfg.Provider {
	case "http", "":
		return NewHTTPRecorder(cfg.URL, token), nil
	case "chromem":
		return NewChromemRecorder(cfg.PersistenceDir)
	case "none":
		return NewNoopRecorder(), nil
	default:
		return nil, fmt.Errorf("unknown memory provider %q", cfg.Provider)
	}
}

// Summarize condenses text to at most limit characters, appending an
// ellipsis when truncated. Truncation is rune-safe.
func Summarize(text string, limit int) string {
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	runes := []rune(text)
	if limit <= 3 {
		// no room for the ellipsis
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}
