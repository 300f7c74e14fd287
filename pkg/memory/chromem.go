package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
)

const chromemCollection = "interactions"

// ChromemRecorder keeps interaction records in a local chromem-go
// collection, so past exchanges stay searchable without the remote memory
// service.
type ChromemRecorder struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemRecorder creates a recorder persisting under dir. It uses the
// default chromem embedding function; see NewChromemRecorderWithEmbedding
// to supply another.
func NewChromemRecorder(dir string) (*ChromemRecorder, error) {
	return NewChromemRecorderWithEmbedding(dir, chromem.NewEmbeddingFuncDefault())
}

// NewChromemRecorderWithEmbedding creates a recorder with a custom embedding
// function. An empty dir keeps the store in memory only.
func NewChromemRecorderWithEmbedding(dir string, embed chromem.EmbeddingFunc) (*ChromemRecorder, error) {
	var db *chromem.DB
	var err error
	if dir != "" {
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open memory database: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(chromemCollection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory collection: %w", err)
	}

	return &ChromemRecorder{
		db:         db,
		collection: collection,
	}, nil
}

func (r *ChromemRecorder) Record(ctx context.Context, rec Interaction) error {
	id := rec.RequestID
	if id == "" {
		id = uuid.NewString()
	}

	doc := chromem.Document{
		ID:      id,
		Content: rec.Summary,
		Metadata: map[string]string{
			"query":    rec.Query,
			"response": rec.Response,
		},
	}

	if err := r.collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to store interaction: %w", err)
	}

	return nil
}

// Count returns the number of stored interactions
func (r *ChromemRecorder) Count() int {
	return r.collection.Count()
}

func (r *ChromemRecorder) Enabled() bool {
	return true
}

func (r *ChromemRecorder) Close() error {
	return nil
}

var _ Recorder = (*ChromemRecorder)(nil)
