// Package input fetches and decodes the payloads the scoring engine
// consumes: feature frames, token streams, and pitch contours produced
// by the external preprocessing, transcription, and pitch-extraction
// stages.
package input

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"

	"github.com/lingomirror/shadowscore/logging"
)

// Source is the capability interface for fetching raw engine-input
// payloads by key. The caller picks an implementation before the engine
// runs; the engine itself never touches storage.
type Source interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// LocalFileSource reads payloads from a directory tree
type LocalFileSource struct {
	root string
}

// NewLocalFileSource creates a source rooted at the given directory
func NewLocalFileSource(root string) *LocalFileSource {
	return &LocalFileSource{root: root}
}

// Fetch reads the file at root/key
func (s *LocalFileSource) Fetch(_ context.Context, key string) ([]byte, error) {
	path := filepath.Join(s.root, key)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// ObjectStoreSource reads payloads from a remote object-store bucket
type ObjectStoreSource struct {
	client *storage.Client
	bucket string
	logger logging.Logger
}

// NewObjectStoreSource creates a source backed by the given bucket
func NewObjectStoreSource(ctx context.Context, bucket string) (*ObjectStoreSource, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	return &ObjectStoreSource{
		client: client,
		bucket: bucket,
		logger: logging.WithFields(logging.Fields{
			"component": "object_store_source",
			"bucket":    bucket,
		}),
	}, nil
}

// Fetch downloads the object at key
func (s *ObjectStoreSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	s.logger.Debug("object fetched", logging.Fields{
		"key":   key,
		"bytes": len(data),
	})

	return data, nil
}

// Close releases the underlying client
func (s *ObjectStoreSource) Close() error {
	return s.client.Close()
}
