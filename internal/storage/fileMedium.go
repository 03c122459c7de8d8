package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileMedium keeps every key in one JSON document on disk:
//
//	{"shortify_links_v2": [ ... ]}
//
// Each Set rewrites the document through a temp file and a rename so readers
// never observe a partial write.
type FileMedium struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewFileMedium(p string, logger *zap.Logger) (*FileMedium, error) {
	if p == "" {
		return nil, errors.New("file storage path is empty")
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	return &FileMedium{
		path:   p,
		logger: logger,
	}, nil
}

func (f *FileMedium) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if err != nil {
		return nil, err
	}

	v, ok := doc[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (f *FileMedium) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !json.Valid(value) {
		return fmt.Errorf("value for %q is not valid JSON", key)
	}

	doc, err := f.readDocument()
	if err != nil {
		f.logger.Warn("storage file is unreadable, starting a new one",
			zap.String("filePath", f.path), zap.Error(err))
		doc = make(map[string]json.RawMessage)
	}
	doc[key] = json.RawMessage(value)

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), f.path)
}

// readDocument returns an empty document when the file does not exist yet.
func (f *FileMedium) readDocument() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, err
	}

	doc := make(map[string]json.RawMessage)
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse storage file: %w", err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	return doc, nil
}

func (f *FileMedium) PingContext(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(f.path))
	return err
}

func (f *FileMedium) Close() error {
	return nil
}
