package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/shortify/internal/models"
)

// DefaultKey is the key the link list is stored under.
const DefaultKey = "shortify_links_v2"

// LinkStore is the ordered, newest-first list of link records kept under a
// single Medium key. Every mutation is a full read-modify-write of that key;
// the mutex only serializes writers inside this process.
type LinkStore struct {
	mu     sync.Mutex
	medium Medium
	key    string
	logger *zap.Logger
}

func NewLinkStore(medium Medium, key string, logger *zap.Logger) *LinkStore {
	if key == "" {
		key = DefaultKey
	}
	return &LinkStore{
		medium: medium,
		key:    key,
		logger: logger,
	}
}

// List returns all records, newest first. It never fails: an unset key, an
// unreadable medium or unparsable data all read as an empty list.
func (s *LinkStore) List(ctx context.Context) []models.LinkRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(ctx)
}

// Insert prepends record and writes the whole list back.
func (s *LinkStore) Insert(ctx context.Context, record models.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.read(ctx)
	links = append([]models.LinkRecord{record}, links...)

	return s.write(ctx, links)
}

// Remove drops the record with the given id and returns what is left.
// An unknown id leaves the stored list untouched.
func (s *LinkStore) Remove(ctx context.Context, id string) ([]models.LinkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.read(ctx)
	remaining := make([]models.LinkRecord, 0, len(links))
	for _, l := range links {
		if l.ID != id {
			remaining = append(remaining, l)
		}
	}

	if len(remaining) == len(links) {
		return links, nil
	}

	if err := s.write(ctx, remaining); err != nil {
		return links, err
	}
	return remaining, nil
}

// FindByAlias returns the first record in store order whose alias matches.
func (s *LinkStore) FindByAlias(ctx context.Context, alias string) (models.LinkRecord, bool) {
	for _, l := range s.List(ctx) {
		if l.Alias == alias {
			return l, true
		}
	}
	return models.LinkRecord{}, false
}

func (s *LinkStore) PingContext(ctx context.Context) error {
	return s.medium.PingContext(ctx)
}

func (s *LinkStore) read(ctx context.Context) []models.LinkRecord {
	data, err := s.medium.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to load links", zap.String("key", s.key), zap.Error(err))
		}
		return []models.LinkRecord{}
	}

	var links []models.LinkRecord
	if err := json.Unmarshal(data, &links); err != nil {
		s.logger.Warn("Failed to parse links", zap.String("key", s.key), zap.Error(err))
		return []models.LinkRecord{}
	}
	if links == nil {
		return []models.LinkRecord{}
	}
	return links
}

func (s *LinkStore) write(ctx context.Context, links []models.LinkRecord) error {
	b, err := json.Marshal(links)
	if err != nil {
		return err
	}
	return s.medium.Set(ctx, s.key, b)
}
