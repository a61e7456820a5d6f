package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// LogKey is the single key under which the experiment log is persisted.
const LogKey = "espressoExperiments"

var (
	ErrNotFound   = errors.New("resource not found")
	ErrCorruptLog = errors.New("stored experiment log is malformed")
)

// KV is a durable string-keyed blob store. All backends implement it.
type KV interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LogStore persists the whole experiment log under LogKey.
type LogStore struct {
	kv KV
}

// NewLogStore wraps a KV backend.
func NewLogStore(kv KV) *LogStore {
	return &LogStore{kv: kv}
}

func (s *LogStore) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Load returns the stored log. A missing key is an empty log. Malformed
// content returns an empty log together with ErrCorruptLog.
func (s *LogStore) Load(ctx context.Context) ([]models.Experiment, error) {
	b, err := s.kv.Get(ctx, LogKey)
	if errors.Is(err, ErrNotFound) {
		return []models.Experiment{}, nil
	}
	if err != nil {
		return []models.Experiment{}, fmt.Errorf("load experiment log: %w", err)
	}

	var log []models.Experiment
	if err := json.Unmarshal(b, &log); err != nil {
		return []models.Experiment{}, fmt.Errorf("%w: %v", ErrCorruptLog, err)
	}
	if log == nil {
		log = []models.Experiment{}
	}
	return log, nil
}

// Save replaces the stored log.
func (s *LogStore) Save(ctx context.Context, log []models.Experiment) error {
	if log == nil {
		log = []models.Experiment{}
	}
	b, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encode experiment log: %w", err)
	}
	if err := s.kv.Set(ctx, LogKey, b); err != nil {
		return fmt.Errorf("save experiment log: %w", err)
	}
	return nil
}

// Clear removes the stored log.
func (s *LogStore) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, LogKey); err != nil {
		return fmt.Errorf("clear experiment log: %w", err)
	}
	return nil
}

func (s *LogStore) Close() error {
	return s.kv.Close()
}
