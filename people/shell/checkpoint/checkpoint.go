// Package checkpoint stores how far the relay has delivered the event log.
package checkpoint

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLoadingCheckpointFailed = errors.New("loading the checkpoint failed")
	ErrSavingCheckpointFailed  = errors.New("saving the checkpoint failed")
	ErrEmptyKey                = errors.New("checkpoint key must not be empty")
)

// Delivery is one delivered event and the timestamp the store recorded it at.
type Delivery struct {
	EventID   uuid.UUID
	Timestamp time.Time
}

// Checkpoint is the highest timestamp the relay has delivered plus the events it delivered
// within its lookback window before that timestamp. Reading from Timestamp minus the lookback and
// skipping those events resumes without gaps, even if an event committed after a later one.
type Checkpoint struct {
	Timestamp  time.Time
	Deliveries []Delivery
}

// IsZero reports whether nothing was delivered yet.
func (c Checkpoint) IsZero() bool {
	return c.Timestamp.IsZero()
}

// Delivered reports whether the event is among the remembered deliveries.
func (c Checkpoint) Delivered(eventID uuid.UUID) bool {
	return slices.ContainsFunc(c.Deliveries, func(d Delivery) bool { return d.EventID == eventID })
}

// Store loads and saves a checkpoint. Load returns the zero Checkpoint if none was saved.
type Store interface {
	Load(ctx context.Context) (Checkpoint, error)
	Save(ctx context.Context, checkpoint Checkpoint) error
}

// MemoryStore keeps the checkpoint in process, for tests and single-run tooling.
type MemoryStore struct {
	mu         sync.Mutex
	checkpoint Checkpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return clone(s.checkpoint), nil
}

func (s *MemoryStore) Save(_ context.Context, checkpoint Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkpoint = clone(checkpoint)

	return nil
}

// RedisStore keeps the checkpoint as a JSON document under one key.
type RedisStore struct {
	client redis.Cmdable
	key    string
}

// NewRedisStore creates a RedisStore. client is usually a *redis.Client.
func NewRedisStore(client redis.Cmdable, key string) (*RedisStore, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	return &RedisStore{client: client, key: key}, nil
}

func (s *RedisStore) Load(ctx context.Context) (Checkpoint, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Checkpoint{}, nil
		}

		return Checkpoint{}, errors.Join(ErrLoadingCheckpointFailed, err)
	}

	var checkpoint Checkpoint
	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &checkpoint); err != nil {
		return Checkpoint{}, errors.Join(ErrLoadingCheckpointFailed, err)
	}

	return checkpoint, nil
}

func (s *RedisStore) Save(ctx context.Context, checkpoint Checkpoint) error {
	raw, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(checkpoint)
	if err != nil {
		return errors.Join(ErrSavingCheckpointFailed, err)
	}

	if err = s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return errors.Join(ErrSavingCheckpointFailed, err)
	}

	return nil
}

func clone(checkpoint Checkpoint) Checkpoint {
	return Checkpoint{Timestamp: checkpoint.Timestamp, Deliveries: slices.Clone(checkpoint.Deliveries)}
}
