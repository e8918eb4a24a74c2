package progress

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("tracking record not found")

// Store persists one UserTracking record per user. Update runs the
// read-modify-write for a single user atomically with respect to other
// mutations of that record; fn sees exists=false when the user has no
// record yet and the zero record it fills in is then inserted.
type Store interface {
	Get(ctx context.Context, userID string) (UserTracking, error)
	Update(ctx context.Context, userID string, fn func(rec *UserTracking, exists bool) error) error
}

type memoryStore struct {
	mu      sync.Mutex
	records map[string]UserTracking
}

func NewInMemoryStore() Store {
	return &memoryStore{records: map[string]UserTracking{}}
}

func (m *memoryStore) Get(_ context.Context, userID string) (UserTracking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if !ok {
		return UserTracking{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryStore) Update(_ context.Context, userID string, fn func(rec *UserTracking, exists bool) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[userID]
	if err := fn(&rec, ok); err != nil {
		return err
	}
	rec.UserID = userID
	m.records[userID] = rec
	return nil
}
