package course

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("course not found")

type ListOpts struct {
	Subject string
	Q       string
	Limit   int
	Offset  int
}

type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subject   string `json:"subject"`
	Audience  string `json:"audience,omitempty"`
	Questions int    `json:"questions"`
}

// Store persists authored courses. Get serves the learner-safe view;
// GetAdmin returns the full course with answer keys for play/export.
type Store interface {
	Put(ctx context.Context, c Course) error
	Get(ctx context.Context, id string) (Course, error)
	GetAdmin(ctx context.Context, id string) (Course, error)
	List(ctx context.Context, opts ListOpts) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu      sync.RWMutex
	courses map[string]Course
}

func NewInMemoryStore() Store {
	return &memoryStore{courses: map[string]Course{}}
}

func (m *memoryStore) Put(_ context.Context, c Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (Course, error) {
	c, err := m.GetAdmin(ctx, id)
	if err != nil {
		return Course{}, err
	}
	return c.LearnerView(), nil
}

func (m *memoryStore) GetAdmin(_ context.Context, id string) (Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (m *memoryStore) List(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Summary{}
	for _, c := range m.courses {
		if opts.Subject != "" && c.Subject != opts.Subject {
			continue
		}
		out = append(out, Summary{ID: c.ID, Title: c.Title, Subject: c.Subject, Audience: c.Audience, Questions: len(c.Questions)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return ErrNotFound
	}
	delete(m.courses, id)
	return nil
}
