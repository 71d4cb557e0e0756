// Package listview holds the back-office view of one filtered list: the last
// list that loaded successfully and the last error. Mutations never merge
// locally; each successful write is followed by a full re-fetch so the view
// always reflects what the store returned.
package listview

import (
	"context"
	"sync"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository is the subset of tablestore.Store a Manager drives.
type Repository[T any] interface {
	List(ctx context.Context, q tablestore.Query) ([]T, error)
	Create(ctx context.Context, row any) (T, error)
	Update(ctx context.Context, id primitive.ObjectID, patch any) (T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Snapshot is what a list screen renders.
type Snapshot[T any] struct {
	Items []T   `json:"items"`
	Err   error `json:"-"`
}

// View is the JSON body of a list screen. Item is set after a mutation.
type View[T any] struct {
	Item  *T     `json:"item,omitempty"`
	Items []T    `json:"items"`
	Error string `json:"error,omitempty"`
}

// View renders the snapshot for a list response.
func (s Snapshot[T]) View() View[T] {
	v := View[T]{Items: s.Items}
	if v.Items == nil {
		v.Items = []T{}
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}

// WithItem renders the snapshot for a mutation response.
func (s Snapshot[T]) WithItem(item T) View[T] {
	v := s.View()
	v.Item = &item
	return v
}

// Manager is the list state for one (collection, parent) scope.
type Manager[T any] struct {
	repo  Repository[T]
	query tablestore.Query

	mu    sync.Mutex
	items []T
	err   error
}

// NewManager returns a Manager with an empty list. Nothing is fetched until
// FetchAll or a mutation runs.
func NewManager[T any](repo Repository[T], q tablestore.Query) *Manager[T] {
	return &Manager[T]{repo: repo, query: q, items: []T{}}
}

// Snapshot returns a copy of the held list and the last error.
func (m *Manager[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]T, len(m.items))
	copy(items, m.items)
	return Snapshot[T]{Items: items, Err: m.err}
}

// FetchAll reloads the list. On failure the previous list is kept and the
// error is recorded.
func (m *Manager[T]) FetchAll(ctx context.Context) Snapshot[T] {
	rows, err := m.repo.List(ctx, m.query)

	m.mu.Lock()
	if err != nil {
		m.err = err
	} else {
		m.items = rows
		m.err = nil
	}
	m.mu.Unlock()

	return m.Snapshot()
}

// Create inserts row and re-fetches the list.
func (m *Manager[T]) Create(ctx context.Context, row any) (T, Snapshot[T], error) {
	created, err := m.repo.Create(ctx, row)
	if err != nil {
		return created, m.fail(err), err
	}
	return created, m.FetchAll(ctx), nil
}

// Update patches the row with id and re-fetches the list.
func (m *Manager[T]) Update(ctx context.Context, id primitive.ObjectID, patch any) (T, Snapshot[T], error) {
	updated, err := m.repo.Update(ctx, id, patch)
	if err != nil {
		return updated, m.fail(err), err
	}
	return updated, m.FetchAll(ctx), nil
}

// Delete removes the row with id and re-fetches the list.
func (m *Manager[T]) Delete(ctx context.Context, id primitive.ObjectID) (Snapshot[T], error) {
	if err := m.repo.Delete(ctx, id); err != nil {
		return m.fail(err), err
	}
	return m.FetchAll(ctx), nil
}

func (m *Manager[T]) fail(err error) Snapshot[T] {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
	return m.Snapshot()
}

// Set keeps one Manager per parent scope, created on first use.
type Set[T any] struct {
	repo       Repository[T]
	activeOnly bool

	mu       sync.Mutex
	managers map[primitive.ObjectID]*Manager[T]
}

// NewSet returns a Set over repo. activeOnly is applied to every scope.
func NewSet[T any](repo Repository[T], activeOnly bool) *Set[T] {
	return &Set[T]{repo: repo, activeOnly: activeOnly, managers: make(map[primitive.ObjectID]*Manager[T])}
}

// For returns the Manager for parent. The zero ObjectID selects the
// unscoped list.
func (s *Set[T]) For(parent primitive.ObjectID) *Manager[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.managers[parent]; ok {
		return m
	}
	q := tablestore.Query{ActiveOnly: s.activeOnly}
	if !parent.IsZero() {
		p := parent
		q.ParentID = &p
	}
	m := NewManager(s.repo, q)
	s.managers[parent] = m
	return m
}
