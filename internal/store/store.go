// Package store holds the categories and tasks of one to-do list and writes
// the whole state back to a key-value backend after every change.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/todonest/internal/config"
	"github.com/sandeepkv93/todonest/internal/logging"
	"github.com/sandeepkv93/todonest/internal/model"
	"github.com/sandeepkv93/todonest/internal/storage"
)

type Store struct {
	mu         sync.Mutex
	backend    storage.Backend
	key        string
	logger     *log.Logger
	ids        *model.IDGenerator
	categories []model.Category
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithIDGenerator(ids *model.IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// New returns an empty store. Call Load to read persisted state.
func New(backend storage.Backend, opts ...Option) *Store {
	if backend == nil {
		panic("store.New: backend is nil")
	}
	s := &Store{
		backend:    backend,
		key:        config.DefaultKey,
		logger:     logging.Discard(),
		ids:        model.NewIDGenerator(nil),
		categories: []model.Category{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted blob. A missing blob
// or one that fails to parse leaves the store empty; only backend failures
// are returned.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = []model.Category{}
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load %s: %w", s.key, err)
	}
	categories, err := Decode([]byte(raw))
	if err != nil {
		s.logger.Warn("discarding saved data", "key", s.key, "err", err)
		return nil
	}
	s.categories = categories
	s.ids.ObserveCategories(categories)
	s.logger.Debug("loaded", "key", s.key, "categories", len(categories))
	return nil
}

func (s *Store) AddCategory(ctx context.Context, title string) (model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := model.NewCategory(s.ids.Next(), title)
	s.categories = append([]model.Category{category}, s.categories...)
	return category.Clone(), s.persist(ctx, "add category")
}

// DeleteCategory removes the category and its tasks. State is written even
// when no category matched.
func (s *Store) DeleteCategory(ctx context.Context, categoryID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.categories[:0]
	for _, c := range s.categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	s.categories = kept
	return s.persist(ctx, "delete category")
}

func (s *Store) EditCategory(ctx context.Context, categoryID int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(categoryID)
	if i < 0 {
		return nil
	}
	s.categories[i].Title = title
	return s.persist(ctx, "edit category")
}

// AddTask prepends a task to the category. ok is false when the category
// does not exist.
func (s *Store) AddTask(ctx context.Context, categoryID int64, text string) (task model.Task, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(categoryID)
	if i < 0 {
		return model.Task{}, false, nil
	}
	task = model.NewTask(s.ids.Next(), text)
	s.categories[i].Tasks = append([]model.Task{task}, s.categories[i].Tasks...)
	return task, true, s.persist(ctx, "add task")
}

func (s *Store) DeleteTask(ctx context.Context, categoryID, taskID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(categoryID)
	if i < 0 {
		return nil
	}
	tasks := s.categories[i].Tasks
	kept := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	s.categories[i].Tasks = kept
	return s.persist(ctx, "delete task")
}

func (s *Store) EditTask(ctx context.Context, categoryID, taskID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(categoryID)
	if i < 0 {
		return nil
	}
	j := s.categories[i].TaskIndex(taskID)
	if j < 0 {
		return nil
	}
	s.categories[i].Tasks[j].Text = text
	return s.persist(ctx, "edit task")
}

// Categories returns a copy of the state in display order.
func (s *Store) Categories() []model.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneCategories(s.categories)
}

func (s *Store) Category(categoryID int64) (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(categoryID)
	if i < 0 {
		return model.Category{}, false
	}
	return s.categories[i].Clone(), true
}

func (s *Store) Task(categoryID, taskID int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(categoryID)
	if i < 0 {
		return model.Task{}, false
	}
	j := s.categories[i].TaskIndex(taskID)
	if j < 0 {
		return model.Task{}, false
	}
	return s.categories[i].Tasks[j], true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories)
}

// Reset empties the store and removes the persisted blob. A blob that was
// never written is not an error.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories = []model.Category{}
	if err := s.backend.Delete(ctx, s.key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Error("reset failed", "key", s.key, "err", err)
		return fmt.Errorf("reset %s: %w", s.key, err)
	}
	s.logger.Debug("reset", "key", s.key)
	return nil
}

// Raw returns the persisted blob as stored, without decoding it.
func (s *Store) Raw(ctx context.Context) (string, error) {
	raw, err := s.backend.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return raw, nil
}

func (s *Store) indexOf(categoryID int64) int {
	for i, c := range s.categories {
		if c.ID == categoryID {
			return i
		}
	}
	return -1
}

// persist must be called with mu held.
func (s *Store) persist(ctx context.Context, op string) error {
	blob, err := Encode(s.categories)
	if err != nil {
		return fmt.Errorf("%s: encode: %w", op, err)
	}
	if err := s.backend.Set(ctx, s.key, string(blob)); err != nil {
		s.logger.Error("persist failed", "op", op, "key", s.key, "err", err)
		return fmt.Errorf("%s: persist: %w", op, err)
	}
	s.logger.Debug("persisted", "op", op, "key", s.key, "categories", len(s.categories))
	return nil
}
