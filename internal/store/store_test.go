package store

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/todonest/internal/config"
	"github.com/sandeepkv93/todonest/internal/logging"
	"github.com/sandeepkv93/todonest/internal/model"
	"github.com/sandeepkv93/todonest/internal/storage"
)

type failingBackend struct {
	storage.Backend
	setErr error
	getErr error
}

func (f *failingBackend) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.Backend.Get(ctx, key)
}

func (f *failingBackend) Set(ctx context.Context, key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Backend.Set(ctx, key, value)
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemoryBackend()
	clock := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	s := New(backend, WithIDGenerator(model.NewIDGenerator(func() time.Time { return clock })))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return s, backend
}

func taskTexts(c model.Category) []string {
	out := make([]string, 0, len(c.Tasks))
	for _, task := range c.Tasks {
		out = append(out, task.Text)
	}
	return out
}

func mustAddCategory(t *testing.T, s *Store, title string) model.Category {
	t.Helper()
	c, err := s.AddCategory(context.Background(), title)
	if err != nil {
		t.Fatalf("add category %q: %v", title, err)
	}
	return c
}

func mustAddTask(t *testing.T, s *Store, categoryID int64, text string) model.Task {
	t.Helper()
	task, ok, err := s.AddTask(context.Background(), categoryID, text)
	if err != nil || !ok {
		t.Fatalf("add task %q: ok=%v err=%v", text, ok, err)
	}
	return task
}

func TestGroceriesScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	groceries := mustAddCategory(t, s, "Groceries")
	got := s.Categories()
	if len(got) != 1 || got[0].Title != "Groceries" || len(got[0].Tasks) != 0 {
		t.Fatalf("unexpected state after add category: %#v", got)
	}

	milk := mustAddTask(t, s, groceries.ID, "Milk")
	c, _ := s.Category(groceries.ID)
	if len(c.Tasks) != 1 || c.Tasks[0].Text != "Milk" || c.Tasks[0].Completed {
		t.Fatalf("unexpected tasks after Milk: %#v", c.Tasks)
	}

	mustAddTask(t, s, groceries.ID, "Eggs")
	c, _ = s.Category(groceries.ID)
	if want := []string{"Eggs", "Milk"}; !reflect.DeepEqual(taskTexts(c), want) {
		t.Fatalf("task order = %v, want %v", taskTexts(c), want)
	}

	if err := s.DeleteTask(ctx, groceries.ID, milk.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	c, _ = s.Category(groceries.ID)
	if want := []string{"Eggs"}; !reflect.DeepEqual(taskTexts(c), want) {
		t.Fatalf("task order = %v, want %v", taskTexts(c), want)
	}

	if err := s.DeleteCategory(ctx, groceries.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %#v", s.Categories())
	}
}

func TestAddPrependsNewest(t *testing.T) {
	s, _ := newTestStore(t)
	titles := []string{"Home", "Work", "Errands", "Reading"}
	var work model.Category
	for _, title := range titles {
		c := mustAddCategory(t, s, title)
		if title == "Work" {
			work = c
		}
		if first := s.Categories()[0]; first.ID != c.ID {
			t.Fatalf("expected %q first, got %q", title, first.Title)
		}
	}
	for _, text := range []string{"a", "b", "c"} {
		task := mustAddTask(t, s, work.ID, text)
		c, _ := s.Category(work.ID)
		if c.Tasks[0].ID != task.ID {
			t.Fatalf("expected task %q first, got %q", text, c.Tasks[0].Text)
		}
	}
}

func TestIDsUniqueWithinSameMillisecond(t *testing.T) {
	s, _ := newTestStore(t)
	seen := make(map[int64]bool)
	for i := 0; i < 5; i++ {
		c := mustAddCategory(t, s, "c")
		if seen[c.ID] {
			t.Fatalf("duplicate category id %d", c.ID)
		}
		seen[c.ID] = true
		for j := 0; j < 3; j++ {
			task := mustAddTask(t, s, c.ID, "t")
			if seen[task.ID] {
				t.Fatalf("duplicate task id %d", task.ID)
			}
			seen[task.ID] = true
		}
	}
}

func TestUnknownCategoryIsNoop(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	c := mustAddCategory(t, s, "Work")
	task := mustAddTask(t, s, c.ID, "Write report")
	before := s.Categories()
	writes := backend.Writes()

	missing := c.ID + 999
	if err := s.EditCategory(ctx, missing, "x"); err != nil {
		t.Fatalf("edit category: %v", err)
	}
	if _, ok, err := s.AddTask(ctx, missing, "x"); ok || err != nil {
		t.Fatalf("add task to missing category: ok=%v err=%v", ok, err)
	}
	if err := s.DeleteTask(ctx, missing, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if err := s.EditTask(ctx, missing, task.ID, "x"); err != nil {
		t.Fatalf("edit task: %v", err)
	}
	if err := s.EditTask(ctx, c.ID, task.ID+999, "x"); err != nil {
		t.Fatalf("edit missing task: %v", err)
	}
	if err := s.DeleteCategory(ctx, missing); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	if !reflect.DeepEqual(s.Categories(), before) {
		t.Fatalf("state changed:\nbefore %#v\nafter  %#v", before, s.Categories())
	}
	if got := backend.Writes() - writes; got != 1 {
		t.Fatalf("expected only delete category to write, got %d writes", got)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	home := mustAddCategory(t, s, "Home")
	work := mustAddCategory(t, s, "Work")
	homeTask := mustAddTask(t, s, home.ID, "Vacuum")
	mustAddTask(t, s, work.ID, "Email")

	if err := s.DeleteCategory(ctx, home.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Task(home.ID, homeTask.ID); ok {
		t.Fatal("task of deleted category still reachable")
	}
	for _, c := range s.Categories() {
		for _, task := range c.Tasks {
			if task.ID == homeTask.ID {
				t.Fatalf("orphaned task found in %q", c.Title)
			}
		}
	}
	if _, ok := s.Category(work.ID); !ok {
		t.Fatal("sibling category removed")
	}
}

func TestEditChangesOnlyTargetField(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	home := mustAddCategory(t, s, "Home")
	work := mustAddCategory(t, s, "Work")
	vacuum := mustAddTask(t, s, home.ID, "Vacuum")
	dishes := mustAddTask(t, s, home.ID, "Dishes")
	before := s.Categories()

	if err := s.EditCategory(ctx, home.ID, "House"); err != nil {
		t.Fatalf("edit category: %v", err)
	}
	if err := s.EditTask(ctx, home.ID, vacuum.ID, "Vacuum upstairs"); err != nil {
		t.Fatalf("edit task: %v", err)
	}

	want := model.CloneCategories(before)
	want[1].Title = "House"
	want[1].Tasks[1].Text = "Vacuum upstairs"
	if got := s.Categories(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected state:\n got %#v\nwant %#v", got, want)
	}
	if got, _ := s.Task(home.ID, dishes.ID); got.Text != "Dishes" {
		t.Fatalf("sibling task changed: %#v", got)
	}
	if got, _ := s.Category(work.ID); got.Title != "Work" {
		t.Fatalf("sibling category changed: %#v", got)
	}
}

func TestPersistThenLoadRoundTrip(t *testing.T) {
	s, backend := newTestStore(t)
	home := mustAddCategory(t, s, "Home")
	work := mustAddCategory(t, s, "Work")
	mustAddTask(t, s, home.ID, "Vacuum")
	mustAddTask(t, s, home.ID, "Dishes")
	mustAddTask(t, s, work.ID, "Email")
	before := s.Categories()

	reloaded := New(backend)
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := reloaded.Categories(); !reflect.DeepEqual(got, before) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, before)
	}

	again := New(backend)
	if err := again.Load(context.Background()); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if got := again.Categories(); !reflect.DeepEqual(got, before) {
		t.Fatalf("second round trip mismatch: %#v", got)
	}
}

func TestLoadReversesPersistedOrder(t *testing.T) {
	backend := storage.NewMemoryBackend()
	blob := `[
		{"id": 1, "title": "Older", "tasks": [{"id": 10, "text": "first", "completed": false}, {"id": 11, "text": "second", "completed": true}]},
		{"id": 2, "title": "Newer", "tasks": []}
	]`
	if err := backend.Set(context.Background(), config.DefaultKey, blob); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := New(backend)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	got := s.Categories()
	if len(got) != 2 || got[0].Title != "Newer" || got[1].Title != "Older" {
		t.Fatalf("expected newest-first categories, got %#v", got)
	}
	if want := []string{"second", "first"}; !reflect.DeepEqual(taskTexts(got[1]), want) {
		t.Fatalf("task order = %v, want %v", taskTexts(got[1]), want)
	}
	if !got[1].Tasks[0].Completed {
		t.Fatal("expected completed flag preserved")
	}
}

func TestLoadSeedsIDGenerator(t *testing.T) {
	backend := storage.NewMemoryBackend()
	clock := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	future := clock.UnixMilli() + 10_000
	blob := `[{"id": ` + itoa(future) + `, "title": "Future", "tasks": []}]`
	if err := backend.Set(context.Background(), config.DefaultKey, blob); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s := New(backend, WithIDGenerator(model.NewIDGenerator(func() time.Time { return clock })))
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	c := mustAddCategory(t, s, "Now")
	if c.ID <= future {
		t.Fatalf("new id %d collides with loaded id %d", c.ID, future)
	}
}

func TestLoadMissingBlobIsEmpty(t *testing.T) {
	s, backend := newTestStore(t)
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	if backend.Writes() != 0 {
		t.Fatalf("load should not write, got %d writes", backend.Writes())
	}
}

func TestLoadMalformedBlobResetsAndLogs(t *testing.T) {
	cases := []string{
		`{not json`,
		`null`,
		`{"id": 1}`,
		`[{"id": "abc", "title": "Bad"}]`,
		`[{"id": 1, "title": "Bad", "tasks": [{"id": 2}]}]`,
	}
	for _, blob := range cases {
		backend := storage.NewMemoryBackend()
		if err := backend.Set(context.Background(), config.DefaultKey, blob); err != nil {
			t.Fatalf("seed: %v", err)
		}
		var buf bytes.Buffer
		logger := logging.NewWriter(&buf, config.Logging{Level: "debug", Format: "logfmt"})

		s := New(backend, WithLogger(logger))
		if err := s.Load(context.Background()); err != nil {
			t.Fatalf("load %q returned error: %v", blob, err)
		}
		if s.Len() != 0 {
			t.Fatalf("expected empty store for %q, got %#v", blob, s.Categories())
		}
		if !strings.Contains(buf.String(), "discarding saved data") {
			t.Fatalf("expected warning for %q, log: %q", blob, buf.String())
		}
	}
}

func TestLoadBackendErrorIsReturned(t *testing.T) {
	boom := errors.New("disk on fire")
	s := New(&failingBackend{Backend: storage.NewMemoryBackend(), getErr: boom})
	if err := s.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	boom := errors.New("read-only")
	s := New(&failingBackend{Backend: storage.NewMemoryBackend(), setErr: boom})

	c, err := s.AddCategory(context.Background(), "Work")
	if !errors.Is(err, boom) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if _, ok := s.Category(c.ID); !ok {
		t.Fatal("expected in-memory category despite persist failure")
	}
}

func TestCustomKey(t *testing.T) {
	backend := storage.NewMemoryBackend()
	s := New(backend, WithKey("other"))
	mustAddCategory(t, s, "Work")
	if _, err := backend.Get(context.Background(), "other"); err != nil {
		t.Fatalf("expected blob under custom key: %v", err)
	}
	if _, err := backend.Get(context.Background(), config.DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected default key untouched, got %v", err)
	}
	raw, err := s.Raw(context.Background())
	if err != nil || !strings.Contains(raw, `"title":"Work"`) {
		t.Fatalf("unexpected raw blob %q err=%v", raw, err)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s, _ := newTestStore(t)
	c := mustAddCategory(t, s, "Work")
	mustAddTask(t, s, c.ID, "Email")

	snap := s.Categories()
	snap[0].Title = "changed"
	snap[0].Tasks[0].Text = "changed"

	got, _ := s.Category(c.ID)
	if got.Title != "Work" || got.Tasks[0].Text != "Email" {
		t.Fatalf("snapshot mutation leaked into store: %#v", got)
	}
}

func TestResetRemovesBlob(t *testing.T) {
	s, backend := newTestStore(t)
	ctx := context.Background()
	mustAddCategory(t, s, "Work")

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d categories", s.Len())
	}
	if _, err := backend.Get(ctx, config.DefaultKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected blob removed, got %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset without blob: %v", err)
	}
}
