package controller_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"tasklist/internal/controller"
	"tasklist/internal/service"
	"tasklist/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestNew_EmptyState(t *testing.T) {
	ctl := controller.New(testutil.NewFakeStore())

	if got := ctl.Tasks(); len(got) != 0 {
		t.Errorf("expected no tasks, got %v", got)
	}
	if got := ctl.Draft(); got != (service.Draft{}) {
		t.Errorf("expected empty draft, got %+v", got)
	}
}

func TestLoad_ReplacesSnapshot(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	store.AddTask(service.Task{ID: "2", Title: "B", Completed: true})

	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := store.Snapshot()
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestLoad_FailureKeepsPreviousSnapshot(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})

	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	store.ListTasksErr = errors.New("connection refused")
	store.AddTask(service.Task{ID: "2", Title: "B"})

	err := ctl.Load(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, store.ListTasksErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
	if got := ctl.Tasks(); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected previous snapshot, got %+v", got)
	}
}

func TestTasks_ReturnsCopy(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	got := ctl.Tasks()
	got[0].Title = "changed"

	if ctl.Tasks()[0].Title != "A" {
		t.Error("mutating the returned slice changed controller state")
	}
}

func TestUpdateDraft_MergesPartial(t *testing.T) {
	ctl := controller.New(testutil.NewFakeStore())

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("Buy milk")})
	ctl.UpdateDraft(controller.DraftPatch{Description: strPtr("2 litres")})
	ctl.UpdateDraft(controller.DraftPatch{})

	want := service.Draft{Title: "Buy milk", Description: "2 litres"}
	if got := ctl.Draft(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestUpdateDraft_NoNetwork(t *testing.T) {
	store := testutil.NewFakeStore()
	ctl := controller.New(store)

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("x")})

	if store.Calls() != 0 {
		t.Errorf("expected no store calls, got %d", store.Calls())
	}
}

func TestCreate_EmptyTitleIsNoOp(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	before := store.Calls()

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr(""), Description: strPtr("d")})
	err := ctl.Create(context.Background())

	if !errors.Is(err, controller.ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if store.Calls() != before {
		t.Errorf("expected no store calls, got %d", store.Calls()-before)
	}
	if got := ctl.Tasks(); len(got) != 1 {
		t.Errorf("expected tasks unchanged, got %+v", got)
	}
	if got := ctl.Draft().Description; got != "d" {
		t.Errorf("expected draft kept, got description %q", got)
	}
}

func TestCreate_WhitespaceTitleIsSent(t *testing.T) {
	for _, title := range []string{"  ", "\t", " x "} {
		store := testutil.NewFakeStore()
		ctl := controller.New(store)

		ctl.UpdateDraft(controller.DraftPatch{Title: strPtr(title)})
		if err := ctl.Create(context.Background()); err != nil {
			t.Fatalf("title %q: Create failed: %v", title, err)
		}

		if store.CreateCalls != 1 {
			t.Errorf("title %q: expected 1 create call, got %d", title, store.CreateCalls)
		}
		tasks := ctl.Tasks()
		if len(tasks) != 1 || tasks[0].Title != title {
			t.Errorf("title %q: expected task with title as typed, got %+v", title, tasks)
		}
	}
}

// editingStore edits the controller's draft while CreateTask is running.
type editingStore struct {
	*testutil.FakeStore
	ctl *controller.Controller
}

func (s *editingStore) CreateTask(ctx context.Context, task service.NewTask) error {
	s.ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("next one")})
	return s.FakeStore.CreateTask(ctx, task)
}

func TestCreate_KeepsDraftEditedDuringRequest(t *testing.T) {
	store := &editingStore{FakeStore: testutil.NewFakeStore()}
	ctl := controller.New(store)
	store.ctl = ctl

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("first"), Description: strPtr("d")})
	if err := ctl.Create(context.Background()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if got := store.Snapshot(); len(got) != 1 || got[0].Title != "first" {
		t.Errorf("expected submitted draft stored, got %+v", got)
	}
	want := service.Draft{Title: "next one", Description: "d"}
	if got := ctl.Draft(); got != want {
		t.Errorf("expected edited draft %+v kept, got %+v", want, got)
	}
}

func TestCreate_SendsDraftClearsAndReloads(t *testing.T) {
	store := testutil.NewFakeStore()
	ctl := controller.New(store)

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("B"), Description: strPtr("d")})
	if err := ctl.Create(context.Background()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if store.CreateCalls != 1 || store.ListCalls != 1 {
		t.Errorf("expected 1 create and 1 list call, got %d and %d", store.CreateCalls, store.ListCalls)
	}
	want := []service.Task{{ID: "1", Title: "B", Description: "d", Completed: false}}
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if got := ctl.Draft(); got != (service.Draft{}) {
		t.Errorf("expected draft cleared, got %+v", got)
	}
}

func TestCreate_FailureKeepsDraftAndSkipsReload(t *testing.T) {
	store := testutil.NewFakeStore()
	store.CreateTaskErr = errors.New("500 internal error")
	ctl := controller.New(store)

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("B")})
	err := ctl.Create(context.Background())

	if !errors.Is(err, store.CreateTaskErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if store.ListCalls != 0 {
		t.Errorf("expected no reload, got %d list calls", store.ListCalls)
	}
	if got := ctl.Draft().Title; got != "B" {
		t.Errorf("expected draft kept, got %q", got)
	}
}

func TestToggleComplete_InvertsOnlyCompleted(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A", Description: "x"})
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	task := ctl.Tasks()[0]
	if err := ctl.ToggleComplete(context.Background(), task); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}

	want := service.Task{ID: "1", Title: "A", Description: "x", Completed: true}
	if got := ctl.Tasks(); len(got) != 1 || got[0] != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// And back again.
	if err := ctl.ToggleComplete(context.Background(), ctl.Tasks()[0]); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}
	if ctl.Tasks()[0].Completed {
		t.Error("expected task reopened")
	}
}

func TestToggleComplete_FailureSkipsReload(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	store.UpdateTaskErr = errors.New("boom")

	if err := ctl.ToggleComplete(context.Background(), ctl.Tasks()[0]); err == nil {
		t.Fatal("expected error")
	}
	if store.ListCalls != 1 {
		t.Errorf("expected no reload after failure, got %d list calls", store.ListCalls)
	}
	if ctl.Tasks()[0].Completed {
		t.Error("snapshot changed after failed update")
	}
}

func TestDelete_RemovesAndReloads(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	store.AddTask(service.Task{ID: "2", Title: "B"})
	ctl := controller.New(store)

	if err := ctl.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := ctl.Find("2"); !errors.Is(err, controller.ErrTaskNotLoaded) {
		t.Errorf("expected task 2 absent, got %v", err)
	}
	if _, err := ctl.Find("1"); err != nil {
		t.Errorf("expected task 1 present, got %v", err)
	}
}

func TestDelete_UnknownIDReturnsStoreError(t *testing.T) {
	store := testutil.NewFakeStore()
	ctl := controller.New(store)

	err := ctl.Delete(context.Background(), "nope")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if store.ListCalls != 0 {
		t.Errorf("expected no reload, got %d list calls", store.ListCalls)
	}
}

func TestAt_OutOfRange(t *testing.T) {
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A"})
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := ctl.At(0); err == nil {
		t.Error("expected error for position 0")
	}
	if _, err := ctl.At(2); err == nil {
		t.Error("expected error for position 2")
	}
	if task, err := ctl.At(1); err != nil || task.ID != "1" {
		t.Errorf("expected task 1, got %+v, %v", task, err)
	}
}

// Load, add, toggle, delete end to end.
func TestScenario_LoadCreateToggleDelete(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewFakeStore()
	store.AddTask(service.Task{ID: "1", Title: "A", Description: "", Completed: false})
	ctl := controller.New(store)

	if err := ctl.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []service.Task{{ID: "1", Title: "A"}}
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after load: expected %+v, got %+v", want, got)
	}

	ctl.UpdateDraft(controller.DraftPatch{Title: strPtr("B"), Description: strPtr("d")})
	if err := ctl.Create(ctx); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	want = []service.Task{{ID: "1", Title: "A"}, {ID: "2", Title: "B", Description: "d"}}
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after create: expected %+v, got %+v", want, got)
	}

	task1, err := ctl.Find("1")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if err := ctl.ToggleComplete(ctx, task1); err != nil {
		t.Fatalf("ToggleComplete failed: %v", err)
	}
	want = []service.Task{{ID: "1", Title: "A", Completed: true}, {ID: "2", Title: "B", Description: "d"}}
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after toggle: expected %+v, got %+v", want, got)
	}

	if err := ctl.Delete(ctx, "2"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	want = []service.Task{{ID: "1", Title: "A", Completed: true}}
	if got := ctl.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("after delete: expected %+v, got %+v", want, got)
	}
}

// gatedStore blocks the first ListTasks call until release is closed.
type gatedStore struct {
	*testutil.FakeStore
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
	stale   []service.Task
}

func (g *gatedStore) ListTasks(ctx context.Context) ([]service.Task, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	g.mu.Unlock()

	if first {
		close(g.started)
		<-g.release
		return g.stale, nil
	}
	return g.FakeStore.ListTasks(ctx)
}

func TestLoad_StaleResponseIsDropped(t *testing.T) {
	fresh := testutil.NewFakeStore()
	fresh.AddTask(service.Task{ID: "1", Title: "fresh"})
	store := &gatedStore{
		FakeStore: fresh,
		started:   make(chan struct{}),
		release:   make(chan struct{}),
		stale:     []service.Task{{ID: "1", Title: "stale"}},
	}
	ctl := controller.New(store)

	done := make(chan error, 1)
	go func() { done <- ctl.Load(context.Background()) }()
	<-store.started

	// Issued second, resolves first.
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first Load failed: %v", err)
	}

	got := ctl.Tasks()
	if len(got) != 1 || got[0].Title != "fresh" {
		t.Errorf("expected the newest load to win, got %+v", got)
	}
}

func TestConcurrentOperations(t *testing.T) {
	store := testutil.NewFakeStore()
	for i := 0; i < 10; i++ {
		store.AddTask(service.Task{ID: string(rune('a' + i)), Title: "t"})
	}
	ctl := controller.New(store)
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var wg sync.WaitGroup
	for _, task := range ctl.Tasks() {
		wg.Add(1)
		go func(task service.Task) {
			defer wg.Done()
			if err := ctl.ToggleComplete(context.Background(), task); err != nil {
				t.Errorf("ToggleComplete(%s) failed: %v", task.ID, err)
			}
		}(task)
	}
	wg.Wait()

	// Settle with a final load; every task is completed in the store.
	if err := ctl.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, task := range ctl.Tasks() {
		if !task.Completed {
			t.Errorf("task %s not completed", task.ID)
		}
	}
}
