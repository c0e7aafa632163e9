package state

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/sandeepkv93/blinkdo/internal/model"
)

func TestSnapshotIsACopy(t *testing.T) {
	store := New(model.DefaultAppData())
	if err := store.Update(func(data *model.AppData) {
		data.Todos = append(data.Todos, model.Task{ID: "a", Title: "a", ListID: model.StringPtr("default")})
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	snap, err := store.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	*snap.Todos[0].ListID = "elsewhere"
	snap.Todos = nil

	again, _ := store.Snapshot()
	if len(again.Todos) != 1 || *again.Todos[0].ListID != "default" {
		t.Fatalf("snapshot leaked into store: %+v", again.Todos)
	}
}

func TestPanicPoisonsDataRegionOnly(t *testing.T) {
	store := New(model.DefaultAppData())
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		_ = store.Update(func(*model.AppData) { panic("boom") })
	}()

	if _, err := store.Snapshot(); !errors.Is(err, ErrPoisoned) {
		t.Fatalf("expected ErrPoisoned, got %v", err)
	}
	if err := markNow(store, "a"); err != nil {
		t.Fatalf("notified region must stay usable: %v", err)
	}
}

func TestNotifiedSetOperations(t *testing.T) {
	store := New(model.DefaultAppData())
	for _, id := range []string{"a", "b", "c"} {
		if err := markNow(store, id); err != nil {
			t.Fatalf("mark %s: %v", id, err)
		}
	}
	if err := store.Forget("b"); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if err := store.Retain(map[string]bool{"a": true, "b": true}); err != nil {
		t.Fatalf("retain: %v", err)
	}
	got, err := store.NotifiedIDs()
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("unexpected notified ids: %v", got)
	}
	if err := store.ForgetAll(); err != nil {
		t.Fatalf("forget all: %v", err)
	}
	if ok, _ := store.IsNotified("a"); ok {
		t.Fatal("expected empty set after ForgetAll")
	}
}

func TestStoreStressConcurrentAccess(t *testing.T) {
	store := New(model.DefaultAppData())

	const workers = 8
	const perWorker = 200
	var wg sync.WaitGroup
	wg.Add(workers * 2)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				if err := store.Update(func(data *model.AppData) {
					data.Todos = append(data.Todos, model.Task{ID: id, Title: id})
				}); err != nil {
					t.Errorf("update failed: %v", err)
					return
				}
				if err := markNow(store, id); err != nil {
					t.Errorf("mark failed: %v", err)
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if _, err := store.Snapshot(); err != nil {
					t.Errorf("snapshot failed: %v", err)
					return
				}
				if _, err := store.NotifiedIDs(); err != nil {
					t.Errorf("notified ids failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	snap, _ := store.Snapshot()
	if got := len(snap.Todos); got != workers*perWorker {
		t.Fatalf("unexpected task count: got=%d want=%d", got, workers*perWorker)
	}
	ids, _ := store.NotifiedIDs()
	if len(ids) != workers*perWorker {
		t.Fatalf("unexpected notified count: got=%d", len(ids))
	}
}

func markNow(s *Store, id string) error {
	tok, err := s.Token()
	if err != nil {
		return err
	}
	_, err = s.MarkNotified(id, tok)
	return err
}

func TestMarkNotifiedSkipsIdsRearmedAfterToken(t *testing.T) {
	store := New(model.DefaultAppData())
	tok, err := store.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if err := store.Forget("a"); err != nil {
		t.Fatalf("forget: %v", err)
	}

	if marked, err := store.MarkNotified("a", tok); err != nil || marked {
		t.Fatalf("re-armed id must not be marked with an older token: marked=%v err=%v", marked, err)
	}
	if marked, err := store.MarkNotified("b", tok); err != nil || !marked {
		t.Fatalf("untouched id must be marked: marked=%v err=%v", marked, err)
	}

	tok, _ = store.Token()
	if err := store.ForgetAll(); err != nil {
		t.Fatalf("forget all: %v", err)
	}
	if marked, _ := store.MarkNotified("b", tok); marked {
		t.Fatal("ForgetAll must invalidate earlier tokens")
	}
	tok, _ = store.Token()
	if marked, _ := store.MarkNotified("b", tok); !marked {
		t.Fatal("a fresh token must mark")
	}
}
