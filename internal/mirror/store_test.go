package mirror_test

import (
	"context"
	"errors"
	"testing"

	"fridgectl/internal/fridge"
	"fridgectl/internal/mirror"
	"fridgectl/internal/testsupport"
)

type fakeLister struct {
	items []fridge.InventoryItem
	err   error
	calls int
}

func (f *fakeLister) ListItems(ctx context.Context) ([]fridge.InventoryItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func openStore(t *testing.T) *mirror.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := mirror.Open(cfg, nil)
	if err != nil {
		t.Fatalf("open mirror: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close mirror: %v", err)
		}
	})
	return store
}

func TestRefreshReplacesCache(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	lister := &fakeLister{items: []fridge.InventoryItem{
		{ID: 1, Name: "Milk", Quantity: "2", Category: "Dairy"},
		{ID: 2, Name: "Eggs", Quantity: "10"},
	}}
	items, err := store.Refresh(ctx, lister)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "Eggs" || items[1].Name != "Milk" {
		t.Fatalf("expected name ordering, got %+v", items)
	}
	if items[0].Category != "General" {
		t.Fatalf("empty category should default, got %q", items[0].Category)
	}

	lister.items = []fridge.InventoryItem{{ID: 2, Name: "Eggs", Quantity: "8"}}
	items, err = store.Refresh(ctx, lister)
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != "8" {
		t.Fatalf("cache should be replaced wholesale, got %+v", items)
	}
}

func TestRefreshFailureLeavesCacheIntact(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	lister := &fakeLister{items: []fridge.InventoryItem{{ID: 1, Name: "Milk", Quantity: "1"}}}
	if _, err := store.Refresh(ctx, lister); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	lister.err = errors.New("backend down")
	if _, err := store.Refresh(ctx, lister); err == nil {
		t.Fatal("expected refresh error")
	}
	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Fatalf("failed refresh must not clear the cache, got %+v", items)
	}
}

func TestOptimisticRowSupersededNotMerged(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	rowID, err := store.ApplyOptimistic(ctx, mirror.Item{Name: "Butter", Quantity: "1"})
	if err != nil {
		t.Fatalf("apply optimistic: %v", err)
	}
	if rowID == 0 {
		t.Fatal("expected a row id")
	}

	found, err := store.FindByName(ctx, "butter")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || !found.Optimistic || found.ServerID != 0 {
		t.Fatalf("expected optimistic row without server id, got %+v", found)
	}

	lister := &fakeLister{items: []fridge.InventoryItem{{ID: 42, Name: "Butter", Quantity: "1"}}}
	if err := store.ReconcileAfterCommit(ctx, lister); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("optimistic row must be superseded, got %+v", items)
	}
	if items[0].ServerID != 42 || items[0].Optimistic {
		t.Fatalf("expected authoritative row, got %+v", items[0])
	}
}

func TestFindByNameFoldsCase(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	lister := &fakeLister{items: []fridge.InventoryItem{{ID: 3, Name: "Greek Yogurt", Quantity: "4"}}}
	if _, err := store.Refresh(ctx, lister); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	found, err := store.FindByName(ctx, "greek yogurt")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.ServerID != 3 {
		t.Fatalf("case-fold lookup failed: %+v", found)
	}

	missing, err := store.FindByName(ctx, "tofu")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown name, got %+v", missing)
	}
}

func TestOpenEnforcesSingleWriter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := mirror.Open(cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer first.Close()

	if _, err := mirror.Open(cfg, nil); !errors.Is(err, mirror.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ctx := context.Background()

	store, err := mirror.Open(cfg, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	lister := &fakeLister{items: []fridge.InventoryItem{{ID: 1, Name: "Milk", Quantity: "1"}}}
	if _, err := store.Refresh(ctx, lister); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := mirror.Open(cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	items, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" {
		t.Fatalf("expected persisted cache, got %+v", items)
	}
}
