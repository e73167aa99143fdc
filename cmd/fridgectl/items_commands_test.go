package main

import (
	"strings"
	"testing"

	"fridgectl/internal/fridge"
)

func TestItemsListRendersInventory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(
		fridge.InventoryItem{ID: 1, Name: "Milk", Quantity: "2", Category: "Dairy"},
		fridge.InventoryItem{ID: 2, Name: "Eggs", Quantity: "12", Category: "Dairy"},
	)

	out, _, err := runCLI(t, []string{"items", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	requireContains(t, out, "Milk")
	requireContains(t, out, "Eggs")
	requireContains(t, out, "Dairy")
}

func TestItemsListCachedSkipsBackend(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(fridge.InventoryItem{ID: 1, Name: "Milk", Quantity: "2"})

	// First run populates the mirror.
	if _, _, err := runCLI(t, []string{"items", "list"}, env.configPath); err != nil {
		t.Fatalf("items list: %v", err)
	}
	env.backend.srv.Close()

	out, _, err := runCLI(t, []string{"items", "list", "--cached"}, env.configPath)
	if err != nil {
		t.Fatalf("items list --cached: %v", err)
	}
	requireContains(t, out, "Milk")
}

func TestItemsAddCreatesViaBackend(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"items", "add", "Tofu", "3"}, env.configPath)
	if err != nil {
		t.Fatalf("items add: %v", err)
	}
	requireContains(t, out, "Added Tofu")
	if env.backend.creates != 1 {
		t.Fatalf("expected 1 create call, got %d", env.backend.creates)
	}

	out, _, err = runCLI(t, []string{"items", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	requireContains(t, out, "Tofu")
}

func TestItemsSetUpdatesFields(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(fridge.InventoryItem{ID: 4, Name: "Milk", Quantity: "2"})

	out, _, err := runCLI(t, []string{"items", "set", "4", "--quantity", "5", "--expires", "2026-09-04"}, env.configPath)
	if err != nil {
		t.Fatalf("items set: %v", err)
	}
	requireContains(t, out, "Updated Milk")

	env.backend.mu.Lock()
	item := env.backend.items[0]
	env.backend.mu.Unlock()
	if item.Quantity.String() != "5" || item.ExpirationDate != "2026-09-04" {
		t.Fatalf("unexpected item after set: %+v", item)
	}
}

func TestItemsSetWithoutFlagsFails(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(fridge.InventoryItem{ID: 4, Name: "Milk", Quantity: "2"})

	_, _, err := runCLI(t, []string{"items", "set", "4"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Fatalf("expected nothing-to-update error, got %v", err)
	}
}

func TestItemsRemoveDeletesItem(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(fridge.InventoryItem{ID: 9, Name: "Milk", Quantity: "2"})

	out, _, err := runCLI(t, []string{"items", "rm", "9"}, env.configPath)
	if err != nil {
		t.Fatalf("items rm: %v", err)
	}
	requireContains(t, out, "Deleted item 9")
	if env.backend.deletes != 1 {
		t.Fatalf("expected 1 delete call, got %d", env.backend.deletes)
	}

	out, _, err = runCLI(t, []string{"items", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("items list: %v", err)
	}
	requireContains(t, out, "No items in inventory.")
}
