package main

import (
	"strings"
	"testing"
	"time"

	"fridgectl/internal/fridge"
)

func TestExpirationsReportsBuckets(t *testing.T) {
	env := setupCLITestEnv(t)
	today := time.Now()
	env.backend.seed(
		fridge.InventoryItem{ID: 1, Name: "Yogurt", Quantity: "1", ExpirationDate: today.AddDate(0, 0, -2).Format("2006-01-02")},
		fridge.InventoryItem{ID: 2, Name: "Ham", Quantity: "1", ExpirationDate: today.AddDate(0, 0, 2).Format("2006-01-02")},
		fridge.InventoryItem{ID: 3, Name: "Butter", Quantity: "1", ExpirationDate: today.AddDate(0, 0, 30).Format("2006-01-02")},
	)

	out, _, err := runCLI(t, []string{"expirations"}, env.configPath)
	if err != nil {
		t.Fatalf("expirations: %v", err)
	}
	requireContains(t, out, "Yogurt")
	requireContains(t, out, "Ham")
	requireContains(t, out, "expired")
	if strings.Contains(out, "Butter") {
		t.Fatalf("expected Butter outside the warning window, got %q", out)
	}
}

func TestExpirationsEmptyReport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.backend.seed(fridge.InventoryItem{ID: 1, Name: "Salt", Quantity: "1"})

	out, _, err := runCLI(t, []string{"expirations"}, env.configPath)
	if err != nil {
		t.Fatalf("expirations: %v", err)
	}
	requireContains(t, out, "Nothing is expired or expiring soon.")
}
