package fridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"fridgectl/internal/fridge"
)

func TestListItemsAcceptsBareArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/inventory/items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`[{"id":1,"name":"Milk","quantity":"2","category":"Dairy"}]`))
	}))

	items, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Milk" || items[0].ID != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListItemsAcceptsWrappedArray(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":7,"name":"Eggs","quantity":10}]}`))
	}))

	items, err := client.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems returned error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 7 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if q, ok := items[0].Quantity.Int(); !ok || q != 10 {
		t.Fatalf("numeric quantity should decode, got %q", items[0].Quantity)
	}
}

func TestCreateItemRequiresName(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if _, err := client.CreateItem(context.Background(), fridge.NewItem{Quantity: "1"}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestConfirmUpdatesSendsBatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/inventory/confirm-updates" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var updates []fridge.QuantityUpdate
		if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(updates) != 2 || updates[0].ItemID != 3 || updates[1].NewQuantity != "5" {
			t.Errorf("unexpected batch: %+v", updates)
		}
		w.Write([]byte(`{"updated":[{"item_id":3,"new_quantity":"4"}],"errors":["Cheese: not found"]}`))
	}))

	result, err := client.ConfirmUpdates(context.Background(), []fridge.QuantityUpdate{
		{ItemID: 3, NewQuantity: "4"},
		{ItemID: 9, NewQuantity: "5"},
	})
	if err != nil {
		t.Fatalf("ConfirmUpdates returned error: %v", err)
	}
	if len(result.Updated) != 1 || result.Updated[0].ItemID != 3 {
		t.Fatalf("unexpected updated list: %+v", result.Updated)
	}
	if len(result.Errors) != 1 || result.Errors[0].Message != "Cheese: not found" {
		t.Fatalf("string errors should decode, got %+v", result.Errors)
	}
}

func TestConfirmUpdatesEmptyBatchSkipsNetwork(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty batch")
	}))

	if _, err := client.ConfirmUpdates(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should succeed: %v", err)
	}
}

func TestUpdateAndDeleteItemPaths(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/api/inventory/items/12":
			var patch fridge.ItemPatch
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				t.Fatalf("decode patch: %v", err)
			}
			if patch.Name != nil {
				t.Errorf("name should be omitted, got %v", *patch.Name)
			}
			if patch.Quantity == nil || *patch.Quantity != "3" {
				t.Errorf("unexpected quantity patch: %+v", patch.Quantity)
			}
			w.Write([]byte(`{"id":12,"name":"Milk","quantity":"3"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/inventory/items/12":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	quantity := fridge.Quantity("3")
	updated, err := client.UpdateItem(context.Background(), 12, fridge.ItemPatch{Quantity: &quantity})
	if err != nil {
		t.Fatalf("UpdateItem returned error: %v", err)
	}
	if updated.Quantity != "3" {
		t.Fatalf("unexpected updated item: %+v", updated)
	}
	if err := client.DeleteItem(context.Background(), 12); err != nil {
		t.Fatalf("DeleteItem returned error: %v", err)
	}
}

func TestRejectUpdateBinding(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/inventory/reject-update" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body fridge.RejectRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.ItemName != "Eggs" || body.OriginalQuantity != "6" {
			t.Errorf("unexpected body: %+v", body)
		}
		w.Write([]byte(`{}`))
	}))

	err := client.RejectUpdate(context.Background(), fridge.RejectRequest{ItemName: "Eggs", OriginalQuantity: "6"})
	if err != nil {
		t.Fatalf("RejectUpdate returned error: %v", err)
	}
}

func TestStatusErrorCarriesBackendMessage(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "item not found"}`))
	}))

	err := client.DeleteItem(context.Background(), 99)
	var statusErr *fridge.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Message != "item not found" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if !strings.Contains(err.Error(), "item not found") {
		t.Fatalf("error text should carry message: %v", err)
	}
}

func TestFoldNameMatchesAcrossCase(t *testing.T) {
	if fridge.FoldName("  Milk ") != fridge.FoldName("mIlK") {
		t.Fatal("expected case-fold match")
	}
	if fridge.FoldName("Milk") == fridge.FoldName("Eggs") {
		t.Fatal("distinct names should not fold together")
	}
}
