package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"fridgectl/internal/fridge"
)

// fakeFridgeServer is an in-memory stand-in for the fridge backend. It
// serves the inventory endpoints against a mutable item list so command
// tests can observe both responses and side effects.
type fakeFridgeServer struct {
	t *testing.T

	mu     sync.Mutex
	items  []fridge.InventoryItem
	nextID int

	// uploadBody and uploadStatus, when set, override the default empty
	// success response for image submissions.
	uploadBody   string
	uploadStatus int

	uploads  int
	confirms int
	creates  int
	deletes  int
	rejects  int

	srv *httptest.Server
}

func newFakeFridgeServer(t *testing.T) *fakeFridgeServer {
	t.Helper()
	f := &fakeFridgeServer{t: t, nextID: 1}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/inventory/items", f.handleItems)
	mux.HandleFunc("/api/inventory/items/", f.handleItem)
	mux.HandleFunc("/api/inventory/upload-image-pair", f.handleUpload)
	mux.HandleFunc("/api/inventory/confirm-updates", f.handleConfirm)
	mux.HandleFunc("/api/inventory/reject-update", f.handleReject)
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeFridgeServer) seed(items ...fridge.InventoryItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range items {
		if item.ID >= f.nextID {
			f.nextID = item.ID + 1
		}
	}
	f.items = append(f.items, items...)
}

func (f *fakeFridgeServer) handleItems(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"items": f.items})
	case http.MethodPost:
		f.creates++
		var item fridge.NewItem
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created := fridge.InventoryItem{ID: f.nextID, Name: item.Name, Quantity: item.Quantity}
		f.nextID++
		f.items = append(f.items, created)
		json.NewEncoder(w).Encode(created)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *fakeFridgeServer) handleItem(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/inventory/items/"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	idx := -1
	for i, item := range f.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		http.Error(w, `{"error":"item not found"}`, http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var patch fridge.ItemPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if patch.Name != nil {
			f.items[idx].Name = *patch.Name
		}
		if patch.Quantity != nil {
			f.items[idx].Quantity = *patch.Quantity
		}
		if patch.Category != nil {
			f.items[idx].Category = *patch.Category
		}
		if patch.ExpirationDate != nil {
			f.items[idx].ExpirationDate = *patch.ExpirationDate
		}
		json.NewEncoder(w).Encode(f.items[idx])
	case http.MethodDelete:
		f.deletes++
		f.items = append(f.items[:idx], f.items[idx+1:]...)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (f *fakeFridgeServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.uploadBody != "" {
		status := f.uploadStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		fmt.Fprint(w, f.uploadBody)
		return
	}
	fmt.Fprint(w, `{"added":[],"removed":[],"updated":[],"errors":[]}`)
}

func (f *fakeFridgeServer) handleConfirm(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms++
	var updates []fridge.QuantityUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for _, update := range updates {
		for i := range f.items {
			if f.items[i].ID == update.ItemID {
				f.items[i].Quantity = update.NewQuantity
			}
		}
	}
	json.NewEncoder(w).Encode(map[string]any{"updated": updates, "errors": []string{}})
}

func (f *fakeFridgeServer) handleReject(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejects++
	fmt.Fprint(w, `{}`)
}

type cliTestEnv struct {
	backend    *fakeFridgeServer
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	backend := newFakeFridgeServer(t)

	configPath := filepath.Join(homeDir, ".config", "fridgectl", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	content := fmt.Sprintf("[server]\nbase_url = %q\n\n[cache]\ndir = %q\n",
		backend.srv.URL, filepath.Join(base, "cache"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{
		backend:    backend,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeImageFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
