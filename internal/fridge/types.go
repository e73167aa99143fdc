package fridge

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Quantity tolerates both string and numeric encodings. The backend returns
// numbers on some paths and free text like "1 carton" on others.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*q = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

// Int reports the quantity as an integer when it parses as one.
func (q Quantity) Int() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(string(q)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func (q Quantity) String() string { return string(q) }

// InventoryItem mirrors the backend's item record.
type InventoryItem struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Quantity       Quantity `json:"quantity"`
	Category       string   `json:"category"`
	ExpirationDate string   `json:"expiration_date,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	ImageData      string   `json:"image_data,omitempty"`
}

// AddedItem is one entry of an upload response's added list.
type AddedItem struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
}

// RemovedItem is one entry of an upload response's removed list.
type RemovedItem struct {
	Name     string   `json:"name"`
	Quantity Quantity `json:"quantity"`
}

// ProposedUpdate is an ambiguous quantity change the backend wants the user
// to confirm before it commits.
type ProposedUpdate struct {
	Name            string   `json:"name"`
	NewQuantity     Quantity `json:"new_quantity"`
	OldQuantity     Quantity `json:"old_quantity"`
	SimilarityScore float64  `json:"similarity_score"`
	Action          string   `json:"action,omitempty"`
	ImageData       string   `json:"image_data,omitempty"`
}

// SimilarMatch records an image the backend recognized against an existing
// item without proposing a change.
type SimilarMatch struct {
	Name            string  `json:"name"`
	SimilarityScore float64 `json:"similarity_score"`
}

// ItemError is a per-item processing error. The backend emits both plain
// strings and {name, error} objects, so decoding accepts either.
type ItemError struct {
	Name    string
	Message string
}

func (e *ItemError) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		e.Message = strings.TrimSpace(s)
		return nil
	}
	var obj struct {
		Name    string `json:"name"`
		Item    string `json:"item"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Name = obj.Name
	if e.Name == "" {
		e.Name = obj.Item
	}
	e.Message = obj.Error
	if e.Message == "" {
		e.Message = obj.Message
	}
	return nil
}

func (e ItemError) String() string {
	if e.Name == "" {
		return e.Message
	}
	return e.Name + ": " + e.Message
}

// ReconciliationResult is the normalized outcome of one image submission.
// A name appears in at most one of Added, Removed, and Pending; when the
// backend reports conflicting fates the pending entry wins because it is
// the one that still needs a user decision.
type ReconciliationResult struct {
	Added   []AddedItem
	Removed []RemovedItem
	Pending []ProposedUpdate
	Similar []SimilarMatch
	Errors  []ItemError
	Notes   []string
}

// HasPending reports whether the result requires user confirmation.
func (r *ReconciliationResult) HasPending() bool {
	return r != nil && len(r.Pending) > 0
}

// SummaryNotes renders the user-facing outcome lines for the result,
// following the glyph conventions the notification classifier grades.
func (r *ReconciliationResult) SummaryNotes() []string {
	if r == nil {
		return nil
	}
	notes := append([]string(nil), r.Notes...)
	if len(r.Added) > 0 {
		notes = append(notes, "✅ Added: "+joinNames(addedNames(r.Added)))
	}
	if len(r.Removed) > 0 {
		notes = append(notes, "✅ Removed: "+joinNames(removedNames(r.Removed)))
	}
	if len(r.Pending) > 0 {
		notes = append(notes, "🔄 Updated: "+joinNames(pendingNames(r.Pending))+" (awaiting confirmation)")
	}
	if len(r.Similar) > 0 {
		notes = append(notes, "🔍 Recognized: "+joinNames(similarNames(r.Similar)))
	}
	if len(r.Errors) > 0 {
		parts := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			parts = append(parts, e.String())
		}
		notes = append(notes, "⚠️ Some issues occurred: "+strings.Join(parts, "; "))
	}
	return notes
}

func addedNames(items []AddedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func removedNames(items []RemovedItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func pendingNames(items []ProposedUpdate) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func similarNames(items []SimilarMatch) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// QuantityUpdate is one entry of a confirm-updates request or response.
type QuantityUpdate struct {
	ItemID      int      `json:"item_id"`
	NewQuantity Quantity `json:"new_quantity"`
}

// ConfirmResult reports which updates the backend applied.
type ConfirmResult struct {
	Updated []QuantityUpdate `json:"updated"`
	Errors  []ItemError      `json:"errors"`
}

// NewItem is the request body for creating an inventory item, used by both
// manual adds and the reject-as-new path.
type NewItem struct {
	Name      string   `json:"name"`
	Quantity  Quantity `json:"quantity"`
	ImageURL  string   `json:"image_url,omitempty"`
	ImageData string   `json:"image_data,omitempty"`
}

// ItemPatch carries the fields of a partial item update. Nil fields are
// left untouched server-side.
type ItemPatch struct {
	Name           *string   `json:"name,omitempty"`
	Quantity       *Quantity `json:"quantity,omitempty"`
	Category       *string   `json:"category,omitempty"`
	ExpirationDate *string   `json:"expiration_date,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// RejectRequest reverts a proposed update server-side and records the
// evidence image as a new item.
type RejectRequest struct {
	ItemName         string   `json:"item_name"`
	OriginalQuantity Quantity `json:"original_quantity"`
	ImageData        string   `json:"image_data,omitempty"`
}
