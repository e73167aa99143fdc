package mirror

import (
	"time"

	"fridgectl/internal/fridge"
)

// DefaultCategory is applied when the backend leaves category empty.
const DefaultCategory = "General"

// Item is one cached inventory record. A zero ServerID marks a row that is
// not yet persisted server-side; those exist only as optimistic entries.
type Item struct {
	RowID          int64
	ServerID       int64
	Name           string
	Quantity       string
	Category       string
	ExpirationDate string
	ImageURL       string
	ImageData      string
	Optimistic     bool
	UpdatedAt      time.Time
}

// fromInventoryItem converts an authoritative backend record.
func fromInventoryItem(item fridge.InventoryItem) Item {
	category := item.Category
	if category == "" {
		category = DefaultCategory
	}
	return Item{
		ServerID:       int64(item.ID),
		Name:           item.Name,
		Quantity:       item.Quantity.String(),
		Category:       category,
		ExpirationDate: item.ExpirationDate,
		ImageURL:       item.ImageURL,
		ImageData:      item.ImageData,
	}
}
