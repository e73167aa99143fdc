package reconcile

import (
	"sort"

	"fridgectl/internal/fridge"
)

// PendingUpdate is a proposed quantity change awaiting the user's decision.
// It lives only between a submission response and that decision; it is
// never written to the mirror directly.
type PendingUpdate struct {
	Name            string
	NewQuantity     fridge.Quantity
	OldQuantity     fridge.Quantity
	SimilarityScore float64
	ImageData       string
}

func buildPending(proposed []fridge.ProposedUpdate) map[string]PendingUpdate {
	pending := make(map[string]PendingUpdate, len(proposed))
	for _, update := range proposed {
		pending[fridge.FoldName(update.Name)] = PendingUpdate{
			Name:            update.Name,
			NewQuantity:     update.NewQuantity,
			OldQuantity:     update.OldQuantity,
			SimilarityScore: update.SimilarityScore,
			ImageData:       update.ImageData,
		}
	}
	return pending
}

func sortedPending(pending map[string]PendingUpdate) []PendingUpdate {
	view := make([]PendingUpdate, 0, len(pending))
	for _, entry := range pending {
		view = append(view, entry)
	}
	sort.Slice(view, func(i, j int) bool {
		return fridge.FoldName(view[i].Name) < fridge.FoldName(view[j].Name)
	})
	return view
}
