package fridge

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldName canonicalizes an item name for matching. The backend lowercases
// names on some paths and preserves case on others, so comparisons are
// case-fold aware everywhere. Casers are stateful, so build one per call.
func foldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// FoldName is the exported form used by the mirror and the engine when
// matching backend names against local records.
func FoldName(name string) string {
	return foldName(name)
}
