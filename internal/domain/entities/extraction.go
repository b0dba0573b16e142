package entities

import "time"

// ItemPriority constants for extracted and persisted items
const (
	ItemPriorityHigh   = "high"
	ItemPriorityMedium = "medium"
	ItemPriorityLow    = "low"
)

// IsValidPriority reports whether p is a known priority
func IsValidPriority(p string) bool {
	switch p {
	case ItemPriorityHigh, ItemPriorityMedium, ItemPriorityLow:
		return true
	}
	return false
}

// ExtractionResult represents the structured output of one AI extraction run.
// It is produced once per processing run and never mutated afterwards.
type ExtractionResult struct {
	Summary     string          `json:"summary"`
	ActionItems []ExtractedItem `json:"actionItems"`
}

// ExtractedItem is one action item as reported by the model, before speaker
// resolution and assignment
type ExtractedItem struct {
	Description         string     `json:"description"`
	SuggestedOwnerLabel string     `json:"owner,omitempty"`
	SuggestedDeadline   *time.Time `json:"deadline,omitempty"`
	Priority            string     `json:"priority"`
}
