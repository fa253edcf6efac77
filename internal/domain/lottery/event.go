package lottery

import (
	"fmt"
	"strings"
)

// Event categories. final_teaching events gate enrollment on survey
// completion and skip registry enrichment entirely.
const (
	CategoryGeneral       = "general"
	CategoryFinalTeaching = "final_teaching"
)

// Event statuses. An event is drawn at most once per epoch; a reset starts a
// new epoch by reverting to pending.
const (
	StatusPending = "pending"
	StatusDrawn   = "drawn"
)

var allowedCategories = map[string]struct{}{
	CategoryGeneral:       {},
	CategoryFinalTeaching: {},
}

// NormalizeCategory trims the input and validates it against the known
// categories. An empty input normalizes to general.
func NormalizeCategory(category string) (string, error) {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return CategoryGeneral, nil
	}

	if _, ok := allowedCategories[trimmed]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return trimmed, nil
}

// UsesRegistryEnrichment reports whether enrollment for this category
// consults the student registry. final_teaching imports carry their identity
// fields inline and are trusted as supplied.
func UsesRegistryEnrichment(category string) bool {
	return category == CategoryGeneral
}
