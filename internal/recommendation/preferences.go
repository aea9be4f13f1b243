// internal/recommendation/preferences.go

package recommendation

import (
	"context"
	"log"
	"time"
)

// RecomputePreferences rebuilds a user's category-affinity vector from
// their full interaction history and writes it to the profile wholesale.
// It is a pure function of the current interaction set - never an
// incremental patch - so racing invocations converge on the same value.
// Invoked fire-and-forget, it never raises: errors are logged and dropped.
func (s *service) RecomputePreferences(ctx context.Context, userID int64) {
	rows, err := s.store.ListInteractionsWithCategory(ctx, userID)
	if err != nil {
		log.Printf("recommendation: loading interactions failed for user %d: %v", userID, err)
		RecordRecomputeFailure()
		return
	}

	scores := make(map[string]float64)
	total := 0.0

	for _, row := range rows {
		// Interactions whose event no longer resolves carry no category
		if row.Category == nil || *row.Category == "" {
			continue
		}
		scores[*row.Category] += float64(row.Weight)
		total += float64(row.Weight)
	}

	// Normalize so affinities sum to 1; an unresolvable history leaves the
	// mapping empty
	if total > 0 {
		for category := range scores {
			scores[category] /= total
		}
	}

	if err := s.store.SaveUserPreferences(ctx, userID, scores, time.Now()); err != nil {
		log.Printf("recommendation: saving preferences failed for user %d: %v", userID, err)
		RecordRecomputeFailure()
		return
	}

	RecordRecompute()
}
