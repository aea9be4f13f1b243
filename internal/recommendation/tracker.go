// internal/recommendation/tracker.go

package recommendation

import (
	"context"
	"log"
)

// Track records a user-event interaction. It is best-effort telemetry:
// storage errors are logged and swallowed so the caller's primary action
// (e.g. toggling a favorite) never fails because of tracking.
//
// At most one interaction exists per (user, event, kind); re-observing the
// same triple only refreshes its timestamp. The first observation kicks off
// a preference recomputation for the user without waiting for it.
func (s *service) Track(ctx context.Context, userID, eventID int64, kind Kind) *Interaction {
	existing, err := s.store.FindInteraction(ctx, userID, eventID, kind)
	if err != nil {
		log.Printf("recommendation: interaction lookup failed for user %d event %d: %v", userID, eventID, err)
		RecordTrackingFailure()
		return nil
	}

	if existing != nil {
		// Refresh the timestamp in place, no duplicate row
		if err := s.store.SaveInteraction(ctx, existing); err != nil {
			log.Printf("recommendation: interaction refresh failed for user %d event %d: %v", userID, eventID, err)
			RecordTrackingFailure()
			return nil
		}
		RecordInteraction(existing.Kind)
		return existing
	}

	interaction := &Interaction{
		UserID:  userID,
		EventID: eventID,
		Kind:    kind,
		Weight:  kind.Weight(),
	}

	if err := s.store.SaveInteraction(ctx, interaction); err != nil {
		log.Printf("recommendation: interaction save failed for user %d event %d: %v", userID, eventID, err)
		RecordTrackingFailure()
		return nil
	}

	RecordInteraction(interaction.Kind)

	// Fire-and-forget: the caller doesn't wait for the rebuild, and a
	// detached context keeps it alive past the request. Concurrent rebuilds
	// for the same user are safe because each is a full idempotent
	// recomputation - last write wins and converges.
	go s.RecomputePreferences(context.Background(), userID)

	return interaction
}
