// internal/recommendation/engine.go
// Hybrid scorer: content-based affinity fused with collaborative signal
// from similar users' favorites.

package recommendation

import (
	"context"
	"log"
	"sort"
	"time"
)

// Scoring weights. Content comes from the user's own profile, the venue
// bonus is flat regardless of how many favorites share the venue, and each
// peer contributes proportionally to their similarity.
const (
	categoryWeight      = 0.5
	venueBonus          = 0.3
	collaborativeWeight = 0.5
)

// Recommend returns upcoming events ranked by hybrid score for the user.
// Events the user already favorited are never returned, and events with no
// positive signal at all are dropped. Every failure path degrades to an
// empty list - recommendations are never worth an error to the caller.
func (s *service) Recommend(ctx context.Context, userID int64, limit int) []*Event {
	start := time.Now()
	if limit <= 0 {
		limit = s.cfg.DefaultLimit
	}

	RecordRecommendationRequest()

	profile, err := s.store.GetUserProfile(ctx, userID)
	if err != nil {
		log.Printf("recommendation: loading profile failed for user %d: %v", userID, err)
		return []*Event{}
	}
	if profile == nil {
		return []*Event{}
	}

	favoriteSet := make(map[int64]struct{}, len(profile.Favorites))
	for _, id := range profile.Favorites {
		favoriteSet[id] = struct{}{}
	}

	// Candidate pool: active upcoming events the user hasn't favorited
	candidates, err := s.store.ListUpcomingEvents(ctx, profile.Favorites)
	if err != nil {
		log.Printf("recommendation: loading candidates failed for user %d: %v", userID, err)
		return []*Event{}
	}

	// Venues of the user's favorited events, for the venue affinity bonus
	favoriteVenues := make(map[string]struct{})
	if len(profile.Favorites) > 0 {
		favoriteEvents, err := s.store.ResolveEventsByIDs(ctx, profile.Favorites)
		if err != nil {
			log.Printf("recommendation: resolving favorites failed for user %d: %v", userID, err)
			return []*Event{}
		}
		for _, event := range favoriteEvents {
			favoriteVenues[event.Venue] = struct{}{}
		}
	}

	scores := make(map[int64]float64, len(candidates))
	byID := make(map[int64]*Event, len(candidates))

	// 1. Content-based scoring over the candidate pool
	for _, event := range candidates {
		score := categoryWeight * profile.Preferences[event.Category]
		if _, ok := favoriteVenues[event.Venue]; ok {
			score += venueBonus
		}
		scores[event.ID] = score
		byID[event.ID] = event
	}

	// 2. Collaborative signal from similar users' favorites. A peer
	// favorite outside the candidate pool still enters the scored set; it
	// gets resolved below and recommended if it is still active.
	peers := s.FindSimilarUsers(ctx, userID, s.cfg.SimilarUsersLimit)

	var unresolved []int64
	for _, peer := range peers {
		for _, eventID := range peer.Favorites {
			if _, ok := favoriteSet[eventID]; ok {
				continue
			}
			if _, ok := byID[eventID]; !ok {
				unresolved = append(unresolved, eventID)
			}
			scores[eventID] += peer.Similarity * collaborativeWeight
		}
	}

	if len(unresolved) > 0 {
		resolved, err := s.store.ResolveEventsByIDs(ctx, dedupe(unresolved))
		if err != nil {
			log.Printf("recommendation: resolving peer favorites failed for user %d: %v", userID, err)
		} else {
			for _, event := range resolved {
				if event.IsActive {
					byID[event.ID] = event
				}
			}
		}
	}

	// 3. Rank by hybrid score; a recommendation needs at least one signal
	ranked := make([]scoredEvent, 0, len(scores))
	for eventID, score := range scores {
		if score <= 0 {
			continue
		}
		event, ok := byID[eventID]
		if !ok {
			continue
		}
		ranked = append(ranked, scoredEvent{event: event, score: score})
	}

	// Descending score; equal scores break by ascending event ID so the
	// ranking is reproducible
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].event.ID < ranked[j].event.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]*Event, len(ranked))
	for i, entry := range ranked {
		results[i] = entry.event
		RecordRecommendationScore(entry.score)
	}

	RecordRecommendation(len(results), time.Since(start))

	return results
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
