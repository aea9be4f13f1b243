// internal/recommendation/similarity.go

package recommendation

import (
	"context"
	"log"
	"sort"
)

// FindSimilarUsers ranks other users by favorite-set overlap with the
// requesting user. A user with no favorites gets no peers - there is no
// meaningful similarity without at least one favorite. Candidates are
// every other user with a non-empty favorite set; peers with zero overlap
// are dropped rather than kept as ties.
func (s *service) FindSimilarUsers(ctx context.Context, userID int64, limit int) []SimilarUser {
	if limit <= 0 {
		limit = s.cfg.SimilarUsersLimit
	}

	favorites, err := s.store.GetUserFavorites(ctx, userID)
	if err != nil {
		log.Printf("recommendation: loading favorites failed for user %d: %v", userID, err)
		return []SimilarUser{}
	}

	if len(favorites) == 0 {
		return []SimilarUser{}
	}

	candidates, err := s.store.ListUsersWithFavorites(ctx, userID)
	if err != nil {
		log.Printf("recommendation: loading peer candidates failed for user %d: %v", userID, err)
		return []SimilarUser{}
	}

	mine := make(map[int64]struct{}, len(favorites))
	for _, id := range favorites {
		mine[id] = struct{}{}
	}

	peers := make([]SimilarUser, 0, len(candidates))
	for _, candidate := range candidates {
		similarity := jaccard(mine, candidate.EventIDs)
		if similarity <= 0 {
			continue
		}

		peers = append(peers, SimilarUser{
			UserID:     candidate.UserID,
			Similarity: similarity,
			Favorites:  candidate.EventIDs,
		})
	}

	// Descending similarity; equal scores break by ascending user ID so the
	// ranking is reproducible
	sort.Slice(peers, func(i, j int) bool {
		if peers[i].Similarity != peers[j].Similarity {
			return peers[i].Similarity > peers[j].Similarity
		}
		return peers[i].UserID < peers[j].UserID
	})

	if len(peers) > limit {
		peers = peers[:limit]
	}

	return peers
}

// jaccard computes |A ∩ B| / |A ∪ B| over favorite-event-ID sets.
// Returns 0 for an empty union, which guards the divide even though the
// caller never passes two empty sets.
func jaccard(a map[int64]struct{}, b []int64) float64 {
	intersection := 0
	for _, id := range b {
		if _, ok := a[id]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
