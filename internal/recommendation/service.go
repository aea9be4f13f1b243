// internal/recommendation/service.go

package recommendation

import (
	"context"
)

// Service is the engine's surface to the rest of the system. Tracking and
// recommending are enhancement features: neither ever returns an error to
// its caller, they degrade to nil/empty results instead.
type Service interface {
	Track(ctx context.Context, userID, eventID int64, kind Kind) *Interaction
	Recommend(ctx context.Context, userID int64, limit int) []*Event
	FindSimilarUsers(ctx context.Context, userID int64, limit int) []SimilarUser
	RecomputePreferences(ctx context.Context, userID int64)
}

// Config carries the engine's tunables
type Config struct {
	// DefaultLimit caps a recommendation response when the caller doesn't
	DefaultLimit int
	// SimilarUsersLimit caps the peer pool consulted for collaborative scoring
	SimilarUsersLimit int
}

const (
	defaultRecommendationLimit = 10
	defaultSimilarUsersLimit   = 10
)

type service struct {
	store Store
	cfg   Config
}

// NewService creates the recommendation engine
func NewService(store Store, cfg Config) Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultRecommendationLimit
	}
	if cfg.SimilarUsersLimit <= 0 {
		cfg.SimilarUsersLimit = defaultSimilarUsersLimit
	}

	return &service{store: store, cfg: cfg}
}
