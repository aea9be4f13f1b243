package recommendation

import (
	"time"
)

// Kind is the type of user-event interaction the engine learns from.
type Kind string

const (
	KindFavorite Kind = "favorite"
	KindTicket   Kind = "ticket"
	KindView     Kind = "view"
)

// Weight returns the signal strength assigned to the interaction kind.
func (k Kind) Weight() int {
	switch k {
	case KindFavorite:
		return 3
	case KindTicket:
		return 2
	case KindView:
		return 1
	default:
		return 1
	}
}

// IsValid reports whether the kind is one the engine knows about.
func (k Kind) IsValid() bool {
	switch k {
	case KindFavorite, KindTicket, KindView:
		return true
	}
	return false
}

// Interaction is one observed user action on one event. At most one row
// exists per (user, event, kind); repeat observations refresh UpdatedAt.
type Interaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	Kind      Kind      `json:"kind" db:"kind"`
	Weight    int       `json:"weight" db:"weight"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryWeight is one interaction's weight joined with the category of
// the event it refers to. Category is nil when the event no longer resolves.
type CategoryWeight struct {
	Weight   int     `db:"weight"`
	Category *string `db:"category"`
}

// UserFavorites is a user together with the set of event IDs they favorited.
type UserFavorites struct {
	UserID   int64
	EventIDs []int64
}

// UserProfile is the slice of a user record the scorer needs: the favorite
// set and the derived category-affinity vector.
type UserProfile struct {
	UserID      int64
	Favorites   []int64
	Preferences map[string]float64
}

// SimilarUser is a peer ranked by favorite-set overlap with the requesting user.
type SimilarUser struct {
	UserID     int64   `json:"user_id"`
	Similarity float64 `json:"similarity"`
	Favorites  []int64 `json:"-"`
}

// Event is the engine's view of a candidate event; only the fields that
// matter for scoring plus what the API returns.
type Event struct {
	ID       int64     `json:"id" db:"id"`
	Title    string    `json:"title" db:"title"`
	Category string    `json:"category" db:"category"`
	Venue    string    `json:"venue" db:"venue"`
	StartsAt time.Time `json:"starts_at" db:"starts_at"`
	Price    string    `json:"price" db:"price"`
	ImageURL *string   `json:"image_url,omitempty" db:"image_url"`
	IsActive bool      `json:"-" db:"is_active"`
}

// scoredEvent pairs a candidate with its hybrid score during ranking.
type scoredEvent struct {
	event *Event
	score float64
}
