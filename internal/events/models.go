package events

import (
	"errors"
	"time"
)

// ErrEventNotFound is returned when an event ID does not resolve.
var ErrEventNotFound = errors.New("event not found")

// Event is a scraped or manually created listing.
type Event struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	StartsAt      time.Time `db:"starts_at" json:"starts_at"`
	EventTime     string    `db:"event_time" json:"event_time"`
	Venue         string    `db:"venue" json:"venue"`
	Price         string    `db:"price" json:"price"`
	Category      string    `db:"category" json:"category"`
	ImageURL      *string   `db:"image_url" json:"image_url,omitempty"`
	SourceURL     string    `db:"source_url" json:"source_url"`
	Source        string    `db:"source" json:"source"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	AverageRating float64   `db:"average_rating" json:"average_rating"`
	ReviewCount   int       `db:"review_count" json:"review_count"`
	ScrapedAt     time.Time `db:"scraped_at" json:"scraped_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// ListFilters narrows the upcoming-events listing.
type ListFilters struct {
	Category string
	Search   string
	Date     string // "", "today" or "tomorrow"
}

// CreateEventDTO is the body for manual event creation.
type CreateEventDTO struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"required"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EventTime   string    `json:"event_time" validate:"required"`
	Venue       string    `json:"venue" validate:"required"`
	Price       string    `json:"price"`
	Category    string    `json:"category" validate:"omitempty,oneof=Music Food Arts Technology Sports Business General Other"`
	ImageURL    *string   `json:"image_url" validate:"omitempty,url"`
	SourceURL   string    `json:"source_url" validate:"required,url"`
	Source      string    `json:"source" validate:"omitempty,oneof=Eventbrite TimeOut Facebook Meetup Manual"`
}

// SubscribeDTO is the body for ticket subscriptions.
type SubscribeDTO struct {
	Email string `json:"email" validate:"required,email"`
	OptIn bool   `json:"opt_in"`
}

// Subscription is a persisted ticket subscription for an event.
type Subscription struct {
	ID           int64     `db:"id" json:"id"`
	EventID      int64     `db:"event_id" json:"event_id"`
	Email        string    `db:"email" json:"email"`
	OptIn        bool      `db:"opt_in" json:"opt_in"`
	Token        string    `db:"token" json:"token"`
	SubscribedAt time.Time `db:"subscribed_at" json:"subscribed_at"`
}

// FavoriteResult reports the outcome of a favorite toggle.
type FavoriteResult struct {
	IsFavorite bool    `json:"is_favorite"`
	Favorites  []int64 `json:"favorites"`
}
