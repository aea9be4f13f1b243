package events

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository abstracts event catalog storage.
type Repository interface {
	ListEvents(ctx context.Context, filters ListFilters) ([]*Event, error)
	GetEventByID(ctx context.Context, eventID int64) (*Event, error)
	CreateEvent(ctx context.Context, event *Event) error
	IsFavorite(ctx context.Context, userID, eventID int64) (bool, error)
	AddFavorite(ctx context.Context, userID, eventID int64) error
	RemoveFavorite(ctx context.Context, userID, eventID int64) error
	GetFavoriteEventIDs(ctx context.Context, userID int64) ([]int64, error)
	GetFavoriteEvents(ctx context.Context, userID int64) ([]*Event, error)
	UpsertSubscription(ctx context.Context, subscription *Subscription) error
	DeactivateEndedEvents(ctx context.Context, endedBefore time.Time) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// ListEvents returns active upcoming events, newest-starting last.
// Filters compose: category match, free-text search across title,
// venue and description, and a today/tomorrow day window.
func (r *postgresRepository) ListEvents(ctx context.Context, filters ListFilters) ([]*Event, error) {
	conditions := []string{"is_active = TRUE"}
	var args []interface{}

	switch filters.Date {
	case "today", "tomorrow":
		now := time.Now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if filters.Date == "tomorrow" {
			dayStart = dayStart.Add(24 * time.Hour)
		}
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
		conditions = append(conditions,
			fmt.Sprintf("starts_at >= $%d", len(args)-1),
			fmt.Sprintf("starts_at < $%d", len(args)))
	default:
		conditions = append(conditions, "starts_at >= NOW()")
	}

	if filters.Category != "" && filters.Category != "All" {
		args = append(args, filters.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	if search := strings.TrimSpace(filters.Search); search != "" {
		args = append(args, "%"+search+"%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR venue ILIKE $%d OR description ILIKE $%d)",
			len(args), len(args), len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, starts_at, event_time, venue, price,
		       category, image_url, source_url, source, is_active,
		       average_rating, review_count, scraped_at, created_at, updated_at
		FROM events
		WHERE %s
		ORDER BY starts_at ASC, id ASC`, strings.Join(conditions, " AND "))

	var events []*Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *postgresRepository) GetEventByID(ctx context.Context, eventID int64) (*Event, error) {
	query := `
		SELECT id, title, description, starts_at, event_time, venue, price,
		       category, image_url, source_url, source, is_active,
		       average_rating, review_count, scraped_at, created_at, updated_at
		FROM events
		WHERE id = $1`

	var event Event
	if err := r.db.GetContext(ctx, &event, query, eventID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *postgresRepository) CreateEvent(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (title, description, starts_at, event_time, venue,
		                    price, category, image_url, source_url, source, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, is_active, average_rating, review_count, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.StartsAt, event.EventTime,
		event.Venue, event.Price, event.Category, event.ImageURL,
		event.SourceURL, event.Source, event.ScrapedAt,
	).Scan(&event.ID, &event.IsActive, &event.AverageRating,
		&event.ReviewCount, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresRepository) IsFavorite(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM user_favorites WHERE user_id = $1 AND event_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, userID, eventID); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) AddFavorite(ctx context.Context, userID, eventID int64) error {
	query := `
		INSERT INTO user_favorites (user_id, event_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, event_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, eventID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *postgresRepository) RemoveFavorite(ctx context.Context, userID, eventID int64) error {
	query := `DELETE FROM user_favorites WHERE user_id = $1 AND event_id = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, eventID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetFavoriteEventIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids pq.Int64Array
	query := `SELECT COALESCE(array_agg(event_id ORDER BY event_id), '{}') FROM user_favorites WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get favorite IDs: %w", err)
	}
	return []int64(ids), nil
}

func (r *postgresRepository) GetFavoriteEvents(ctx context.Context, userID int64) ([]*Event, error) {
	query := `
		SELECT e.id, e.title, e.description, e.starts_at, e.event_time, e.venue,
		       e.price, e.category, e.image_url, e.source_url, e.source,
		       e.is_active, e.average_rating, e.review_count, e.scraped_at,
		       e.created_at, e.updated_at
		FROM events e
		JOIN user_favorites f ON f.event_id = e.id
		WHERE f.user_id = $1
		ORDER BY e.starts_at ASC, e.id ASC`

	var events []*Event
	if err := r.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get favorite events: %w", err)
	}
	return events, nil
}

// UpsertSubscription refreshes opt-in and timestamp when the same email
// subscribes to the same event again; the token survives the upsert.
func (r *postgresRepository) UpsertSubscription(ctx context.Context, subscription *Subscription) error {
	query := `
		INSERT INTO event_subscriptions (event_id, email, opt_in, token, subscribed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, email) DO UPDATE
		SET opt_in = EXCLUDED.opt_in, subscribed_at = EXCLUDED.subscribed_at
		RETURNING id, token`

	err := r.db.QueryRowContext(ctx, query,
		subscription.EventID, subscription.Email, subscription.OptIn,
		subscription.Token, subscription.SubscribedAt,
	).Scan(&subscription.ID, &subscription.Token)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeactivateEndedEvents(ctx context.Context, endedBefore time.Time) (int64, error) {
	query := `UPDATE events SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND starts_at < $1`
	result, err := r.db.ExecContext(ctx, query, endedBefore)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate ended events: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deactivated events: %w", err)
	}
	return affected, nil
}
