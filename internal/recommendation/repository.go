package recommendation

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the persistence the engine depends on. All durable state lives
// behind it; the engine itself is stateless per request.
type Store interface {
	// Interactions
	FindInteraction(ctx context.Context, userID, eventID int64, kind Kind) (*Interaction, error)
	SaveInteraction(ctx context.Context, interaction *Interaction) error
	ListInteractionsWithCategory(ctx context.Context, userID int64) ([]CategoryWeight, error)

	// Profiles and favorites
	SaveUserPreferences(ctx context.Context, userID int64, preferences map[string]float64, updatedAt time.Time) error
	GetUserFavorites(ctx context.Context, userID int64) ([]int64, error)
	ListUsersWithFavorites(ctx context.Context, excludeUserID int64) ([]UserFavorites, error)
	GetUserProfile(ctx context.Context, userID int64) (*UserProfile, error)

	// Candidate events
	ListUpcomingEvents(ctx context.Context, excluding []int64) ([]*Event, error)
	ResolveEventsByIDs(ctx context.Context, ids []int64) ([]*Event, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Postgres-backed Store
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func (s *postgresStore) FindInteraction(ctx context.Context, userID, eventID int64, kind Kind) (*Interaction, error) {
	var interaction Interaction
	query := `
        SELECT id, user_id, event_id, kind, weight, created_at, updated_at
        FROM user_interactions
        WHERE user_id = $1 AND event_id = $2 AND kind = $3
    `

	err := s.db.GetContext(ctx, &interaction, query, userID, eventID, kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &interaction, nil
}

// SaveInteraction upserts on (user, event, kind). A conflicting row only has
// its timestamp refreshed, which keeps tracking idempotent and race-safe.
func (s *postgresStore) SaveInteraction(ctx context.Context, interaction *Interaction) error {
	query := `
        INSERT INTO user_interactions (user_id, event_id, kind, weight)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (user_id, event_id, kind)
        DO UPDATE SET updated_at = CURRENT_TIMESTAMP
        RETURNING id, weight, created_at, updated_at
    `

	return s.db.QueryRowxContext(
		ctx, query,
		interaction.UserID, interaction.EventID, interaction.Kind, interaction.Weight,
	).Scan(&interaction.ID, &interaction.Weight, &interaction.CreatedAt, &interaction.UpdatedAt)
}

func (s *postgresStore) ListInteractionsWithCategory(ctx context.Context, userID int64) ([]CategoryWeight, error) {
	var rows []CategoryWeight
	query := `
        SELECT ui.weight, e.category
        FROM user_interactions ui
        LEFT JOIN events e ON ui.event_id = e.id
        WHERE ui.user_id = $1
    `

	err := s.db.SelectContext(ctx, &rows, query, userID)
	return rows, err
}

func (s *postgresStore) SaveUserPreferences(ctx context.Context, userID int64, preferences map[string]float64, updatedAt time.Time) error {
	prefsJSON, err := json.Marshal(preferences)
	if err != nil {
		return err
	}

	query := `
        UPDATE users
        SET preferences = $2, preferences_updated_at = $3, updated_at = CURRENT_TIMESTAMP
        WHERE id = $1
    `

	_, err = s.db.ExecContext(ctx, query, userID, prefsJSON, updatedAt)
	return err
}

func (s *postgresStore) GetUserFavorites(ctx context.Context, userID int64) ([]int64, error) {
	var eventIDs []int64
	query := `SELECT event_id FROM user_favorites WHERE user_id = $1 ORDER BY event_id`

	err := s.db.SelectContext(ctx, &eventIDs, query, userID)
	return eventIDs, err
}

func (s *postgresStore) ListUsersWithFavorites(ctx context.Context, excludeUserID int64) ([]UserFavorites, error) {
	query := `
        SELECT user_id, array_agg(event_id ORDER BY event_id) AS event_ids
        FROM user_favorites
        WHERE user_id <> $1
        GROUP BY user_id
        ORDER BY user_id
    `

	rows, err := s.db.QueryxContext(ctx, query, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserFavorites
	for rows.Next() {
		var user UserFavorites
		var ids pq.Int64Array
		if err := rows.Scan(&user.UserID, &ids); err != nil {
			return nil, err
		}
		user.EventIDs = []int64(ids)
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *postgresStore) GetUserProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	var prefsJSON []byte
	query := `SELECT preferences FROM users WHERE id = $1`

	err := s.db.QueryRowxContext(ctx, query, userID).Scan(&prefsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{
		UserID:      userID,
		Preferences: map[string]float64{},
	}

	if len(prefsJSON) > 0 {
		if err := json.Unmarshal(prefsJSON, &profile.Preferences); err != nil {
			return nil, err
		}
	}

	favorites, err := s.GetUserFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Favorites = favorites

	return profile, nil
}

func (s *postgresStore) ListUpcomingEvents(ctx context.Context, excluding []int64) ([]*Event, error) {
	var events []*Event
	query := `
        SELECT id, title, category, venue, starts_at, price, image_url, is_active
        FROM events
        WHERE is_active = TRUE
              AND starts_at >= NOW()
              AND NOT (id = ANY($1))
        ORDER BY starts_at ASC
    `

	err := s.db.SelectContext(ctx, &events, query, pq.Array(excluding))
	return events, err
}

func (s *postgresStore) ResolveEventsByIDs(ctx context.Context, ids []int64) ([]*Event, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var events []*Event
	query := `
        SELECT id, title, category, venue, starts_at, price, image_url, is_active
        FROM events
        WHERE id = ANY($1)
    `

	err := s.db.SelectContext(ctx, &events, query, pq.Array(ids))
	return events, err
}
