package recommendation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Store for exercising the engine without Postgres.
// All methods honor the same contracts as the SQL implementation, including
// nil-on-missing lookups and deterministic ordering.
type memStore struct {
	mu sync.Mutex

	nextID       int64
	interactions map[string]*Interaction
	users        map[int64]bool
	preferences  map[int64]map[string]float64
	prefsUpdated map[int64]time.Time
	favorites    map[int64][]int64
	events       map[int64]*Event

	// fail makes every method return an error, for failure-path tests
	fail bool
}

func newMemStore() *memStore {
	return &memStore{
		interactions: make(map[string]*Interaction),
		users:        make(map[int64]bool),
		preferences:  make(map[int64]map[string]float64),
		prefsUpdated: make(map[int64]time.Time),
		favorites:    make(map[int64][]int64),
		events:       make(map[int64]*Event),
	}
}

var errStoreDown = errors.New("store unavailable")

func (m *memStore) addUser(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = true
}

func (m *memStore) addEvent(id int64, category, venue string, startsAt time.Time, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[id] = &Event{
		ID:       id,
		Title:    fmt.Sprintf("Event %d", id),
		Category: category,
		Venue:    venue,
		StartsAt: startsAt,
		IsActive: active,
	}
}

func (m *memStore) addFavorite(userID, eventID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = true
	m.favorites[userID] = append(m.favorites[userID], eventID)
}

func (m *memStore) interactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interactions)
}

func (m *memStore) preferencesFor(userID int64) map[string]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefs, ok := m.preferences[userID]
	if !ok {
		return nil
	}
	copied := make(map[string]float64, len(prefs))
	for k, v := range prefs {
		copied[k] = v
	}
	return copied
}

func interactionKey(userID, eventID int64, kind Kind) string {
	return fmt.Sprintf("%d:%d:%s", userID, eventID, kind)
}

func (m *memStore) FindInteraction(_ context.Context, userID, eventID int64, kind Kind) (*Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	existing, ok := m.interactions[interactionKey(userID, eventID, kind)]
	if !ok {
		return nil, nil
	}
	copied := *existing
	return &copied, nil
}

func (m *memStore) SaveInteraction(_ context.Context, interaction *Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}

	key := interactionKey(interaction.UserID, interaction.EventID, interaction.Kind)
	now := time.Now()

	if existing, ok := m.interactions[key]; ok {
		existing.UpdatedAt = now
		interaction.ID = existing.ID
		interaction.Weight = existing.Weight
		interaction.CreatedAt = existing.CreatedAt
		interaction.UpdatedAt = now
		return nil
	}

	m.nextID++
	interaction.ID = m.nextID
	interaction.CreatedAt = now
	interaction.UpdatedAt = now
	copied := *interaction
	m.interactions[key] = &copied
	return nil
}

func (m *memStore) ListInteractionsWithCategory(_ context.Context, userID int64) ([]CategoryWeight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	var rows []CategoryWeight
	for _, interaction := range m.interactions {
		if interaction.UserID != userID {
			continue
		}
		row := CategoryWeight{Weight: interaction.Weight}
		if event, ok := m.events[interaction.EventID]; ok {
			category := event.Category
			row.Category = &category
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m *memStore) SaveUserPreferences(_ context.Context, userID int64, preferences map[string]float64, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errStoreDown
	}

	if !m.users[userID] {
		return nil
	}
	m.preferences[userID] = preferences
	m.prefsUpdated[userID] = updatedAt
	return nil
}

func (m *memStore) GetUserFavorites(_ context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	ids := append([]int64(nil), m.favorites[userID]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memStore) ListUsersWithFavorites(_ context.Context, excludeUserID int64) ([]UserFavorites, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	var users []UserFavorites
	for userID, ids := range m.favorites {
		if userID == excludeUserID || len(ids) == 0 {
			continue
		}
		sorted := append([]int64(nil), ids...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		users = append(users, UserFavorites{UserID: userID, EventIDs: sorted})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (m *memStore) GetUserProfile(_ context.Context, userID int64) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	if !m.users[userID] {
		return nil, nil
	}

	profile := &UserProfile{
		UserID:      userID,
		Preferences: map[string]float64{},
	}
	for category, score := range m.preferences[userID] {
		profile.Preferences[category] = score
	}
	profile.Favorites = append([]int64(nil), m.favorites[userID]...)
	sort.Slice(profile.Favorites, func(i, j int) bool { return profile.Favorites[i] < profile.Favorites[j] })
	return profile, nil
}

func (m *memStore) ListUpcomingEvents(_ context.Context, excluding []int64) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	excluded := make(map[int64]struct{}, len(excluding))
	for _, id := range excluding {
		excluded[id] = struct{}{}
	}

	now := time.Now()
	var events []*Event
	for _, event := range m.events {
		if !event.IsActive || event.StartsAt.Before(now) {
			continue
		}
		if _, ok := excluded[event.ID]; ok {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].StartsAt.Before(events[j].StartsAt)
		}
		return events[i].ID < events[j].ID
	})
	return events, nil
}

func (m *memStore) ResolveEventsByIDs(_ context.Context, ids []int64) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errStoreDown
	}

	var events []*Event
	for _, id := range ids {
		if event, ok := m.events[id]; ok {
			copied := *event
			events = append(events, &copied)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}
