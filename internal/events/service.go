package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/localpulse/localpulse-backend/internal/recommendation"
)

// InteractionTracker records user-event interactions for the
// recommendation engine. Satisfied by recommendation.Service.
type InteractionTracker interface {
	Track(ctx context.Context, userID, eventID int64, kind recommendation.Kind) *recommendation.Interaction
}

// Service exposes the event catalog operations.
type Service interface {
	GetEvents(ctx context.Context, filters ListFilters) ([]*Event, bool, error)
	GetEvent(ctx context.Context, eventID int64) (*Event, error)
	CreateEvent(ctx context.Context, dto *CreateEventDTO) (*Event, error)
	GetFavorites(ctx context.Context, userID int64) ([]*Event, error)
	ToggleFavorite(ctx context.Context, userID, eventID int64) (*FavoriteResult, error)
	Subscribe(ctx context.Context, eventID int64, dto *SubscribeDTO, userID *int64) (string, error)
	DeactivateEndedEvents(ctx context.Context, endedBefore time.Time) (int64, error)
}

type service struct {
	repo    Repository
	cache   *Cache
	tracker InteractionTracker
}

func NewService(repo Repository, cache *Cache, tracker InteractionTracker) Service {
	return &service{
		repo:    repo,
		cache:   cache,
		tracker: tracker,
	}
}

// GetEvents lists upcoming active events, serving from cache when the
// same filter set was requested within the TTL. The boolean reports
// whether the result came from cache.
func (s *service) GetEvents(ctx context.Context, filters ListFilters) ([]*Event, bool, error) {
	if cached, ok := s.cache.Get(ctx, filters); ok {
		return cached, true, nil
	}

	events, err := s.repo.ListEvents(ctx, filters)
	if err != nil {
		return nil, false, err
	}

	s.cache.Set(ctx, filters, events)
	return events, false, nil
}

func (s *service) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	return s.repo.GetEventByID(ctx, eventID)
}

func (s *service) CreateEvent(ctx context.Context, dto *CreateEventDTO) (*Event, error) {
	event := &Event{
		Title:       dto.Title,
		Description: dto.Description,
		StartsAt:    dto.StartsAt,
		EventTime:   dto.EventTime,
		Venue:       dto.Venue,
		Price:       dto.Price,
		Category:    dto.Category,
		ImageURL:    dto.ImageURL,
		SourceURL:   dto.SourceURL,
		Source:      dto.Source,
		ScrapedAt:   time.Now(),
	}
	if event.Price == "" {
		event.Price = "Free"
	}
	if event.Category == "" {
		event.Category = "General"
	}
	if event.Source == "" {
		event.Source = "Eventbrite"
	}

	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *service) GetFavorites(ctx context.Context, userID int64) ([]*Event, error) {
	return s.repo.GetFavoriteEvents(ctx, userID)
}

// ToggleFavorite adds the event to the user's favorites, or removes it
// if already present. Adding also tracks a favorite interaction in the
// background; tracking failures never fail the toggle.
func (s *service) ToggleFavorite(ctx context.Context, userID, eventID int64) (*FavoriteResult, error) {
	if _, err := s.repo.GetEventByID(ctx, eventID); err != nil {
		return nil, err
	}

	isFavorite, err := s.repo.IsFavorite(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if isFavorite {
		if err := s.repo.RemoveFavorite(ctx, userID, eventID); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.AddFavorite(ctx, userID, eventID); err != nil {
			return nil, err
		}
		if s.tracker != nil {
			go s.tracker.Track(context.Background(), userID, eventID, recommendation.KindFavorite)
		}
	}

	favorites, err := s.repo.GetFavoriteEventIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FavoriteResult{
		IsFavorite: !isFavorite,
		Favorites:  favorites,
	}, nil
}

// Subscribe records a ticket subscription and returns the event's
// source URL for redirection. Authenticated subscribers also get a
// ticket interaction tracked in the background.
func (s *service) Subscribe(ctx context.Context, eventID int64, dto *SubscribeDTO, userID *int64) (string, error) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return "", err
	}

	subscription := &Subscription{
		EventID:      eventID,
		Email:        dto.Email,
		OptIn:        dto.OptIn,
		Token:        uuid.New().String(),
		SubscribedAt: time.Now(),
	}
	if err := s.repo.UpsertSubscription(ctx, subscription); err != nil {
		return "", err
	}

	if userID != nil && s.tracker != nil {
		id := *userID
		go s.tracker.Track(context.Background(), id, eventID, recommendation.KindTicket)
	}

	return event.SourceURL, nil
}

func (s *service) DeactivateEndedEvents(ctx context.Context, endedBefore time.Time) (int64, error) {
	return s.repo.DeactivateEndedEvents(ctx, endedBefore)
}
