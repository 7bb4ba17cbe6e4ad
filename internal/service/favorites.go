package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/museofile/internal/events"
	"github.com/Skotchmaster/museofile/internal/models"
	"github.com/Skotchmaster/museofile/internal/repo"
	"github.com/Skotchmaster/museofile/pkg/logging"
)

type FavoritesService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type FavoriteInput struct {
	MuseumID   string
	Name       string
	City       string
	Department string
}

func (s *FavoritesService) Add(ctx context.Context, userID uint, in FavoriteInput) (*models.Favorite, error) {
	l := logging.FromContext(ctx).With("svc", "favorites.add", "user_id", userID)

	museumID := strings.TrimSpace(in.MuseumID)
	name := strings.TrimSpace(in.Name)
	if museumID == "" || name == "" {
		return nil, fmt.Errorf("%w: id and name are required", ErrValidation)
	}

	fav := &models.Favorite{
		MuseumID:   museumID,
		Name:       name,
		City:       strings.TrimSpace(in.City),
		Department: strings.TrimSpace(in.Department),
		UserID:     userID,
	}
	if err := s.Repo.AddFavorite(ctx, fav); err != nil {
		if errors.Is(err, repo.ErrFavoriteAlreadyExist) {
			l.Warn("add_favorite_failed", "status", 409, "museum_id", museumID, "reason", "already in favorites")
			return nil, fmt.Errorf("%w: museum already in favorites", ErrConflict)
		}
		l.Error("add_favorite_failed", "status", 500, "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicFavoriteEvents, events.Event{
		Type:     events.TypeFavoriteAdded,
		UserID:   userID,
		MuseumID: museumID,
	})
	return fav, nil
}

func (s *FavoritesService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	return s.Repo.ListFavorites(ctx, userID)
}

func (s *FavoritesService) Remove(ctx context.Context, userID uint, museumID string) error {
	l := logging.FromContext(ctx).With("svc", "favorites.remove", "user_id", userID)

	if err := s.Repo.RemoveFavorite(ctx, userID, museumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("remove_favorite_failed", "status", 404, "museum_id", museumID)
			return fmt.Errorf("%w: favorite not found", ErrNotFound)
		}
		l.Error("remove_favorite_failed", "status", 500, "error", err)
		return err
	}

	publish(ctx, s.Events, events.TopicFavoriteEvents, events.Event{
		Type:     events.TypeFavoriteRemoved,
		UserID:   userID,
		MuseumID: museumID,
	})
	return nil
}
