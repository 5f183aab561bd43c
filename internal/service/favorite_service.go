package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	apperrors "starwars/internal/errors"
	"starwars/internal/model"
	"starwars/internal/repository"
)

const maxFavoriteNameLength = 80

// FavoriteService manages a user's favorites. Every operation is scoped to
// the given user.
type FavoriteService interface {
	List(ctx context.Context, userID uint) ([]model.Favorite, error)
	Add(ctx context.Context, userID uint, target model.FavoriteTarget, name string) (*model.Favorite, error)
	Remove(ctx context.Context, userID uint, target model.FavoriteTarget) error
}

type favoriteService struct {
	store repository.Store
	log   *slog.Logger
}

// NewFavoriteService creates a favorite service.
func NewFavoriteService(store repository.Store, log *slog.Logger) FavoriteService {
	return &favoriteService{store: store, log: log.With("service", "favorites")}
}

func (s *favoriteService) List(ctx context.Context, userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		favorites, err = tx.Favorites().ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	if favorites == nil {
		favorites = []model.Favorite{}
	}
	return favorites, nil
}

// Add stores a favorite pointing at target. The referenced character or
// planet is not required to exist.
func (s *favoriteService) Add(ctx context.Context, userID uint, target model.FavoriteTarget, name string) (*model.Favorite, error) {
	if !target.Nature.Valid() {
		return nil, apperrors.Validation("unknown favorite nature %q", target.Nature)
	}
	if target.ID == 0 {
		return nil, apperrors.Validation("nature_id must be a positive integer")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if utf8.RuneCountInString(name) > maxFavoriteNameLength {
		return nil, apperrors.Validation("name is longer than %d characters", maxFavoriteNameLength)
	}

	favorite := &model.Favorite{
		UserID:   userID,
		Name:     name,
		Nature:   target.Nature,
		NatureID: target.ID,
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		existing, err := tx.Favorites().FindByTarget(ctx, userID, target)
		if err == nil && existing != nil {
			return repository.ErrDuplicateKey
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check favorite existence: %w", err)
		}
		return tx.Favorites().Create(ctx, favorite)
	})
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, apperrors.Conflict("favorite already exists")
	}
	if errors.Is(err, repository.ErrForeignKey) {
		return nil, apperrors.NotFound("user %d not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("add favorite: %w", err)
	}

	s.log.Debug("favorite added", "user_id", userID, "target", target.String())
	return favorite, nil
}

func (s *favoriteService) Remove(ctx context.Context, userID uint, target model.FavoriteTarget) error {
	if !target.Nature.Valid() {
		return apperrors.Validation("unknown favorite nature %q", target.Nature)
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		favorite, err := tx.Favorites().FindByTarget(ctx, userID, target)
		if err != nil {
			return err
		}
		return tx.Favorites().Delete(ctx, favorite.ID)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound("favorite %s not found", target)
	}
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}
