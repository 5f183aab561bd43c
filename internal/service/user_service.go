package service

import (
	"context"
	"fmt"

	"starwars/internal/model"
	"starwars/internal/repository"
)

// UserService exposes read-only user operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	store repository.Store
}

// NewUserService builds a UserService on top of store.
func NewUserService(store repository.Store) UserService {
	return &userService{store: store}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		users, err = tx.Users().List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
