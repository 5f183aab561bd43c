package repository

import (
	"context"

	"gorm.io/gorm"

	"starwars/internal/model"
)

// CatalogRepository defines persistence operations shared by characters and planets.
type CatalogRepository[T model.CatalogEntity] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context) ([]T, error)
	Delete(ctx context.Context, id uint) error
}

// CharacterRepository persists characters.
type CharacterRepository = CatalogRepository[model.Character]

// PlanetRepository persists planets.
type PlanetRepository = CatalogRepository[model.Planet]

type catalogRepository[T model.CatalogEntity] struct {
	db *gorm.DB
}

// NewCharacterRepository creates a new character repository.
func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &catalogRepository[model.Character]{db: db}
}

// NewPlanetRepository creates a new planet repository.
func NewPlanetRepository(db *gorm.DB) PlanetRepository {
	return &catalogRepository[model.Planet]{db: db}
}

// Create inserts a new row. Name clashes return ErrDuplicateKey.
func (r *catalogRepository[T]) Create(ctx context.Context, entity *T) error {
	return translateError(r.db.WithContext(ctx).Create(entity).Error)
}

// FindByID finds a row by primary key.
func (r *catalogRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindByName finds a row by its unique name.
func (r *catalogRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&entity).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// List returns every row.
func (r *catalogRepository[T]) List(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// Delete removes a row. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *catalogRepository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
