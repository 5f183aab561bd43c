package repository

import (
	"context"

	"gorm.io/gorm"

	"starwars/internal/model"
)

// FavoriteRepository defines favorite persistence operations.
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *model.Favorite) error
	ListByUser(ctx context.Context, userID uint) ([]model.Favorite, error)
	FindByTarget(ctx context.Context, userID uint, target model.FavoriteTarget) (*model.Favorite, error)
	Delete(ctx context.Context, id uint) error
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Create inserts a favorite. Clashes on (user, name) or (user, target) return ErrDuplicateKey.
func (r *favoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	return translateError(r.db.WithContext(ctx).Create(favorite).Error)
}

// ListByUser returns all favorites owned by userID.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]model.Favorite, error) {
	favorites := []model.Favorite{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&favorites).Error; err != nil {
		return nil, err
	}
	return favorites, nil
}

// FindByTarget finds the favorite of userID pointing at target.
func (r *favoriteRepository) FindByTarget(ctx context.Context, userID uint, target model.FavoriteTarget) (*model.Favorite, error) {
	var favorite model.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND nature = ? AND nature_id = ?", userID, target.Nature, target.ID).
		First(&favorite).Error; err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Delete removes a favorite by ID. It returns gorm.ErrRecordNotFound when nothing was deleted.
func (r *favoriteRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Favorite{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByUser removes every favorite owned by userID.
func (r *favoriteRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Favorite{})
	return res.RowsAffected, res.Error
}
