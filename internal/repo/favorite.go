package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/museofile/internal/models"
)

var ErrFavoriteAlreadyExist = errors.New("favorite already exist")

func (r *GormRepo) AddFavorite(ctx context.Context, fav *models.Favorite) error {
	if err := r.DB.WithContext(ctx).Create(fav).Error; err != nil {
		if isDuplicate(err) {
			return ErrFavoriteAlreadyExist
		}
		return err
	}
	return nil
}

// ListFavorites returns the user's favorites in insertion order.
func (r *GormRepo) ListFavorites(ctx context.Context, userID uint) ([]models.Favorite, error) {
	favs := make([]models.Favorite, 0)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&favs).Error; err != nil {
		return nil, err
	}
	return favs, nil
}

// RemoveFavorite deletes the user's favorite for museumID. It returns
// gorm.ErrRecordNotFound when the user has no such favorite.
func (r *GormRepo) RemoveFavorite(ctx context.Context, userID uint, museumID string) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND museum_id = ?", userID, museumID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
