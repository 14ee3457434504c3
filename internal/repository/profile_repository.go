//go:generate mockery --name ProfileRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"

	"readquest/internal/middleware"
	"readquest/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileRepository はプロフィール (読み取り専用) へのアクセス
type ProfileRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Profile, error)
}

type gormProfileRepository struct{}

func NewGormProfileRepository() ProfileRepository {
	return &gormProfileRepository{}
}

func (r *gormProfileRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.Profile, error) {
	logger := middleware.GetLogger(ctx)
	var profile model.Profile
	result := db.WithContext(ctx).Where("id = ?", userID).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding profile in DB", "error", result.Error, "user_id", userID.String())
		return nil, wrapDBError("gormProfileRepository.FindByID", result.Error)
	}
	return &profile, nil
}
