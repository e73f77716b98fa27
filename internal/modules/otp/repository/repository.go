package repository

import (
	"context"
	"time"

	"anoa.com/inventorybackend/internal/entity"
	"gorm.io/gorm"
)

type OtpRepository interface {
	Create(ctx context.Context, otp *entity.OtpLog) error
	// FindLatestActive returns the most recently issued unused code for the
	// identifier and purpose, whether or not it has expired.
	FindLatestActive(ctx context.Context, identifier, purpose string) (*entity.OtpLog, error)
	Save(ctx context.Context, otp *entity.OtpLog) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type otpRepository struct {
	db *gorm.DB
}

func NewOtpRepository(db *gorm.DB) OtpRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OtpLog) error {
	return r.db.WithContext(ctx).Create(otp).Error
}

func (r *otpRepository) FindLatestActive(ctx context.Context, identifier, purpose string) (*entity.OtpLog, error) {
	var otp entity.OtpLog
	if err := r.db.WithContext(ctx).
		Where("identifier = ? AND purpose = ? AND used = ?", identifier, purpose, false).
		Order("created_at DESC").
		First(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) Save(ctx context.Context, otp *entity.OtpLog) error {
	return r.db.WithContext(ctx).Save(otp).Error
}

func (r *otpRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&entity.OtpLog{})
	return res.RowsAffected, res.Error
}
