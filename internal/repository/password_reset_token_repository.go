package repository

import (
	"errors"
	"time"

	"github.com/blognest/blognest/internal/models"

	"gorm.io/gorm"
)

// PasswordResetTokenRepository 密码重置令牌数据访问接口
type PasswordResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	GetByUserAndToken(userID uint, token string) (*models.PasswordResetToken, error)
	MarkUsed(id uint, usedAt time.Time) error
}

// GormPasswordResetTokenRepository GORM 实现
type GormPasswordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository 创建密码重置令牌仓库
func NewPasswordResetTokenRepository(db *gorm.DB) *GormPasswordResetTokenRepository {
	return &GormPasswordResetTokenRepository{db: db}
}

// Create 创建令牌记录
func (r *GormPasswordResetTokenRepository) Create(token *models.PasswordResetToken) error {
	return r.db.Create(token).Error
}

// GetByUserAndToken 获取指定用户的令牌记录
func (r *GormPasswordResetTokenRepository) GetByUserAndToken(userID uint, token string) (*models.PasswordResetToken, error) {
	var record models.PasswordResetToken
	if err := r.db.Where("user_id = ? AND token = ?", userID, token).
		Order("id desc").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkUsed 标记令牌已使用
func (r *GormPasswordResetTokenRepository) MarkUsed(id uint, usedAt time.Time) error {
	return r.db.Model(&models.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used_at", usedAt).Error
}
