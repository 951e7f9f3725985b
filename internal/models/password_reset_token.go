package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetToken 密码重置令牌记录
type PasswordResetToken struct {
	ID        uint           `gorm:"primarykey" json:"id"`        // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"` // 关联用户ID
	Token     string         `gorm:"index;not null" json:"-"`     // 令牌（不返回给前端）
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"`     // 过期时间
	UsedAt    *time.Time     `gorm:"index" json:"used_at"`        // 使用时间（单次有效）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`     // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`              // 软删除时间
}

// TableName 指定表名
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}
