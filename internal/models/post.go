package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 文章表
type Post struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Slug        string         `gorm:"uniqueIndex;not null" json:"slug"`        // 唯一标识
	Title       string         `gorm:"not null" json:"title"`                   // 标题
	Content     string         `gorm:"type:text;not null" json:"content"`       // 正文
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`      // 配图地址
	IsPublished bool           `gorm:"default:false;index" json:"is_published"` // 是否发布
	PublishedAt *time.Time     `gorm:"index" json:"published_at"`               // 发布时间
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`       // 所属分类
	Category    *Category      `json:"category,omitempty"`                      // 分类（按需预加载）
	OwnerID     *uint          `gorm:"index" json:"owner_id"`                   // 作者ID（种子数据可为空）
	Owner       *User          `gorm:"foreignKey:OwnerID" json:"-"`             // 作者（按需预加载）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}
