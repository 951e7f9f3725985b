package models

import "time"

// AboutUs 关于页内容（单例，只取第一条）
type AboutUs struct {
	ID        uint      `gorm:"primarykey" json:"id"`         // 主键
	Content   string    `gorm:"type:text" json:"content"`     // 页面正文
	CreatedAt time.Time `gorm:"index" json:"created_at"`      // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`      // 更新时间
}

// TableName 指定表名
func (AboutUs) TableName() string {
	return "about_us"
}
