package repository

import (
	"errors"

	"github.com/blognest/blognest/internal/models"

	"gorm.io/gorm"
)

// AboutRepository 关于页数据访问接口
type AboutRepository interface {
	First() (*models.AboutUs, error)
	Save(about *models.AboutUs) error
}

// GormAboutRepository GORM 实现
type GormAboutRepository struct {
	db *gorm.DB
}

// NewAboutRepository 创建关于页仓库
func NewAboutRepository(db *gorm.DB) *GormAboutRepository {
	return &GormAboutRepository{db: db}
}

// First 获取第一条关于页记录
func (r *GormAboutRepository) First() (*models.AboutUs, error) {
	var about models.AboutUs
	if err := r.db.Order("id ASC").First(&about).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &about, nil
}

// Save 保存关于页记录
func (r *GormAboutRepository) Save(about *models.AboutUs) error {
	return r.db.Save(about).Error
}
