package service

import (
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListAll 获取全部分类（表单下拉框用）
func (s *CategoryService) ListAll() ([]models.Category, error) {
	categories, _, err := s.repo.List(repository.CategoryListFilter{})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID 获取分类
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}
