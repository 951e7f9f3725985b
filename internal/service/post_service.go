package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/repository"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// PostService 文章业务服务
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	relatedLimit int
}

// NewPostService 创建文章服务
func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository, relatedLimit int) *PostService {
	if relatedLimit <= 0 {
		relatedLimit = 3
	}
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		relatedLimit: relatedLimit,
	}
}

// PostInput 创建/更新文章输入
type PostInput struct {
	Title      string
	Content    string
	ImageURL   string
	CategoryID uint
}

// ListPublished 获取已发布文章列表
func (s *PostService) ListPublished(page, pageSize int) ([]models.Post, int64, error) {
	filter := repository.PostListFilter{
		Page:          page,
		PageSize:      pageSize,
		OnlyPublished: true,
		WithCategory:  true,
		OrderBy:       "created_at DESC",
	}
	return s.postRepo.List(filter)
}

// ListByOwner 获取指定作者的全部文章（含草稿）
func (s *PostService) ListByOwner(ownerID uint, page, pageSize int) ([]models.Post, int64, error) {
	filter := repository.PostListFilter{
		Page:         page,
		PageSize:     pageSize,
		OwnerID:      &ownerID,
		WithCategory: true,
		OrderBy:      "created_at DESC",
	}
	return s.postRepo.List(filter)
}

// PostDetail 文章详情与相关文章
type PostDetail struct {
	Post    *models.Post
	Related []models.Post
}

// GetPublishedBySlug 获取已发布文章详情，附带同分类相关文章
func (s *PostService) GetPublishedBySlug(slug string) (*PostDetail, error) {
	post, err := s.postRepo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}

	related, err := s.postRepo.ListRelated(post.CategoryID, post.ID, s.relatedLimit)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Related: related}, nil
}

// GetOwned 获取文章并校验归属
func (s *PostService) GetOwned(id, ownerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	if post.OwnerID == nil || *post.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return post, nil
}

// Create 创建文章草稿
func (s *PostService) Create(ownerID uint, input PostInput) (*models.Post, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug, err := s.uniqueSlug(input.Title, nil)
	if err != nil {
		return nil, err
	}

	post := models.Post{
		Title:      strings.TrimSpace(input.Title),
		Content:    input.Content,
		ImageURL:   strings.TrimSpace(input.ImageURL),
		Slug:       slug,
		CategoryID: category.ID,
		OwnerID:    &ownerID,
	}
	if err := s.postRepo.Create(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update 更新文章内容，标题变更时重新生成 slug
func (s *PostService) Update(id, ownerID uint, input PostInput) (*models.Post, error) {
	post, err := s.GetOwned(id, ownerID)
	if err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	title := strings.TrimSpace(input.Title)
	if title != post.Title {
		excludeID := post.ID
		slug, err := s.uniqueSlug(title, &excludeID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}

	post.Title = title
	post.Content = input.Content
	post.ImageURL = strings.TrimSpace(input.ImageURL)
	post.CategoryID = category.ID
	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete 删除文章，仅限归属作者
func (s *PostService) Delete(id, ownerID uint) error {
	post, err := s.GetOwned(id, ownerID)
	if err != nil {
		return err
	}
	return s.postRepo.Delete(post.ID)
}

// Publish 发布文章，仅限归属作者
func (s *PostService) Publish(id, ownerID uint) (*models.Post, error) {
	post, err := s.GetOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished {
		now := time.Now()
		post.IsPublished = true
		post.PublishedAt = &now
		if err := s.postRepo.Update(post); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// uniqueSlug 从标题生成唯一 slug，冲突时追加序号
func (s *PostService) uniqueSlug(title string, excludeID *uint) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}
	candidate := base
	for i := 2; ; i++ {
		count, err := s.postRepo.CountBySlug(candidate, excludeID)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Slugify 将标题转换为 URL 友好的 slug
func Slugify(value string) string {
	lowered := strings.ToLower(strings.TrimSpace(value))
	slug := slugInvalidChars.ReplaceAllString(lowered, "-")
	return strings.Trim(slug, "-")
}
