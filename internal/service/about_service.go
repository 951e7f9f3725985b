package service

import (
	"context"
	"strings"
	"time"

	"github.com/blognest/blognest/internal/cache"
	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/repository"
)

const (
	aboutCacheKey = "page:about"
	aboutCacheTTL = 5 * time.Minute
)

// AboutService 关于页业务服务
type AboutService struct {
	repo repository.AboutRepository
}

// NewAboutService 创建关于页服务
func NewAboutService(repo repository.AboutRepository) *AboutService {
	return &AboutService{repo: repo}
}

// Content 获取关于页正文。记录缺失或内容为空时返回默认文案。
func (s *AboutService) Content(ctx context.Context) (string, error) {
	var cached string
	if hit, err := cache.GetJSON(ctx, aboutCacheKey, &cached); err != nil {
		logger.Warnw("about_cache_read_failed", "error", err)
	} else if hit && strings.TrimSpace(cached) != "" {
		return cached, nil
	}

	about, err := s.repo.First()
	if err != nil {
		return "", err
	}
	content := constants.DefaultAboutContent
	if about != nil && strings.TrimSpace(about.Content) != "" {
		content = about.Content
	}

	if err := cache.SetJSON(ctx, aboutCacheKey, content, aboutCacheTTL); err != nil {
		logger.Warnw("about_cache_write_failed", "error", err)
	}
	return content, nil
}
