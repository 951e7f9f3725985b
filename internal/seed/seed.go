package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/service"

	"gorm.io/gorm"
)

// CategoryNames 固定的分类清单，执行时全量替换
var CategoryNames = []string{"sports", "Technology", "Science", "Arts", "Food"}

// PostSeed 文章种子数据
type PostSeed struct {
	Title    string
	Content  string
	ImageURL string
}

// PostSeeds 固定的文章清单，执行时全量替换
func PostSeeds() []PostSeed {
	titles := []string{
		"The Future of AI",
		"Climate Change Solutions",
		"Remote Work Trends",
		"Quantum Computing Explained",
		"Renewable Energy Innovations",
		"Deep Learning Demystified",
		"Post-Pandemic Economic Outlook",
		"Blockchain in Finance",
		"Storytelling in Marketing",
		"Medical Technology Advances",
		"Space Exploration Challenges",
		"Psychology of Decision Making",
		"Evolution of Social Media",
		"The Art of Cooking",
		"Cultural Diversity in Society",
		"Sustainable Development Investments",
		"Globalization Impact",
		"Power of Mindfulness",
		"Online Learning Revolution",
		"Art and Technology Fusion",
	}
	contents := []string{
		"Exploring the future of artificial intelligence and its impact on society...",
		"Discovering solutions to combat climate change and protect the environment...",
		"Analyzing trends and challenges in remote work environments...",
		"An introduction to the principles and applications of quantum computing...",
		"Investigating the latest innovations in renewable energy sources...",
		"Understanding the fundamentals of deep learning and neural networks...",
		"Examining the economic landscape in the aftermath of the COVID-19 pandemic...",
		"Exploring the potential of blockchain technology in the financial sector...",
		"Harnessing the power of storytelling to create compelling marketing campaigns...",
		"Highlighting breakthroughs and advancements in medical technology...",
		"Addressing the obstacles and opportunities in space exploration...",
		"Exploring the psychological factors influencing decision-making processes...",
		"Tracing the evolution of social media platforms and their impact on society...",
		"Celebrating the art of cooking and culinary creativity...",
		"Promoting inclusivity and embracing diversity in modern communities...",
		"Investigating sustainable development initiatives and their impact on the future...",
		"Examining the effects of globalization on local and global economies...",
		"Embracing mindfulness practices for enhanced well-being and productivity...",
		"Revolutionizing education through online learning platforms and resources...",
		"Exploring the intersection of art, design, and technology in the digital age...",
	}

	seeds := make([]PostSeed, 0, len(titles))
	for i, title := range titles {
		// 首张图片用大图尺寸，其余统一小图
		size := "200/300"
		if i == 0 {
			size = "800/400"
		}
		seeds = append(seeds, PostSeed{
			Title:    title,
			Content:  contents[i],
			ImageURL: fmt.Sprintf("https://picsum.photos/id/%d/%s", i+1, size),
		})
	}
	return seeds
}

// Categories 全量重建分类数据，返回插入后的分类
func Categories(db *gorm.DB) ([]models.Category, error) {
	if err := db.Unscoped().Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(CategoryNames))
	for _, name := range CategoryNames {
		category := models.Category{
			Name: name,
			Slug: service.Slugify(name),
		}
		if err := db.Create(&category).Error; err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

// Posts 全量重建文章数据，分类从已有分类中均匀随机选取。
// 种子文章无归属作者，直接以已发布状态进入公共列表。
func Posts(db *gorm.DB, categories []models.Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("no categories to assign, run category seed first")
	}
	if err := db.Unscoped().Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, item := range PostSeeds() {
		category := categories[rand.Intn(len(categories))]
		publishedAt := now
		post := models.Post{
			Title:       item.Title,
			Content:     item.Content,
			ImageURL:    item.ImageURL,
			Slug:        service.Slugify(item.Title),
			CategoryID:  category.ID,
			IsPublished: true,
			PublishedAt: &publishedAt,
		}
		if err := db.Create(&post).Error; err != nil {
			return err
		}
	}
	return nil
}

// About 确保关于页记录存在，不覆盖已有内容
func About(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.AboutUs{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.AboutUs{Content: constants.DefaultAboutContent}).Error
}

// Run 执行全部种子任务
func Run(db *gorm.DB) error {
	categories, err := Categories(db)
	if err != nil {
		return err
	}
	if err := Posts(db, categories); err != nil {
		return err
	}
	return About(db)
}
