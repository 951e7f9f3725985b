package provider

import (
	"github.com/blognest/blognest/internal/authz"
	"github.com/blognest/blognest/internal/cache"
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/queue"
	"github.com/blognest/blognest/internal/repository"
	"github.com/blognest/blognest/internal/service"
	"github.com/blognest/blognest/internal/session"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo       repository.UserRepository
	CategoryRepo   repository.CategoryRepository
	PostRepo       repository.PostRepository
	AboutRepo      repository.AboutRepository
	ResetTokenRepo repository.PasswordResetTokenRepository

	// Services
	AuthzService    *authz.Service
	EmailService    *service.EmailService
	AuthService     *service.AuthService
	PostService     *service.PostService
	CategoryService *service.CategoryService
	AboutService    *service.AboutService
	ContactService  *service.ContactService

	// Session
	SessionManager *session.Manager
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.AboutRepo = repository.NewAboutRepository(db)
	c.ResetTokenRepo = repository.NewPasswordResetTokenRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	c.AuthzService.BootstrapGroups()

	c.EmailService = service.NewEmailService(&c.Config.Email, c.Config.Site.Name)
	c.AuthService = service.NewAuthService(c.Config, c.UserRepo, c.ResetTokenRepo, c.AuthzService, c.EmailService, c.QueueClient)
	c.PostService = service.NewPostService(c.PostRepo, c.CategoryRepo, c.Config.Blog.RelatedPostLimit)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.AboutService = service.NewAboutService(c.AboutRepo)
	c.ContactService = service.NewContactService(c.EmailService, c.QueueClient)

	c.SessionManager = session.NewManager(&c.Config.Session)
}
