package router

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blognest/blognest/internal/authz"
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/provider"
	"github.com/blognest/blognest/internal/repository"
	"github.com/blognest/blognest/internal/service"
	"github.com/blognest/blognest/internal/session"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func routerTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		Site: config.SiteConfig{
			Name:    "Blognest",
			BaseURL: "http://localhost:8080",
		},
		Session: config.SessionConfig{
			Secret:      "router-test-session-secret",
			ExpireHours: 1,
			CookieName:  "blognest_session",
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireLower:  true,
				RequireNumber: true,
			},
			ResetTokenHours: 1,
		},
		Blog: config.BlogConfig{PageSize: 5, RelatedPostLimit: 3},
	}
}

func setupRouterTest(t *testing.T) (*gin.Engine, *provider.Container, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := routerTestConfig()
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("init authz failed: %v", err)
	}
	authzService.BootstrapGroups()

	c := &provider.Container{Config: cfg}
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.AboutRepo = repository.NewAboutRepository(db)
	c.ResetTokenRepo = repository.NewPasswordResetTokenRepository(db)

	c.AuthzService = authzService
	c.EmailService = service.NewEmailService(&cfg.Email, cfg.Site.Name)
	c.AuthService = service.NewAuthService(cfg, c.UserRepo, c.ResetTokenRepo, authzService, c.EmailService, nil)
	c.PostService = service.NewPostService(c.PostRepo, c.CategoryRepo, cfg.Blog.RelatedPostLimit)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.AboutService = service.NewAboutService(c.AboutRepo)
	c.ContactService = service.NewContactService(c.EmailService, nil)
	c.SessionManager = session.NewManager(&cfg.Session)

	return SetupRouter(cfg, c), c, db
}

func registerTestUser(t *testing.T, c *provider.Container, username string) *models.User {
	t.Helper()
	user, err := c.AuthService.Register(username, username+"@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register %s failed: %v", username, err)
	}
	return user
}

func loginTestUser(t *testing.T, engine *gin.Engine, username string) *http.Cookie {
	t.Helper()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", "password1")
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("login %s: want 302, got %d", username, w.Code)
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "blognest_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatalf("login %s did not set a session cookie", username)
	return nil
}

func createPublishedPost(t *testing.T, db *gorm.DB, slug string, ownerID *uint) *models.Post {
	t.Helper()
	category := models.Category{Name: "cat-" + slug, Slug: "cat-" + slug}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	now := time.Now()
	post := models.Post{
		Title:       "Title " + slug,
		Content:     "Content of " + slug,
		Slug:        slug,
		CategoryID:  category.ID,
		IsPublished: true,
		PublishedAt: &now,
		OwnerID:     ownerID,
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	return &post
}

func doRequest(engine *gin.Engine, method, target string, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestGatesOrderInsensitive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	orders := [][]gin.HandlerFunc{
		{RedirectAuthenticatedGate(), RestrictUnauthenticatedGate()},
		{RestrictUnauthenticatedGate(), RedirectAuthenticatedGate()},
	}

	for i, gates := range orders {
		// 已登录用户访问登录页被带回首页
		authed := gin.New()
		authed.Use(func(ctx *gin.Context) {
			ctx.Set(view.CtxUserID, uint(1))
			ctx.Next()
		})
		authed.Use(gates...)
		authed.GET("/login", func(ctx *gin.Context) { ctx.String(http.StatusOK, "login") })
		authed.GET("/dashboard", func(ctx *gin.Context) { ctx.String(http.StatusOK, "dashboard") })

		w := httptest.NewRecorder()
		authed.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
			t.Fatalf("order %d: authed /login want redirect /, got %d %s", i, w.Code, w.Header().Get("Location"))
		}

		w = httptest.NewRecorder()
		authed.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("order %d: authed /dashboard want 200, got %d", i, w.Code)
		}

		// 匿名用户访问工作台被带去登录页
		anonymous := gin.New()
		anonymous.Use(gates...)
		anonymous.GET("/login", func(ctx *gin.Context) { ctx.String(http.StatusOK, "login") })
		anonymous.GET("/dashboard", func(ctx *gin.Context) { ctx.String(http.StatusOK, "dashboard") })

		w = httptest.NewRecorder()
		anonymous.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
			t.Fatalf("order %d: anonymous /dashboard want redirect /login, got %d %s", i, w.Code, w.Header().Get("Location"))
		}

		w = httptest.NewRecorder()
		anonymous.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("order %d: anonymous /login want 200, got %d", i, w.Code)
		}
	}
}

func TestAuthenticatedUserRedirectedFromAuthPages(t *testing.T) {
	engine, c, _ := setupRouterTest(t)
	registerTestUser(t, c, "alice")
	cookie := loginTestUser(t, engine, "alice")

	for _, path := range []string{"/login", "/register"} {
		w := doRequest(engine, http.MethodGet, path, "", cookie)
		if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
			t.Fatalf("%s: want redirect /, got %d %s", path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestAnonymousDashboardRedirectsToLogin(t *testing.T) {
	engine, _, _ := setupRouterTest(t)

	w := doRequest(engine, http.MethodGet, "/dashboard", "")
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Fatalf("want redirect /login, got %d %s", w.Code, w.Header().Get("Location"))
	}
}

func TestDashboardRequiresAddPermission(t *testing.T) {
	engine, c, _ := setupRouterTest(t)
	user := registerTestUser(t, c, "reader")
	cookie := loginTestUser(t, engine, "reader")

	// 仅 Readers 组：无 add 权限，直接 403
	w := doRequest(engine, http.MethodGet, "/dashboard", "", cookie)
	if w.Code != http.StatusForbidden {
		t.Fatalf("reader on dashboard: want 403, got %d", w.Code)
	}

	if err := c.AuthzService.AssignUserGroup(user.ID, constants.GroupAuthors); err != nil {
		t.Fatalf("assign authors failed: %v", err)
	}

	w = doRequest(engine, http.MethodGet, "/dashboard", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("author on dashboard: want 200, got %d", w.Code)
	}
}

func TestDashboardListsOwnPostsOnly(t *testing.T) {
	engine, c, db := setupRouterTest(t)
	alice := registerTestUser(t, c, "alice")
	bob := registerTestUser(t, c, "bob")
	for _, user := range []*models.User{alice, bob} {
		if err := c.AuthzService.AssignUserGroup(user.ID, constants.GroupAuthors); err != nil {
			t.Fatalf("assign authors failed: %v", err)
		}
	}
	createPublishedPost(t, db, "alice-post", &alice.ID)
	createPublishedPost(t, db, "bob-post", &bob.ID)

	cookie := loginTestUser(t, engine, "alice")
	w := doRequest(engine, http.MethodGet, "/dashboard", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Title alice-post") {
		t.Fatalf("dashboard missing own post")
	}
	if strings.Contains(body, "Title bob-post") {
		t.Fatalf("dashboard leaked another author's post")
	}
}

func TestEditPostByNonOwnerRejected(t *testing.T) {
	engine, c, db := setupRouterTest(t)
	alice := registerTestUser(t, c, "alice")
	bob := registerTestUser(t, c, "bob")
	for _, user := range []*models.User{alice, bob} {
		if err := c.AuthzService.AssignUserGroup(user.ID, constants.GroupAuthors); err != nil {
			t.Fatalf("assign authors failed: %v", err)
		}
	}
	post := createPublishedPost(t, db, "alice-post", &alice.ID)

	cookie := loginTestUser(t, engine, "bob")
	form := url.Values{}
	form.Set("title", "Hijacked")
	form.Set("content", "changed")
	form.Set("category", fmt.Sprintf("%d", post.CategoryID))
	w := doRequest(engine, http.MethodPost, fmt.Sprintf("/edit-post/%d", post.ID), form.Encode(), cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("want redirect /dashboard, got %d %s", w.Code, w.Header().Get("Location"))
	}

	var stored models.Post
	if err := db.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("load post failed: %v", err)
	}
	if stored.Title != post.Title || stored.Content != post.Content {
		t.Fatalf("post mutated by non-owner: %+v", stored)
	}
}

func TestPostDetailNotFound(t *testing.T) {
	engine, _, _ := setupRouterTest(t)

	w := doRequest(engine, http.MethodGet, "/post/missing-slug", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
}

func TestPostDetailRendersPublished(t *testing.T) {
	engine, _, db := setupRouterTest(t)
	post := createPublishedPost(t, db, "hello-world", nil)

	w := doRequest(engine, http.MethodGet, "/post/"+post.Slug, "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), post.Title) {
		t.Fatalf("detail page missing post title")
	}
}

func TestAboutPageDefaultContent(t *testing.T) {
	engine, _, _ := setupRouterTest(t)

	w := doRequest(engine, http.MethodGet, "/about", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), constants.DefaultAboutContent) {
		t.Fatalf("about page missing default content")
	}
}

func TestCustomNotFoundPage(t *testing.T) {
	engine, _, _ := setupRouterTest(t)

	w := doRequest(engine, http.MethodGet, "/no-such-page", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "404") {
		t.Fatalf("custom 404 page not rendered")
	}
}

func TestHomeListsPublishedOnly(t *testing.T) {
	engine, _, db := setupRouterTest(t)
	createPublishedPost(t, db, "visible-post", nil)

	draftCategory := models.Category{Name: "drafts", Slug: "drafts"}
	if err := db.Create(&draftCategory).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	draft := models.Post{
		Title:      "Draft Post",
		Content:    "hidden",
		Slug:       "draft-post",
		CategoryID: draftCategory.ID,
	}
	if err := db.Create(&draft).Error; err != nil {
		t.Fatalf("create draft failed: %v", err)
	}

	w := doRequest(engine, http.MethodGet, "/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Title visible-post") {
		t.Fatalf("home missing published post")
	}
	if strings.Contains(body, "Draft Post") {
		t.Fatalf("home leaked a draft post")
	}
}

func TestLogoutClearsSession(t *testing.T) {
	engine, c, _ := setupRouterTest(t)
	registerTestUser(t, c, "alice")
	cookie := loginTestUser(t, engine, "alice")

	w := doRequest(engine, http.MethodPost, "/logout", "x=1", cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("want redirect /, got %d %s", w.Code, w.Header().Get("Location"))
	}

	cleared := false
	for _, set := range w.Result().Cookies() {
		if set.Name == "blognest_session" && set.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("logout did not clear the session cookie")
	}
}

func TestNewPostOpenToAnyLoggedInUser(t *testing.T) {
	engine, c, db := setupRouterTest(t)
	user := registerTestUser(t, c, "freshreader")
	cookie := loginTestUser(t, engine, "freshreader")

	// 新注册用户只在 Readers 组，依然可以进入发文页面
	w := doRequest(engine, http.MethodGet, "/new-post", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("reader on /new-post: want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "New Post") {
		t.Fatalf("new-post page missing form heading")
	}

	category := models.Category{Name: "general", Slug: "general"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}

	form := url.Values{}
	form.Set("title", "First Post")
	form.Set("content", "Body of the first post")
	form.Set("category", fmt.Sprintf("%d", category.ID))
	w = doRequest(engine, http.MethodPost, "/new-post", form.Encode(), cookie)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("want redirect /dashboard, got %d %s", w.Code, w.Header().Get("Location"))
	}

	var stored models.Post
	if err := db.Where("title = ?", "First Post").First(&stored).Error; err != nil {
		t.Fatalf("created post not found: %v", err)
	}
	if stored.OwnerID == nil || *stored.OwnerID != user.ID {
		t.Fatalf("post owner mismatch: %+v", stored.OwnerID)
	}
	if stored.IsPublished {
		t.Fatalf("new post must start unpublished")
	}
}

func TestContactSubmitShowsSuccessMessage(t *testing.T) {
	engine, _, _ := setupRouterTest(t)

	form := url.Values{}
	form.Set("name", "Jane")
	form.Set("email", "jane@example.com")
	form.Set("message", "Hello there")
	w := doRequest(engine, http.MethodPost, "/contact", form.Encode())
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Your email has been sent!") {
		t.Fatalf("contact page missing success message")
	}
	// 成功后表单清空
	if strings.Contains(body, "Jane") {
		t.Fatalf("contact form not reset after success")
	}
}

func TestAboutPageFallsBackOnStorageError(t *testing.T) {
	engine, _, db := setupRouterTest(t)

	if err := db.Migrator().DropTable(&models.AboutUs{}); err != nil {
		t.Fatalf("drop table failed: %v", err)
	}

	w := doRequest(engine, http.MethodGet, "/about", "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), constants.DefaultAboutContent) {
		t.Fatalf("about page missing default content on storage error")
	}
}
