package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blognest/blognest/internal/authz"
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{
			Name:    "Blognest",
			BaseURL: "http://localhost:8080",
		},
		Session: config.SessionConfig{
			Secret:      "unit-test-session-secret",
			ExpireHours: 1,
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

func setupAuthTest(t *testing.T) (*AuthService, *authz.Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrateWith(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	authzService, err := authz.NewService(db)
	if err != nil {
		t.Fatalf("init authz failed: %v", err)
	}
	authzService.BootstrapGroups()

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewPasswordResetTokenRepository(db)
	authService := NewAuthService(testConfig(), userRepo, tokenRepo, authzService, nil, nil)
	return authService, authzService, db
}

func TestRegisterAssignsReadersGroup(t *testing.T) {
	authService, authzService, _ := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	groups, err := authzService.UserGroups(user.ID)
	if err != nil {
		t.Fatalf("user groups failed: %v", err)
	}
	if len(groups) != 1 || groups[0] != "group:readers" {
		t.Fatalf("want exactly group:readers, got %v", groups)
	}

	allowed, err := authzService.HasPostPermission(user.ID, "view")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if !allowed {
		t.Fatalf("reader should hold view permission")
	}
	allowed, err = authzService.HasPostPermission(user.ID, "add")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allowed {
		t.Fatalf("reader should not hold add permission")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	if _, err := authService.Register("alice", "alice@example.com", "password1", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := authService.Register("alice", "other@example.com", "password1", "password1")
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("want ErrUsernameExists, got %v", err)
	}
}

func TestLoginWrongPasswordGenericError(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	if _, err := authService.Register("alice", "alice@example.com", "password1", "password1"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, _, err := authService.Login("alice", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for wrong password, got %v", err)
	}

	// 账号不存在与密码错误返回同一错误
	_, _, _, err = authService.Login("nobody", "password1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginAndResolveSession(t *testing.T) {
	authService, _, _ := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, token, expiresAt, err := authService.Login("alice", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("login returned invalid token/expiry")
	}

	state, err := authService.ResolveSession(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve session failed: %v", err)
	}
	if state.UserID != user.ID || state.Username != "alice" {
		t.Fatalf("resolved wrong user: %+v", state)
	}

	if _, err := authService.ResolveSession(context.Background(), token+"tampered"); err == nil {
		t.Fatalf("tampered token must not resolve")
	}
}

func createResetToken(t *testing.T, db *gorm.DB, userID uint, token string, expiresAt time.Time) *models.PasswordResetToken {
	t.Helper()
	record := &models.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("create reset token failed: %v", err)
	}
	return record
}

func TestResetPasswordSingleUse(t *testing.T) {
	authService, _, db := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	createResetToken(t, db, user.ID, "reset-token", time.Now().Add(time.Hour))

	uid := EncodeUID(user.ID)
	if err := authService.ResetPassword(uid, "reset-token", "newpassword2", "newpassword2"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	// 新密码生效
	if _, _, _, err := authService.Login("alice", "newpassword2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, _, err := authService.Login("alice", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must be rejected, got %v", err)
	}

	// 令牌单次有效
	err = authService.ResetPassword(uid, "reset-token", "anotherpass3", "anotherpass3")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("used token must be rejected, got %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	authService, _, db := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	createResetToken(t, db, user.ID, "expired-token", time.Now().Add(-time.Minute))

	err = authService.ResetPassword(EncodeUID(user.ID), "expired-token", "newpassword2", "newpassword2")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expired token must be rejected, got %v", err)
	}
}

func TestResetPasswordInvalidatesSessions(t *testing.T) {
	authService, _, db := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, token, _, err := authService.Login("alice", "password1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	createResetToken(t, db, user.ID, "reset-token", time.Now().Add(time.Hour))
	if err := authService.ResetPassword(EncodeUID(user.ID), "reset-token", "newpassword2", "newpassword2"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := authService.ResolveSession(context.Background(), token); err == nil {
		t.Fatalf("session issued before reset must be invalidated")
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	uid := EncodeUID(42)
	decoded, err := DecodeUID(uid)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded != 42 {
		t.Fatalf("want 42, got %d", decoded)
	}

	if _, err := DecodeUID("!!not-base64!!"); err == nil {
		t.Fatalf("invalid encoding must fail")
	}
}

// brokenUserRepo 模拟用户更新落库失败
type brokenUserRepo struct {
	repository.UserRepository
}

func (r *brokenUserRepo) Update(user *models.User) error {
	return errors.New("update rejected")
}

func TestResetPasswordKeepsTokenWhenUserUpdateFails(t *testing.T) {
	authService, authzService, db := setupAuthTest(t)

	user, err := authService.Register("alice", "alice@example.com", "password1", "password1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	createResetToken(t, db, user.ID, "reset-token", time.Now().Add(time.Hour))
	uid := EncodeUID(user.ID)

	broken := NewAuthService(
		testConfig(),
		&brokenUserRepo{UserRepository: repository.NewUserRepository(db)},
		repository.NewPasswordResetTokenRepository(db),
		authzService,
		nil,
		nil,
	)
	if err := broken.ResetPassword(uid, "reset-token", "newpassword2", "newpassword2"); err == nil {
		t.Fatalf("reset must fail when the user update fails")
	}

	// 更新失败时令牌未被核销，重试可成功
	if _, _, err := authService.ValidateResetToken(uid, "reset-token"); err != nil {
		t.Fatalf("token must stay valid after failed reset, got %v", err)
	}
	if err := authService.ResetPassword(uid, "reset-token", "newpassword2", "newpassword2"); err != nil {
		t.Fatalf("retry after failed reset must succeed, got %v", err)
	}
	if _, _, _, err := authService.Login("alice", "newpassword2"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
