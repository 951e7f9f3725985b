package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/blognest/blognest/internal/authz"
	"github.com/blognest/blognest/internal/cache"
	"github.com/blognest/blognest/internal/config"
	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/models"
	"github.com/blognest/blognest/internal/queue"
	"github.com/blognest/blognest/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenBytes = 32

// AuthService 认证服务：注册、登录、会话令牌与密码重置
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	tokenRepo    repository.PasswordResetTokenRepository
	authzService *authz.Service
	emailService *EmailService
	queueClient  *queue.Client
}

// NewAuthService 创建认证服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	tokenRepo repository.PasswordResetTokenRepository,
	authzService *authz.Service,
	emailService *EmailService,
	queueClient *queue.Client,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		authzService: authzService,
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// SessionClaims 会话 JWT 声明（HTTP-only Cookie 承载）
type SessionClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 生成会话令牌
func (s *AuthService) GenerateSessionToken(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.Session.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := SessionClaims{
		UserID:       user.ID,
		Username:     user.Username,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.Session.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseSessionToken 解析会话令牌
func (s *AuthService) ParseSessionToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Session.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid session token")
}

// ResolveSession 校验会话令牌并返回当前用户。
// 令牌版本或失效时间不匹配时视为会话过期。
func (s *AuthService) ResolveSession(ctx context.Context, tokenString string) (*cache.UserAuthState, error) {
	claims, err := s.ParseSessionToken(tokenString)
	if err != nil {
		return nil, err
	}

	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.Warnw("auth_state_cache_read_failed", "user_id", claims.UserID, "error", err)
	}
	if !hit || state == nil {
		user, err := s.userRepo.GetByID(claims.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		state = cache.BuildUserAuthState(user)
		_ = cache.SetUserAuthState(ctx, state)
	}

	if state.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session token version mismatch")
	}
	if state.TokenInvalidBefore > 0 && claims.IssuedAt != nil {
		if claims.IssuedAt.Time.Unix() < state.TokenInvalidBefore {
			return nil, errors.New("session token invalidated")
		}
	}
	return state, nil
}

// Register 用户注册，成功后加入 Readers 用户组
func (s *AuthService) Register(username, email, password, confirm string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	if exist, err := s.userRepo.GetByUsername(username); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrUsernameExists
	}
	if exist, err := s.userRepo.GetByEmail(normalized); err != nil {
		return nil, err
	} else if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Username:     username,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.authzService != nil {
		if err := s.authzService.AssignUserGroup(user.ID, constants.GroupReaders); err != nil {
			logger.Errorw("register_assign_readers_failed", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

// Login 用户登录。用户不存在与密码错误返回同一错误，避免枚举账号。
func (s *AuthService) Login(username, password string) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateSessionToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Logout 清理服务端会话快照，Cookie 由处理器清除
func (s *AuthService) Logout(userID uint) {
	if userID == 0 {
		return
	}
	_ = cache.DelUserAuthState(context.Background(), userID)
}

// ForgotPassword 生成重置令牌并投递重置邮件。
// 邮箱未注册时返回 ErrNotFound，页面提示与原站一致。
func (s *AuthService) ForgotPassword(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	token, err := randomResetToken()
	if err != nil {
		return err
	}
	expireHours := s.cfg.Security.ResetTokenHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	record := &models.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: now.Add(time.Duration(expireHours) * time.Hour),
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return err
	}

	resetURL := s.buildResetURL(user.ID, token)
	payload := queue.PasswordResetMailPayload{
		UserID:   user.ID,
		Email:    user.Email,
		ResetURL: resetURL,
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueuePasswordResetMail(payload)
		if err == nil {
			return nil
		}
		logger.Warnw("password_reset_mail_enqueue_failed", "user_id", user.ID, "error", err)
	}
	if s.emailService != nil {
		if err := s.emailService.SendPasswordResetEmail(user.Email, resetURL); err != nil {
			logger.Warnw("password_reset_mail_send_failed", "user_id", user.ID, "error", err)
		}
	}
	return nil
}

// ValidateResetToken 校验重置链接中的 uid 与令牌
func (s *AuthService) ValidateResetToken(uidb64, token string) (*models.User, *models.PasswordResetToken, error) {
	userID, err := DecodeUID(uidb64)
	if err != nil {
		return nil, nil, ErrResetTokenInvalid
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrResetTokenInvalid
	}

	record, err := s.tokenRepo.GetByUserAndToken(user.ID, strings.TrimSpace(token))
	if err != nil {
		return nil, nil, err
	}
	if record == nil || record.UsedAt != nil || record.ExpiresAt.Before(time.Now()) {
		return nil, nil, ErrResetTokenInvalid
	}
	return user, record, nil
}

// ResetPassword 使用重置令牌设置新密码。
// 令牌单次有效，成功后历史会话全部失效。
func (s *AuthService) ResetPassword(uidb64, token, newPassword, confirm string) error {
	user, record, err := s.ValidateResetToken(uidb64, token)
	if err != nil {
		return err
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// 先落库新密码，再核销令牌：用户更新失败时令牌保持可重试
	now := time.Now()
	user.PasswordHash = string(hashedPassword)
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.tokenRepo.MarkUsed(record.ID, now); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) buildResetURL(userID uint, token string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Site.BaseURL), "/")
	return fmt.Sprintf("%s/reset-password/%s/%s", base, EncodeUID(userID), token)
}

// EncodeUID 将用户 ID 编码为 URL 安全的 base64
func EncodeUID(userID uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(userID), 10)))
}

// DecodeUID 解码重置链接中的用户 ID
func DecodeUID(uidb64 string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(uidb64))
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.New("invalid uid")
	}
	return uint(id), nil
}

func randomResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
