package service

import "errors"

// 服务层哨兵错误，处理器通过 errors.Is 匹配后转换为页面提示
var (
	ErrNotFound                  = errors.New("record not found")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUsernameExists            = errors.New("username already exists")
	ErrEmailExists               = errors.New("email already exists")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrWeakPassword              = errors.New("password does not meet policy")
	ErrPasswordMismatch          = errors.New("passwords do not match")
	ErrResetTokenInvalid         = errors.New("reset token invalid or expired")
	ErrNotOwner                  = errors.New("post belongs to another user")
	ErrSlugExists                = errors.New("slug already exists")
	ErrCategoryNotFound          = errors.New("category not found")
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
