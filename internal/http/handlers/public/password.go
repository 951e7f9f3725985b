package public

import (
	"errors"
	"net/http"

	"github.com/blognest/blognest/internal/constants"
	"github.com/blognest/blognest/internal/forms"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/service"
	"github.com/blognest/blognest/internal/session"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// ForgotPasswordPage 忘记密码页面
func (h *Handler) ForgotPasswordPage(c *gin.Context) {
	view.Render(c, http.StatusOK, "forgot_password.html", gin.H{
		"Title":  "Forgot Password",
		"Form":   &forms.ForgotPasswordForm{},
		"Errors": forms.Errors{},
	})
}

// ForgotPasswordSubmit 提交忘记密码请求，投递重置邮件
func (h *Handler) ForgotPasswordSubmit(c *gin.Context) {
	form := &forms.ForgotPasswordForm{Email: c.PostForm("email")}
	errs := form.Validate()
	if !errs.Has() {
		err := h.AuthService.ForgotPassword(form.Email)
		switch {
		case err == nil:
			session.AddFlash(c, constants.FlashSuccess, "Reset password email has been sent.")
		case errors.Is(err, service.ErrNotFound):
			session.AddFlash(c, constants.FlashError, "No user found with that email.")
		case errors.Is(err, service.ErrInvalidEmail):
			errs["email"] = "Enter a valid email address."
		default:
			logger.Errorw("forgot_password_failed", "error", err)
			session.AddFlash(c, constants.FlashError, "Unable to send reset email. Please try again.")
		}
	}

	view.Render(c, http.StatusOK, "forgot_password.html", gin.H{
		"Title":  "Forgot Password",
		"Form":   form,
		"Errors": errs,
	})
}

// ResetPasswordPage 重置密码页面。链接无效时直接提示并回到忘记密码页。
func (h *Handler) ResetPasswordPage(c *gin.Context) {
	uidb64 := c.Param("uidb64")
	token := c.Param("token")

	if _, _, err := h.AuthService.ValidateResetToken(uidb64, token); err != nil {
		if !errors.Is(err, service.ErrResetTokenInvalid) {
			logger.Errorw("reset_password_validate_failed", "error", err)
		}
		session.AddFlash(c, constants.FlashError, "The reset link is invalid or has expired.")
		c.Redirect(http.StatusFound, "/forgot-password")
		return
	}

	view.Render(c, http.StatusOK, "reset_password.html", gin.H{
		"Title":  "Reset Password",
		"UID":    uidb64,
		"Token":  token,
		"Errors": forms.Errors{},
	})
}

// ResetPasswordSubmit 提交新密码，令牌单次有效
func (h *Handler) ResetPasswordSubmit(c *gin.Context) {
	uidb64 := c.Param("uidb64")
	token := c.Param("token")

	form := &forms.ResetPasswordForm{
		Password1: c.PostForm("password1"),
		Password2: c.PostForm("password2"),
	}
	errs := form.Validate()
	if !errs.Has() {
		err := h.AuthService.ResetPassword(uidb64, token, form.Password1, form.Password2)
		switch {
		case err == nil:
			session.AddFlash(c, constants.FlashSuccess, "Password reset successfully. You can now log in.")
			c.Redirect(http.StatusFound, "/login")
			return
		case errors.Is(err, service.ErrResetTokenInvalid):
			session.AddFlash(c, constants.FlashError, "The reset link is invalid or has expired.")
			c.Redirect(http.StatusFound, "/forgot-password")
			return
		case errors.Is(err, service.ErrPasswordMismatch):
			errs["password2"] = "Passwords do not match."
		case errors.Is(err, service.ErrWeakPassword):
			errs["password1"] = err.Error()
		default:
			logger.Errorw("reset_password_failed", "error", err)
			session.AddFlash(c, constants.FlashError, "Unable to reset password. Please try again.")
		}
	}

	view.Render(c, http.StatusOK, "reset_password.html", gin.H{
		"Title":  "Reset Password",
		"UID":    uidb64,
		"Token":  token,
		"Errors": errs,
	})
}
