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

// RegisterPage 注册页面
func (h *Handler) RegisterPage(c *gin.Context) {
	view.Render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   &forms.RegisterForm{},
		"Errors": forms.Errors{},
	})
}

// RegisterSubmit 提交注册，成功后重定向到登录页
func (h *Handler) RegisterSubmit(c *gin.Context) {
	form := &forms.RegisterForm{
		Username:  c.PostForm("username"),
		Email:     c.PostForm("email"),
		Password1: c.PostForm("password1"),
		Password2: c.PostForm("password2"),
	}
	errs := form.Validate()
	if !errs.Has() {
		_, err := h.AuthService.Register(form.Username, form.Email, form.Password1, form.Password2)
		switch {
		case err == nil:
			session.AddFlash(c, constants.FlashSuccess, "Registration successful. You can now log in.")
			c.Redirect(http.StatusFound, "/login")
			return
		case errors.Is(err, service.ErrUsernameExists):
			errs["username"] = "A user with that username already exists."
		case errors.Is(err, service.ErrEmailExists):
			errs["email"] = "A user with that email already exists."
		case errors.Is(err, service.ErrInvalidEmail):
			errs["email"] = "Enter a valid email address."
		case errors.Is(err, service.ErrWeakPassword):
			errs["password1"] = err.Error()
		case errors.Is(err, service.ErrPasswordMismatch):
			errs["password2"] = "Passwords do not match."
		default:
			logger.Errorw("register_failed", "username", form.Username, "error", err)
			session.AddFlash(c, constants.FlashError, "Registration failed. Please try again.")
		}
	}

	view.Render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": errs,
	})
}

// LoginPage 登录页面
func (h *Handler) LoginPage(c *gin.Context) {
	view.Render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Login",
		"Form":   &forms.LoginForm{},
		"Errors": forms.Errors{},
	})
}

// LoginSubmit 提交登录。凭据错误时提示不区分账号是否存在。
func (h *Handler) LoginSubmit(c *gin.Context) {
	form := &forms.LoginForm{
		Username: c.PostForm("username"),
		Password: c.PostForm("password"),
	}
	errs := form.Validate()
	if !errs.Has() {
		_, token, expiresAt, err := h.AuthService.Login(form.Username, form.Password)
		if err == nil {
			h.SessionManager.SetToken(c, token, expiresAt)
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		if !errors.Is(err, service.ErrInvalidCredentials) {
			logger.Errorw("login_failed", "username", form.Username, "error", err)
		}
		session.AddFlash(c, constants.FlashError, "Invalid username or password.")
	}

	view.Render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Login",
		"Form":   form,
		"Errors": errs,
	})
}

// Logout 退出登录，清除会话后回到首页
func (h *Handler) Logout(c *gin.Context) {
	if userID, ok := currentUserID(c); ok {
		h.AuthService.Logout(userID)
	}
	h.SessionManager.ClearToken(c)
	c.Redirect(http.StatusFound, "/")
}
