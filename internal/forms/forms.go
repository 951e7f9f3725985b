package forms

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength    = 100
	maxTitleLength   = 200
	maxMessageLength = 5000
	maxContentLength = 100000
)

// Errors 字段校验错误集合，键为字段名
type Errors map[string]string

// Has 判断是否存在校验错误
func (e Errors) Has() bool {
	return len(e) > 0
}

// ContactForm 联系表单
type ContactForm struct {
	Name    string
	Email   string
	Message string
}

// Validate 校验联系表单
func (f *ContactForm) Validate() Errors {
	errs := Errors{}
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)

	if f.Name == "" {
		errs["name"] = "Name is required."
	} else if utf8.RuneCountInString(f.Name) > maxNameLength {
		errs["name"] = "Name is too long."
	}
	validateEmailField(errs, "email", f.Email)
	if f.Message == "" {
		errs["message"] = "Message is required."
	} else if utf8.RuneCountInString(f.Message) > maxMessageLength {
		errs["message"] = "Message is too long."
	}
	return errs
}

// RegisterForm 注册表单
type RegisterForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

// Validate 校验注册表单
func (f *RegisterForm) Validate() Errors {
	errs := Errors{}
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)

	if f.Username == "" {
		errs["username"] = "Username is required."
	} else if utf8.RuneCountInString(f.Username) > maxNameLength {
		errs["username"] = "Username is too long."
	}
	validateEmailField(errs, "email", f.Email)
	if f.Password1 == "" {
		errs["password1"] = "Password is required."
	}
	if f.Password2 == "" {
		errs["password2"] = "Password confirmation is required."
	} else if f.Password1 != "" && f.Password1 != f.Password2 {
		errs["password2"] = "Passwords do not match."
	}
	return errs
}

// LoginForm 登录表单
type LoginForm struct {
	Username string
	Password string
}

// Validate 校验登录表单
func (f *LoginForm) Validate() Errors {
	errs := Errors{}
	f.Username = strings.TrimSpace(f.Username)

	if f.Username == "" {
		errs["username"] = "Username is required."
	}
	if f.Password == "" {
		errs["password"] = "Password is required."
	}
	return errs
}

// ForgotPasswordForm 忘记密码表单
type ForgotPasswordForm struct {
	Email string
}

// Validate 校验忘记密码表单
func (f *ForgotPasswordForm) Validate() Errors {
	errs := Errors{}
	f.Email = strings.TrimSpace(f.Email)
	validateEmailField(errs, "email", f.Email)
	return errs
}

// ResetPasswordForm 重置密码表单
type ResetPasswordForm struct {
	Password1 string
	Password2 string
}

// Validate 校验重置密码表单
func (f *ResetPasswordForm) Validate() Errors {
	errs := Errors{}
	if f.Password1 == "" {
		errs["password1"] = "Password is required."
	}
	if f.Password2 == "" {
		errs["password2"] = "Password confirmation is required."
	} else if f.Password1 != "" && f.Password1 != f.Password2 {
		errs["password2"] = "Passwords do not match."
	}
	return errs
}

// PostForm 文章创建/编辑表单
type PostForm struct {
	Title      string
	Content    string
	ImageURL   string
	CategoryID uint
}

// Bind 从表单字段填充，category 为下拉框提交的字符串 ID
func (f *PostForm) Bind(title, content, imageURL, categoryID string) {
	f.Title = strings.TrimSpace(title)
	f.Content = strings.TrimSpace(content)
	f.ImageURL = strings.TrimSpace(imageURL)
	if id, err := strconv.ParseUint(strings.TrimSpace(categoryID), 10, 64); err == nil {
		f.CategoryID = uint(id)
	}
}

// Validate 校验文章表单
func (f *PostForm) Validate() Errors {
	errs := Errors{}
	if f.Title == "" {
		errs["title"] = "Title is required."
	} else if utf8.RuneCountInString(f.Title) > maxTitleLength {
		errs["title"] = "Title is too long."
	}
	if f.Content == "" {
		errs["content"] = "Content is required."
	} else if utf8.RuneCountInString(f.Content) > maxContentLength {
		errs["content"] = "Content is too long."
	}
	if f.CategoryID == 0 {
		errs["category"] = "Category is required."
	}
	return errs
}

func validateEmailField(errs Errors, field, value string) {
	if value == "" {
		errs[field] = "Email is required."
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		errs[field] = "Enter a valid email address."
	}
}
