package public

import (
	"net/http"

	"github.com/blognest/blognest/internal/forms"
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/view"

	"github.com/gin-gonic/gin"
)

// ContactPage 联系表单页面
func (h *Handler) ContactPage(c *gin.Context) {
	view.Render(c, http.StatusOK, "contact.html", gin.H{
		"Title":  "Contact",
		"Form":   &forms.ContactForm{},
		"Errors": forms.Errors{},
	})
}

// ContactSubmit 提交联系表单，成功后投递邮件并带成功提示重新渲染空白表单
func (h *Handler) ContactSubmit(c *gin.Context) {
	form := &forms.ContactForm{
		Name:    c.PostForm("name"),
		Email:   c.PostForm("email"),
		Message: c.PostForm("message"),
	}
	errs := form.Validate()
	if errs.Has() {
		view.Render(c, http.StatusOK, "contact.html", gin.H{
			"Title":  "Contact",
			"Form":   form,
			"Errors": errs,
		})
		return
	}

	logger.Debugw("contact_form_submitted",
		"name", form.Name,
		"sender_email", form.Email,
		"message_length", len(form.Message),
	)
	h.ContactService.Submit(form.Name, form.Email, form.Message)
	view.Render(c, http.StatusOK, "contact.html", gin.H{
		"Title":   "Contact",
		"Form":    &forms.ContactForm{},
		"Errors":  forms.Errors{},
		"Success": "Your email has been sent!",
	})
}
