package queue

import (
	"encoding/json"

	"github.com/blognest/blognest/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPasswordResetMail 密码重置邮件任务
	TaskPasswordResetMail = constants.TaskPasswordResetMail
	// TaskContactMail 联系表单转发邮件任务
	TaskContactMail = constants.TaskContactMail
)

// PasswordResetMailPayload 密码重置邮件任务载荷
type PasswordResetMailPayload struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	ResetURL string `json:"reset_url"`
}

// ContactMailPayload 联系表单转发邮件任务载荷
type ContactMailPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// NewPasswordResetMailTask 创建密码重置邮件任务
func NewPasswordResetMailTask(payload PasswordResetMailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPasswordResetMail, body), nil
}

// NewContactMailTask 创建联系表单转发邮件任务
func NewContactMailTask(payload ContactMailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContactMail, body), nil
}
