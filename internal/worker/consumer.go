package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/provider"
	"github.com/blognest/blognest/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPasswordResetMail, c.handlePasswordResetMail)
	mux.HandleFunc(queue.TaskContactMail, c.handleContactMail)
}

func (c *Consumer) handlePasswordResetMail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_password_reset_mail_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PasswordResetMailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_password_reset_mail_unmarshal_failed", "error", err)
		return err
	}
	receiver := strings.TrimSpace(payload.Email)
	if receiver == "" || payload.ResetURL == "" {
		logger.Debugw("worker_password_reset_mail_skip_invalid_payload",
			"user_id", payload.UserID,
			"has_email", receiver != "",
		)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_password_reset_mail_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendPasswordResetEmail(receiver, payload.ResetURL); err != nil {
		logger.Warnw("worker_password_reset_mail_send_failed",
			"user_id", payload.UserID,
			"receiver_email", receiver,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleContactMail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_contact_mail_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ContactMailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_contact_mail_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Email) == "" || strings.TrimSpace(payload.Message) == "" {
		logger.Debugw("worker_contact_mail_skip_invalid_payload", "sender_email", payload.Email)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_contact_mail_skip_email_service_nil", "sender_email", payload.Email)
		return nil
	}
	if err := c.EmailService.SendContactEmail(payload.Name, payload.Email, payload.Message); err != nil {
		logger.Warnw("worker_contact_mail_send_failed",
			"sender_email", payload.Email,
			"error", err,
		)
		return err
	}
	return nil
}
