package service

import (
	"github.com/blognest/blognest/internal/logger"
	"github.com/blognest/blognest/internal/queue"
)

// ContactService 联系表单业务服务
type ContactService struct {
	emailService *EmailService
	queueClient  *queue.Client
}

// NewContactService 创建联系表单服务
func NewContactService(emailService *EmailService, queueClient *queue.Client) *ContactService {
	return &ContactService{
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// Submit 处理联系表单提交。
// 优先投递队列异步发送，队列不可用时降级为同步发送；
// 发送失败只记录日志，页面始终回到成功提示。
func (s *ContactService) Submit(name, email, message string) {
	payload := queue.ContactMailPayload{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueContactMail(payload)
		if err == nil {
			return
		}
		logger.Warnw("contact_mail_enqueue_failed", "sender_email", email, "error", err)
	}
	if s.emailService != nil {
		if err := s.emailService.SendContactEmail(name, email, message); err != nil {
			logger.Warnw("contact_mail_send_failed", "sender_email", email, "error", err)
		}
	}
}
