package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"gopkg.in/gomail.v2"
)

// Mailer 外部消息投递接口，返回 nil 表示投递成功
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer 基于 gomail 的 SMTP 投递实现
type SMTPMailer struct {
	cfg  *config.EmailConfig
	dial func(cfg *config.EmailConfig, msg *gomail.Message) error
}

// NewSMTPMailer 创建 SMTP 投递器
func NewSMTPMailer(cfg *config.EmailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, dial: dialAndSend}
}

// Send 发送纯文本邮件
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m == nil || m.cfg == nil || !m.cfg.Enabled {
		return ErrMailerDisabled
	}
	if strings.TrimSpace(m.cfg.Host) == "" || m.cfg.Port == 0 || strings.TrimSpace(m.cfg.From) == "" {
		return fmt.Errorf("smtp is not configured")
	}
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dial(m.cfg, msg); err != nil {
		if isEmailRecipientRejected(err) {
			return fmt.Errorf("recipient rejected: %w", err)
		}
		return err
	}
	return nil
}

func dialAndSend(cfg *config.EmailConfig, msg *gomail.Message) error {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseSSL
	return dialer.DialAndSend(msg)
}

// EmailService 业务邮件内容组装
type EmailService struct {
	mailer Mailer
}

// NewEmailService 创建邮件服务
func NewEmailService(mailer Mailer) *EmailService {
	return &EmailService{mailer: mailer}
}

// SendVerificationCode 发送一次性验证码
func (s *EmailService) SendVerificationCode(ctx context.Context, to, code, purpose string) error {
	subject, body := buildVerificationCodeContent(code, purpose)
	return s.mailer.Send(ctx, to, subject, body)
}

// SendOrderStatus 发送订单状态通知
func (s *EmailService) SendOrderStatus(ctx context.Context, to string, order *models.Order) error {
	if order == nil {
		return nil
	}
	subject, body := buildOrderStatusContent(order)
	return s.mailer.Send(ctx, to, subject, body)
}

func buildVerificationCodeContent(code, purpose string) (string, string) {
	subject := "Your Memoriestore verification code"
	action := "verify your email"
	switch purpose {
	case constants.VerifyPurposeRegistration:
		subject = "Complete your Memoriestore registration"
		action = "finish creating your account"
	case constants.VerifyPurposePasswordReset:
		subject = "Reset your Memoriestore password"
		action = "reset your password"
	}
	body := fmt.Sprintf("Your verification code is %s.\n\nUse it to %s. It expires in a few minutes; do not share it with anyone.", code, action)
	return subject, body
}

func buildOrderStatusContent(order *models.Order) (string, string) {
	label := orderStatusLabel(order.Status)
	subject := fmt.Sprintf("Order %s is %s", order.OrderNo, strings.ToLower(label))

	var b strings.Builder
	fmt.Fprintf(&b, "Order No: %s\nStatus: %s\nTotal: %s %s\n", order.OrderNo, label, order.TotalAmount.String(), order.Currency)
	switch order.Status {
	case constants.OrderStatusProcessing:
		b.WriteString("\nOur editors have started on your video invitation.")
	case constants.OrderStatusCompleted:
		b.WriteString("\nYour video invitation is ready. Sign in to download it.")
	case constants.OrderStatusCancelled:
		b.WriteString("\nThe order has been cancelled.")
	}
	return subject, b.String()
}

func orderStatusLabel(status string) string {
	switch status {
	case constants.OrderStatusPending:
		return "Pending"
	case constants.OrderStatusProcessing:
		return "Processing"
	case constants.OrderStatusCompleted:
		return "Completed"
	case constants.OrderStatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	for _, keyword := range []string{
		"no such recipient",
		"no such user",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown mailbox",
		"mailbox unavailable",
	} {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "user", "mailbox", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
