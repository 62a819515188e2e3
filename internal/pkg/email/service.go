// internal/pkg/email/service.go
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Service sends transactional email over SMTP
type Service struct {
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new email service
func NewService(cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{config: cfg, log: log}
}

// SendOrderConfirmation emails the buyer a summary of their placed order
func (s *Service) SendOrderConfirmation(ctx context.Context, summary *order.Summary, address *user.Address) error {
	if !s.config.Email.Enabled {
		s.log.WithField("order_number", summary.OrderNumber).Debug("Email disabled, skipping order confirmation")
		return nil
	}

	subject := fmt.Sprintf("Order %s confirmed", summary.OrderNumber)
	body := s.confirmationBody(summary, address)

	return s.send(summary.Email, subject, body)
}

func (s *Service) confirmationBody(summary *order.Summary, address *user.Address) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order!\r\n\r\n")
	fmt.Fprintf(&b, "Order number: %s\r\n", summary.OrderNumber)
	fmt.Fprintf(&b, "Placed on: %s\r\n\r\n", summary.OrderDate.Format("02 Jan 2006 15:04 MST"))

	for _, item := range summary.Items {
		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("Product #%d", item.ProductID)
		}
		fmt.Fprintf(&b, "  %s x%d @ %s\r\n", name, item.Quantity, item.OrderedProductPrice.StringFixed(2))
	}
	fmt.Fprintf(&b, "\r\nTotal: %s\r\n", summary.TotalAmount.StringFixed(2))

	if address != nil {
		fmt.Fprintf(&b, "\r\nShipping to: %s, %s, %s %s\r\n",
			address.Street, address.City, address.Country, address.Pincode)
	}

	fmt.Fprintf(&b, "\r\n%s\r\n", s.config.App.CompanyName)
	return b.String()
}

func (s *Service) send(to, subject, body string) error {
	from := s.config.Email.FromEmail
	addr := fmt.Sprintf("%s:%d", s.config.Email.SMTPHost, s.config.Email.SMTPPort)

	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", s.config.Email.FromName, from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if s.config.Email.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.config.Email.SMTPUser, s.config.Email.SMTPPass, s.config.Email.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
