// roof-mri-backend/internal/notify/mailer.go

// Package notify отправляет письма на переходах жизненного цикла:
// клиенту — ссылку на предложение, внутрь компании — копии о создании,
// подписании и оплате.
package notify

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/divan/num2words"
	"gopkg.in/gomail.v2"

	"github.com/adam1capps/roof-mri-backend/config"
	"github.com/adam1capps/roof-mri-backend/models"
)

type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	internal string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:     cfg.MailFrom,
		internal: cfg.InternalEmail,
	}
}

func (m *Mailer) message(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}

// ProposalCreated шлет два письма: клиенту ссылку, команде продаж копию.
// gomail не умеет context, поэтому ctx здесь только ради контракта Notifier.
func (m *Mailer) ProposalCreated(_ context.Context, p *models.Proposal, url string) error {
	client := m.message(p.Email,
		fmt.Sprintf("Your Roof MRI training proposal, %s", p.Company),
		fmt.Sprintf(
			"Hi %s,\n\nYour training proposal for %s is ready:\n\n%s\n\n"+
				"The package covers %d trainees and %d drone kit(s).%s\n\n— Roof MRI",
			p.ContactName, p.Company, url, p.Trainees(), p.Kits(), amountLine(p),
		))

	internal := m.message(m.internal,
		fmt.Sprintf("Proposal sent: %s (%s)", p.Company, p.ID),
		fmt.Sprintf("Proposal %s for %s <%s> was created and emailed.\nLink: %s",
			p.ID, p.ContactName, p.Email, url))

	return m.dialer.DialAndSend(client, internal)
}

// ProposalSigned уведомляет команду продаж о подписании.
func (m *Mailer) ProposalSigned(_ context.Context, p *models.Proposal) error {
	msg := m.message(m.internal,
		fmt.Sprintf("Proposal SIGNED: %s (%s)", p.Company, p.ID),
		fmt.Sprintf("%s of %s signed proposal %s as %q.%s",
			p.ContactName, p.Company, p.ID, p.SignatureName, amountLine(p)))
	return m.dialer.DialAndSend(msg)
}

// ProposalPaid уведомляет команду продаж об оплате.
func (m *Mailer) ProposalPaid(_ context.Context, p *models.Proposal) error {
	msg := m.message(m.internal,
		fmt.Sprintf("Proposal PAID: %s (%s)", p.Company, p.ID),
		fmt.Sprintf("Proposal %s for %s is paid. Stripe session: %s.%s",
			p.ID, p.Company, p.StripeSessionID, amountLine(p)))
	return m.dialer.DialAndSend(msg)
}

// amountLine добавляет сумму цифрами и прописью, как в договорах.
func amountLine(p *models.Proposal) string {
	if p.TotalPrice == nil || *p.TotalPrice <= 0 {
		return ""
	}
	dollars := int(math.Round(*p.TotalPrice))
	words := strings.TrimSpace(num2words.Convert(dollars))
	return fmt.Sprintf("\n\nTotal: $%.2f (%s dollars)", *p.TotalPrice, words)
}
