package smtp

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"quiz-intake-service/internal/domain"
)

// MailerConfig carries SMTP connection and sender identity settings.
type MailerConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	ReplyTo    string
	SenderName string
}

// Mailer sends the pass/fail result email over SMTP. Callers treat
// delivery as best-effort; errors are returned for logging only.
type Mailer struct {
	cfg MailerConfig
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Notify(ctx context.Context, rec domain.ResultRecord) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.SenderName, m.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(rec.Email); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if m.cfg.ReplyTo != "" {
		if err := msg.ReplyTo(m.cfg.ReplyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	msg.Subject(subjectFor(rec))
	msg.SetBodyString(mail.TypeTextPlain, bodyFor(rec))

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return domain.E(domain.KindNotification, "result email delivery failed", err)
	}
	return nil
}

func subjectFor(rec domain.ResultRecord) string {
	if rec.Outcome == domain.OutcomePass {
		return "Congratulations! You Passed"
	}
	return "Sorry, You Didn't Pass"
}

func bodyFor(rec domain.ResultRecord) string {
	intro := "Sorry, you didn't pass the quiz this time. Don't worry, you gave it your best shot! Review the material and try again when you're ready."
	if rec.Outcome == domain.OutcomePass {
		intro = "Congratulations! You passed the quiz! Great job on your effort and knowledge. Keep up the excellent work!"
	}
	return fmt.Sprintf("Hi %s,\n\n%s\n\nYour score: %d\n\nThank you for participating! If you have any questions or need further assistance, feel free to reach out.\n\nSee you next time!",
		rec.Email, intro, rec.Score)
}
